package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConversationLog_SourcesRoundTrip(t *testing.T) {
	var l ConversationLog
	l.SetSources([]string{"https://example.org/a", "https://example.org/b"})

	assert.Equal(t, []string{"https://example.org/a", "https://example.org/b"}, l.SourceList())
}

func TestConversationLog_EmptySourcesStoredAsArray(t *testing.T) {
	var l ConversationLog
	l.SetSources(nil)

	assert.Equal(t, "[]", l.Sources)
	assert.Equal(t, []string{}, l.SourceList())
}

// The record travels through JSON twice: the persistence queue and the
// history cache. Sources must survive both.
func TestConversationLog_SourcesSurviveJSONTransport(t *testing.T) {
	record := ConversationLog{
		SessionID:   "s1",
		UserQuery:   "q",
		GPTResponse: "a",
		Model:       "gpt-4o-mini",
	}
	record.SetSources([]string{"https://example.org/a"})

	payload, err := json.Marshal(record)
	require.NoError(t, err)

	var decoded ConversationLog
	require.NoError(t, json.Unmarshal(payload, &decoded))
	assert.Equal(t, []string{"https://example.org/a"}, decoded.SourceList())
}

func TestConversationLog_SourceListDegradesOnBadData(t *testing.T) {
	cases := []string{"", "{not json", "null", `"a string"`}
	for _, stored := range cases {
		l := ConversationLog{Sources: stored}
		assert.Equal(t, []string{}, l.SourceList(), "stored %q", stored)
	}
}

func TestChunk_EmbeddingRoundTrip(t *testing.T) {
	var c Chunk
	c.SetEmbedding([]float32{0.25, -1, 3.5})

	assert.Equal(t, []float32{0.25, -1, 3.5}, c.EmbeddingVector())
}

func TestChunk_EmptyEmbedding(t *testing.T) {
	var c Chunk
	assert.Nil(t, c.EmbeddingVector())

	c.SetEmbedding(nil)
	assert.Equal(t, "[]", c.Embedding)
	assert.Empty(t, c.EmbeddingVector())
}
