package vectorstore

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"awarerag/internal/model"
)

type fakeChunkRepo struct {
	chunks   []model.Chunk
	deleted  []string
	listErr  error
	createEr error
}

func (f *fakeChunkRepo) CreateBatch(chunks []model.Chunk) error {
	if f.createEr != nil {
		return f.createEr
	}
	f.chunks = append(f.chunks, chunks...)
	return nil
}

func (f *fakeChunkRepo) DeleteByFileName(fileName string) error {
	f.deleted = append(f.deleted, fileName)
	kept := f.chunks[:0]
	for _, c := range f.chunks {
		if c.FileName != fileName {
			kept = append(kept, c)
		}
	}
	f.chunks = kept
	return nil
}

func (f *fakeChunkRepo) ListAll() ([]model.Chunk, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.chunks, nil
}

func chunkWithVector(file string, vec []float32) model.Chunk {
	c := model.Chunk{FileName: file, Content: "content of " + file}
	c.SetEmbedding(vec)
	return c
}

func TestStore_QueryRanksByCosineSimilarity(t *testing.T) {
	repo := &fakeChunkRepo{chunks: []model.Chunk{
		chunkWithVector("far.pdf", []float32{0, 1, 0}),
		chunkWithVector("near.pdf", []float32{1, 0.1, 0}),
		chunkWithVector("mid.pdf", []float32{0.5, 0.5, 0}),
	}}
	store := New(repo)

	top, err := store.Query(context.Background(), []float32{1, 0, 0}, 2)
	require.NoError(t, err)

	require.Len(t, top, 2)
	assert.Equal(t, "near.pdf", top[0].FileName)
	assert.Equal(t, "mid.pdf", top[1].FileName)
}

func TestStore_QueryClampsKToCorpusSize(t *testing.T) {
	repo := &fakeChunkRepo{chunks: []model.Chunk{
		chunkWithVector("only.pdf", []float32{1, 0}),
	}}
	store := New(repo)

	top, err := store.Query(context.Background(), []float32{1, 0}, 5)
	require.NoError(t, err)
	assert.Len(t, top, 1)
}

func TestStore_QueryEmptyIndex(t *testing.T) {
	store := New(&fakeChunkRepo{})

	top, err := store.Query(context.Background(), []float32{1, 0}, 2)
	require.NoError(t, err)
	assert.Empty(t, top)
}

func TestStore_QueryRejectsNonPositiveK(t *testing.T) {
	store := New(&fakeChunkRepo{})

	_, err := store.Query(context.Background(), []float32{1}, 0)
	assert.Error(t, err)
}

func TestStore_QueryPropagatesRepoError(t *testing.T) {
	repo := &fakeChunkRepo{listErr: errors.New("db gone")}
	store := New(repo)

	_, err := store.Query(context.Background(), []float32{1}, 2)
	assert.Error(t, err)
}

func TestStore_UpsertReplacesDocumentChunks(t *testing.T) {
	repo := &fakeChunkRepo{chunks: []model.Chunk{
		chunkWithVector("doc.pdf", []float32{1, 0}),
		chunkWithVector("other.pdf", []float32{0, 1}),
	}}
	store := New(repo)

	fresh := []model.Chunk{
		chunkWithVector("doc.pdf", []float32{0.9, 0.1}),
		chunkWithVector("doc.pdf", []float32{0.8, 0.2}),
	}
	require.NoError(t, store.Upsert(context.Background(), fresh))

	assert.Equal(t, []string{"doc.pdf"}, repo.deleted)
	docChunks := 0
	for _, c := range repo.chunks {
		if c.FileName == "doc.pdf" {
			docChunks++
		}
	}
	assert.Equal(t, 2, docChunks)
	assert.Len(t, repo.chunks, 3)
}

func TestStore_UpsertEmptyBatchIsNoop(t *testing.T) {
	repo := &fakeChunkRepo{}
	store := New(repo)

	require.NoError(t, store.Upsert(context.Background(), nil))
	assert.Empty(t, repo.deleted)
}

func TestCosineSimilarity(t *testing.T) {
	assert.InDelta(t, 1.0, cosineSimilarity([]float32{1, 0}, []float32{2, 0}), 1e-6)
	assert.InDelta(t, 0.0, cosineSimilarity([]float32{1, 0}, []float32{0, 1}), 1e-6)
	assert.Zero(t, cosineSimilarity(nil, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{1, 0}, []float32{1}))
	assert.Zero(t, cosineSimilarity([]float32{0, 0}, []float32{0, 0}))
}
