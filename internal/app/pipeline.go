package app

import (
	"context"
	"fmt"
	"strings"

	"awarerag/internal/ai"
	"awarerag/internal/model"
)

// RefusalPhrase is the exact wording the grounded prompt mandates when the
// retrieved context cannot answer the question. Fallback detection is a
// case-insensitive containment check against this string, so the prompt
// below and this constant must change together.
const RefusalPhrase = "I'm sorry, I don't have enough information based on what I know."

const contextualizeSystemPrompt = "Given a chat history and the latest user question " +
	"which might reference context in the chat history, " +
	"formulate a standalone question which can be understood " +
	"without the chat history. Do NOT answer the question, " +
	"just reformulate it if needed and otherwise return it as is."

const qaSystemPrompt = "You are an educational AI assistant designed to help parents and children " +
	"become more aware of human trafficking risks and prevention strategies. " +
	"Answer all questions using only the provided context related to human trafficking. " +
	"If the answer is not found in the context, politely say 'I'm sorry, I don't have enough information based on what I know.' " +
	"If the user sends a casual greeting or message (e.g., 'hi', 'hello', 'thank you', 'okay', 'bye'), " +
	"respond politely and appropriately without needing any context. " +
	"Stay positive, supportive, and educational at all times."

// Casual filler is answered from this table without touching the index or
// the model. An unmapped phrase that still classified as casual gets the
// generic greeting.
var casualPhrases = map[string]struct{}{
	"hi": {}, "hello": {}, "thanks": {}, "thank you": {},
	"ok": {}, "okay": {}, "got it": {}, "bye": {}, "goodbye": {},
}

var politeResponses = map[string]string{
	"hi":        "Hello! How can I assist you today?",
	"hello":     "Hello! How can I assist you today?",
	"thanks":    "You're very welcome!",
	"thank you": "You're very welcome!",
	"ok":        "Okay!",
	"okay":      "Okay!",
	"got it":    "Glad to hear that!",
	"bye":       "Goodbye! Stay safe!",
	"goodbye":   "Goodbye! Stay safe!",
}

const genericPoliteResponse = "Hello!"

// Turn is one prior exchange of a session, as fed back into prompts.
type Turn struct {
	UserQuery string
	Response  string
}

// Generator is the chat-completion capability; satisfied by ai.Client.
type Generator interface {
	Complete(ctx context.Context, model string, messages []ai.ChatMessage) (string, error)
}

// QueryEmbedder embeds a single query text; satisfied by ai.Client.
type QueryEmbedder interface {
	Embed(ctx context.Context, model, text string) ([]float32, error)
}

// Retriever is the vector-index read capability; satisfied by
// vectorstore.Store.
type Retriever interface {
	Query(ctx context.Context, vec []float32, k int) ([]model.Chunk, error)
}

// Pipeline answers one question: small-talk short-circuit, history-aware
// reformulation, top-k retrieval, grounded generation, and an ungrounded
// fallback when the model refuses for lack of context.
type Pipeline struct {
	generator  Generator
	embedder   QueryEmbedder
	retriever  Retriever
	embedModel string
	topK       int
}

func NewPipeline(generator Generator, embedder QueryEmbedder, retriever Retriever, embedModel string, topK int) *Pipeline {
	if topK <= 0 {
		topK = 2
	}
	return &Pipeline{
		generator:  generator,
		embedder:   embedder,
		retriever:  retriever,
		embedModel: embedModel,
		topK:       topK,
	}
}

// Answer returns the response text and the deduplicated provenance URLs of
// the chunks that grounded it. Sources are empty for small talk and for
// fallback answers.
func (p *Pipeline) Answer(ctx context.Context, question string, history []Turn, chatModel string) (string, []string, error) {
	normalized := strings.ToLower(strings.TrimSpace(question))
	if _, ok := casualPhrases[normalized]; ok {
		answer, mapped := politeResponses[normalized]
		if !mapped {
			answer = genericPoliteResponse
		}
		return answer, []string{}, nil
	}

	searchQuery := question
	if len(history) > 0 {
		reformulated, err := p.reformulate(ctx, question, history, chatModel)
		if err != nil {
			return "", nil, err
		}
		if strings.TrimSpace(reformulated) != "" {
			searchQuery = reformulated
		}
	}

	queryVec, err := p.embedder.Embed(ctx, p.embedModel, searchQuery)
	if err != nil {
		return "", nil, fmt.Errorf("%w: embed question: %v", ErrRetrievalFailure, err)
	}
	chunks, err := p.retriever.Query(ctx, queryVec, p.topK)
	if err != nil {
		return "", nil, fmt.Errorf("%w: query index: %v", ErrRetrievalFailure, err)
	}

	answer, err := p.generator.Complete(ctx, chatModel, groundedMessages(question, history, chunks))
	if err != nil {
		return "", nil, fmt.Errorf("%w: %v", ErrGenerationFailure, err)
	}
	answer = strings.TrimSpace(answer)

	if refusalDetected(answer) {
		fallback, err := p.generator.Complete(ctx, chatModel, []ai.ChatMessage{
			{Role: ai.RoleUser, Content: question},
		})
		if err != nil {
			return "", nil, fmt.Errorf("%w: fallback: %v", ErrGenerationFailure, err)
		}
		return strings.TrimSpace(fallback), []string{}, nil
	}

	return answer, uniqueSources(chunks), nil
}

// reformulate rewrites the question into a standalone form using the chat
// history; the result is used for retrieval only, never shown to the user.
func (p *Pipeline) reformulate(ctx context.Context, question string, history []Turn, chatModel string) (string, error) {
	messages := make([]ai.ChatMessage, 0, len(history)*2+2)
	messages = append(messages, ai.ChatMessage{Role: ai.RoleSystem, Content: contextualizeSystemPrompt})
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, ai.ChatMessage{Role: ai.RoleUser, Content: question})

	reformulated, err := p.generator.Complete(ctx, chatModel, messages)
	if err != nil {
		return "", fmt.Errorf("%w: reformulate question: %v", ErrGenerationFailure, err)
	}
	return reformulated, nil
}

func groundedMessages(question string, history []Turn, chunks []model.Chunk) []ai.ChatMessage {
	texts := make([]string, len(chunks))
	for i := range chunks {
		texts[i] = chunks[i].Content
	}

	messages := make([]ai.ChatMessage, 0, len(history)*2+3)
	messages = append(messages,
		ai.ChatMessage{Role: ai.RoleSystem, Content: qaSystemPrompt},
		ai.ChatMessage{Role: ai.RoleSystem, Content: "Context: " + strings.Join(texts, "\n\n")},
	)
	messages = append(messages, historyMessages(history)...)
	messages = append(messages, ai.ChatMessage{Role: ai.RoleUser, Content: question})
	return messages
}

func historyMessages(history []Turn) []ai.ChatMessage {
	messages := make([]ai.ChatMessage, 0, len(history)*2)
	for _, turn := range history {
		messages = append(messages,
			ai.ChatMessage{Role: ai.RoleUser, Content: turn.UserQuery},
			ai.ChatMessage{Role: ai.RoleAssistant, Content: turn.Response},
		)
	}
	return messages
}

func refusalDetected(answer string) bool {
	return strings.Contains(strings.ToLower(answer), strings.ToLower(strings.TrimSuffix(RefusalPhrase, ".")))
}

func uniqueSources(chunks []model.Chunk) []string {
	seen := make(map[string]struct{}, len(chunks))
	sources := make([]string, 0, len(chunks))
	for _, c := range chunks {
		url := strings.TrimSpace(c.SourceURL)
		if url == "" {
			continue
		}
		if _, dup := seen[url]; dup {
			continue
		}
		seen[url] = struct{}{}
		sources = append(sources, url)
	}
	return sources
}
