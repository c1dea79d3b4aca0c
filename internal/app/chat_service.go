package app

import (
	"context"
	"fmt"
	"log"
	"strings"

	"github.com/google/uuid"

	"awarerag/internal/model"
)

// Models the service accepts; requests without a model get the default.
const (
	ModelGPT4o     = "gpt-4o"
	ModelGPT4oMini = "gpt-4o-mini"
)

// Answerer is the answering pipeline; satisfied by Pipeline.
type Answerer interface {
	Answer(ctx context.Context, question string, history []Turn, chatModel string) (string, []string, error)
}

// AsyncLogPublisher hands a finished turn to the persistence queue.
type AsyncLogPublisher interface {
	Publish(ctx context.Context, record model.ConversationLog) error
}

// HistoryStore reads the durable conversation log; satisfied by
// repository.LogRepository.
type HistoryStore interface {
	ListBySessionID(sessionID string) ([]model.ConversationLog, error)
}

// HistoryCache fronts HistoryStore reads. Appends go through the queue, so
// the cache is invalidated with a dirty marker until the worker catches up.
type HistoryCache interface {
	GetHistory(ctx context.Context, sessionID string) ([]model.ConversationLog, bool, error)
	SetHistory(ctx context.Context, sessionID string, records []model.ConversationLog) error
	DeleteHistory(ctx context.Context, sessionID string) error
	MarkDirty(ctx context.Context, sessionID string) error
	IsDirty(ctx context.Context, sessionID string) (bool, error)
}

type ChatService struct {
	pipeline     Answerer
	store        HistoryStore
	publisher    AsyncLogPublisher
	historyCache HistoryCache
	defaultModel string
}

func NewChatService(pipeline Answerer, store HistoryStore, publisher AsyncLogPublisher, historyCache HistoryCache, defaultModel string) *ChatService {
	if defaultModel == "" {
		defaultModel = ModelGPT4oMini
	}
	return &ChatService{
		pipeline:     pipeline,
		store:        store,
		publisher:    publisher,
		historyCache: historyCache,
		defaultModel: defaultModel,
	}
}

type HandleQueryInput struct {
	Question  string
	SessionID string
	Model     string
}

type QueryResult struct {
	Answer    string   `json:"answer"`
	SessionID string   `json:"session_id"`
	Model     string   `json:"model"`
	Sources   []string `json:"sources"`
}

// TurnDetail is one logged exchange including its parsed sources.
type TurnDetail struct {
	UserQuery   string   `json:"user_query"`
	GPTResponse string   `json:"gpt_response"`
	Sources     []string `json:"sources"`
}

// HandleQuery runs one question end to end: resolve the session, load its
// history, answer, and enqueue exactly one log record. A failed enqueue is
// reported but never withholds the computed answer.
func (s *ChatService) HandleQuery(ctx context.Context, input HandleQueryInput) (*QueryResult, error) {
	question := strings.TrimSpace(input.Question)
	if question == "" {
		return nil, ErrInvalidInput
	}

	chatModel, err := s.resolveModel(input.Model)
	if err != nil {
		return nil, err
	}

	sessionID := strings.TrimSpace(input.SessionID)
	if sessionID == "" {
		sessionID = uuid.NewString()
	}

	history := s.loadHistory(ctx, sessionID)

	answer, sources, err := s.pipeline.Answer(ctx, input.Question, history, chatModel)
	if err != nil {
		return nil, err
	}
	if sources == nil {
		sources = []string{}
	}

	record := model.ConversationLog{
		SessionID:   sessionID,
		UserQuery:   input.Question,
		GPTResponse: answer,
		Model:       chatModel,
	}
	record.SetSources(sources)

	if s.historyCache != nil {
		_ = s.historyCache.MarkDirty(ctx, sessionID)
		_ = s.historyCache.DeleteHistory(ctx, sessionID)
	}
	if err := s.publisher.Publish(ctx, record); err != nil {
		log.Printf("enqueue conversation log failed (session %s): %v", sessionID, fmt.Errorf("%w: %v", ErrPersistenceFailure, err))
	}

	return &QueryResult{
		Answer:    answer,
		SessionID: sessionID,
		Model:     chatModel,
		Sources:   sources,
	}, nil
}

// FullHistory returns every logged turn of a session with parsed sources,
// oldest first. Unknown sessions yield an empty slice.
func (s *ChatService) FullHistory(ctx context.Context, sessionID string) ([]TurnDetail, error) {
	records, err := s.listRecords(ctx, sessionID)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrPersistenceFailure, err)
	}

	history := make([]TurnDetail, 0, len(records))
	for _, r := range records {
		history = append(history, TurnDetail{
			UserQuery:   r.UserQuery,
			GPTResponse: r.GPTResponse,
			Sources:     r.SourceList(),
		})
	}
	return history, nil
}

// loadHistory returns the {query, answer} pairs fed to the pipeline.
// Sources never enter the generation context. A failed read degrades to an
// empty history so the request can still be answered.
func (s *ChatService) loadHistory(ctx context.Context, sessionID string) []Turn {
	records, err := s.listRecords(ctx, sessionID)
	if err != nil {
		log.Printf("load history failed (session %s): %v", sessionID, err)
		return nil
	}

	history := make([]Turn, 0, len(records))
	for _, r := range records {
		history = append(history, Turn{UserQuery: r.UserQuery, Response: r.GPTResponse})
	}
	return history
}

func (s *ChatService) listRecords(ctx context.Context, sessionID string) ([]model.ConversationLog, error) {
	if s.historyCache != nil {
		dirty, err := s.historyCache.IsDirty(ctx, sessionID)
		if err == nil && !dirty {
			if cached, hit, cacheErr := s.historyCache.GetHistory(ctx, sessionID); cacheErr == nil && hit {
				return cached, nil
			}
		}
	}

	records, err := s.store.ListBySessionID(sessionID)
	if err != nil {
		return nil, err
	}

	if s.historyCache != nil {
		if dirty, dirtyErr := s.historyCache.IsDirty(ctx, sessionID); dirtyErr == nil && !dirty {
			_ = s.historyCache.SetHistory(ctx, sessionID, records)
		}
	}
	return records, nil
}

func (s *ChatService) resolveModel(requested string) (string, error) {
	requested = strings.TrimSpace(requested)
	if requested == "" {
		return s.defaultModel, nil
	}
	switch requested {
	case ModelGPT4o, ModelGPT4oMini:
		return requested, nil
	}
	return "", fmt.Errorf("%w: %s", ErrInvalidModel, requested)
}
