package vectorstore

import (
	"context"
	"fmt"
	"math"
	"sort"

	"awarerag/internal/model"
)

// ChunkRepo is the persistence surface the store needs; satisfied by
// repository.ChunkRepository.
type ChunkRepo interface {
	CreateBatch(chunks []model.Chunk) error
	DeleteByFileName(fileName string) error
	ListAll() ([]model.Chunk, error)
}

// Store is the similarity-search index over ingested chunks. Chunks live in
// MySQL; scoring is cosine similarity computed in process.
type Store struct {
	repo ChunkRepo
}

func New(repo ChunkRepo) *Store {
	return &Store{repo: repo}
}

// Upsert replaces all chunks of the batch's document and inserts the new
// ones in one call. The batch is expected to belong to a single document.
func (s *Store) Upsert(ctx context.Context, chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := s.repo.DeleteByFileName(chunks[0].FileName); err != nil {
		return err
	}
	if err := s.repo.CreateBatch(chunks); err != nil {
		return err
	}
	return nil
}

// Query returns up to k chunks ranked by cosine similarity to vec. No
// minimum-similarity threshold: weakly relevant chunks still come back.
func (s *Store) Query(ctx context.Context, vec []float32, k int) ([]model.Chunk, error) {
	if k <= 0 {
		return nil, fmt.Errorf("top-k must be positive, got %d", k)
	}
	chunks, err := s.repo.ListAll()
	if err != nil {
		return nil, err
	}
	if len(chunks) == 0 {
		return nil, nil
	}

	type scored struct {
		chunk model.Chunk
		score float32
	}
	ranked := make([]scored, len(chunks))
	for i := range chunks {
		ranked[i] = scored{
			chunk: chunks[i],
			score: cosineSimilarity(vec, chunks[i].EmbeddingVector()),
		}
	}
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].score > ranked[j].score
	})

	if k > len(ranked) {
		k = len(ranked)
	}
	top := make([]model.Chunk, k)
	for i := 0; i < k; i++ {
		top[i] = ranked[i].chunk
	}
	return top, nil
}

func cosineSimilarity(a, b []float32) float32 {
	if len(a) == 0 || len(a) != len(b) {
		return 0
	}
	var dot, normA, normB float64
	for i := range a {
		dot += float64(a[i]) * float64(b[i])
		normA += float64(a[i]) * float64(a[i])
		normB += float64(b[i]) * float64(b[i])
	}
	if normA <= 0 || normB <= 0 {
		return 0
	}
	return float32(dot / (math.Sqrt(normA) * math.Sqrt(normB)))
}
