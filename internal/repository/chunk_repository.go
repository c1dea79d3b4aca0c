package repository

import (
	"fmt"

	"gorm.io/gorm"

	"awarerag/internal/model"
)

type ChunkRepository struct {
	db *gorm.DB
}

func NewChunkRepository(db *gorm.DB) *ChunkRepository {
	return &ChunkRepository{db: db}
}

func (r *ChunkRepository) CreateBatch(chunks []model.Chunk) error {
	if len(chunks) == 0 {
		return nil
	}
	if err := r.db.Create(&chunks).Error; err != nil {
		return fmt.Errorf("create chunks batch failed: %w", err)
	}
	return nil
}

// ListAll returns every stored chunk, embeddings included. The corpus is a
// fixed set of reference documents, small enough to score in memory.
func (r *ChunkRepository) ListAll() ([]model.Chunk, error) {
	var chunks []model.Chunk
	if err := r.db.Find(&chunks).Error; err != nil {
		return nil, fmt.Errorf("list chunks failed: %w", err)
	}
	return chunks, nil
}

// NextDocumentID returns one past the highest assigned document id, 0 for
// an empty index.
func (r *ChunkRepository) NextDocumentID() (int, error) {
	var maxID *int
	if err := r.db.Model(&model.Chunk{}).Select("MAX(document_id)").Scan(&maxID).Error; err != nil {
		return 0, fmt.Errorf("next document id failed: %w", err)
	}
	if maxID == nil {
		return 0, nil
	}
	return *maxID + 1, nil
}

// DeleteByFileName removes all chunks of a previously indexed document so a
// re-ingest replaces rather than duplicates them.
func (r *ChunkRepository) DeleteByFileName(fileName string) error {
	if err := r.db.Where("file_name = ?", fileName).Delete(&model.Chunk{}).Error; err != nil {
		return fmt.Errorf("delete chunks by file name failed: %w", err)
	}
	return nil
}
