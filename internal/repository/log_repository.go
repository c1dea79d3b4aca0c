package repository

import (
	"fmt"

	"gorm.io/gorm"

	"awarerag/internal/model"
)

type LogRepository struct {
	db *gorm.DB
}

func NewLogRepository(db *gorm.DB) *LogRepository {
	return &LogRepository{db: db}
}

// Append inserts one conversation log record. CreatedAt is assigned at
// insert time by gorm, never by the caller.
func (r *LogRepository) Append(record *model.ConversationLog) error {
	if err := r.db.Create(record).Error; err != nil {
		return fmt.Errorf("append conversation log failed: %w", err)
	}
	return nil
}

// ListBySessionID returns every record of a session, oldest first. An
// unknown session id yields an empty slice, not an error.
func (r *LogRepository) ListBySessionID(sessionID string) ([]model.ConversationLog, error) {
	var records []model.ConversationLog
	if err := r.db.
		Where("session_id = ?", sessionID).
		Order("created_at ASC, id ASC").
		Find(&records).Error; err != nil {
		return nil, fmt.Errorf("list conversation logs failed: %w", err)
	}
	return records, nil
}
