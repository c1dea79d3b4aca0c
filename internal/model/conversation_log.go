package model

import (
	"encoding/json"
	"time"
)

// ConversationLog is one finished turn of conversation: what the user asked,
// what the model answered, and which source URLs grounded the answer.
// Records are append-only and ordered by CreatedAt within a session.
type ConversationLog struct {
	ID          uint      `gorm:"primaryKey" json:"id"`
	SessionID   string    `gorm:"size:64;not null;index" json:"session_id"`
	UserQuery   string    `gorm:"type:text;not null" json:"user_query"`
	GPTResponse string    `gorm:"type:text;not null" json:"gpt_response"`
	Model       string    `gorm:"size:64;not null" json:"model"`
	Sources     string    `gorm:"type:text" json:"sources"` // JSON array of URLs
	CreatedAt   time.Time `json:"created_at"`
}

// TableName keeps the historical table name.
func (ConversationLog) TableName() string {
	return "conversation_logs"
}

// SourceList returns the parsed sources; malformed stored JSON degrades to
// an empty list rather than failing the read.
func (l *ConversationLog) SourceList() []string {
	if l.Sources == "" {
		return []string{}
	}
	var v []string
	if err := json.Unmarshal([]byte(l.Sources), &v); err != nil || v == nil {
		return []string{}
	}
	return v
}

// SetSources stores the sources as JSON; an empty list is stored as "[]",
// never as NULL, so the column always round-trips through json.
func (l *ConversationLog) SetSources(sources []string) {
	if len(sources) == 0 {
		l.Sources = "[]"
		return
	}
	b, _ := json.Marshal(sources)
	l.Sources = string(b)
}
