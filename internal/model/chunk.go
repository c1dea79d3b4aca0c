package model

import (
	"encoding/json"
	"time"
)

// Chunk is one indexed span of extracted document text together with its
// embedding and provenance. Embedding is stored as a JSON array of float32
// for portability across MySQL versions.
type Chunk struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	DocumentID int       `gorm:"not null;index" json:"document_id"`
	FileName   string    `gorm:"size:256;not null" json:"file_name"`
	SourceURL  string    `gorm:"size:512;not null" json:"source_url"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	Embedding  string    `gorm:"type:text" json:"-"` // JSON array of float32
	CreatedAt  time.Time `json:"created_at"`
}

// EmbeddingVector returns the parsed embedding slice; empty on parse error.
func (c *Chunk) EmbeddingVector() []float32 {
	if c.Embedding == "" {
		return nil
	}
	var v []float32
	_ = json.Unmarshal([]byte(c.Embedding), &v)
	return v
}

// SetEmbedding stores the embedding as JSON.
func (c *Chunk) SetEmbedding(vec []float32) {
	if len(vec) == 0 {
		c.Embedding = "[]"
		return
	}
	b, _ := json.Marshal(vec)
	c.Embedding = string(b)
}
