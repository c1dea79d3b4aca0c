package ingest

import (
	"context"
	"errors"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"awarerag/internal/model"
	"awarerag/internal/registry"
)

// ErrUnsupportedFormat marks inputs no text can be extracted from. Fatal to
// that document, non-fatal to a batch.
var ErrUnsupportedFormat = errors.New("unsupported file format")

// Embedding endpoints cap batch sizes; 10 stays under every provider limit.
const embeddingBatchSize = 10

// ExtractFunc extracts plain text from the file at path.
type ExtractFunc func(path string) (string, error)

// Embedder is the embedding capability the indexer needs; satisfied by
// ai.Client.
type Embedder interface {
	EmbedBatch(ctx context.Context, model string, texts []string) ([][]float32, error)
}

// Upserter is the vector-index write capability; satisfied by
// vectorstore.Store.
type Upserter interface {
	Upsert(ctx context.Context, chunks []model.Chunk) error
}

type Config struct {
	EmbedModel   string
	ChunkSize    int
	ChunkOverlap int
}

// Indexer turns source PDFs into annotated, embedded chunks and upserts
// them into the vector index.
type Indexer struct {
	extract      ExtractFunc
	embedder     Embedder
	index        Upserter
	registry     *registry.Registry
	embedModel   string
	chunkSize    int
	chunkOverlap int
}

func NewIndexer(extract ExtractFunc, embedder Embedder, index Upserter, reg *registry.Registry, cfg Config) *Indexer {
	size := cfg.ChunkSize
	if size <= 0 {
		size = defaultChunkSize
	}
	overlap := cfg.ChunkOverlap
	if overlap < 0 || overlap >= size {
		overlap = defaultChunkOverlap
	}
	return &Indexer{
		extract:      extract,
		embedder:     embedder,
		index:        index,
		registry:     reg,
		embedModel:   cfg.EmbedModel,
		chunkSize:    size,
		chunkOverlap: overlap,
	}
}

// IndexDocument extracts, chunks, embeds and upserts one document, and
// returns the number of chunks indexed. Every chunk carries the
// caller-supplied document id, the base filename, and the provenance URL
// resolved from the registry. Any failure surfaces as an error for the
// whole document; there is no partial commit.
func (ix *Indexer) IndexDocument(ctx context.Context, path string, docID int) (int, error) {
	if !strings.EqualFold(filepath.Ext(path), ".pdf") {
		return 0, fmt.Errorf("%w: %s", ErrUnsupportedFormat, path)
	}

	text, err := ix.extract(path)
	if err != nil {
		return 0, fmt.Errorf("extract text from %s failed: %w", path, err)
	}
	if strings.TrimSpace(text) == "" {
		return 0, fmt.Errorf("%w: no text extracted from %s", ErrUnsupportedFormat, path)
	}

	parts := ChunkText(text, ix.chunkSize, ix.chunkOverlap)
	fileName := filepath.Base(path)
	sourceURL := ix.registry.Lookup(fileName)

	var embeddings [][]float32
	for i := 0; i < len(parts); i += embeddingBatchSize {
		end := i + embeddingBatchSize
		if end > len(parts) {
			end = len(parts)
		}
		batch, err := ix.embedder.EmbedBatch(ctx, ix.embedModel, parts[i:end])
		if err != nil {
			return 0, fmt.Errorf("embed chunks of %s failed: %w", fileName, err)
		}
		embeddings = append(embeddings, batch...)
	}
	if len(embeddings) != len(parts) {
		return 0, fmt.Errorf("embedding count mismatch for %s: %d chunks, %d vectors", fileName, len(parts), len(embeddings))
	}

	chunks := make([]model.Chunk, len(parts))
	for i := range parts {
		chunks[i] = model.Chunk{
			DocumentID: docID,
			FileName:   fileName,
			SourceURL:  sourceURL,
			Content:    parts[i],
		}
		chunks[i].SetEmbedding(embeddings[i])
	}

	if err := ix.index.Upsert(ctx, chunks); err != nil {
		return 0, fmt.Errorf("upsert chunks of %s failed: %w", fileName, err)
	}
	return len(chunks), nil
}

// FileResult is the per-file outcome of a batch ingestion.
type FileResult struct {
	FileName   string
	DocumentID int // -1 when the file failed
	Chunks     int
	Err        error
}

// IndexAll indexes every PDF in dir. Sequential document ids are consumed
// only by successfully indexed files; a failure is logged and the batch
// continues.
func (ix *Indexer) IndexAll(ctx context.Context, dir string) ([]FileResult, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("read knowledgebase dir failed: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".pdf") {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	results := make([]FileResult, 0, len(names))
	docID := 0
	for _, name := range names {
		path := filepath.Join(dir, name)
		count, err := ix.IndexDocument(ctx, path, docID)
		if err != nil {
			log.Printf("index %s failed: %v", name, err)
			results = append(results, FileResult{FileName: name, DocumentID: -1, Err: err})
			continue
		}
		results = append(results, FileResult{FileName: name, DocumentID: docID, Chunks: count})
		docID++
	}
	return results, nil
}
