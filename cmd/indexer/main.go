// Command indexer ingests every PDF in the knowledgebase directory into the
// vector index. Run it once after dropping new documents in place; the
// server picks them up on the next retrieval.
package main

import (
	"context"
	"flag"
	"log"

	"awarerag/internal/bootstrap"
	"awarerag/internal/ingest"
	"awarerag/internal/pkg/pdfextract"
	"awarerag/internal/repository"
	"awarerag/internal/vectorstore"
)

func main() {
	dir := flag.String("dir", "", "directory of PDFs to index (default: rag.knowledgebase_dir from config)")
	flag.Parse()

	ctx := context.Background()

	app, err := bootstrap.New(ctx)
	if err != nil {
		log.Fatalf("bootstrap failed: %v", err)
	}
	defer func() {
		if err := app.Close(); err != nil {
			log.Printf("close resources failed: %v", err)
		}
	}()

	target := *dir
	if target == "" {
		target = app.Config.RAG.KnowledgebaseDir
	}

	chunkRepo := repository.NewChunkRepository(app.MySQL)
	indexer := ingest.NewIndexer(
		pdfextract.ExtractFile,
		app.LLM,
		vectorstore.New(chunkRepo),
		app.Registry,
		ingest.Config{
			EmbedModel:   app.Config.LLM.EmbeddingModel,
			ChunkSize:    app.Config.RAG.ChunkSize,
			ChunkOverlap: app.Config.RAG.ChunkOverlap,
		},
	)

	log.Printf("indexing PDFs in %s", target)
	results, err := indexer.IndexAll(ctx, target)
	if err != nil {
		log.Fatalf("index all failed: %v", err)
	}

	indexed, failed := 0, 0
	for _, r := range results {
		if r.Err != nil {
			failed++
			log.Printf("failed: %s: %v", r.FileName, r.Err)
			continue
		}
		indexed++
		log.Printf("indexed %s (document_id=%d, chunks=%d)", r.FileName, r.DocumentID, r.Chunks)
	}
	log.Printf("done: %d indexed, %d failed", indexed, failed)
}
