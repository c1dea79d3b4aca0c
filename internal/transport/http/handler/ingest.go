package handler

import (
	"errors"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"

	"awarerag/internal/ingest"
	"awarerag/internal/transport/http/response"
)

const maxPDFSize = 10 << 20 // 10 MB

// DocumentCounter hands out the next sequential document id; satisfied by
// repository.ChunkRepository.
type DocumentCounter interface {
	NextDocumentID() (int, error)
}

type IngestHandler struct {
	indexer          *ingest.Indexer
	documents        DocumentCounter
	knowledgebaseDir string
}

func NewIngestHandler(indexer *ingest.Indexer, documents DocumentCounter, knowledgebaseDir string) *IngestHandler {
	return &IngestHandler{
		indexer:          indexer,
		documents:        documents,
		knowledgebaseDir: knowledgebaseDir,
	}
}

// UploadDocument saves an uploaded PDF under the knowledgebase directory
// (keeping its original name so registry provenance lookups match) and
// indexes it immediately.
func (h *IngestHandler) UploadDocument(c *gin.Context) {
	file, err := c.FormFile("file")
	if err != nil {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file is required (form field: file)")
		return
	}
	if file.Size > maxPDFSize {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "file exceeds 10 MB limit")
		return
	}

	fileName := filepath.Base(file.Filename)
	if !strings.EqualFold(filepath.Ext(fileName), ".pdf") {
		response.Error(c, http.StatusBadRequest, response.CodeBadRequest, "only .pdf files are supported")
		return
	}

	if err := os.MkdirAll(h.knowledgebaseDir, 0o755); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to prepare storage")
		return
	}
	savePath := filepath.Join(h.knowledgebaseDir, fileName)
	if err := c.SaveUploadedFile(file, savePath); err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to save file")
		return
	}

	docID, err := h.documents.NextDocumentID()
	if err != nil {
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "failed to assign document id")
		return
	}

	chunks, err := h.indexer.IndexDocument(c.Request.Context(), savePath, docID)
	if err != nil {
		if errors.Is(err, ingest.ErrUnsupportedFormat) {
			response.Error(c, http.StatusBadRequest, response.CodeBadRequest, err.Error())
			return
		}
		response.Error(c, http.StatusInternalServerError, response.CodeInternalServer, "index document failed")
		return
	}

	response.OK(c, gin.H{
		"file_name":   fileName,
		"document_id": docID,
		"chunks":      chunks,
	})
}
