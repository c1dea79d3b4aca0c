package http

import (
	"time"

	"github.com/gin-gonic/gin"

	appsvc "awarerag/internal/app"
	"awarerag/internal/bootstrap"
	"awarerag/internal/cache"
	"awarerag/internal/ingest"
	"awarerag/internal/pkg/pdfextract"
	"awarerag/internal/repository"
	"awarerag/internal/transport/http/handler"
	"awarerag/internal/vectorstore"
)

func NewRouter(app *bootstrap.App) *gin.Engine {
	gin.SetMode(app.Config.App.GinMode)
	router := gin.New()
	router.Use(gin.Logger(), gin.Recovery())

	chunkRepo := repository.NewChunkRepository(app.MySQL)
	logRepo := repository.NewLogRepository(app.MySQL)
	store := vectorstore.New(chunkRepo)

	historyCache := cache.NewHistoryCache(
		app.Redis,
		time.Duration(app.Config.Redis.HistoryTTLSeconds)*time.Second,
		time.Duration(app.Config.Redis.HistoryDirtyTTLSeconds)*time.Second,
	)

	pipeline := appsvc.NewPipeline(
		app.LLM,
		app.LLM,
		store,
		app.Config.LLM.EmbeddingModel,
		app.Config.RAG.TopK,
	)
	chatService := appsvc.NewChatService(
		pipeline,
		logRepo,
		app.LogPublisher,
		historyCache,
		app.Config.LLM.DefaultModel,
	)
	indexer := ingest.NewIndexer(
		pdfextract.ExtractFile,
		app.LLM,
		store,
		app.Registry,
		ingest.Config{
			EmbedModel:   app.Config.LLM.EmbeddingModel,
			ChunkSize:    app.Config.RAG.ChunkSize,
			ChunkOverlap: app.Config.RAG.ChunkOverlap,
		},
	)

	healthHandler := handler.NewHealthHandler(app)
	chatHandler := handler.NewChatHandler(chatService)
	ingestHandler := handler.NewIngestHandler(indexer, chunkRepo, app.Config.RAG.KnowledgebaseDir)

	router.GET("/healthz", healthHandler.Check)
	router.POST("/chat", chatHandler.Chat)
	router.GET("/get_history/:session_id", chatHandler.GetHistory)
	router.POST("/documents", ingestHandler.UploadDocument)

	return router
}
