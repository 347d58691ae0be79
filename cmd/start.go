package cmd

import (
	"context"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"github.com/spf13/cobra"

	"github.com/SaiVinayBathoju/SaiV/config"
	"github.com/SaiVinayBathoju/SaiV/database"
	"github.com/SaiVinayBathoju/SaiV/handler"
	"github.com/SaiVinayBathoju/SaiV/service"
)

var startCmd = &cobra.Command{
	Use:   "start",
	Short: "Start the API server",
	Long:  `Starts the HTTP server that serves content ingestion, chat and generation endpoints.`,
	Run: func(cmd *cobra.Command, args []string) {
		cfg, err := config.LoadConfig(cfgFile)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to load config")
		}

		ctx := context.Background()
		deps, err := buildServices(ctx, cfg)
		if err != nil {
			log.Fatal().Err(err).Msg("failed to initialize services")
		}
		defer deps.close()

		wsService := service.NewWebSocketService(deps.rag, deps.generation)

		contentHandler := handler.NewContentHandler(deps.pdf, deps.youtube, deps.rag)
		generateHandler := handler.NewGenerateHandler(deps.rag, deps.generation)
		chatHandler := handler.NewChatHandler(deps.rag, deps.generation)
		corsHandler := handler.NewCorsHandler(cfg.CORSOrigins)

		r := gin.Default()
		r.Use(corsHandler.CorsMiddleware)

		r.GET("/", handler.RootHandler)
		r.GET("/health", handler.HealthHandler)
		r.POST("/process-pdf", contentHandler.ProcessPDFHandler)
		r.POST("/process-video", contentHandler.ProcessVideoHandler)
		r.POST("/generate-flashcards", generateHandler.GenerateFlashcardsHandler)
		r.POST("/generate-quiz", generateHandler.GenerateQuizHandler)
		r.POST("/chat", chatHandler.ChatHandler)
		r.GET("/ws/chat", func(c *gin.Context) {
			wsService.HandleChat(c.Writer, c.Request)
		})

		log.Info().Str("port", cfg.Port).Msg("server starting")
		if err := r.Run(":" + cfg.Port); err != nil {
			log.Fatal().Err(err).Msg("server stopped")
		}
	},
}

func init() {
	rootCmd.AddCommand(startCmd)
}

// services bundles the wired application services.
type services struct {
	rag        *service.RAGService
	generation *service.GenerationService
	pdf        *service.PDFService
	youtube    *service.YouTubeService
	gemini     *service.GeminiProvider
}

func (s *services) close() {
	if s.gemini != nil {
		s.gemini.Close()
	}
}

// buildServices wires providers, store and services from config. Providers
// without credentials stay nil and the fallback chains route around them.
func buildServices(ctx context.Context, cfg *config.Config) (*services, error) {
	var (
		paidGen   service.GenerationProvider
		freeGen   service.GenerationProvider
		paidEmbed service.EmbeddingProvider
		freeEmbed service.EmbeddingProvider
		gemini    *service.GeminiProvider
	)

	if cfg.OpenAI.APIKey != "" {
		p := service.NewOpenAIProvider(cfg.OpenAI.APIKey, cfg.OpenAI.Model, cfg.OpenAI.EmbeddingModel, cfg.OpenAI.EmbeddingDimensions)
		paidGen, paidEmbed = p, p
		log.Info().Str("model", cfg.OpenAI.Model).Msg("OpenAI provider configured")
	}
	if cfg.Gemini.APIKey != "" {
		p, err := service.NewGeminiProvider(ctx, cfg.Gemini.APIKey, cfg.Gemini.Model, cfg.Gemini.EmbeddingModel)
		if err != nil {
			return nil, err
		}
		gemini = p
		freeGen, freeEmbed = p, p
		log.Info().Str("model", cfg.Gemini.Model).Msg("Gemini provider configured")
	}
	if paidGen == nil && freeGen == nil {
		log.Warn().Msg("no AI provider configured, generation endpoints will return errors")
	}

	var local service.EmbeddingProvider
	if cfg.OpenAI.FallbackToLocal {
		local = service.NewLocalEmbedder()
	}
	embedder := service.NewEmbeddingService(
		paidEmbed, freeEmbed, local,
		cfg.AIProvider, cfg.OpenAI.EmbeddingDimensions, cfg.OpenAI.FallbackToLocal,
	)

	store, err := database.NewWeaviateStore(cfg.Weaviate)
	if err != nil {
		if gemini != nil {
			gemini.Close()
		}
		return nil, err
	}

	return &services{
		rag:        service.NewRAGService(store, embedder, cfg.ChunkSize, cfg.ChunkOverlap, cfg.TopK),
		generation: service.NewGenerationService(paidGen, freeGen, cfg.AIProvider),
		pdf:        service.NewPDFService(cfg.MaxPDFPages),
		youtube:    service.NewYouTubeService(service.NewTimedTextFetcher()),
		gemini:     gemini,
	}, nil
}
