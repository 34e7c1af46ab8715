package cli

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	chromem "github.com/philippgille/chromem-go"
	"github.com/spf13/cobra"

	"github.com/cloo-solutions/resumechat/internal/api/handlers"
	"github.com/cloo-solutions/resumechat/internal/config"
	"github.com/cloo-solutions/resumechat/internal/domain"
	"github.com/cloo-solutions/resumechat/internal/generator"
	"github.com/cloo-solutions/resumechat/internal/ingest"
	"github.com/cloo-solutions/resumechat/internal/openai"
	"github.com/cloo-solutions/resumechat/internal/server"
	"github.com/cloo-solutions/resumechat/internal/service"
	"github.com/cloo-solutions/resumechat/internal/store"
	"github.com/cloo-solutions/resumechat/internal/telemetry"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the resume chat API server on the specified port",
		RunE:  runServe,
	}

	cmd.Flags().StringP("port", "p", "8080", "Port to listen on")

	return cmd
}

func runServe(cmd *cobra.Command, args []string) error {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}

	// Initialize Sentry with tracing if SENTRY_DSN is set
	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		environment := os.Getenv("ENVIRONMENT")
		if environment == "" {
			environment = "development"
		}

		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              dsn,
			Environment:      environment,
			TracesSampleRate: sampleRate,
			Debug:            cfg.Debug,
		})
		if err != nil {
			log.Printf("telemetry init failed (continuing without tracing): %v", err)
		} else {
			defer shutdownTelemetry()
		}
	}

	portFlag, _ := cmd.Flags().GetString("port")
	if portFlag != "" && portFlag != "8080" {
		cfg.Port = portFlag
	}

	embeddingClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.TogetherAPIKey,
		BaseURL:             cfg.TogetherBaseURL,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
	})

	index := store.NewChromemIndex(cfg.StorePath, cfg.Collection,
		chromem.EmbeddingFunc(embeddingClient.GenerateEmbedding))
	log.Printf("vector store at %s (collection %s)", cfg.StorePath, cfg.Collection)

	var session *service.Session
	if cfg.PersonalInfo {
		session = service.NewSession()
	}

	var gen service.Generator
	promptStyle := service.StyleInstruct
	switch cfg.Generator {
	case "ollama":
		gen, err = generator.NewOllamaGenerator(generator.OllamaConfig{
			ServerURL: cfg.OllamaURL,
			Model:     cfg.OllamaModel,
		})
		if err != nil {
			return fmt.Errorf("failed to initialize generator: %w", err)
		}
		promptStyle = service.StylePlain
		log.Printf("using ollama generator (%s at %s)", cfg.OllamaModel, cfg.OllamaURL)
	default:
		if !cfg.HasTogether() {
			log.Println("warning: TOGETHER_API_KEY not set, chat requests will fail")
		}
		gen = generator.NewTogetherGenerator(generator.TogetherConfig{
			APIKey:  cfg.TogetherAPIKey,
			BaseURL: cfg.TogetherBaseURL,
			Model:   cfg.ChatModel,
		})
		log.Printf("using together generator (%s)", cfg.ChatModel)
	}

	indexSvc := service.NewIndexService(
		ingest.NewPDFIngestor(),
		embeddingClient,
		index,
		session,
		service.ChunkConfig{Size: cfg.ChunkSize, Overlap: cfg.ChunkOverlap},
	)
	chatSvc := service.NewChatService(index, gen, service.NewPromptBuilder(promptStyle), session, service.ChatConfig{
		TopK:           cfg.TopK,
		Params:         domain.GenerationParams{Temperature: cfg.Temperature, MaxTokens: cfg.MaxTokens},
		RequireContext: cfg.RequireContext,
	})

	router := server.NewRouter(server.RouterConfig{
		UploadHandler:  handlers.NewUploadHandler(indexSvc),
		ChatHandler:    handlers.NewChatHandler(chatSvc),
		CORSOrigin:     cfg.CORSOrigin,
		MaxUploadBytes: cfg.MaxUploadBytes,
	})

	srv := &http.Server{
		Addr:    ":" + cfg.Port,
		Handler: router,
	}

	go func() {
		log.Printf("starting server on port %s", cfg.Port)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("server failed: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("shutting down...")

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
