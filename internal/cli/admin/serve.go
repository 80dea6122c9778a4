package admin

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"github.com/abdullah-khaled0/voice-secretary/internal/api/handlers"
	"github.com/abdullah-khaled0/voice-secretary/internal/config"
	"github.com/abdullah-khaled0/voice-secretary/internal/github"
	"github.com/abdullah-khaled0/voice-secretary/internal/index"
	"github.com/abdullah-khaled0/voice-secretary/internal/jobs"
	"github.com/abdullah-khaled0/voice-secretary/internal/openai"
	"github.com/abdullah-khaled0/voice-secretary/internal/profile"
	"github.com/abdullah-khaled0/voice-secretary/internal/server"
	"github.com/abdullah-khaled0/voice-secretary/internal/service"
	"github.com/abdullah-khaled0/voice-secretary/internal/telemetry"
	"github.com/spf13/cobra"
)

// ServeCmd returns the serve command
func ServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the API server",
		Long:  "Start the voice secretary API server on the specified port",
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

	if cfg.HasSentry() {
		// Default to 10% sampling in production, 100% in development
		sampleRate := 0.1
		if cfg.Environment == "development" {
			sampleRate = 1.0
		}

		shutdownTelemetry, err := telemetry.Init(telemetry.Config{
			DSN:              cfg.SentryDSN,
			Environment:      cfg.Environment,
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

	aiClient := openai.NewClientWithConfig(openai.Config{
		APIKey:              cfg.OpenAIAPIKey,
		ChatModel:           cfg.ChatModel,
		EmbeddingModel:      cfg.EmbeddingModel,
		EmbeddingDimensions: cfg.EmbeddingDimensions,
		WhisperModel:        cfg.WhisperModel,
		SpeechModel:         cfg.SpeechModel,
		SpeechVoice:         cfg.SpeechVoice,
	})

	ghClient := github.NewClient(ctx, cfg.GitHubUsername, cfg.GitHubToken)
	if cfg.HasGitHubToken() {
		log.Println("github client authenticated")
	} else {
		log.Println("github client unauthenticated, rate limits apply")
	}

	owner := profile.Default()
	owner.GitHubUsername = cfg.GitHubUsername

	semanticIndex := index.New(cfg.IndexDir, aiClient, ghClient)
	log.Println("building document index...")
	if err := semanticIndex.EnsureBuilt(ctx, owner.Repos); err != nil {
		return fmt.Errorf("failed to build document index: %w", err)
	}
	log.Println("document index ready")

	assistantSvc := service.NewAssistantService(aiClient, semanticIndex, owner, cfg.TopK)
	assistantSvc.SetDebug(cfg.Debug)
	speechSvc := service.NewSpeechService(aiClient, openai.SpeechSampleRate)

	var refreshWorker *jobs.Worker
	if cfg.IndexRefreshInterval > 0 {
		processor := jobs.NewRefreshWorker(semanticIndex, owner.Repos)
		refreshWorker = jobs.NewWorker("index-refresh", processor, cfg.IndexRefreshInterval)
		go refreshWorker.Start(ctx)
		log.Println("index refresh worker started")
	}

	allowedOrigins := strings.Split(cfg.AllowedOrigins, ",")

	routerCfg := server.RouterConfig{
		QueryHandler:   handlers.NewQueryHandler(assistantSvc, cfg.TurnTimeout),
		VoiceHandler:   handlers.NewVoiceHandler(assistantSvc, speechSvc, cfg.TurnTimeout, allowedOrigins),
		AllowedOrigins: allowedOrigins,
	}

	router := server.NewRouter(routerCfg)

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

	if refreshWorker != nil {
		refreshWorker.Stop()
	}

	shutdownCtx, cancel := context.WithTimeout(ctx, 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Println("server exited")
	return nil
}
