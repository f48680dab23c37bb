// Package main is the entry point for the LacyLights MCP server.
package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/getsentry/sentry-go"
	sentryhttp "github.com/getsentry/sentry-go/http"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"
	"github.com/rs/cors"

	"github.com/bbernstein/lacylights-mcp/internal/config"
	"github.com/bbernstein/lacylights-mcp/internal/database"
	"github.com/bbernstein/lacylights-mcp/internal/database/repositories"
	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/ai"
	"github.com/bbernstein/lacylights-mcp/internal/services/backend"
	"github.com/bbernstein/lacylights-mcp/internal/services/llm"
	"github.com/bbernstein/lacylights-mcp/internal/services/patterns"
	"github.com/bbernstein/lacylights-mcp/internal/services/prompt"
	"github.com/bbernstein/lacylights-mcp/internal/services/pubsub"
	"github.com/bbernstein/lacylights-mcp/internal/services/rag"
	"github.com/bbernstein/lacylights-mcp/internal/services/recorder"
	"github.com/bbernstein/lacylights-mcp/internal/tools"
)

// Version information (set at build time)
var (
	Version   = "0.1.0"
	BuildTime = "unknown"
	GitCommit = "unknown"
)

const sentryFlushTimeout = 2 * time.Second

func main() {
	// Load .env file if present
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using environment variables")
	}

	// Load configuration
	cfg := config.Load()

	// Print startup banner
	printBanner(cfg)

	// Initialize Sentry
	if cfg.SentryDSN != "" {
		if err := sentry.Init(sentry.ClientOptions{
			Dsn:         cfg.SentryDSN,
			Environment: cfg.Env,
			Release:     "lacylights-mcp@" + Version,
			Debug:       cfg.IsDevelopment(),
		}); err != nil {
			log.Printf("Failed to initialize Sentry: %v", err)
		} else {
			log.Printf("✅ Sentry initialized (environment: %s)", cfg.Env)
			defer sentry.Flush(sentryFlushTimeout)
		}
	}

	appLog := logger.New(logger.Options{Debug: cfg.IsDevelopment()})

	// Connect to database
	db, err := database.Connect(database.Config{
		URL:         cfg.DatabaseURL,
		MaxIdleConn: 5,
		MaxOpenConn: 10,
		Debug:       false,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer func() { _ = database.Close(db) }()

	log.Println("Running database migrations...")
	if err := database.Migrate(db); err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to migrate database: %v", err)
	}
	log.Println("Database migrations complete")

	ctx := context.Background()

	// Pattern store. Recommendations are advisory, so a store that fails to
	// initialize is logged and the retriever falls back to empty bundles.
	var searcher rag.Searcher
	var indexer ai.Indexer
	store, err := patterns.NewStore(
		repositories.NewPatternRepository(db),
		repositories.NewSettingRepository(db),
		newEmbedder(cfg),
		appLog,
		cfg.EmbeddingCacheSize,
	)
	if err != nil {
		log.Printf("Warning: pattern store unavailable: %v", err)
	} else if err := store.Init(ctx); err != nil {
		log.Printf("Warning: pattern store initialization failed: %v", err)
	} else {
		log.Printf("📚 Pattern store ready (%d patterns)", store.Len())
		searcher = store
		indexer = store
	}

	// Language model
	llmClient, err := llm.NewClient(ctx, llm.Options{
		Provider:        cfg.LLMProvider,
		Model:           cfg.LLMModel,
		OpenAIAPIKey:    cfg.OpenAIAPIKey,
		OpenAIBaseURL:   cfg.OpenAIBaseURL,
		GeminiAPIKey:    cfg.GeminiAPIKey,
		AnthropicAPIKey: cfg.AnthropicAPIKey,
	})
	if err != nil {
		sentry.CaptureException(err)
		log.Fatalf("Failed to create language model client: %v", err)
	}

	// Generation recorders
	var recs recorder.Multi
	if cfg.RecordGenerations {
		recs = append(recs, recorder.NewDBRecorder(repositories.NewGenerationRepository(db), appLog))
	}
	if cfg.LangfuseEnabled {
		recs = append(recs, recorder.NewLangfuseRecorder(ctx, appLog))
		log.Println("📈 Langfuse tracing enabled")
	}
	defer func() { _ = recs.Close() }()

	service := ai.NewService(ai.Options{
		Backend:   backend.NewClient(cfg.GraphQLEndpoint, &http.Client{Timeout: cfg.RequestTimeout}),
		LLM:       llmClient,
		Retriever: rag.NewRetriever(searcher, cfg.RecommendationTopK, appLog),
		Prompts: prompt.NewBuilder(prompt.Limits{
			MaxFixtures:        cfg.PromptMaxFixtures,
			MaxContextFixtures: cfg.PromptMaxContextFixtures,
			MaxScriptChars:     cfg.PromptMaxScriptChars,
		}),
		Recorder:    recs,
		Logger:      appLog,
		Indexer:     indexer,
		Model:       cfg.LLMModel,
		MaxTokens:   cfg.LLMMaxTokens,
		Temperature: cfg.LLMTemperature,
	})

	events := pubsub.New()
	registry := tools.NewRegistry(service, events, appLog)
	router := newRouter(cfg, tools.NewServer(registry, events, appLog).WithCallTimeout(cfg.RequestTimeout))

	// Create HTTP server. Generation calls can take a while, so the write
	// timeout follows the request timeout.
	httpServer := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: cfg.RequestTimeout + 5*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Start server in goroutine
	go func() {
		log.Printf("Server listening on http://localhost:%s\n", cfg.Port)
		log.Printf("Tools: http://localhost:%s/tools  WebSocket: ws://localhost:%s/ws\n", cfg.Port, cfg.Port)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("Shutting down server...")

	// Graceful shutdown with timeout
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("Server shutdown error: %v", err)
	}

	log.Println("Server stopped")
}

// newRouter builds the HTTP router with middleware, health check and tool routes.
func newRouter(cfg *config.Config, toolServer *tools.Server) chi.Router {
	router := chi.NewRouter()

	// Middleware
	router.Use(middleware.RequestID)
	router.Use(middleware.RealIP)
	router.Use(middleware.Logger)
	router.Use(middleware.Recoverer)
	router.Use(sentryhttp.New(sentryhttp.Options{Repanic: true}).Handle)

	// CORS
	corsMiddleware := cors.New(cors.Options{
		AllowedOrigins:   []string{cfg.CORSOrigin, "http://localhost:3000", "http://localhost:4000"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type", "X-CSRF-Token"},
		AllowCredentials: true,
		Debug:            false,
	})
	router.Use(corsMiddleware.Handler)

	router.Get("/health", healthCheckHandler)

	// The WebSocket route must not sit behind the timeout middleware.
	router.Group(func(r chi.Router) {
		r.Use(middleware.Timeout(cfg.RequestTimeout))
		r.Get("/tools", toolServer.ServeList)
		r.Post("/tools/{name}", toolServer.ServeCall)
	})
	router.Get("/ws", toolServer.ServeWS)

	return router
}

func newEmbedder(cfg *config.Config) patterns.Embedder {
	if cfg.EmbeddingProvider == "openai" && cfg.OpenAIAPIKey != "" {
		return patterns.NewOpenAIEmbedder(cfg.OpenAIAPIKey, cfg.EmbeddingModel)
	}
	return patterns.NewHashEmbedder(0)
}

// healthCheckHandler returns the server health status.
func healthCheckHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)

	response := fmt.Sprintf(`{
  "status": "ok",
  "timestamp": "%s",
  "version": "%s"
}`, time.Now().UTC().Format(time.RFC3339), Version)

	_, _ = w.Write([]byte(response))
}

// printBanner prints the startup banner.
func printBanner(cfg *config.Config) {
	fmt.Println("============================================")
	fmt.Println("  LacyLights MCP Server")
	fmt.Printf("  Version: %s\n", Version)
	fmt.Printf("  Build:   %s\n", BuildTime)
	fmt.Printf("  Commit:  %s\n", GitCommit)
	fmt.Println("============================================")
	fmt.Printf("  Environment: %s\n", cfg.Env)
	fmt.Printf("  Port:        %s\n", cfg.Port)
	fmt.Printf("  Database:    %s\n", cfg.DatabaseURL)
	fmt.Printf("  Backend:     %s\n", cfg.GraphQLEndpoint)
	fmt.Printf("  Model:       %s\n", cfg.LLMModel)
	fmt.Println("============================================")
}
