package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/redis/go-redis/v9"

	"github.com/vivantaneja/Scoresheet-Analyser/internal/config"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/extract"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/handlers"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/hub"
	"github.com/vivantaneja/Scoresheet-Analyser/internal/store"
)

func main() {
	fmt.Println("=== Scoresheet Service v0 ===")

	cfg := config.Load()

	repo, err := newRepository(cfg)
	if err != nil {
		fmt.Printf("❌ Failed to initialize store: %v\n", err)
		os.Exit(1)
	}
	defer repo.Close()
	fmt.Printf("✓ Store ready (backend: %s, match: %s)\n", cfg.Store.Backend, cfg.Store.MatchID)

	if err := os.MkdirAll(cfg.Paths.UploadDir, 0o755); err != nil {
		fmt.Printf("❌ Failed to create upload directory: %v\n", err)
		os.Exit(1)
	}

	var client extract.VisionClient
	if cfg.Extraction.APIKey != "" {
		gemini, err := extract.NewGeminiClient(context.Background(), cfg.Extraction.APIKey, cfg.Extraction.Model)
		if err != nil {
			fmt.Printf("❌ Failed to initialize extraction client: %v\n", err)
			os.Exit(1)
		}
		client = gemini
		fmt.Printf("✓ Extraction client ready (model: %s)\n", cfg.Extraction.Model)
	} else {
		fmt.Println("⚠️  No API key set (GEMINI_API_KEY / GOOGLE_API_KEY); uploads will fail until one is provided")
	}

	prompts := extract.LoadPrompts(cfg.Extraction.PromptPath, cfg.Extraction.SchemaPath)
	extractor := extract.New(client, prompts, extract.DefaultRetryPolicy, &extract.FileSink{Path: cfg.Paths.DebugPath})

	updateHub := hub.New()
	hubCtx, hubCancel := context.WithCancel(context.Background())
	defer hubCancel()
	go updateHub.Run(hubCtx)

	handler := handlers.NewHandler(repo, extractor, updateHub, cfg.Store.MatchID, cfg.Paths.UploadDir)

	// Setup router
	r := chi.NewRouter()
	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.Timeout(120 * time.Second))

	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   cfg.Server.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Link"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	// Routes
	r.Get("/health", handler.HealthCheck)
	r.Route("/api/v1", func(r chi.Router) {
		r.Get("/match", handler.GetMatch)
		r.Put("/match", handler.UpdateMatch)
		r.Post("/match/upload", handler.UploadScoresheet)
	})
	r.Get("/ws", handler.ServeWS)

	srv := &http.Server{
		Addr:         cfg.Server.Addr,
		Handler:      r,
		ReadTimeout:  125 * time.Second,
		WriteTimeout: 125 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	// Graceful shutdown
	serverErrors := make(chan error, 1)
	go func() {
		fmt.Printf("✓ Scoresheet service listening on %s\n", cfg.Server.Addr)
		fmt.Println("  Endpoints:")
		fmt.Println("    GET  /health")
		fmt.Println("    GET  /api/v1/match")
		fmt.Println("    PUT  /api/v1/match")
		fmt.Println("    POST /api/v1/match/upload")
		fmt.Println("    GET  /ws")

		serverErrors <- srv.ListenAndServe()
	}()

	shutdown := make(chan os.Signal, 1)
	signal.Notify(shutdown, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err := <-serverErrors:
		fmt.Printf("❌ Server error: %v\n", err)
		os.Exit(1)

	case sig := <-shutdown:
		fmt.Printf("\n⚠️  Received signal: %v\n", sig)

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		if err := srv.Shutdown(ctx); err != nil {
			fmt.Printf("⚠️  Graceful shutdown failed: %v\n", err)
			if err := srv.Close(); err != nil {
				fmt.Printf("❌ Could not stop server: %v\n", err)
			}
		}
	}

	fmt.Println("✓ Shutdown complete")
}

// newRepository selects the record store backend from configuration.
func newRepository(cfg *config.Config) (store.MatchRepository, error) {
	switch cfg.Store.Backend {
	case "file":
		return store.NewFileRepository(cfg.Paths.DataDir)

	case "redis":
		opts, err := redis.ParseURL(cfg.Store.RedisURL)
		if err != nil {
			return nil, fmt.Errorf("parsing redis URL: %w", err)
		}
		client := redis.NewClient(opts)

		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := client.Ping(ctx).Err(); err != nil {
			return nil, fmt.Errorf("connecting to redis: %w", err)
		}
		return store.NewRedisRepository(client), nil

	case "postgres":
		if cfg.Store.PostgresDSN == "" {
			return nil, fmt.Errorf("POSTGRES_DSN is required for the postgres backend")
		}
		return store.NewPostgresRepository(cfg.Store.PostgresDSN)

	default:
		return nil, fmt.Errorf("unknown store backend %q", cfg.Store.Backend)
	}
}
