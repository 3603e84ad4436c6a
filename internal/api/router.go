package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/bionicbutterfly13/praxis/internal/api/handlers"
	mw "github.com/bionicbutterfly13/praxis/internal/api/middleware"
	"github.com/bionicbutterfly13/praxis/internal/buildconfig"
	"github.com/bionicbutterfly13/praxis/internal/config"
	"github.com/bionicbutterfly13/praxis/internal/domain"
	"github.com/bionicbutterfly13/praxis/internal/embedding"
	"github.com/bionicbutterfly13/praxis/internal/llm"
	"github.com/bionicbutterfly13/praxis/internal/service"
	"github.com/bionicbutterfly13/praxis/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and request metrics for lifecycle management.
type App struct {
	Router       *chi.Mux
	startTime    time.Time
	requestCount atomic.Int64
	errorCount   atomic.Int64
}

// NewApp wires the decision engine behind the HTTP surface. db may be nil,
// in which case the journal endpoints return 503 and everything else works.
func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// External clients via provider factory
	var plannerClient domain.PlannerClient
	var embeddingClient domain.EmbeddingClient

	llmProvider := config.LLMProvider()
	embeddingProvider := config.EmbeddingProvider()

	var err error
	plannerClient, err = llm.NewClient(llmProvider, config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
		plannerClient = llm.NewMockClient()
	} else {
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
	}

	embeddingClient, err = embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey())
	if err != nil {
		logger.Warn("Embedding client initialization failed", zap.String("provider", embeddingProvider), zap.Error(err))
		embeddingClient = nil
	} else {
		logger.Info("Embedding client initialized", zap.String("provider", embeddingProvider))
	}

	// Core services
	models := domain.DefaultTriadModels()
	selector := service.NewActionSelector(config.SelectionPrecision(), config.DeterministicSelection(), nil)
	coordinator := service.NewTriadicCoordinator(models, selector, logger)
	planner := service.NewLookaheadPlanner(plannerClient, plannerClient, logger)

	var journalStore domain.JournalStore
	if db != nil {
		journalStore = store.NewJournalStore(db)
	}
	journal := service.NewJournalService(journalStore, embeddingClient, logger)

	// Handlers
	triadHandler := handlers.NewTriadHandler(coordinator, journal, logger)
	planHandler := handlers.NewPlanHandler(planner, journal, logger)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.errorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	// Health (no auth)
	r.Get("/health", healthHandler(db, journal))

	// Metrics (no auth)
	r.Get("/metrics", app.metricsHandler())

	// Authenticated routes
	r.Route("/v1", func(r chi.Router) {
		r.Use(mw.APIKey(config.APIKey()))

		r.Route("/triad", func(r chi.Router) {
			r.Post("/step", triadHandler.Step)
			r.Get("/ticks", triadHandler.Ticks)
		})

		r.Route("/plans", func(r chi.Router) {
			r.Post("/", planHandler.Create)
			r.Get("/recent", planHandler.Recent)
			r.Get("/similar", planHandler.Similar)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that embed the engine.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool, journal *service.JournalService) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := map[string]any{
			"status":  "ok",
			"journal": journal.Enabled(),
		}

		if db != nil {
			if err := db.Ping(r.Context()); err != nil {
				status["status"] = "error"
				status["error"] = err.Error()
				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusServiceUnavailable)
				_ = json.NewEncoder(w).Encode(status)
				return
			}
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(status)
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)

		response := map[string]any{
			"version":        buildconfig.Version(),
			"commit":         buildconfig.Commit(),
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"error_count":    app.errorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.JournalStore    = (*store.JournalStore)(nil)
	_ domain.PlannerClient   = (*llm.OpenAIClient)(nil)
	_ domain.PlannerClient   = (*llm.AnthropicClient)(nil)
	_ domain.PlannerClient   = (*llm.MockClient)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
)
