package api

import (
	"encoding/json"
	"net/http"
	"runtime"
	"sync/atomic"
	"time"

	"github.com/Harshitk-cp/sibyl/internal/api/handlers"
	mw "github.com/Harshitk-cp/sibyl/internal/api/middleware"
	"github.com/Harshitk-cp/sibyl/internal/buildconfig"
	"github.com/Harshitk-cp/sibyl/internal/config"
	"github.com/Harshitk-cp/sibyl/internal/domain"
	"github.com/Harshitk-cp/sibyl/internal/embedding"
	"github.com/Harshitk-cp/sibyl/internal/llm"
	"github.com/Harshitk-cp/sibyl/internal/registry"
	"github.com/Harshitk-cp/sibyl/internal/service"
	"github.com/Harshitk-cp/sibyl/internal/store"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/jackc/pgx/v5/pgxpool"
	"go.uber.org/zap"
)

// App holds the router and the long-lived services needed for lifecycle
// management and metrics.
type App struct {
	Router *chi.Mux
	Golden *service.GoldenService
	Cache  *service.CacheService

	startTime        time.Time
	requestCount     atomic.Int64
	clientErrorCount atomic.Int64
	serverErrorCount atomic.Int64
}

func NewApp(db *pgxpool.Pool, logger *zap.Logger) *App {
	// Stores
	documentStore := store.NewDocumentStore(db)
	goldenStore := store.NewGoldenStore(db)
	pricingStore := store.NewPricingStore(db)

	// External clients via provider factory
	var embeddingClient domain.EmbeddingClient
	var llmClient domain.LLMClient

	llmProvider := config.LLMProvider()
	embeddingProvider := config.EmbeddingProvider()

	var err error
	llmClient, err = llm.NewClient(llmProvider, config.LLMAPIKey())
	if err != nil {
		logger.Warn("LLM client initialization failed", zap.String("provider", llmProvider), zap.Error(err))
	} else {
		logger.Info("LLM client initialized", zap.String("provider", llmProvider))
	}

	embeddingClient, err = embedding.NewClient(embeddingProvider, config.EmbeddingAPIKey(), embedding.Options{
		Model:   config.EmbeddingModel(),
		BaseURL: config.EmbeddingBaseURL(),
		Timeout: config.EmbeddingTimeout(),
	})
	if err != nil {
		logger.Warn("Embedding client initialization failed", zap.String("provider", embeddingProvider), zap.Error(err))
	} else {
		logger.Info("Embedding client initialized", zap.String("provider", embeddingProvider))
	}

	// All partitions share the connection pool; scoping happens per query.
	reg := registry.New(func(domain.Partition) (domain.DocumentStore, error) {
		return documentStore, nil
	}, logger)

	// Services
	goldenSvc := service.NewGoldenService(goldenStore, config.GoldenSimilarityThreshold(), logger)
	cacheSvc := service.NewCacheService(config.CacheMaxEntries(), config.CacheSimilarityThreshold(), config.CacheTTL(), logger)
	rerankSvc := service.NewRerankService(config.RerankAPIKey(), config.RerankBaseURL(), config.RerankTimeout(), logger)
	conflictSvc := service.NewConflictService(logger)
	judgeSvc := service.NewJudgeService(llmClient, config.JudgeThreshold(), logger)

	orchestratorSvc := service.NewOrchestratorService(
		llmClient, reg, embeddingClient, rerankSvc, conflictSvc, documentStore, logger)
	orchestratorSvc.SetBudgets(config.AgentStepBudget(), config.AgentDeadline(), config.ToolTimeout())

	answerSvc := service.NewAnswerService(
		embeddingClient, goldenSvc, cacheSvc, service.NewRouterService(),
		pricingStore, orchestratorSvc, judgeSvc, logger)
	answerSvc.SetCacheTTL(config.CacheTTL())

	// Handlers
	answerHandler := handlers.NewAnswerHandler(answerSvc)
	partitionHandler := handlers.NewPartitionHandler(reg)
	goldenHandler := handlers.NewGoldenHandler(goldenSvc, goldenStore, embeddingClient)

	r := chi.NewRouter()

	app := &App{
		Router:    r,
		Golden:    goldenSvc,
		Cache:     cacheSvc,
		startTime: time.Now(),
	}

	// Metrics collector for middleware
	metricsCollector := mw.NewMetricsCollector(&app.requestCount, &app.clientErrorCount, &app.serverErrorCount)

	// Global middleware (order matters)
	r.Use(mw.RequestID)
	r.Use(middleware.RealIP)
	r.Use(metricsCollector.Middleware)
	r.Use(mw.Logging(logger))
	r.Use(middleware.Recoverer)
	r.Use(mw.RateLimit(config.RateLimitRPS(), config.RateLimitBurst()))

	r.Get("/health", healthHandler(db))
	r.Get("/metrics", app.metricsHandler())

	r.Route("/v1", func(r chi.Router) {
		r.Post("/answer", answerHandler.Answer)

		r.Route("/partitions", func(r chi.Router) {
			r.Get("/", partitionHandler.List)
			r.Get("/{name}", partitionHandler.Get)
		})

		r.Route("/golden", func(r chi.Router) {
			r.Post("/", goldenHandler.Create)
			r.Post("/reload", goldenHandler.Reload)
		})
	})

	return app
}

// NewRouter returns just the chi.Mux for callers that do not manage the
// app lifecycle.
func NewRouter(db *pgxpool.Pool, logger *zap.Logger) *chi.Mux {
	return NewApp(db, logger).Router
}

func healthHandler(db *pgxpool.Pool) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := db.Ping(r.Context()); err != nil {
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusServiceUnavailable)
			_ = json.NewEncoder(w).Encode(map[string]string{"status": "error", "error": err.Error()})
			return
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "ok"})
	}
}

func (app *App) metricsHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var memStats runtime.MemStats
		runtime.ReadMemStats(&memStats)

		uptime := time.Since(app.startTime)
		cacheStats := app.Cache.Stats()

		response := map[string]any{
			"uptime_seconds": uptime.Seconds(),
			"uptime_human":   uptime.Round(time.Second).String(),
			"request_count":  app.requestCount.Load(),
			"client_errors":  app.clientErrorCount.Load(),
			"server_errors":  app.serverErrorCount.Load(),
			"goroutines":     runtime.NumGoroutine(),
			"cache": map[string]any{
				"entries":       cacheStats.Entries,
				"exact_hits":    cacheStats.ExactHits,
				"semantic_hits": cacheStats.SemanticHits,
				"misses":        cacheStats.Misses,
				"evictions":     cacheStats.Evictions,
			},
			"golden_records": app.Golden.Size(),
			"memory": map[string]any{
				"alloc_mb":       float64(memStats.Alloc) / 1024 / 1024,
				"total_alloc_mb": float64(memStats.TotalAlloc) / 1024 / 1024,
				"sys_mb":         float64(memStats.Sys) / 1024 / 1024,
				"num_gc":         memStats.NumGC,
			},
			"go_version": runtime.Version(),
			"build":      buildconfig.VersionInfo(),
		}

		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		_ = json.NewEncoder(w).Encode(response)
	}
}

// Ensure stores and clients satisfy interfaces at compile time.
var (
	_ domain.DocumentStore   = (*store.DocumentStore)(nil)
	_ domain.GoldenStore     = (*store.GoldenStore)(nil)
	_ domain.PricingStore    = (*store.PricingStore)(nil)
	_ domain.EmbeddingClient = (*embedding.OpenAIClient)(nil)
	_ domain.EmbeddingClient = (*embedding.MockClient)(nil)
	_ domain.LLMClient       = (*llm.OpenAIClient)(nil)
	_ domain.LLMClient       = (*llm.AnthropicClient)(nil)
	_ domain.LLMClient       = (*llm.MockClient)(nil)
)
