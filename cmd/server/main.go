package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/HammerMeetNail/swasthyasaathi/internal/assets"
	"github.com/HammerMeetNail/swasthyasaathi/internal/config"
	"github.com/HammerMeetNail/swasthyasaathi/internal/database"
	"github.com/HammerMeetNail/swasthyasaathi/internal/handlers"
	"github.com/HammerMeetNail/swasthyasaathi/internal/logging"
	"github.com/HammerMeetNail/swasthyasaathi/internal/middleware"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services"
	"github.com/HammerMeetNail/swasthyasaathi/internal/services/ai"
	"github.com/HammerMeetNail/swasthyasaathi/internal/session"
	"github.com/HammerMeetNail/swasthyasaathi/web"
)

// A Loading session older than the provider timeout plus this margin is
// treated as abandoned.
const staleLoadingMargin = 30 * time.Second

func main() {
	if err := run(); err != nil {
		logging.Error("Application error", map[string]interface{}{"error": err.Error()})
		os.Exit(1)
	}
}

func run() error {
	logger := logging.New()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	if cfg.Server.Debug {
		logger.SetLevel(logging.LevelDebug)
		logging.SetDefaultLevel(logging.LevelDebug)
		logger.Debug("Debug logging enabled", map[string]interface{}{
			"max_chars": cfg.Server.DebugMaxChars,
			"env":       cfg.Server.Environment,
		})
	}

	logger.Info("Starting Swasthya Saathi server...")

	var deps backends

	if cfg.Database.Enabled {
		logger.Info("Connecting to PostgreSQL", map[string]interface{}{
			"host": cfg.Database.Host,
			"port": cfg.Database.Port,
		})
		db, err := database.NewPostgresDB(cfg.Database.DSN())
		if err != nil {
			return fmt.Errorf("connecting to postgres: %w", err)
		}
		defer db.Close()
		logger.Info("Connected to PostgreSQL")

		logger.Info("Running database migrations...")
		migrator, err := database.NewMigrator(cfg.Database.DSN(), database.Migrations(), "migrations")
		if err != nil {
			return fmt.Errorf("creating migrator: %w", err)
		}
		if err := migrator.Up(); err != nil {
			_ = migrator.Close()
			return fmt.Errorf("running migrations: %w", err)
		}
		_ = migrator.Close()
		logger.Info("Migrations completed")
		deps.db = db
	} else {
		logger.Warn("PostgreSQL disabled; advice usage will not be recorded")
	}

	if cfg.Redis.Enabled {
		logger.Info("Connecting to Redis", map[string]interface{}{
			"addr": cfg.Redis.Addr(),
		})
		redisDB, err := database.NewRedisDB(cfg.Redis.Addr(), cfg.Redis.Password, cfg.Redis.DB)
		if err != nil {
			return fmt.Errorf("connecting to redis: %w", err)
		}
		defer func() { _ = redisDB.Close() }()
		logger.Info("Connected to Redis")
		deps.redis = redisDB
	} else {
		logger.Warn("Redis disabled; sessions kept in memory and advice is not rate limited", map[string]interface{}{
			"capacity": cfg.Session.MemoryCapacity,
		})
	}

	handler, err := newHandler(cfg, logger, deps)
	if err != nil {
		return err
	}

	addr := fmt.Sprintf("%s:%d", cfg.Server.Host, cfg.Server.Port)
	server := &http.Server{
		Addr:        addr,
		Handler:     handler,
		ReadTimeout: 15 * time.Second,
		// A submit waits for the provider, so the write timeout has to cover it.
		WriteTimeout: cfg.AI.Timeout + 35*time.Second,
		IdleTimeout:  60 * time.Second,
	}

	done := make(chan bool, 1)
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-quit
		logger.Info("Server is shutting down...")

		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer cancel()

		server.SetKeepAlivesEnabled(false)
		if err := server.Shutdown(ctx); err != nil {
			logger.Error("Could not gracefully shutdown the server", map[string]interface{}{
				"error": err.Error(),
			})
		}
		close(done)
	}()

	logger.Info("Server listening", map[string]interface{}{
		"addr": addr,
	})
	if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}

	<-done
	logger.Info("Server stopped")
	return nil
}

// backends holds the optional external services. Either may be nil.
type backends struct {
	db    *database.PostgresDB
	redis *database.RedisDB
}

func newHandler(cfg *config.Config, logger *logging.Logger, deps backends) (http.Handler, error) {
	// Interfaces stay untyped nil when a backend is disabled.
	var (
		dbCheck     handlers.HealthChecker
		redisCheck  handlers.HealthChecker
		usageLog    ai.Execer
		redisClient *redis.Client
		store       session.Store
	)
	if deps.db != nil {
		dbCheck = deps.db
		usageLog = deps.db.Pool
	}
	if deps.redis != nil {
		redisCheck = deps.redis
		redisClient = deps.redis.Client
		store = session.NewRedisStore(redisClient, cfg.Session.TTL)
	} else {
		store = session.NewMemoryStore(cfg.Session.MemoryCapacity, cfg.Session.TTL)
	}

	suggestionService := services.NewSuggestionService()
	aiService := ai.NewService(cfg, usageLog)
	controller := session.NewController(store, session.AdviceGenerator(aiService), cfg.AI.Timeout+staleLoadingMargin)

	manifest := assets.NewManifest(web.Static())
	if err := manifest.Load(); err != nil {
		return nil, fmt.Errorf("loading asset manifest: %w", err)
	}

	healthHandler := handlers.NewHealthHandler(dbCheck, redisCheck)
	apiHandler := handlers.NewAPIHandler(suggestionService, aiService)
	sessionHandler := handlers.NewSessionHandler(controller)
	pageHandler, err := handlers.NewPageHandler(web.Templates(), manifest, controller, suggestionService)
	if err != nil {
		return nil, fmt.Errorf("loading templates: %w", err)
	}

	csrfMiddleware := middleware.NewCSRFMiddleware(cfg.Server.Secure)
	sessions := middleware.NewSessions(cfg.Server.Secure, cfg.Session.TTL)
	securityHeaders := middleware.NewSecurityHeaders(cfg.Server.Secure)
	cacheControl := middleware.NewCacheControl()
	compress := middleware.NewCompress()
	httpMetrics := middleware.NewHTTPMetrics()
	requestLogger := middleware.NewRequestLogger(logger)

	logger.Info("Advice rate limit", map[string]interface{}{"per_hour": cfg.RateLimit.AdvicePerHour})
	adviceLimiter := middleware.NewAdviceRateLimiter(redisClient, cfg.RateLimit.AdvicePerHour)
	pageLimiter := adviceLimiter.OnLimit(http.HandlerFunc(pageHandler.RateLimited))

	mux := http.NewServeMux()

	mux.HandleFunc("GET /health", healthHandler.Health)
	mux.HandleFunc("GET /ready", healthHandler.Ready)
	mux.HandleFunc("GET /live", healthHandler.Live)
	mux.Handle("GET /metrics", promhttp.Handler())

	mux.HandleFunc("GET /api/csrf", csrfMiddleware.GetToken)

	mux.HandleFunc("GET /api/categories", apiHandler.Categories)
	mux.HandleFunc("GET /api/suggestions", apiHandler.Suggestions)
	mux.HandleFunc("POST /api/validate", apiHandler.Validate)
	mux.Handle("POST /api/advice", adviceLimiter.Middleware(http.HandlerFunc(apiHandler.Advice)))

	mux.HandleFunc("GET /api/session", sessionHandler.Get)
	mux.HandleFunc("POST /api/session/category", sessionHandler.SelectCategory)
	mux.HandleFunc("POST /api/session/form", sessionHandler.UpdateForm)
	mux.HandleFunc("POST /api/session/back", sessionHandler.Back)
	mux.Handle("POST /api/session/submit", adviceLimiter.Middleware(http.HandlerFunc(sessionHandler.Submit)))
	mux.HandleFunc("POST /api/session/reset", sessionHandler.Reset)

	mux.Handle("GET /static/", http.StripPrefix("/static/", http.FileServer(http.FS(web.Static()))))

	mux.HandleFunc("GET /{$}", pageHandler.Index)
	mux.HandleFunc("POST /category", pageHandler.SelectCategory)
	mux.HandleFunc("POST /back", pageHandler.Back)
	mux.Handle("POST /submit", pageLimiter.Middleware(http.HandlerFunc(pageHandler.Submit)))
	mux.HandleFunc("POST /reset", pageHandler.Reset)
	mux.HandleFunc("/", pageHandler.NotFound)

	// Metrics wraps the mux directly so the matched route pattern is visible.
	var handler http.Handler = mux
	handler = httpMetrics.Apply(handler)
	handler = sessions.Apply(handler)
	handler = csrfMiddleware.Protect(handler)
	handler = cacheControl.Apply(handler)
	handler = compress.Apply(handler)
	handler = securityHeaders.Apply(handler)
	handler = requestLogger.Apply(handler)

	return handler, nil
}
