package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"

	"github.com/liquidaesthetik/praxis-assistant/internal/api/router"
	"github.com/liquidaesthetik/praxis-assistant/internal/booking"
	"github.com/liquidaesthetik/praxis-assistant/internal/chat"
	appconfig "github.com/liquidaesthetik/praxis-assistant/internal/config"
	"github.com/liquidaesthetik/praxis-assistant/internal/knowledge"
	"github.com/liquidaesthetik/praxis-assistant/internal/llm"
	"github.com/liquidaesthetik/praxis-assistant/internal/notify"
	"github.com/liquidaesthetik/praxis-assistant/internal/observability/metrics"
	"github.com/liquidaesthetik/praxis-assistant/internal/sitecache"
	"github.com/liquidaesthetik/praxis-assistant/pkg/logging"
)

func main() {
	// Load .env.local if present (development convenience)
	_ = godotenv.Load(".env.local")

	cfg := appconfig.Load()

	logger := logging.New(cfg.LogLevel, cfg.LogFormat)
	logger.Info("starting praxis-assistant API server",
		"env", cfg.Env,
		"port", cfg.Port,
	)

	// Knowledge base. A broken file degrades to an empty base so the safety
	// filter and fallback still work.
	base, err := knowledge.Load(cfg.KnowledgeFile)
	if err != nil {
		logger.Error("knowledge base unavailable, starting degraded", "error", err, "file", cfg.KnowledgeFile)
		base = knowledge.Empty()
	} else {
		logger.Info("knowledge base loaded",
			"prices", base.Prices.Len(),
			"descriptions", base.Descriptions.Len(),
			"synonyms", len(base.Synonyms.Entries()),
			"locations", len(base.Locations.Entries()),
		)
	}

	// Website text for the fallback prompt: Redis cache with a file fallback,
	// or file only when Redis is not configured.
	fileSite := sitecache.NewFileCache(cfg.SiteTextMaxChars, cfg.SiteCacheFile)
	var site sitecache.Provider = fileSite
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		site = sitecache.NewRedisCache(rdb, cfg.SiteCacheTTL, cfg.SiteTextMaxChars, fileSite, logger)
	}

	var model llm.Client
	if cfg.OpenAIAPIKey != "" {
		model = llm.NewOpenAIClient(cfg.OpenAIAPIKey, cfg.OpenAIBaseURL)
	} else {
		logger.Warn("OPENAI_API_KEY not set, model fallback disabled")
	}

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())
	chatMetrics := metrics.NewChatMetrics(reg)

	pipeline := chat.NewPipeline(base, model, site, chat.Config{
		FuzzyCutoff:  cfg.FuzzyCutoff,
		PriceMarkers: cfg.PriceMarkers,
		LLMModel:     cfg.OpenAIModel,
		LLMTimeout:   cfg.LLMTimeout,
		LLMMaxTokens: cfg.LLMMaxTokens,
		Temperature:  cfg.Temperature,
	}, chatMetrics, logger)

	// Booking is optional; without a database the chat endpoint still runs.
	var bookingHandler *booking.Handler
	var pool *pgxpool.Pool
	if cfg.DatabaseURL != "" {
		pool, err = pgxpool.New(context.Background(), cfg.DatabaseURL)
		if err != nil {
			logger.Error("database connection failed", "error", err)
			os.Exit(1)
		}

		var mailer notify.EmailSender
		if sg := notify.NewSendGridSender(cfg.SendGridAPIKey, cfg.SendGridFromEmail, cfg.SendGridFromName, logger); sg != nil {
			mailer = sg
		} else {
			mailer = notify.NewStubSender(logger)
		}

		svc := booking.NewService(booking.NewRepository(pool), mailer, logger)
		bookingHandler = booking.NewHandler(svc, logger)
	} else {
		logger.Warn("DATABASE_URL not set, booking endpoints disabled")
	}

	r := router.New(&router.Config{
		Logger:             logger,
		ChatHandler:        chat.NewHandler(pipeline, logger),
		BookingHandler:     bookingHandler,
		MetricsHandler:     promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
		ChatRatePerMinute:  cfg.ChatRatePerMinute,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.Port,
		Handler:      r,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	// Wait for interrupt signal to gracefully shutdown the server
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		logger.Error("forced shutdown", "error", err)
	}
	if pool != nil {
		pool.Close()
	}
	logger.Info("server stopped")
}
