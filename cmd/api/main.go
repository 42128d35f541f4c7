package main

import (
	"context"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mkoellner/praxis-agent/cmd/mainconfig"
	"github.com/mkoellner/praxis-agent/internal/api/router"
	appconfig "github.com/mkoellner/praxis-agent/internal/config"
	"github.com/mkoellner/praxis-agent/internal/extract"
	"github.com/mkoellner/praxis-agent/internal/handoff"
	"github.com/mkoellner/praxis-agent/internal/intake"
	"github.com/mkoellner/praxis-agent/internal/observability/metrics"
	"github.com/mkoellner/praxis-agent/internal/webchat"
	"github.com/mkoellner/praxis-agent/pkg/logging"
)

func main() {
	_ = godotenv.Load()

	cfg := appconfig.Load()
	logger := logging.New(cfg.LogLevel)
	logger.Info("starting praxis-agent API server",
		"env", cfg.Env,
		"port", cfg.Port,
		"llm_provider", cfg.LLMProvider,
		"email_provider", cfg.EmailProvider,
	)

	ctx := context.Background()

	client, err := mainconfig.BuildLLMClient(ctx, cfg, logger)
	if err != nil {
		logger.Error("failed to initialize LLM client", "error", err)
		os.Exit(1)
	}
	sender := mainconfig.BuildEmailSender(ctx, cfg, logger)

	practice := intake.Practice{
		Name:    cfg.PracticeName,
		Phone:   cfg.PracticePhone,
		Address: cfg.PracticeAddress,
	}

	extractor := extract.NewExtractor(client, "", logger)
	dispatcher := handoff.NewEmailDispatcher(sender, cfg.PracticeEmail, cfg.PracticeName, logger)
	intakeMetrics := metrics.NewIntakeMetrics(nil)

	orchestrator := intake.NewOrchestrator(client, extractor, dispatcher, practice, intake.Options{
		MaxOutputTokens: int32(cfg.MaxOutputTokens),
		Timeout:         cfg.LLMTimeout,
		Metrics:         intakeMetrics,
	}, logger)

	chat := webchat.NewHandler(orchestrator, intake.NewStore(), webchat.NewDisplayStore(), cfg.PracticeName, logger)

	r := router.New(&router.Config{
		Logger:             logger,
		Chat:               chat,
		MetricsHandler:     promhttp.Handler(),
		CORSAllowedOrigins: cfg.CORSAllowedOrigins,
	})

	srv := &http.Server{
		Addr:              ":" + cfg.Port,
		Handler:           r,
		ReadHeaderTimeout: 10 * time.Second,
		IdleTimeout:       60 * time.Second,
		// No WriteTimeout: the chat WebSocket connections are long-lived.
	}

	go func() {
		logger.Info("server listening", "addr", srv.Addr)
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			logger.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		logger.Error("graceful shutdown failed", "error", err)
		os.Exit(1)
	}
	logger.Info("server stopped")
}
