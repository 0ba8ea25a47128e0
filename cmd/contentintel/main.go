package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"github.com/xxxsen/common/logger"
	"github.com/xxxsen/common/logutil"
	"github.com/xxxsen/common/webapi"
	"go.uber.org/zap"

	"github.com/xxxsen/contentintel/internal/config"
	"github.com/xxxsen/contentintel/internal/handler"
	"github.com/xxxsen/contentintel/internal/job"
	"github.com/xxxsen/contentintel/internal/middleware"
	"github.com/xxxsen/contentintel/internal/schedule"
)

func main() {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "contentintel",
		Short:        "content intelligence for news articles",
		SilenceUsage: true,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to config.json")

	runCmd := &cobra.Command{
		Use:   "run",
		Short: "run content intelligence server",
		RunE: func(cmd *cobra.Command, args []string) error {
			if configPath == "" {
				return fmt.Errorf("--config is required")
			}
			cfg, err := config.Load(configPath)
			if err != nil {
				return err
			}
			logger.Init(
				cfg.LogConfig.File,
				cfg.LogConfig.Level,
				int(cfg.LogConfig.FileCount),
				int(cfg.LogConfig.FileSize),
				int(cfg.LogConfig.KeepDays),
				cfg.LogConfig.Console,
			)
			logutil.GetLogger(context.Background()).Info("config loaded", zap.String("config", configPath))
			return runServer(cfg)
		},
	}

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(newToolCommands(&configPath)...)

	if err := rootCmd.Execute(); err != nil {
		logutil.GetLogger(context.Background()).Fatal("command failed", zap.Error(err))
	}
}

func runServer(cfg *config.Config) error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logutil.GetLogger(ctx).Info(
		"starting server",
		zap.Int("port", cfg.Port),
		zap.Bool("embedding_disabled", cfg.Embedding.Disabled),
		zap.Int("search_workers", cfg.Search.Workers),
		zap.Int("ai_providers", len(cfg.AI.Providers)),
	)

	app, err := buildApp(cfg)
	if err != nil {
		return err
	}
	defer app.Close()

	// Warm the embedding network and pick the analyzer before serving.
	if err := app.engine.Init(ctx); err != nil {
		return fmt.Errorf("init embedding engine: %w", err)
	}
	app.content.Reprobe(ctx)

	scheduler := schedule.NewCronScheduler()
	if err := scheduler.AddJob(job.NewRemoteProbeJob(app.content), cfg.Schedule.ProbeSpec); err != nil {
		return fmt.Errorf("schedule remote probe: %w", err)
	}
	if err := scheduler.AddJob(job.NewCacheStatsJob(app.content), cfg.Schedule.StatsSpec); err != nil {
		return fmt.Errorf("schedule cache stats: %w", err)
	}
	scheduler.Start(ctx)
	defer scheduler.Stop()

	deps := handler.RouterDeps{
		Content:   handler.NewContentHandler(app.content),
		Search:    handler.NewSearchHandler(app.content),
		Status:    handler.NewStatusHandler(app.content),
		JWTSecret: []byte(cfg.JWTSecret),
		RateLimit: time.Duration(cfg.RateLimitMS) * time.Millisecond,
	}

	addr := fmt.Sprintf("0.0.0.0:%d", cfg.Port)
	engine, err := webapi.NewEngine(
		"/api/v1",
		addr,
		webapi.WithRegister(func(group *gin.RouterGroup) {
			handler.RegisterRoutes(group, deps)
		}),
		webapi.WithExtraMiddlewares(
			middleware.RequestID(),
			middleware.CORS(cfg.CORSAllowlist),
			gzip.Gzip(gzip.DefaultCompression),
		),
	)
	if err != nil {
		return fmt.Errorf("init web engine: %w", err)
	}
	logutil.GetLogger(ctx).Info("http server listening", zap.String("addr", addr))

	go func() {
		if err := engine.Run(); err != nil && err != http.ErrServerClosed {
			logutil.GetLogger(context.Background()).Error("server error", zap.Error(err))
			stop()
		}
	}()

	<-ctx.Done()
	logutil.GetLogger(context.Background()).Info("server stopping...")
	return nil
}
