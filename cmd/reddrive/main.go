package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"log"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"

	"github.com/reddrive/reddrive/internal/api"
	"github.com/reddrive/reddrive/internal/config"
	driveimpl "github.com/reddrive/reddrive/internal/drive/impl"
	"github.com/reddrive/reddrive/internal/logctx"
	"github.com/reddrive/reddrive/internal/media"
	"github.com/reddrive/reddrive/internal/observability/otelx"
	"github.com/reddrive/reddrive/internal/reddit"
	"github.com/reddrive/reddrive/internal/scrape"
)

func main() {
	// A missing .env is fine; explicit environment always wins.
	_ = godotenv.Load()

	configPath := flag.String("config", getenv("REDDRIVE_CONFIG", "reddrive.yaml"), "path to config file")
	runOnce := flag.Bool("run-once", false, "run a single scrape from flags and exit")
	redditURL := flag.String("reddit-url", "", "subreddit URL to scrape (run-once mode)")
	minUpvotes := flag.Int("min-upvotes", 0, "minimum upvote count, 0 uses the default")
	keywords := flag.String("keywords", "", "comma-separated title keywords")
	driveFolder := flag.String("drive-folder", "", "shared Google Drive folder link (run-once mode)")
	images := flag.Bool("images", true, "scrape images")
	videos := flag.Bool("videos", false, "scrape videos")
	createFolders := flag.Bool("create-folders", false, "create one Drive subfolder per post")
	flag.Parse()

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{}))
	slog.SetDefault(logger)

	cfg, err := config.Load(*configPath)
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	ctx = logctx.With(ctx, logger)

	shutdownTracing, err := otelx.Init(ctx, logger, cfg.OTel)
	if err != nil {
		log.Fatalf("failed to initialize tracing: %v", err)
	}
	if shutdownTracing != nil {
		defer func() {
			shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			if err := shutdownTracing(shutdownCtx); err != nil {
				logger.Error("tracing shutdown failed", "error", err)
			}
		}()
	}

	uploader, err := driveimpl.NewClientFromRefreshToken(ctx,
		cfg.Drive.ClientID, cfg.Drive.ClientSecret, cfg.Drive.RefreshToken)
	if err != nil {
		log.Fatalf("failed to create drive client: %v", err)
	}

	scraperOpts := []reddit.Option{reddit.WithRequestInterval(cfg.Reddit.RequestInterval.Std())}
	if cfg.Reddit.UserAgent != "" {
		scraperOpts = append(scraperOpts, reddit.WithUserAgent(cfg.Reddit.UserAgent))
	}
	scraper := reddit.NewHTTPScraper(cfg.Reddit.HTTPTimeout.Std(), scraperOpts...)

	fetcher := media.NewFetcher(cfg.Media.HTTPTimeout.Std(), cfg.Media.RetryAttempts, cfg.Media.RetryDelay.Std())

	orchestrator := scrape.NewOrchestrator(scraper, fetcher, uploader,
		scrape.WithChunkSize(cfg.Media.ChunkSize))

	if *runOnce {
		req := scrape.Request{
			RedditURL:       *redditURL,
			MinimumUpvotes:  *minUpvotes,
			Keywords:        scrape.ParseKeywords(*keywords),
			DriveFolderLink: *driveFolder,
			ScrapeImages:    *images,
			ScrapeVideos:    *videos,
			CreateFolders:   *createFolders,
		}
		summary, err := orchestrator.Run(ctx, req)
		if err != nil {
			log.Fatalf("run failed: %v", err)
		}
		out, err := json.MarshalIndent(summary, "", "  ")
		if err != nil {
			log.Fatalf("failed to encode summary: %v", err)
		}
		fmt.Println(string(out))
		return
	}

	server := api.NewServer(orchestrator, logger)
	go func() {
		logger.Info("starting reddrive server", "addr", cfg.Server.Addr)
		if err := server.Start(cfg.Server.Addr); err != nil {
			logger.Error("server stopped", "error", err)
			stop()
		}
	}()

	<-ctx.Done()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		logger.Error("server shutdown failed", "error", err)
	}
}

func getenv(key, fallback string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return fallback
}
