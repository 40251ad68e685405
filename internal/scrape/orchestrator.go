// Package scrape drives the end-to-end run: listing scrape, per-post folder
// resolution, batched media download, and upload into Google Drive.
package scrape

import (
	"context"
	"fmt"
	"net/url"
	"strings"
	"sync"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"

	"github.com/reddrive/reddrive/internal/drive"
	"github.com/reddrive/reddrive/internal/logctx"
	"github.com/reddrive/reddrive/internal/media"
	"github.com/reddrive/reddrive/internal/reddit"
)

// Status distinguishes a run that uploaded something (possibly with skipped
// items) from one whose filters matched nothing. Both are successful runs.
type Status string

const (
	StatusCompleted Status = "completed"
	StatusNoContent Status = "no_content"
)

// DefaultChunkSize bounds how many media downloads run concurrently.
const DefaultChunkSize = 10

// slugMaxLen caps the title part of generated filenames.
const slugMaxLen = 100

// UploadResult is one successfully stored media file.
type UploadResult struct {
	Title       string `json:"title"`
	OriginalURL string `json:"original_url"`
	DriveURL    string `json:"drive_url"`
	DriveFileID string `json:"file_id"`
	Upvotes     int    `json:"upvotes"`
}

// Summary is the outcome of a whole run. UploadedFiles keeps processing
// order: posts in listing order, media URLs in extraction order within a post.
type Summary struct {
	Status        Status         `json:"status"`
	UploadedFiles []UploadResult `json:"uploaded_files"`
	TotalFileSize int64          `json:"total_file_size"`
}

// Scraper is the listing side of the pipeline (see reddit.Scraper).
type Scraper interface {
	Scrape(ctx context.Context, rawURL string, filters reddit.Filters) []reddit.Post
}

// MediaFetcher downloads one media URL.
type MediaFetcher interface {
	Fetch(ctx context.Context, rawURL string) (*media.Result, error)
}

// Orchestrator wires the scraper, the media fetcher, and the drive uploader
// into a single run. Per-item failures are logged and skipped; only malformed
// input, folder creation failures, and cancellation abort a run.
type Orchestrator struct {
	scraper   Scraper
	fetcher   MediaFetcher
	uploader  drive.Uploader
	chunkSize int
	tracer    trace.Tracer
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithChunkSize sets how many media fetches run concurrently per batch.
func WithChunkSize(n int) Option {
	return func(o *Orchestrator) {
		if n > 0 {
			o.chunkSize = n
		}
	}
}

func NewOrchestrator(scraper Scraper, fetcher MediaFetcher, uploader drive.Uploader, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		scraper:   scraper,
		fetcher:   fetcher,
		uploader:  uploader,
		chunkSize: DefaultChunkSize,
		tracer:    otel.Tracer("reddrive/scrape"),
	}
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Run executes one scrape-and-upload pass. The returned Summary is nil only
// when err is non-nil. Cancellation is honored between posts and between
// media items.
func (o *Orchestrator) Run(ctx context.Context, req Request) (summary *Summary, err error) {
	runID := uuid.NewString()
	logger := logctx.From(ctx).With("run_id", runID)
	ctx = logctx.With(ctx, logger)

	ctx, span := o.tracer.Start(ctx, "scrape.run", trace.WithAttributes(
		attribute.String("run.id", runID),
	))
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("scrape run panicked: %v", r)
			logger.Error("scrape run panicked", "panic", r)
		}
		if err != nil {
			span.RecordError(err)
			span.SetStatus(codes.Error, err.Error())
		}
		span.End()
	}()

	if err := req.Validate(); err != nil {
		return nil, err
	}

	folderID, err := drive.FolderIDFromLink(req.DriveFolderLink)
	if err != nil {
		return nil, err
	}

	posts := o.scraper.Scrape(ctx, req.RedditURL, reddit.Filters{
		MinimumUpvotes: req.MinimumUpvotes,
		Keywords:       req.Keywords,
		Images:         req.ScrapeImages,
		Videos:         req.ScrapeVideos,
	})
	span.SetAttributes(attribute.Int("scrape.posts", len(posts)))

	if len(posts) == 0 {
		logger.Info("no content matched the scrape criteria", "url", req.RedditURL)
		return &Summary{Status: StatusNoContent, UploadedFiles: []UploadResult{}}, nil
	}

	summary = &Summary{Status: StatusCompleted, UploadedFiles: []UploadResult{}}
	for _, post := range posts {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		targetFolder := folderID
		if req.CreateFolders {
			id, err := o.uploader.EnsureFolder(ctx, Slugify(post.Title), folderID)
			if err != nil {
				return nil, fmt.Errorf("ensure folder for %q: %w", post.Title, err)
			}
			targetFolder = id
		}

		if err := o.processPost(ctx, summary, post, targetFolder); err != nil {
			return nil, err
		}
	}

	span.SetAttributes(
		attribute.Int("scrape.uploaded", len(summary.UploadedFiles)),
		attribute.Int64("scrape.total_bytes", summary.TotalFileSize),
	)
	logger.Info("scrape run completed",
		"uploaded", len(summary.UploadedFiles),
		"total_bytes", summary.TotalFileSize,
	)
	return summary, nil
}

// processPost downloads and uploads every media URL of one post. Fetches run
// concurrently within a chunk; uploads follow sequentially in URL order so
// the output sequence stays deterministic.
func (o *Orchestrator) processPost(ctx context.Context, summary *Summary, post reddit.Post, folderID string) error {
	logger := logctx.From(ctx)

	slug := Slugify(post.Title)
	if len(slug) > slugMaxLen {
		slug = slug[:slugMaxLen]
	}

	urls := post.MediaURLs
	for start := 0; start < len(urls); start += o.chunkSize {
		end := min(start+o.chunkSize, len(urls))
		chunk := urls[start:end]
		results := o.fetchChunk(ctx, chunk)

		for i, mediaURL := range chunk {
			if err := ctx.Err(); err != nil {
				return err
			}
			result := results[i]
			if result == nil {
				continue
			}

			filename := fmt.Sprintf("%s_%s.%s", slug, randomSuffix(), result.Extension)
			file, err := o.uploader.Upload(ctx, result.Data, filename, folderID, result.ContentType)
			if err != nil {
				logger.Error("failed to upload media", "url", mediaURL, "filename", filename, "error", err)
				continue
			}

			summary.UploadedFiles = append(summary.UploadedFiles, UploadResult{
				Title:       post.Title,
				OriginalURL: mediaURL,
				DriveURL:    file.URL,
				DriveFileID: file.ID,
				Upvotes:     post.Upvotes,
			})
			summary.TotalFileSize += int64(len(result.Data))
		}
	}
	return nil
}

// fetchChunk downloads a chunk of media URLs concurrently. The result slice
// is positional; a nil entry means that URL was invalid or its download
// failed, both of which are logged here and skipped by the caller. The chunk
// length itself bounds concurrency, so each downloaded blob lives only until
// its upload finishes.
func (o *Orchestrator) fetchChunk(ctx context.Context, urls []string) []*media.Result {
	logger := logctx.From(ctx)
	results := make([]*media.Result, len(urls))

	var wg sync.WaitGroup
	for i, mediaURL := range urls {
		if !isFetchableURL(mediaURL) {
			logger.Warn("skipping invalid media URL", "url", mediaURL)
			continue
		}
		wg.Add(1)
		go func(i int, mediaURL string) {
			defer wg.Done()
			result, err := o.fetcher.Fetch(ctx, mediaURL)
			if err != nil {
				logger.Error("failed to download media", "url", mediaURL, "error", err)
				return
			}
			results[i] = result
		}(i, mediaURL)
	}
	wg.Wait()
	return results
}

func isFetchableURL(raw string) bool {
	parsed, err := url.ParseRequestURI(raw)
	if err != nil {
		return false
	}
	return parsed.Scheme == "http" || parsed.Scheme == "https"
}

// randomSuffix yields 8 hex characters to keep generated filenames unique
// across posts and within a post.
func randomSuffix() string {
	return strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
}
