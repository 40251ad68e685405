package reddit

import (
	"context"
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"golang.org/x/time/rate"

	"github.com/reddrive/reddrive/internal/logctx"
)

// DefaultUserAgent is sent on listing requests. Reddit's public JSON endpoint
// rejects bare library user agents, so a desktop browser string is used.
const DefaultUserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

// HTTPScraper fetches subreddit listings over Reddit's public JSON endpoint.
type HTTPScraper struct {
	client    *http.Client
	limiter   *rate.Limiter
	userAgent string
	baseURL   string
}

// Option configures an HTTPScraper.
type Option func(*HTTPScraper)

// WithUserAgent overrides the listing request User-Agent.
func WithUserAgent(userAgent string) Option {
	return func(s *HTTPScraper) {
		if userAgent != "" {
			s.userAgent = userAgent
		}
	}
}

// WithRequestInterval sets the minimum spacing between listing requests.
// The public endpoint tolerates roughly one request every two seconds.
func WithRequestInterval(interval time.Duration) Option {
	return func(s *HTTPScraper) {
		if interval > 0 {
			s.limiter = rate.NewLimiter(rate.Every(interval), 1)
		}
	}
}

// WithBaseURL redirects normalized listing URLs to a different host. Test
// servers use this; production code never should.
func WithBaseURL(base string) Option {
	return func(s *HTTPScraper) {
		s.baseURL = strings.TrimSuffix(base, "/")
	}
}

// NewHTTPScraper builds a scraper with the given request timeout.
func NewHTTPScraper(timeout time.Duration, opts ...Option) *HTTPScraper {
	s := &HTTPScraper{
		client:    &http.Client{Timeout: timeout},
		limiter:   rate.NewLimiter(rate.Every(2*time.Second), 1),
		userAgent: DefaultUserAgent,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Scrape normalizes the subreddit URL, fetches one page of the listing, and
// returns the posts that pass the title, upvote, keyword, and media filters.
//
// It never returns an error: every failure mode (unrecognizable URL, HTTP
// failure, bad JSON) is logged and produces an empty slice so callers can
// surface a uniform "no content found". Retries are not attempted here; they
// belong to the media fetch layer.
func (s *HTTPScraper) Scrape(ctx context.Context, rawURL string, filters Filters) (posts []Post) {
	logger := logctx.From(ctx)

	defer func() {
		if r := recover(); r != nil {
			logger.Error("listing scrape panicked", "url", rawURL, "panic", r)
			posts = nil
		}
	}()

	listingURL, ok := NormalizeListingURL(rawURL)
	if !ok {
		logger.Error("invalid reddit URL format", "url", rawURL)
		return nil
	}
	if s.baseURL != "" {
		listingURL = s.baseURL + strings.TrimPrefix(listingURL, listingBase)
	}

	logger.Info("fetching reddit listing", "url", listingURL)

	payload, ok := s.fetchListing(ctx, listingURL)
	if !ok {
		return nil
	}

	children := payload.Data.Children
	if len(children) == 0 {
		logger.Warn("no posts found in reddit response", "url", listingURL)
		return nil
	}

	for i := range children {
		post := &children[i].Data
		if post.Title == "" {
			continue
		}
		if post.Ups < filters.MinimumUpvotes {
			continue
		}
		if !filters.matchesKeywords(post.Title) {
			continue
		}

		mediaURLs := extractMediaURLs(logger, post, filters)
		if len(mediaURLs) == 0 {
			continue
		}

		author := post.Author
		if author == "" {
			author = "unknown"
		}
		posts = append(posts, Post{
			Title:     post.Title,
			Author:    author,
			Upvotes:   post.Ups,
			SourceURL: post.URL,
			Permalink: "https://reddit.com" + post.Permalink,
			MediaURLs: mediaURLs,
		})
	}

	logger.Info("scraped reddit listing", "url", listingURL, "posts", len(posts))
	return posts
}

func (s *HTTPScraper) fetchListing(ctx context.Context, listingURL string) (*listing, bool) {
	logger := logctx.From(ctx)

	if err := s.limiter.Wait(ctx); err != nil {
		logger.Error("listing rate limit wait aborted", "error", err)
		return nil, false
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, listingURL, nil)
	if err != nil {
		logger.Error("failed to build listing request", "url", listingURL, "error", err)
		return nil, false
	}
	req.Header.Set("User-Agent", s.userAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := s.client.Do(req)
	if err != nil {
		logger.Error("reddit listing request failed", "url", listingURL, "error", err)
		return nil, false
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		logger.Error("reddit listing request rejected", "url", listingURL, "status", resp.StatusCode)
		return nil, false
	}

	var payload listing
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		logger.Error("failed to decode reddit listing", "url", listingURL, "error", err)
		return nil, false
	}
	return &payload, true
}
