package media

import (
	"context"
	"fmt"
	"io"
	"mime"
	"net/http"
	"net/url"
	"path"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"

	"github.com/reddrive/reddrive/internal/retry"
)

// Result is one downloaded media asset. Extension never includes the leading
// dot and is always non-empty.
type Result struct {
	Data        []byte
	ContentType string
	Extension   string
}

// Fetcher downloads media URLs with a bounded per-request timeout and a fixed
// number of retry attempts. A failed download is recoverable: the caller skips
// the item and moves on.
type Fetcher struct {
	client *http.Client
	policy retry.Config
}

// NewFetcher builds a fetcher. Attempts is the total try count (3 means two
// retries); delay is the pause between tries.
func NewFetcher(timeout time.Duration, attempts int, delay time.Duration) *Fetcher {
	if timeout <= 0 {
		timeout = 60 * time.Second
	}
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
		policy: retry.Config{Attempts: attempts, Delay: delay},
	}
}

// Fetch downloads rawURL and derives a destination extension for it.
func (f *Fetcher) Fetch(ctx context.Context, rawURL string) (*Result, error) {
	var result *Result
	err := retry.Do(ctx, f.policy, func() error {
		fetched, err := f.fetchOnce(ctx, rawURL)
		if err != nil {
			return err
		}
		result = fetched
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("fetch media %s: %w", rawURL, err)
	}
	result.Extension = deriveExtension(rawURL, result.ContentType, result.Data)
	return result, nil
}

func (f *Fetcher) fetchOnce(ctx context.Context, rawURL string) (*Result, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, err
	}

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return nil, fmt.Errorf("unexpected status %d", resp.StatusCode)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, err
	}
	return &Result{Data: data, ContentType: resp.Header.Get("Content-Type")}, nil
}

// contentTypeExtensions maps the media types Reddit actually serves. Anything
// outside this map falls through to byte sniffing.
var contentTypeExtensions = map[string]string{
	"image/jpeg": "jpg",
	"image/png":  "png",
	"image/gif":  "gif",
	"video/mp4":  "mp4",
	"video/webm": "webm",
}

// deriveExtension resolves a destination file extension: the URL path's own
// extension first, then the declared content type, then sniffing the bytes,
// and finally "jpg" as the historical default.
func deriveExtension(rawURL, contentType string, data []byte) string {
	if parsed, err := url.Parse(rawURL); err == nil {
		if ext := strings.TrimPrefix(path.Ext(parsed.Path), "."); ext != "" {
			return strings.ToLower(ext)
		}
	}

	if contentType != "" {
		parsed, _, err := mime.ParseMediaType(contentType)
		if err == nil {
			if ext, ok := contentTypeExtensions[parsed]; ok {
				return ext
			}
		}
	}

	if len(data) > 0 {
		if ext := strings.TrimPrefix(mimetype.Detect(data).Extension(), "."); ext != "" {
			return ext
		}
	}
	return "jpg"
}
