package reddit

import (
	"bytes"
	"encoding/json"
	"fmt"
	"html"
	"log/slog"
	"net/url"
	"strings"
)

// mediaShape tags the five mutually exclusive representations a post's media
// can take. Classification picks exactly one branch; the branches never
// combine.
type mediaShape int

const (
	shapeNone mediaShape = iota
	shapeGallery
	shapeDirectImage
	shapeVideo
	shapePreviewImage
)

// classifyShape resolves the branch precedence: gallery beats a direct image
// link, which beats a video fallback, which beats a preview source.
func classifyShape(post *rawPost) mediaShape {
	switch {
	case post.IsGallery && len(post.MediaMetadata) > 0:
		return shapeGallery
	case IsImageURL(post.URL):
		return shapeDirectImage
	case post.IsVideo && post.Media.RedditVideo.FallbackURL != "":
		return shapeVideo
	case len(post.Preview.Images) > 0 && post.Preview.Images[0].Source.URL != "":
		return shapePreviewImage
	default:
		return shapeNone
	}
}

// extractMediaURLs produces the deduplicated media URLs for a single post,
// honoring the image/video inclusion filters. A malformed post never fails
// the batch: problems are logged and the post simply contributes nothing.
func extractMediaURLs(logger *slog.Logger, post *rawPost, filters Filters) []string {
	var candidates []string

	switch classifyShape(post) {
	case shapeGallery:
		sources, err := gallerySourceURLs(post.MediaMetadata)
		if err != nil {
			logger.Warn("failed to extract gallery media", "post_title", post.Title, "error", err)
			return nil
		}
		for _, source := range sources {
			candidates = append(candidates, normalizeAssetURL(source, true))
		}
	case shapeDirectImage:
		candidates = append(candidates, post.URL)
	case shapeVideo:
		candidates = append(candidates, post.Media.RedditVideo.FallbackURL)
	case shapePreviewImage:
		candidates = append(candidates, normalizeAssetURL(post.Preview.Images[0].Source.URL, false))
	case shapeNone:
		return nil
	}

	var kept []string
	seen := make(map[string]bool, len(candidates))
	for _, candidate := range candidates {
		if seen[candidate] || !filters.includeMedia(candidate) {
			continue
		}
		seen[candidate] = true
		kept = append(kept, candidate)
	}
	return kept
}

// gallerySourceURLs walks a media_metadata object and returns every entry's
// source URL (s.u) in document order. A token walk is used instead of a map
// decode so the order of the gallery is preserved.
func gallerySourceURLs(raw json.RawMessage) ([]string, error) {
	dec := json.NewDecoder(bytes.NewReader(raw))

	tok, err := dec.Token()
	if err != nil {
		return nil, fmt.Errorf("read media_metadata: %w", err)
	}
	if delim, ok := tok.(json.Delim); !ok || delim != '{' {
		return nil, fmt.Errorf("media_metadata is not an object")
	}

	var urls []string
	for dec.More() {
		if _, err := dec.Token(); err != nil {
			return nil, fmt.Errorf("read media_metadata key: %w", err)
		}
		var entry struct {
			S struct {
				U string `json:"u"`
			} `json:"s"`
		}
		if err := dec.Decode(&entry); err != nil {
			return nil, fmt.Errorf("decode media_metadata entry: %w", err)
		}
		if entry.S.U != "" {
			urls = append(urls, entry.S.U)
		}
	}
	return urls, nil
}

// normalizeAssetURL unescapes HTML entities and drops any query string.
// Gallery sources additionally promote the preview host to the
// full-resolution asset host.
func normalizeAssetURL(raw string, promotePreviewHost bool) string {
	unescaped := html.UnescapeString(raw)
	if promotePreviewHost {
		unescaped = strings.Replace(unescaped, "preview.redd.it", "i.redd.it", 1)
	}
	if i := strings.Index(unescaped, "?"); i >= 0 {
		unescaped = unescaped[:i]
	}
	return unescaped
}

// IsImageURL reports whether a URL points at an image: a recognized image
// extension on the path, or an i.redd.it host. Everything else that reaches
// the media pipeline is treated as video.
func IsImageURL(raw string) bool {
	if raw == "" {
		return false
	}
	parsed, err := url.Parse(raw)
	if err != nil {
		return false
	}
	if strings.Contains(strings.ToLower(parsed.Host), "i.redd.it") {
		return true
	}
	path := strings.ToLower(parsed.Path)
	for _, ext := range []string{".jpg", ".jpeg", ".png", ".gif", ".webp"} {
		if strings.HasSuffix(path, ext) {
			return true
		}
	}
	return false
}

// includeMedia is the inclusion predicate: images pass when image scraping is
// on, everything else passes when video scraping is on. Empty or unparseable
// URLs never pass.
func (f Filters) includeMedia(raw string) bool {
	if strings.TrimSpace(raw) == "" {
		return false
	}
	if _, err := url.ParseRequestURI(raw); err != nil {
		return false
	}
	if IsImageURL(raw) {
		return f.Images
	}
	return f.Videos
}
