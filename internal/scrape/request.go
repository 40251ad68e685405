package scrape

import (
	"fmt"
	"net/url"
	"strings"
)

// DefaultMinimumUpvotes is applied when a request leaves the floor unset.
const DefaultMinimumUpvotes = 50

// Request describes one scrape-and-upload run.
type Request struct {
	RedditURL       string
	MinimumUpvotes  int
	Keywords        []string
	DriveFolderLink string
	ScrapeImages    bool
	ScrapeVideos    bool
	CreateFolders   bool
}

// Validate checks required fields and applies the upvote default. It runs
// before any network work so malformed input fails the run immediately.
func (r *Request) Validate() error {
	if strings.TrimSpace(r.RedditURL) == "" {
		return fmt.Errorf("reddit_url is required")
	}
	if _, err := url.ParseRequestURI(r.RedditURL); err != nil {
		return fmt.Errorf("reddit_url is not a valid URL: %w", err)
	}
	if strings.TrimSpace(r.DriveFolderLink) == "" {
		return fmt.Errorf("drive_folder_link is required")
	}
	if _, err := url.ParseRequestURI(r.DriveFolderLink); err != nil {
		return fmt.Errorf("drive_folder_link is not a valid URL: %w", err)
	}
	if r.MinimumUpvotes == 0 {
		r.MinimumUpvotes = DefaultMinimumUpvotes
	}
	if r.MinimumUpvotes < 1 {
		return fmt.Errorf("minimum_upvotes must be at least 1")
	}
	return nil
}

// ParseKeywords splits a comma-separated keyword string, trimming whitespace
// and dropping empty entries.
func ParseKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	var keywords []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			keywords = append(keywords, part)
		}
	}
	return keywords
}
