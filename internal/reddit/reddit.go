package reddit

import (
	"context"
	"encoding/json"
	"strings"
)

// Filters restricts which posts and which media URLs are kept from a listing.
// Zero MinimumUpvotes means no upvote floor; an empty Keywords slice matches
// every title.
type Filters struct {
	MinimumUpvotes int
	Keywords       []string
	Images         bool
	Videos         bool
}

// Post is a listing entry that passed every filter and produced at least one
// media URL. MediaURLs is deduplicated and keeps first-seen order.
type Post struct {
	Title     string
	Author    string
	Upvotes   int
	SourceURL string
	Permalink string
	MediaURLs []string
}

// Scraper fetches a subreddit listing and turns it into filtered posts.
// Implementations never fail: any scrape-level problem (bad URL, HTTP error,
// decode error) is logged and yields an empty slice, which callers surface as
// "no content found".
type Scraper interface {
	Scrape(ctx context.Context, rawURL string, filters Filters) []Post
}

// matchesKeywords reports whether the title contains at least one keyword,
// case-insensitively. Blank keywords are ignored; no usable keywords means
// every title matches.
func (f Filters) matchesKeywords(title string) bool {
	usable := 0
	lowered := strings.ToLower(title)
	for _, keyword := range f.Keywords {
		keyword = strings.TrimSpace(keyword)
		if keyword == "" {
			continue
		}
		usable++
		if strings.Contains(lowered, strings.ToLower(keyword)) {
			return true
		}
	}
	return usable == 0
}

// listing mirrors the subset of Reddit's listing response the scraper reads.
// Every field is optional on the wire; absence decodes to a zero value.
type listing struct {
	Data struct {
		Children []struct {
			Data rawPost `json:"data"`
		} `json:"children"`
	} `json:"data"`
}

type rawPost struct {
	Title     string `json:"title"`
	Author    string `json:"author"`
	Ups       int    `json:"ups"`
	URL       string `json:"url"`
	Permalink string `json:"permalink"`
	IsGallery bool   `json:"is_gallery"`
	// media_metadata is a JSON object keyed by media ID. Kept raw so the
	// extractor can walk entries in document order; Go maps would not.
	MediaMetadata json.RawMessage `json:"media_metadata"`
	IsVideo       bool            `json:"is_video"`
	Media         struct {
		RedditVideo struct {
			FallbackURL string `json:"fallback_url"`
		} `json:"reddit_video"`
	} `json:"media"`
	Preview struct {
		Images []struct {
			Source struct {
				URL string `json:"url"`
			} `json:"source"`
		} `json:"images"`
	} `json:"preview"`
}
