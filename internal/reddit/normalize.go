package reddit

import (
	"fmt"
	"net/url"
	"regexp"
	"strings"
)

// listingBase is where normalized listing URLs point. The scraper can rewrite
// it for tests.
const listingBase = "https://www.reddit.com"

// listingLimit is the fixed page size for a listing request. There is no
// pagination; a single page of up to 100 posts is all a run ever sees.
const listingLimit = 100

var subredditPattern = regexp.MustCompile(`/r/([^/]+)`)

// NormalizeListingURL turns a user-supplied subreddit URL into the canonical
// listing API URL. The second return value is false when no subreddit name
// could be found in the path, which callers treat as "nothing to scrape"
// rather than an error.
//
// A path containing a "top" segment becomes the daily top listing; anything
// else becomes the default (hot) listing.
func NormalizeListingURL(raw string) (string, bool) {
	parsed, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return "", false
	}

	path := strings.TrimSuffix(parsed.Path, ".json")

	match := subredditPattern.FindStringSubmatch(path)
	if match == nil || match[1] == "" {
		return "", false
	}
	subreddit := match[1]

	if hasPathSegment(path, "top") {
		// Sort window is always forced to a day, whatever the input asked for.
		return fmt.Sprintf("%s/r/%s/top.json?t=day&limit=%d", listingBase, subreddit, listingLimit), true
	}
	return fmt.Sprintf("%s/r/%s.json?limit=%d", listingBase, subreddit, listingLimit), true
}

func hasPathSegment(path, want string) bool {
	for _, segment := range strings.Split(path, "/") {
		if segment == want {
			return true
		}
	}
	return false
}
