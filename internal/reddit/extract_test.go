package reddit

import (
	"encoding/json"
	"io"
	"log/slog"
	"reflect"
	"testing"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func TestIsImageURL(t *testing.T) {
	cases := []struct {
		in   string
		want bool
	}{
		{"https://i.redd.it/abc", true},
		{"https://i.redd.it/abc.jpg", true},
		{"https://example.com/photo.PNG", true},
		{"https://example.com/photo.jpeg", true},
		{"https://example.com/anim.gif", true},
		{"https://example.com/pic.webp", true},
		{"https://v.redd.it/video.mp4", false},
		{"https://v.redd.it/DASH_720.mp4?source=fallback", false},
		{"https://example.com/page", false},
		{"", false},
	}
	for _, tc := range cases {
		if got := IsImageURL(tc.in); got != tc.want {
			t.Fatalf("IsImageURL(%q) = %v, want %v", tc.in, got, tc.want)
		}
	}
}

func TestExtractMediaURLs_GalleryOrderAndDedupe(t *testing.T) {
	post := &rawPost{
		Title:     "gallery",
		IsGallery: true,
		MediaMetadata: json.RawMessage(`{
			"b": {"s": {"u": "https://preview.redd.it/two.jpg?width=640&amp;s=sig"}},
			"a": {"s": {"u": "https://preview.redd.it/one.jpg?width=640"}},
			"c": {"s": {"u": "https://preview.redd.it/two.jpg?width=1280"}}
		}`),
	}
	got := extractMediaURLs(discardLogger(), post, Filters{Images: true})
	want := []string{"https://i.redd.it/two.jpg", "https://i.redd.it/one.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("gallery urls = %v, want %v", got, want)
	}
}

func TestExtractMediaURLs_GalleryWinsOverDirectURL(t *testing.T) {
	post := &rawPost{
		Title:         "gallery with url",
		URL:           "https://i.redd.it/direct.jpg",
		IsGallery:     true,
		MediaMetadata: json.RawMessage(`{"a": {"s": {"u": "https://i.redd.it/from-gallery.jpg"}}}`),
	}
	got := extractMediaURLs(discardLogger(), post, Filters{Images: true})
	want := []string{"https://i.redd.it/from-gallery.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("urls = %v, want %v", got, want)
	}
}

func TestExtractMediaURLs_DirectImage(t *testing.T) {
	post := &rawPost{Title: "pic", URL: "https://i.redd.it/direct.jpg"}
	got := extractMediaURLs(discardLogger(), post, Filters{Images: true})
	want := []string{"https://i.redd.it/direct.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("urls = %v, want %v", got, want)
	}
}

func TestExtractMediaURLs_VideoRequiresVideoFilter(t *testing.T) {
	post := &rawPost{Title: "vid", IsVideo: true}
	post.Media.RedditVideo.FallbackURL = "https://v.redd.it/xyz/DASH_720.mp4"

	if got := extractMediaURLs(discardLogger(), post, Filters{Images: true}); got != nil {
		t.Fatalf("video-only post with images filter should yield nothing, got %v", got)
	}

	got := extractMediaURLs(discardLogger(), post, Filters{Videos: true})
	want := []string{"https://v.redd.it/xyz/DASH_720.mp4"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("urls = %v, want %v", got, want)
	}
}

func TestExtractMediaURLs_PreviewFallback(t *testing.T) {
	var post rawPost
	raw := `{
		"title": "external",
		"url": "https://example.com/article",
		"preview": {"images": [{"source": {"url": "https://external-preview.redd.it/pic.jpg?auto=webp&amp;s=sig"}}]}
	}`
	if err := json.Unmarshal([]byte(raw), &post); err != nil {
		t.Fatalf("unmarshal post: %v", err)
	}

	got := extractMediaURLs(discardLogger(), &post, Filters{Images: true})
	want := []string{"https://external-preview.redd.it/pic.jpg"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("urls = %v, want %v", got, want)
	}
}

func TestExtractMediaURLs_NoMedia(t *testing.T) {
	post := &rawPost{Title: "text post", URL: "https://example.com/article"}
	if got := extractMediaURLs(discardLogger(), post, Filters{Images: true, Videos: true}); got != nil {
		t.Fatalf("expected no media, got %v", got)
	}
}

func TestExtractMediaURLs_MalformedGalleryIsSkippedNotFatal(t *testing.T) {
	post := &rawPost{
		Title:         "broken gallery",
		IsGallery:     true,
		MediaMetadata: json.RawMessage(`["not", "an", "object"]`),
	}
	if got := extractMediaURLs(discardLogger(), post, Filters{Images: true}); got != nil {
		t.Fatalf("expected empty result for malformed gallery, got %v", got)
	}
}

func TestFiltersMatchesKeywords(t *testing.T) {
	f := Filters{Keywords: []string{" Cats ", "dogs"}}
	if !f.matchesKeywords("Funny CATS compilation") {
		t.Fatalf("expected case-insensitive keyword match")
	}
	if f.matchesKeywords("birds only") {
		t.Fatalf("expected no match")
	}

	empty := Filters{}
	if !empty.matchesKeywords("anything at all") {
		t.Fatalf("empty keywords must match everything")
	}

	blanks := Filters{Keywords: []string{"  ", ""}}
	if !blanks.matchesKeywords("anything at all") {
		t.Fatalf("blank keywords must match everything")
	}
}
