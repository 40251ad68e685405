package media

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"
)

func newTestFetcher() *Fetcher {
	return NewFetcher(5*time.Second, 3, time.Millisecond)
}

func TestFetcher_Fetch(t *testing.T) {
	payload := []byte("fake image bytes")
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "image/jpeg")
		w.Write(payload)
	}))
	defer server.Close()

	result, err := newTestFetcher().Fetch(context.Background(), server.URL+"/media/cat.jpg")
	if err != nil {
		t.Fatalf("fetch failed: %v", err)
	}
	if !bytes.Equal(result.Data, payload) {
		t.Fatalf("data = %q, want %q", result.Data, payload)
	}
	if result.ContentType != "image/jpeg" {
		t.Fatalf("content type = %q", result.ContentType)
	}
	if result.Extension != "jpg" {
		t.Fatalf("extension = %q, want jpg", result.Extension)
	}
}

func TestFetcher_Fetch_RetriesThenSucceeds(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		w.Header().Set("Content-Type", "video/mp4")
		w.Write([]byte("video"))
	}))
	defer server.Close()

	result, err := newTestFetcher().Fetch(context.Background(), server.URL+"/clip")
	if err != nil {
		t.Fatalf("fetch failed after retries: %v", err)
	}
	if calls != 3 {
		t.Fatalf("got %d calls, want 3", calls)
	}
	if result.Extension != "mp4" {
		t.Fatalf("extension = %q, want mp4", result.Extension)
	}
}

func TestFetcher_Fetch_ExhaustsRetries(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	if _, err := newTestFetcher().Fetch(context.Background(), server.URL+"/gone.jpg"); err == nil {
		t.Fatalf("expected error after exhausting retries")
	}
	if calls != 3 {
		t.Fatalf("got %d calls, want 3 attempts total", calls)
	}
}

func TestDeriveExtension(t *testing.T) {
	pngHeader := []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0, 0, 0, 0}

	cases := []struct {
		name        string
		url         string
		contentType string
		data        []byte
		want        string
	}{
		{"from url path", "https://i.redd.it/abc.GIF", "", nil, "gif"},
		{"url beats content type", "https://i.redd.it/abc.png", "image/jpeg", nil, "png"},
		{"from content type", "https://i.redd.it/abc", "image/jpeg", nil, "jpg"},
		{"content type with params", "https://i.redd.it/abc", "video/webm; codecs=vp9", nil, "webm"},
		{"query string ignored", "https://v.redd.it/DASH_720.mp4?source=fallback", "", nil, "mp4"},
		{"sniffed from bytes", "https://i.redd.it/abc", "application/octet-stream", pngHeader, "png"},
		{"default", "https://i.redd.it/abc", "", nil, "jpg"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := deriveExtension(tc.url, tc.contentType, tc.data); got != tc.want {
				t.Fatalf("deriveExtension(%q, %q) = %q, want %q", tc.url, tc.contentType, got, tc.want)
			}
		})
	}
}
