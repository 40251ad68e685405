package reddit

import "testing"

func TestNormalizeListingURL(t *testing.T) {
	cases := []struct {
		name string
		in   string
		want string
	}{
		{
			name: "plain subreddit",
			in:   "https://reddit.com/r/cats",
			want: "https://www.reddit.com/r/cats.json?limit=100",
		},
		{
			name: "top listing forces daily sort",
			in:   "https://reddit.com/r/cats/top/?t=week",
			want: "https://www.reddit.com/r/cats/top.json?t=day&limit=100",
		},
		{
			name: "json suffix stripped",
			in:   "https://www.reddit.com/r/golang.json",
			want: "https://www.reddit.com/r/golang.json?limit=100",
		},
		{
			name: "top json suffix stripped",
			in:   "https://www.reddit.com/r/golang/top.json",
			want: "https://www.reddit.com/r/golang/top.json?t=day&limit=100",
		},
		{
			name: "trailing slash",
			in:   "https://reddit.com/r/pics/",
			want: "https://www.reddit.com/r/pics.json?limit=100",
		},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, ok := NormalizeListingURL(tc.in)
			if !ok {
				t.Fatalf("NormalizeListingURL(%q) not ok", tc.in)
			}
			if got != tc.want {
				t.Fatalf("NormalizeListingURL(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestNormalizeListingURL_NoSubreddit(t *testing.T) {
	for _, in := range []string{
		"https://reddit.com/notasubreddit",
		"https://reddit.com/",
		"https://reddit.com/user/someone",
		"://bad url",
	} {
		if got, ok := NormalizeListingURL(in); ok {
			t.Fatalf("NormalizeListingURL(%q) = %q, want not ok", in, got)
		}
	}
}

func TestNormalizeListingURL_TopMustBeASegment(t *testing.T) {
	got, ok := NormalizeListingURL("https://reddit.com/r/topgear")
	if !ok {
		t.Fatalf("expected ok")
	}
	want := "https://www.reddit.com/r/topgear.json?limit=100"
	if got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}
