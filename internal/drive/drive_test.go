package drive

import (
	"errors"
	"testing"
)

func TestFolderIDFromLink(t *testing.T) {
	cases := []struct {
		in   string
		want string
	}{
		{"https://drive.google.com/drive/folders/1A2b3C-xyz", "1A2b3C-xyz"},
		{"https://drive.google.com/drive/folders/1A2b3C-xyz?usp=sharing", "1A2b3C-xyz"},
		{"https://drive.google.com/drive/u/0/folders/abc_DEF-123/", "abc_DEF-123"},
	}
	for _, tc := range cases {
		got, err := FolderIDFromLink(tc.in)
		if err != nil {
			t.Fatalf("FolderIDFromLink(%q) error: %v", tc.in, err)
		}
		if got != tc.want {
			t.Fatalf("FolderIDFromLink(%q) = %q, want %q", tc.in, got, tc.want)
		}
	}
}

func TestFolderIDFromLink_Invalid(t *testing.T) {
	for _, in := range []string{
		"https://drive.google.com/file/d/abc/view",
		"https://example.com/",
		"",
	} {
		_, err := FolderIDFromLink(in)
		if err == nil {
			t.Fatalf("FolderIDFromLink(%q) expected error", in)
		}
		if !errors.Is(err, ErrInvalidFolderLink) {
			t.Fatalf("FolderIDFromLink(%q) error %v should wrap ErrInvalidFolderLink", in, err)
		}
	}
}
