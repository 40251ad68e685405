// Package drive defines the storage contract the upload pipeline talks to.
// The real Google Drive client lives in impl; tests use mock.
package drive

import (
	"context"
	"errors"
	"fmt"
	"regexp"
)

// ErrInvalidFolderLink marks a folder link that carries no /folders/<id>
// segment. Callers treat it as a caller error, not a server fault.
var ErrInvalidFolderLink = errors.New("invalid google drive folder link")

// File describes a stored file.
type File struct {
	ID   string
	Name string
	URL  string
}

// Uploader is the destination-side collaborator: find-or-create a folder and
// store bytes under a name. Both operations must be safe to call repeatedly
// with the same arguments.
type Uploader interface {
	EnsureFolder(ctx context.Context, name, parentID string) (string, error)
	Upload(ctx context.Context, data []byte, filename, folderID, mimeType string) (*File, error)
}

var folderLinkPattern = regexp.MustCompile(`/folders/([A-Za-z0-9_-]+)`)

// FolderIDFromLink extracts the folder ID out of a shared Drive folder link.
// A link without a /folders/<id> segment is a fatal input error for the run.
func FolderIDFromLink(link string) (string, error) {
	match := folderLinkPattern.FindStringSubmatch(link)
	if match == nil {
		return "", fmt.Errorf("%w: %q", ErrInvalidFolderLink, link)
	}
	return match[1], nil
}
