// Package mock provides an in-memory drive.Uploader for tests.
package mock

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/reddrive/reddrive/internal/drive"
)

// FolderCall records one EnsureFolder invocation.
type FolderCall struct {
	Name     string
	ParentID string
}

// UploadCall records one Upload invocation.
type UploadCall struct {
	Filename string
	FolderID string
	MimeType string
	Size     int
}

// Uploader is a drive.Uploader that records calls and can be told to fail.
type Uploader struct {
	mu sync.Mutex

	// FolderErr fails every EnsureFolder call when set.
	FolderErr error
	// UploadErrFor fails Upload for any filename containing the key.
	UploadErrFor map[string]error

	Folders []FolderCall
	Uploads []UploadCall

	nextID int
}

var _ drive.Uploader = (*Uploader)(nil)

func (u *Uploader) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	if u.FolderErr != nil {
		return "", u.FolderErr
	}
	u.Folders = append(u.Folders, FolderCall{Name: name, ParentID: parentID})
	u.nextID++
	return fmt.Sprintf("folder-%d", u.nextID), nil
}

func (u *Uploader) Upload(ctx context.Context, data []byte, filename, folderID, mimeType string) (*drive.File, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	for substr, err := range u.UploadErrFor {
		if err != nil && substr != "" && strings.Contains(filename, substr) {
			return nil, err
		}
	}
	u.Uploads = append(u.Uploads, UploadCall{
		Filename: filename,
		FolderID: folderID,
		MimeType: mimeType,
		Size:     len(data),
	})
	u.nextID++
	id := fmt.Sprintf("file-%d", u.nextID)
	return &drive.File{
		ID:   id,
		Name: filename,
		URL:  fmt.Sprintf("https://drive.google.com/file/d/%s/view", id),
	}, nil
}
