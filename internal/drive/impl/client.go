package impl

import (
	"bytes"
	"context"
	"fmt"
	"strings"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/google"
	googledrive "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/reddrive/reddrive/internal/drive"
)

const folderMimeType = "application/vnd.google-apps.folder"

// Client implements drive.Uploader against the Google Drive v3 API.
type Client struct {
	service *googledrive.Service
}

var _ drive.Uploader = (*Client)(nil)

// NewClient builds a client from an already-configured token source.
func NewClient(ctx context.Context, tokenSource oauth2.TokenSource) (*Client, error) {
	service, err := googledrive.NewService(ctx, option.WithTokenSource(tokenSource))
	if err != nil {
		return nil, fmt.Errorf("create drive service: %w", err)
	}
	return &Client{service: service}, nil
}

// NewClientFromRefreshToken builds a client from OAuth app credentials and a
// long-lived refresh token. The interactive consent flow that produced the
// refresh token is outside this program.
func NewClientFromRefreshToken(ctx context.Context, clientID, clientSecret, refreshToken string) (*Client, error) {
	if clientID == "" || clientSecret == "" || refreshToken == "" {
		return nil, fmt.Errorf("drive credentials are incomplete")
	}
	conf := &oauth2.Config{
		ClientID:     clientID,
		ClientSecret: clientSecret,
		Endpoint:     google.Endpoint,
		Scopes:       []string{googledrive.DriveFileScope},
	}
	tokenSource := conf.TokenSource(ctx, &oauth2.Token{RefreshToken: refreshToken})
	return NewClient(ctx, tokenSource)
}

// EnsureFolder returns the ID of the folder with the given name under
// parentID, creating it when absent.
func (c *Client) EnsureFolder(ctx context.Context, name, parentID string) (string, error) {
	query := fmt.Sprintf("mimeType='%s' and name='%s' and trashed=false", folderMimeType, escapeQueryValue(name))
	if parentID != "" {
		query += fmt.Sprintf(" and '%s' in parents", parentID)
	}

	list, err := c.service.Files.List().Q(query).Fields("files(id, name)").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("list drive folders: %w", err)
	}
	if len(list.Files) > 0 {
		return list.Files[0].Id, nil
	}

	meta := &googledrive.File{Name: name, MimeType: folderMimeType}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}
	created, err := c.service.Files.Create(meta).Fields("id").Context(ctx).Do()
	if err != nil {
		return "", fmt.Errorf("create drive folder %q: %w", name, err)
	}
	return created.Id, nil
}

// Upload stores data as filename inside folderID and returns the file's ID
// and viewer URL.
func (c *Client) Upload(ctx context.Context, data []byte, filename, folderID, mimeType string) (*drive.File, error) {
	if mimeType == "" {
		mimeType = "application/octet-stream"
	}
	meta := &googledrive.File{
		Name:    filename,
		Parents: []string{folderID},
	}
	created, err := c.service.Files.Create(meta).
		Media(bytes.NewReader(data), googleapi.ContentType(mimeType)).
		Fields("id, name").
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %q to drive: %w", filename, err)
	}
	return &drive.File{
		ID:   created.Id,
		Name: created.Name,
		URL:  fmt.Sprintf("https://drive.google.com/file/d/%s/view", created.Id),
	}, nil
}

// escapeQueryValue escapes a string literal embedded in a Drive search query.
func escapeQueryValue(value string) string {
	value = strings.ReplaceAll(value, `\`, `\\`)
	return strings.ReplaceAll(value, `'`, `\'`)
}
