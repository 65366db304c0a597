// Package drive uploads files and folders to Google Drive.
package drive

import (
	"context"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"

	driveapi "google.golang.org/api/drive/v3"
	"google.golang.org/api/googleapi"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google"
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

// MimeTypeFolder marks Drive folders.
const MimeTypeFolder = "application/vnd.google-apps.folder"

// workspaceMimePrefix marks Google Workspace documents (Docs, Sheets,
// Slides), which have no binary content to download directly.
const workspaceMimePrefix = "application/vnd.google-apps."

const (
	listPageSize = 100
	fileFields   = "id, name, mimeType, size, webViewLink, parents, modifiedTime"
)

// Client wraps the Google Drive API.
type Client struct {
	service *driveapi.Service
	limiter *google.RateLimiter
}

// NewClient creates a Drive client.
func NewClient(service *driveapi.Service) *Client {
	return &Client{
		service: service,
		limiter: google.NewRateLimiter(google.ServiceDrive),
	}
}

// ListFiles returns files matching a Drive query, paginated up to
// maxResults. An empty query lists everything not trashed.
func (c *Client) ListFiles(ctx context.Context, query string, maxResults int64) ([]*driveapi.File, error) {
	if query == "" {
		query = "trashed=false"
	}

	var files []*driveapi.File
	pageToken := ""
	for {
		if err := c.limiter.Wait(ctx); err != nil {
			return nil, err
		}

		call := c.service.Files.List().
			Q(query).
			PageSize(listPageSize).
			Fields(googleapi.Field("nextPageToken, files(" + fileFields + ")")).
			Context(ctx)
		if pageToken != "" {
			call = call.PageToken(pageToken)
		}

		resp, err := call.Do()
		if err != nil {
			return nil, fmt.Errorf("list files: %w", c.limiter.WrapError(err))
		}

		files = append(files, resp.Files...)
		if maxResults > 0 && int64(len(files)) >= maxResults {
			return files[:maxResults], nil
		}
		if resp.NextPageToken == "" {
			return files, nil
		}
		pageToken = resp.NextPageToken
	}
}

// FindFolder looks up a folder by exact name under a parent. An empty
// parentID means the My Drive root. Returns ErrNotFound when no folder
// matches.
func (c *Client) FindFolder(ctx context.Context, name, parentID string) (*driveapi.File, error) {
	parent := parentID
	if parent == "" {
		parent = "root"
	}
	query := fmt.Sprintf("name='%s' and mimeType='%s' and trashed=false and '%s' in parents",
		escapeQuery(name), MimeTypeFolder, parent)

	matches, err := c.ListFiles(ctx, query, 1)
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("folder %q: %w", name, domain.ErrNotFound)
	}
	return matches[0], nil
}

// CreateFolder creates a folder under a parent. Fails with
// ErrInvalidInput when a folder with the same name already exists
// there, matching how duplicates confuse later lookups.
func (c *Client) CreateFolder(ctx context.Context, name, parentID string) (*driveapi.File, error) {
	if name == "" {
		return nil, fmt.Errorf("folder name required: %w", domain.ErrInvalidInput)
	}

	if existing, err := c.FindFolder(ctx, name, parentID); err == nil {
		return nil, fmt.Errorf("folder %q already exists (id %s): %w",
			name, existing.Id, domain.ErrInvalidInput)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	meta := &driveapi.File{Name: name, MimeType: MimeTypeFolder}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	folder, err := c.service.Files.Create(meta).
		Fields(googleapi.Field(fileFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, c.limiter.WrapError(err))
	}

	logger.Info("drive: created folder %s (%s)", folder.Name, folder.Id)
	return folder, nil
}

// ensureFolder creates a folder without the duplicate-name guard, for
// bulk uploads where the target tree is known to be fresh.
func (c *Client) ensureFolder(ctx context.Context, name, parentID string) (*driveapi.File, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	meta := &driveapi.File{Name: name, MimeType: MimeTypeFolder}
	if parentID != "" {
		meta.Parents = []string{parentID}
	}

	folder, err := c.service.Files.Create(meta).
		Fields(googleapi.Field("id, name")).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("create folder %q: %w", name, c.limiter.WrapError(err))
	}
	return folder, nil
}

// UploadFile uploads a local file. An empty name keeps the local
// filename; an empty folderID targets the My Drive root.
func (c *Client) UploadFile(ctx context.Context, localPath, folderID, name string) (*driveapi.File, error) {
	f, err := os.Open(localPath)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", localPath, err)
	}
	defer f.Close()

	if name == "" {
		name = filepath.Base(localPath)
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	meta := &driveapi.File{Name: name}
	if folderID != "" {
		meta.Parents = []string{folderID}
	}

	file, err := c.service.Files.Create(meta).
		Media(f, googleapi.ContentType(detectMIMEType(localPath))).
		Fields(googleapi.Field(fileFields)).
		Context(ctx).
		Do()
	if err != nil {
		return nil, fmt.Errorf("upload %s: %w", localPath, c.limiter.WrapError(err))
	}

	logger.Debug("drive: uploaded %s as %s", localPath, file.Id)
	return file, nil
}

// DownloadFile downloads a binary file to outputPath and returns the
// number of bytes written. An empty outputPath uses the Drive filename
// in the current directory. Google Workspace documents are rejected:
// they have no binary content, only exports.
func (c *Client) DownloadFile(ctx context.Context, fileID, outputPath string) (string, int64, error) {
	if fileID == "" {
		return "", 0, fmt.Errorf("file id required: %w", domain.ErrInvalidInput)
	}
	if err := c.limiter.Wait(ctx); err != nil {
		return "", 0, err
	}

	meta, err := c.service.Files.Get(fileID).
		Fields("id, name, mimeType").
		Context(ctx).
		Do()
	if err != nil {
		return "", 0, fmt.Errorf("get file %s: %w", fileID, c.limiter.WrapError(err))
	}
	if strings.HasPrefix(meta.MimeType, workspaceMimePrefix) {
		return "", 0, fmt.Errorf("%s is a Google Workspace document (%s) and cannot be downloaded directly: %w",
			meta.Name, meta.MimeType, domain.ErrInvalidInput)
	}

	if outputPath == "" {
		outputPath = meta.Name
	}

	if err := c.limiter.Wait(ctx); err != nil {
		return "", 0, err
	}
	resp, err := c.service.Files.Get(fileID).Context(ctx).Download()
	if err != nil {
		return "", 0, fmt.Errorf("download %s: %w", fileID, c.limiter.WrapError(err))
	}
	defer resp.Body.Close()

	out, err := os.Create(outputPath)
	if err != nil {
		return "", 0, fmt.Errorf("create %s: %w", outputPath, err)
	}
	written, err := io.Copy(out, resp.Body)
	if cerr := out.Close(); err == nil {
		err = cerr
	}
	if err != nil {
		os.Remove(outputPath)
		return "", 0, fmt.Errorf("write %s: %w", outputPath, err)
	}

	logger.Info("drive: downloaded %s to %s (%d bytes)", meta.Name, outputPath, written)
	return outputPath, written, nil
}

// detectMIMEType guesses a MIME type from the file extension.
func detectMIMEType(path string) string {
	if mt := mime.TypeByExtension(filepath.Ext(path)); mt != "" {
		return mt
	}
	return "application/octet-stream"
}

// escapeQuery escapes single quotes in Drive query string literals.
func escapeQuery(s string) string {
	return strings.ReplaceAll(s, "'", `\'`)
}
