package drive

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"sync"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

// UploadResult summarises a bulk folder upload.
type UploadResult struct {
	RootFolderID string
	Folders      int
	Files        int
	Failed       int
	Bytes        int64
}

// UploadOptions controls a bulk folder upload.
type UploadOptions struct {
	// ParentID is the Drive folder to upload into; empty means root.
	ParentID string
	// Recursive includes subdirectories.
	Recursive bool
	// Workers is the number of parallel file uploads; 0 means NumCPU.
	Workers int
	// Progress, when set, is called after each file upload attempt.
	Progress func(done, total int)
}

type uploadItem struct {
	localPath string
	parentID  string
	size      int64
}

// UploadFolder mirrors a local directory into Drive. The folder tree is
// created sequentially so parents exist before children, then files are
// uploaded by a worker pool. Individual file failures are counted, not
// fatal.
func (c *Client) UploadFolder(ctx context.Context, localPath string, opts UploadOptions) (*UploadResult, error) {
	root, err := filepath.Abs(localPath)
	if err != nil {
		return nil, fmt.Errorf("resolve %s: %w", localPath, err)
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("stat %s: %w", root, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory: %w", root, domain.ErrInvalidInput)
	}

	dirs, files, err := collectUploadItems(root, opts.Recursive)
	if err != nil {
		return nil, err
	}

	rootFolder, err := c.CreateFolder(ctx, filepath.Base(root), opts.ParentID)
	if err != nil {
		return nil, err
	}

	result := &UploadResult{RootFolderID: rootFolder.Id, Folders: 1}

	// Local dir path -> Drive folder ID. Dirs are sorted by depth so a
	// parent is always mapped before its children.
	folderIDs := map[string]string{root: rootFolder.Id}
	for _, dir := range dirs {
		parentID := folderIDs[filepath.Dir(dir)]
		folder, err := c.ensureFolder(ctx, filepath.Base(dir), parentID)
		if err != nil {
			return nil, err
		}
		folderIDs[dir] = folder.Id
		result.Folders++
	}

	items := make([]uploadItem, 0, len(files))
	for _, file := range files {
		items = append(items, uploadItem{
			localPath: file.path,
			parentID:  folderIDs[filepath.Dir(file.path)],
			size:      file.size,
		})
	}

	c.uploadAll(ctx, items, opts, result)

	logger.Info("drive: uploaded %d files (%d failed) in %d folders, %d bytes",
		result.Files, result.Failed, result.Folders, result.Bytes)
	return result, nil
}

// uploadAll runs the file uploads through a bounded worker pool.
func (c *Client) uploadAll(ctx context.Context, items []uploadItem, opts UploadOptions, result *UploadResult) {
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}
	if workers > len(items) {
		workers = len(items)
	}
	if workers == 0 {
		return
	}

	jobs := make(chan uploadItem)
	var mu sync.Mutex
	var wg sync.WaitGroup
	done := 0

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for item := range jobs {
				_, err := c.UploadFile(ctx, item.localPath, item.parentID, "")

				mu.Lock()
				if err != nil {
					logger.Warn("drive: upload failed for %s: %v", item.localPath, err)
					result.Failed++
				} else {
					result.Files++
					result.Bytes += item.size
				}
				done++
				if opts.Progress != nil {
					opts.Progress(done, len(items))
				}
				mu.Unlock()
			}
		}()
	}

	for _, item := range items {
		select {
		case <-ctx.Done():
			close(jobs)
			wg.Wait()
			return
		case jobs <- item:
		}
	}
	close(jobs)
	wg.Wait()
}

type localFile struct {
	path string
	size int64
}

// collectUploadItems walks the tree under root, returning directories
// in parent-first order and the regular files to upload. The root
// itself is not included. WalkDir's lexical order guarantees a parent
// directory is seen before anything inside it.
func collectUploadItems(root string, recursive bool) ([]string, []localFile, error) {
	var dirs []string
	var files []localFile

	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			if !recursive {
				return filepath.SkipDir
			}
			dirs = append(dirs, path)
			return nil
		}
		if !d.Type().IsRegular() {
			return nil
		}

		info, err := d.Info()
		if err != nil {
			return err
		}
		files = append(files, localFile{path: path, size: info.Size()})
		return nil
	})
	if err != nil {
		return nil, nil, fmt.Errorf("walk %s: %w", root, err)
	}
	return dirs, files, nil
}
