package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/drive"
	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
)

var (
	driveQueryFlag      string
	driveMaxResultsFlag int64
	driveFolderFlag     string
	driveOutputFlag     string
	driveRecursiveFlag  bool
	driveWorkersFlag    int
)

var driveCmd = &cobra.Command{
	Use:   "drive",
	Short: "List and upload Google Drive files",
}

var driveListCmd = &cobra.Command{
	Use:   "list",
	Short: "List Drive files",
	Long: `Lists Drive files. The query uses the Drive search syntax, e.g.
"name contains 'report'" or "mimeType='application/pdf'". Without a
query the most recent non-trashed files are listed.`,
	RunE: runDriveList,
}

var driveDownloadCmd = &cobra.Command{
	Use:   "download <file-id>",
	Short: "Download a Drive file",
	Long: `Downloads a binary Drive file. Google Workspace documents (Docs,
Sheets, Slides) have no binary content and are rejected.`,
	Args: cobra.ExactArgs(1),
	RunE: runDriveDownload,
}

var driveUploadCmd = &cobra.Command{
	Use:   "upload <path>",
	Short: "Upload a file or directory to Drive",
	Long: `Uploads a local file or directory. Directories become a Drive folder
with the same name; with --recursive the whole tree is mirrored and
files are uploaded in parallel.`,
	Args: cobra.ExactArgs(1),
	RunE: runDriveUpload,
}

func init() {
	driveListCmd.Flags().StringVarP(&driveQueryFlag, "query", "q", "", "Drive search query")
	driveListCmd.Flags().Int64VarP(&driveMaxResultsFlag, "max-results", "n", 50, "Maximum number of files")

	driveDownloadCmd.Flags().StringVarP(&driveOutputFlag, "output", "o", "", "Local path (default: the Drive filename)")

	driveUploadCmd.Flags().StringVar(&driveFolderFlag, "folder", "", "Target folder name (created if missing)")
	driveUploadCmd.Flags().BoolVarP(&driveRecursiveFlag, "recursive", "r", false, "Include subdirectories")
	driveUploadCmd.Flags().IntVar(&driveWorkersFlag, "workers", 0, "Parallel uploads (0 = number of CPUs)")

	driveCmd.AddCommand(driveListCmd)
	driveCmd.AddCommand(driveDownloadCmd)
	driveCmd.AddCommand(driveUploadCmd)
	rootCmd.AddCommand(driveCmd)
}

func runDriveList(cmd *cobra.Command, _ []string) error {
	if driveAPI == nil {
		return errors.New("drive client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	files, err := driveAPI.ListFiles(ctx, driveQueryFlag, driveMaxResultsFlag)
	if err != nil {
		return err
	}
	if len(files) == 0 {
		cmd.Println("No files found.")
		return nil
	}

	for _, f := range files {
		kind := "file"
		if f.MimeType == drive.MimeTypeFolder {
			kind = "folder"
		}
		cmd.Printf("%-6s %s\n", kind, f.Name)
		cmd.Printf("       id: %s", f.Id)
		if f.Size > 0 {
			cmd.Printf("  size: %.1f KB", float64(f.Size)/1024)
		}
		cmd.Println()
	}
	cmd.Printf("\n%d file(s)\n", len(files))
	return nil
}

func runDriveDownload(cmd *cobra.Command, args []string) error {
	if driveAPI == nil {
		return errors.New("drive client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	path, written, err := driveAPI.DownloadFile(ctx, args[0], driveOutputFlag)
	if err != nil {
		return err
	}
	cmd.Printf("Downloaded %s (%.1f KB)\n", path, float64(written)/1024)
	return nil
}

func runDriveUpload(cmd *cobra.Command, args []string) error {
	if driveAPI == nil {
		return errors.New("drive client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	parentID := ""
	if driveFolderFlag != "" {
		folder, err := driveAPI.FindFolder(ctx, driveFolderFlag, "")
		switch {
		case err == nil:
			parentID = folder.Id
		case errors.Is(err, domain.ErrNotFound):
			created, err := driveAPI.CreateFolder(ctx, driveFolderFlag, "")
			if err != nil {
				return err
			}
			parentID = created.Id
		default:
			return err
		}
	}

	info, err := os.Stat(args[0])
	if err != nil {
		return fmt.Errorf("stat %s: %w", args[0], err)
	}

	if !info.IsDir() {
		file, err := driveAPI.UploadFile(ctx, args[0], parentID, "")
		if err != nil {
			return err
		}
		cmd.Printf("Uploaded %s (id %s)\n", file.Name, file.Id)
		return nil
	}

	result, err := driveAPI.UploadFolder(ctx, args[0], drive.UploadOptions{
		ParentID:  parentID,
		Recursive: driveRecursiveFlag,
		Workers:   driveWorkersFlag,
		Progress: func(done, total int) {
			cmd.Printf("\rUploading... %d/%d", done, total)
		},
	})
	if err != nil {
		return err
	}

	cmd.Println()
	cmd.Printf("Uploaded %d file(s) in %d folder(s), %.1f MB (root folder id %s)\n",
		result.Files, result.Folders, float64(result.Bytes)/(1024*1024), result.RootFolderID)
	if result.Failed > 0 {
		return fmt.Errorf("%d file(s) failed to upload", result.Failed)
	}
	return nil
}
