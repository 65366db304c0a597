package cli

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/gmail"
	"github.com/dnvriend/google-gmail-tool/internal/logger"
)

var (
	mailQueryFlag       string
	mailMaxResultsFlag  int64
	mailTodayFlag       bool
	mailAttachmentsFlag bool
)

var mailCmd = &cobra.Command{
	Use:   "mail",
	Short: "List and export Gmail threads",
}

var mailListCmd = &cobra.Command{
	Use:   "list",
	Short: "List threads matching a Gmail search query",
	Long: `Lists mail threads. The query uses Gmail search syntax, e.g.
"from:alice is:unread" or "subject:invoice newer_than:7d".`,
	RunE: runMailList,
}

var mailExportCmd = &cobra.Command{
	Use:   "export-obsidian",
	Short: "Export mail threads into the vault",
	Long: `Exports matching threads into the vault as one note per thread,
under emails/<name>/<name>.md. Rerunning appends messages that arrived
since the last export and leaves already-exported messages untouched,
so notes you annotated keep your annotations.`,
	RunE: runMailExport,
}

func init() {
	for _, cmd := range []*cobra.Command{mailListCmd, mailExportCmd} {
		cmd.Flags().StringVarP(&mailQueryFlag, "query", "q", "", "Gmail search query")
		cmd.Flags().Int64VarP(&mailMaxResultsFlag, "max-results", "n", 50, "Maximum number of threads")
		cmd.Flags().BoolVar(&mailTodayFlag, "today", false, "Only threads newer than one day")
	}
	mailExportCmd.Flags().BoolVar(&mailAttachmentsFlag, "download-attachments", false,
		"Download attachments next to the note")

	mailCmd.AddCommand(mailListCmd)
	mailCmd.AddCommand(mailExportCmd)
	rootCmd.AddCommand(mailCmd)
}

// mailQuery combines the query flag with the --today shorthand.
func mailQuery() string {
	query := mailQueryFlag
	if mailTodayFlag {
		if query != "" {
			query += " "
		}
		query += "newer_than:1d"
	}
	return query
}

func runMailList(cmd *cobra.Command, _ []string) error {
	if gmailAPI == nil {
		return errors.New("gmail client not configured; run 'auth login' first")
	}

	ctx, cancel := commandContext()
	defer cancel()

	summaries, err := gmailAPI.ListThreads(ctx, mailQuery(), mailMaxResultsFlag)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No threads found.")
		return nil
	}

	for _, s := range summaries {
		date := "unknown date"
		if !s.Date.IsZero() {
			date = s.Date.Format("2006-01-02 15:04")
		}
		cmd.Printf("%s  %s\n", date, s.Subject)
		cmd.Printf("    from: %s  messages: %d  id: %s\n", s.From, s.MessageCount, s.ID)
		if s.Snippet != "" {
			cmd.Printf("    %s\n", s.Snippet)
		}
	}
	cmd.Printf("\n%d thread(s)\n", len(summaries))
	return nil
}

func runMailExport(cmd *cobra.Command, _ []string) error {
	if gmailAPI == nil {
		return errors.New("gmail client not configured; run 'auth login' first")
	}
	if noteVault == nil {
		return errors.New("vault not configured; set vault.root via 'auth configure'")
	}

	ctx, cancel := commandContext()
	defer cancel()

	summaries, err := gmailAPI.ListThreads(ctx, mailQuery(), mailMaxResultsFlag)
	if err != nil {
		return err
	}
	if len(summaries) == 0 {
		cmd.Println("No threads found.")
		return nil
	}

	var written, unchanged, failed int
	for _, summary := range summaries {
		if err := exportThread(ctx, cmd, summary.ID, &written, &unchanged); err != nil {
			failed++
			cmd.Printf("Failed thread %s: %v\n", summary.ID, err)
		}
	}

	cmd.Printf("\n%d note(s) written, %d unchanged", written, unchanged)
	if failed > 0 {
		cmd.Printf(", %d failed", failed)
	}
	cmd.Println()
	if failed > 0 {
		return fmt.Errorf("%d thread(s) failed to export", failed)
	}
	return nil
}

func exportThread(ctx context.Context, cmd *cobra.Command, threadID string, written, unchanged *int) error {
	thread, err := gmailAPI.GetThread(ctx, threadID)
	if err != nil {
		return err
	}

	name := gmail.NoteName(thread)
	path := noteVault.EmailNotePath(name)

	existing, exists, err := noteVault.ReadNote(path)
	if err != nil {
		return err
	}

	content, added := gmail.BuildNote(existing, thread)
	if exists && added == 0 {
		logger.Debug("mail: thread %s already exported, nothing new", threadID)
		*unchanged++
	} else {
		if err := noteVault.WriteNote(path, content); err != nil {
			return err
		}
		cmd.Printf("Wrote %s (%d new message(s))\n", path, added)
		*written++
	}

	if mailAttachmentsFlag {
		if err := downloadThreadAttachments(ctx, cmd, thread, filepath.Dir(path)); err != nil {
			return err
		}
	}
	return nil
}

// downloadThreadAttachments saves attachments next to the note. Files
// already on disk are kept, matching the append-only note semantics.
func downloadThreadAttachments(ctx context.Context, cmd *cobra.Command, thread *gmail.Thread, dir string) error {
	for _, msg := range thread.Messages {
		for _, att := range msg.Attachments {
			if att.Filename == "" || att.AttachmentID == "" {
				continue
			}
			target := filepath.Join(dir, filepath.Base(att.Filename))
			if _, err := os.Stat(target); err == nil {
				logger.Debug("mail: attachment %s already downloaded", att.Filename)
				continue
			}

			data, err := gmailAPI.DownloadAttachment(ctx, msg.ID, att.AttachmentID)
			if err != nil {
				return fmt.Errorf("download %s: %w", att.Filename, err)
			}
			if err := noteVault.WriteFile(target, data); err != nil {
				return err
			}
			cmd.Printf("Saved attachment %s (%.1f KB)\n", target, float64(len(data))/1024)
		}
	}
	return nil
}
