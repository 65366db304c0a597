package cli

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/dnvriend/google-gmail-tool/internal/core/domain"
	"github.com/dnvriend/google-gmail-tool/internal/core/ports/driving"
)

var (
	calendarDateFlag  string
	calendarDaysFlag  int
	calendarTodayFlag bool
)

var calendarCmd = &cobra.Command{
	Use:   "calendar",
	Short: "List and export calendar events",
}

var calendarListCmd = &cobra.Command{
	Use:   "list",
	Short: "List events for a date window",
	RunE:  runCalendarList,
}

var calendarExportCmd = &cobra.Command{
	Use:   "export-obsidian",
	Short: "Export events into daily notes",
	Long: `Exports calendar events into the vault's daily notes, one note per
date in the window. Rerunning merges into notes you have edited:
checkbox state and your own lines are preserved, managed lines are
refreshed from the calendar.`,
	RunE: runCalendarExport,
}

func init() {
	for _, cmd := range []*cobra.Command{calendarListCmd, calendarExportCmd} {
		cmd.Flags().StringVar(&calendarDateFlag, "date", "", "Start date (YYYY-MM-DD, default today)")
		cmd.Flags().IntVar(&calendarDaysFlag, "days", 1, "Number of days to cover")
		cmd.Flags().BoolVar(&calendarTodayFlag, "today", false, "Shorthand for --date <today> --days 1")
	}
	calendarCmd.AddCommand(calendarListCmd)
	calendarCmd.AddCommand(calendarExportCmd)
	rootCmd.AddCommand(calendarCmd)
}

// resolveWindow turns the shared date flags into an anchor date and a
// day count.
func resolveWindow() (time.Time, int, error) {
	days := calendarDaysFlag
	if days < 1 {
		days = 1
	}
	if calendarTodayFlag {
		return time.Now(), 1, nil
	}
	if calendarDateFlag == "" {
		return time.Now(), days, nil
	}
	date, err := time.ParseInLocation("2006-01-02", calendarDateFlag, time.Local)
	if err != nil {
		return time.Time{}, 0, fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", calendarDateFlag)
	}
	return date, days, nil
}

func runCalendarList(cmd *cobra.Command, _ []string) error {
	if calendarAPI == nil {
		return errors.New("calendar client not configured; run 'auth login' first")
	}

	date, days, err := resolveWindow()
	if err != nil {
		return err
	}
	start := time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.Local)
	window := domain.TimeWindow{Start: start, End: start.AddDate(0, 0, days)}

	ctx, cancel := commandContext()
	defer cancel()

	records, err := calendarAPI.ListEvents(ctx, window)
	if err != nil {
		return err
	}
	if len(records) == 0 {
		cmd.Println("No events found.")
		return nil
	}

	for _, r := range records {
		switch {
		case r.AllDay:
			cmd.Printf("%s  all day      %s\n", r.Start.Format("2006-01-02"), r.Title)
		case r.Timed():
			cmd.Printf("%s  %s-%s  %s\n",
				r.Start.Format("2006-01-02"),
				r.Start.Format("15:04"), r.End.Format("15:04"), r.Title)
		default:
			cmd.Printf("%s  %s\n", r.Start.Format("2006-01-02"), r.Title)
		}
		if r.Location != "" {
			cmd.Printf("            at %s\n", r.Location)
		}
	}
	cmd.Printf("\n%d event(s)\n", len(records))
	return nil
}

func runCalendarExport(cmd *cobra.Command, _ []string) error {
	if exporter == nil {
		return errors.New("exporter not configured; set vault.root via 'auth configure'")
	}

	date, days, err := resolveWindow()
	if err != nil {
		return err
	}

	ctx, cancel := commandContext()
	defer cancel()

	result, err := exporter.ExportCalendar(ctx, driving.ExportOptions{Date: date, Days: days})
	if err != nil {
		return err
	}
	printExportResult(cmd, result)
	return nil
}

func printExportResult(cmd *cobra.Command, result *driving.ExportResult) {
	for _, path := range result.PathsWritten {
		cmd.Printf("Wrote %s\n", path)
	}
	if len(result.PathsWritten) == 0 {
		cmd.Println("Nothing to export.")
	}
	for _, skipped := range result.Skipped {
		cmd.Printf("Skipped %s: %s\n", skipped.RecordKey, skipped.Reason)
	}
}

// commandContext is the root context for one command invocation.
func commandContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.Background(), 10*time.Minute)
}
