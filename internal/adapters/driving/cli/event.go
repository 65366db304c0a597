package cli

import (
	"bufio"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/dnvriend/google-gmail-tool/internal/connectors/google/calendar"
)

var (
	eventTitleFlag       string
	eventStartFlag       string
	eventEndFlag         string
	eventDayFlag         string
	eventAllDayFlag      bool
	eventLocationFlag    string
	eventDescriptionFlag string
	eventAttendeesFlag   string
	eventForceFlag       bool
)

var calendarCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Create a calendar event",
	Long: `Creates an event. Timed events take --start and --end as
"YYYY-MM-DD HH:MM" in the local timezone; all-day events take --all-day
with --date.`,
	RunE: runCalendarCreate,
}

var calendarUpdateCmd = &cobra.Command{
	Use:   "update <event-id>",
	Short: "Update an event's fields",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarUpdate,
}

var calendarDeleteCmd = &cobra.Command{
	Use:   "delete <event-id>",
	Short: "Delete an event",
	Args:  cobra.ExactArgs(1),
	RunE:  runCalendarDelete,
}

func init() {
	calendarCreateCmd.Flags().StringVarP(&eventTitleFlag, "title", "t", "", "Event title (required)")
	calendarCreateCmd.Flags().StringVar(&eventStartFlag, "start", "", "Start (YYYY-MM-DD HH:MM)")
	calendarCreateCmd.Flags().StringVar(&eventEndFlag, "end", "", "End (YYYY-MM-DD HH:MM, default start+1h)")
	calendarCreateCmd.Flags().StringVar(&eventDayFlag, "date", "", "Date for an all-day event (YYYY-MM-DD)")
	calendarCreateCmd.Flags().BoolVar(&eventAllDayFlag, "all-day", false, "Create an all-day event (requires --date)")
	calendarCreateCmd.Flags().StringVarP(&eventLocationFlag, "location", "l", "", "Event location")
	calendarCreateCmd.Flags().StringVarP(&eventDescriptionFlag, "description", "d", "", "Event description")
	calendarCreateCmd.Flags().StringVarP(&eventAttendeesFlag, "attendees", "a", "", "Comma-separated attendee emails")
	_ = calendarCreateCmd.MarkFlagRequired("title")

	calendarUpdateCmd.Flags().StringVarP(&eventTitleFlag, "title", "t", "", "New title")
	calendarUpdateCmd.Flags().StringVar(&eventStartFlag, "start", "", "New start (YYYY-MM-DD HH:MM)")
	calendarUpdateCmd.Flags().StringVar(&eventEndFlag, "end", "", "New end (YYYY-MM-DD HH:MM)")
	calendarUpdateCmd.Flags().StringVarP(&eventLocationFlag, "location", "l", "", "New location")
	calendarUpdateCmd.Flags().StringVarP(&eventDescriptionFlag, "description", "d", "", "New description")
	calendarUpdateCmd.Flags().StringVarP(&eventAttendeesFlag, "attendees", "a", "", "New comma-separated attendee emails")

	calendarDeleteCmd.Flags().BoolVarP(&eventForceFlag, "force", "f", false, "Skip the confirmation prompt")

	calendarCmd.AddCommand(calendarCreateCmd)
	calendarCmd.AddCommand(calendarUpdateCmd)
	calendarCmd.AddCommand(calendarDeleteCmd)
}

func runCalendarCreate(cmd *cobra.Command, _ []string) error {
	if calendarAPI == nil {
		return errors.New("calendar client not configured; run 'auth login' first")
	}

	in := calendar.EventInput{
		Summary:     eventTitleFlag,
		Location:    eventLocationFlag,
		Description: eventDescriptionFlag,
		Attendees:   splitAttendees(eventAttendeesFlag),
	}

	switch {
	case eventAllDayFlag:
		if eventDayFlag == "" {
			return errors.New("--all-day requires --date")
		}
		start, err := time.ParseInLocation("2006-01-02", eventDayFlag, time.Local)
		if err != nil {
			return fmt.Errorf("invalid --date %q: expected YYYY-MM-DD", eventDayFlag)
		}
		in.AllDay = true
		in.Start = start
	case eventStartFlag != "":
		start, err := parseEventWhen(eventStartFlag)
		if err != nil {
			return err
		}
		in.Start = start
		if eventEndFlag != "" {
			end, err := parseEventWhen(eventEndFlag)
			if err != nil {
				return err
			}
			in.End = end
		}
	default:
		return errors.New("either --start or --all-day with --date is required")
	}

	ctx, cancel := commandContext()
	defer cancel()

	event, err := calendarAPI.CreateEvent(ctx, in)
	if err != nil {
		return err
	}
	cmd.Printf("Created event %s: %s\n", event.Id, event.Summary)
	return nil
}

func runCalendarUpdate(cmd *cobra.Command, args []string) error {
	if calendarAPI == nil {
		return errors.New("calendar client not configured; run 'auth login' first")
	}
	if eventTitleFlag == "" && eventStartFlag == "" && eventEndFlag == "" &&
		eventLocationFlag == "" && eventDescriptionFlag == "" && eventAttendeesFlag == "" {
		return errors.New("nothing to update: pass --title, --start, --end, --location, --description or --attendees")
	}

	in := calendar.EventInput{
		Summary:     eventTitleFlag,
		Location:    eventLocationFlag,
		Description: eventDescriptionFlag,
		Attendees:   splitAttendees(eventAttendeesFlag),
	}
	if eventStartFlag != "" {
		start, err := parseEventWhen(eventStartFlag)
		if err != nil {
			return err
		}
		in.Start = start
	}
	if eventEndFlag != "" {
		end, err := parseEventWhen(eventEndFlag)
		if err != nil {
			return err
		}
		in.End = end
	}

	ctx, cancel := commandContext()
	defer cancel()

	event, err := calendarAPI.UpdateEvent(ctx, args[0], in)
	if err != nil {
		return err
	}
	cmd.Printf("Updated event %s: %s\n", event.Id, event.Summary)
	return nil
}

func runCalendarDelete(cmd *cobra.Command, args []string) error {
	if calendarAPI == nil {
		return errors.New("calendar client not configured; run 'auth login' first")
	}

	if !eventForceFlag {
		cmd.Printf("Delete event %s? [y/N]: ", args[0])
		reader := bufio.NewReader(cmd.InOrStdin())
		answer, _ := reader.ReadString('\n')
		if a := strings.ToLower(strings.TrimSpace(answer)); a != "y" && a != "yes" {
			cmd.Println("Aborted.")
			return nil
		}
	}

	ctx, cancel := commandContext()
	defer cancel()

	if err := calendarAPI.DeleteEvent(ctx, args[0]); err != nil {
		return err
	}
	cmd.Printf("Deleted event %s\n", args[0])
	return nil
}

// parseEventWhen parses an event boundary flag: a local datetime, or a
// bare date meaning local midnight.
func parseEventWhen(value string) (time.Time, error) {
	if t, err := time.ParseInLocation("2006-01-02 15:04", value, time.Local); err == nil {
		return t, nil
	}
	if t, err := time.ParseInLocation("2006-01-02", value, time.Local); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("invalid time %q: expected \"YYYY-MM-DD HH:MM\" or YYYY-MM-DD", value)
}

func splitAttendees(value string) []string {
	if value == "" {
		return nil
	}
	var emails []string
	for _, part := range strings.Split(value, ",") {
		if email := strings.TrimSpace(part); email != "" {
			emails = append(emails, email)
		}
	}
	return emails
}
