package cli

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/registo-labs/registo/internal/core/domain"
)

var (
	meetingCreateType     string
	meetingCreateDate     string
	meetingCreateStart    string
	meetingCreateEnd      string
	meetingCreateLocation string
	meetingCreateContent  string
	meetingCreateAgenda   string
	meetingCreateAuthor   string
	meetingListPage       int
	meetingListLimit      int
	meetingListJSON       bool
)

var meetingCmd = &cobra.Command{
	Use:   "meeting",
	Short: "Manage meeting minutes",
	Long: `Create and browse meeting minutes. Each meeting receives the next
number within its type and year, e.g. CA-003/2025 for the third Conselho
de Agrupamento meeting of 2025.`,
}

var meetingCreateCmd = &cobra.Command{
	Use:   "create",
	Short: "Record meeting minutes with the next number of their type",
	RunE:  runMeetingCreate,
}

var meetingListCmd = &cobra.Command{
	Use:   "list",
	Short: "List meetings by date, newest first",
	RunE:  runMeetingList,
}

var meetingShowCmd = &cobra.Command{
	Use:   "show [id]",
	Short: "Show meeting minutes",
	Args:  cobra.ExactArgs(1),
	RunE:  runMeetingShow,
}

var meetingTypesCmd = &cobra.Command{
	Use:   "types",
	Short: "List registered meeting types",
	RunE:  runMeetingTypes,
}

func init() {
	meetingCreateCmd.Flags().StringVarP(&meetingCreateType, "type", "t", "", "meeting type code, e.g. CA (required)")
	meetingCreateCmd.Flags().StringVarP(&meetingCreateDate, "date", "d", "", "meeting date as YYYY-MM-DD (required)")
	meetingCreateCmd.Flags().StringVar(&meetingCreateStart, "start", "", "start time, e.g. 18:30")
	meetingCreateCmd.Flags().StringVar(&meetingCreateEnd, "end", "", "end time")
	meetingCreateCmd.Flags().StringVarP(&meetingCreateLocation, "location", "l", "", "meeting location")
	meetingCreateCmd.Flags().StringVarP(&meetingCreateContent, "content", "c", "", "minutes body")
	meetingCreateCmd.Flags().StringVar(&meetingCreateAgenda, "agenda-file", "", "path to a JSON agenda file")
	meetingCreateCmd.Flags().StringVar(&meetingCreateAuthor, "author", "", "author display name")
	_ = meetingCreateCmd.MarkFlagRequired("type")
	_ = meetingCreateCmd.MarkFlagRequired("date")

	meetingListCmd.Flags().IntVar(&meetingListPage, "page", 1, "page number")
	meetingListCmd.Flags().IntVar(&meetingListLimit, "limit", 10, "results per page")
	meetingListCmd.Flags().BoolVar(&meetingListJSON, "json", false, "output as JSON")

	meetingCmd.AddCommand(meetingCreateCmd)
	meetingCmd.AddCommand(meetingListCmd)
	meetingCmd.AddCommand(meetingShowCmd)
	meetingCmd.AddCommand(meetingTypesCmd)
	rootCmd.AddCommand(meetingCmd)
}

func runMeetingCreate(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	date, err := time.Parse("2006-01-02", meetingCreateDate)
	if err != nil {
		return fmt.Errorf("%w: date %q is not YYYY-MM-DD", domain.ErrInvalidArgument, meetingCreateDate)
	}

	mt, err := meetingTypeByCode(cmd, meetingCreateType)
	if err != nil {
		return err
	}

	var agenda domain.Agenda
	if meetingCreateAgenda != "" {
		raw, err := os.ReadFile(meetingCreateAgenda)
		if err != nil {
			return fmt.Errorf("reading agenda file: %w", err)
		}
		if agenda, err = domain.NormalizeAgenda(raw); err != nil {
			return err
		}
	}

	meeting, err := recordService.CreateMeeting(cmd.Context(), domain.MeetingDraft{
		MeetingTypeID: mt.ID,
		Date:          date,
		StartTime:     meetingCreateStart,
		EndTime:       meetingCreateEnd,
		Location:      meetingCreateLocation,
		Agenda:        agenda,
		Content:       meetingCreateContent,
		CreatedBy:     meetingCreateAuthor,
	})
	if err != nil {
		return fmt.Errorf("failed to create meeting: %w", err)
	}

	cmd.Printf("Created %s (%s)\n", meeting.Identifier, meeting.Type.Name)
	cmd.Printf("ID: %s\n", meeting.ID)
	return nil
}

// meetingTypeByCode resolves a registered meeting type from its code.
func meetingTypeByCode(cmd *cobra.Command, code string) (*domain.MeetingType, error) {
	types, err := recordService.MeetingTypes(cmd.Context())
	if err != nil {
		return nil, fmt.Errorf("resolving meeting type: %w", err)
	}
	for i := range types {
		if types[i].Code == code {
			return &types[i], nil
		}
	}
	return nil, fmt.Errorf("%w: meeting type %q", domain.ErrUnknownRecordType, code)
}

func runMeetingList(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	meetings, total, err := recordService.ListMeetings(cmd.Context(), meetingListPage, meetingListLimit)
	if err != nil {
		return fmt.Errorf("failed to list meetings: %w", err)
	}

	if meetingListJSON {
		return outputJSON(cmd, meetings)
	}

	if len(meetings) == 0 {
		cmd.Println("No meetings found.")
		return nil
	}

	cmd.Printf("Meetings (%d total):\n\n", total)
	for i := range meetings {
		line := fmt.Sprintf("  %-14s %s  %s", meetings[i].Identifier,
			meetings[i].Date.Format("2006-01-02"), meetings[i].Type.Name)
		if meetings[i].Location != "" {
			line += " - " + meetings[i].Location
		}
		cmd.Println(line)
	}
	return nil
}

func runMeetingShow(cmd *cobra.Command, args []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	meeting, err := recordService.GetMeeting(cmd.Context(), args[0])
	if err != nil {
		return fmt.Errorf("failed to get meeting: %w", err)
	}

	cmd.Printf("%s - %s\n", meeting.Identifier, meeting.Type.Name)
	cmd.Printf("Date: %s", meeting.Date.Format("2006-01-02"))
	if meeting.StartTime != "" {
		cmd.Printf(" %s", meeting.StartTime)
		if meeting.EndTime != "" {
			cmd.Printf("-%s", meeting.EndTime)
		}
	}
	cmd.Println()
	if meeting.Location != "" {
		cmd.Printf("Location: %s\n", meeting.Location)
	}
	if len(meeting.Agenda.AttendeeNames) > 0 {
		cmd.Println("\nAttendees:")
		for _, name := range meeting.Agenda.AttendeeNames {
			cmd.Printf("  - %s\n", name)
		}
	}
	if len(meeting.Agenda.Items) > 0 {
		cmd.Println("\nAgenda:")
		for i, item := range meeting.Agenda.Items {
			cmd.Printf("  %d. %s\n", i+1, item.Title)
		}
	}
	if meeting.Content != "" {
		cmd.Println()
		cmd.Println(meeting.Content)
	}
	if len(meeting.ActionItems) > 0 {
		cmd.Println("\nAction items:")
		for _, ai := range meeting.ActionItems {
			cmd.Printf("  - %s (%s)\n", ai.Description, ai.Responsible)
		}
	}
	return nil
}

func runMeetingTypes(cmd *cobra.Command, _ []string) error {
	if recordService == nil {
		return errors.New("record service not configured")
	}

	types, err := recordService.MeetingTypes(cmd.Context())
	if err != nil {
		return fmt.Errorf("failed to list meeting types: %w", err)
	}

	cmd.Println("Meeting types:")
	for _, mt := range types {
		cmd.Printf("  %-4s %s\n", mt.Code, mt.Name)
	}
	return nil
}
