package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/api"
	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/tui"
	"github.com/edupredict/edupredict/internal/tui/detail"
	"github.com/edupredict/edupredict/internal/views"
)

// ErrInvalidStudentID is returned for a non-numeric or non-positive student id.
var ErrInvalidStudentID = errors.New("student id must be a positive integer")

func newStudentsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "students", Short: "Browse the students directory"}
	cmd.AddCommand(newStudentsListCmd(), newStudentsShowCmd())
	return cmd
}

func newStudentsListCmd() *cobra.Command {
	source := staticSource(views.Students(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.UsersFetcher() },
		studentDetailLoader,
	)
	return newListCmd("list", "List students one page at a time", studentsListExample, cobra.NoArgs,
		func([]string) listSource { return source })
}

const studentsListExample = `  # First page
  edupredict students list

  # Students at high risk on page 3, best grade first
  edupredict students list --page 3 --filter risk=alto --sort grade:desc

  # Search by name or email
  edupredict students list --search garcia`

func newStudentsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "show <student-id>",
		Short:   "Show a student's dashboard",
		Example: "  edupredict students show 42",
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			id, err := parseStudentID(args[0])
			if err != nil {
				return err
			}
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			a, err := newApp(cmd)
			if err != nil {
				return err
			}
			ctx := cmd.Context()
			if _, err = a.requireSession(ctx); err != nil {
				return err
			}

			dash, err := a.client.StudentDashboard(ctx, id)
			if err != nil {
				return commandError(fmt.Errorf("fetching student %d: %w", id, err))
			}
			return renderValue(cmd.OutOrStdout(), format, dash, func(w io.Writer) error {
				return renderFieldTable(w, dashboardFields(dash))
			})
		},
	}
}

func parseStudentID(s string) (int, error) {
	id, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || id <= 0 {
		return 0, fmt.Errorf("%w, got %q", ErrInvalidStudentID, s)
	}
	return id, nil
}

// studentDetailLoader loads the dashboard of the selected student in the TUI.
func studentDetailLoader(a *app) tui.DetailLoader {
	return func(ctx context.Context, r listview.Record) ([]detail.Field, error) {
		n, ok := r.Number("id")
		if !ok {
			return tui.RecordFields(r), nil
		}
		dash, err := a.client.StudentDashboard(ctx, int(n))
		if err != nil {
			return nil, commandError(err)
		}
		return dashboardFields(dash), nil
	}
}

// dashboardFields lays out a dashboard for the detail screen and the table output.
func dashboardFields(d api.StudentDashboard) []detail.Field {
	fields := []detail.Field{
		{Label: "ID", Value: strconv.Itoa(d.ID)},
		{Label: "Name", Value: orDash(d.Name)},
		{Label: "Email", Value: orDash(d.Email)},
		{Label: "Status", Value: orDash(d.Color)},
		{Label: "Summary", Value: orDash(d.AISummary)},
	}
	if len(d.Badges) > 0 {
		fields = append(fields, detail.Field{Label: "Badges", Value: strings.Join(d.Badges, ", ")})
	}

	if d.HasDashboardMetrics {
		fields = append(fields,
			detail.Field{Value: "Academic"},
			detail.Field{Label: "Average", Value: fmt.Sprintf("%.2f", d.AcademicAverage)},
			detail.Field{Label: "Success rate", Value: percent(d.SuccessRate)},
			detail.Field{Value: "Wellbeing"},
			detail.Field{Label: "Mood", Value: fmt.Sprintf("%.1f", d.CurrentMood)},
			detail.Field{Label: "Stress", Value: orDash(d.StressLevel)},
			detail.Field{Label: "Collaboration", Value: fmt.Sprintf("%.1f", d.CollaborationScore)},
			detail.Field{Label: "Network", Value: orDash(d.NetworkHealth)},
		)
	}

	fields = append(fields,
		detail.Field{Value: "Risk"},
		detail.Field{Label: "Dropout risk", Value: percent(d.DropoutRisk)},
		detail.Field{Label: "Assessment", Value: orDash(d.DropoutRiskStatus)},
	)
	if len(d.WeakSubjects) > 0 {
		fields = append(fields, detail.Field{Label: "Weak subjects", Value: strings.Join(d.WeakSubjects, ", ")})
	}
	return fields
}

// percent prints a 0-1 ratio or an already scaled 0-100 value as a percentage.
func percent(v float64) string {
	if v <= 1 {
		v *= 100
	}
	return fmt.Sprintf("%.1f%%", v)
}

// renderFieldTable prints label/value pairs; an empty label starts a section.
func renderFieldTable(w io.Writer, fields []detail.Field) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	for i, f := range fields {
		if f.Label == "" {
			if i > 0 {
				fmt.Fprintln(tw)
			}
			fmt.Fprintf(tw, "%s\n", strings.ToUpper(f.Value))
			continue
		}
		fmt.Fprintf(tw, "%s:\t%s\n", f.Label, f.Value)
	}
	return tw.Flush()
}
