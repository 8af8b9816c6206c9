package cli

import (
	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/views"
)

func newAttendanceCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "attendance", Short: "Attendance per course and absenteeism alerts"}

	courses := staticSource(views.AttendanceByCourse(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.AttendanceByCourseFetcher() },
		nil,
	)
	critical := staticSource(views.CriticalAttendance(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.CriticalAttendanceFetcher() },
		studentDetailLoader,
	)

	cmd.AddCommand(
		newListCmd("courses", "List the attendance rate of every course",
			`  edupredict attendance courses --sort rate:asc --filter status=critical`,
			cobra.NoArgs, func([]string) listSource { return courses }),
		newListCmd("critical", "List students below the attendance threshold",
			`  edupredict attendance critical --filter severity=severe --sort average`,
			cobra.NoArgs, func([]string) listSource { return critical }),
	)
	return cmd
}

func newFinancialCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "financial", Short: "Revenue trends and delinquent accounts"}

	trends := staticSource(views.RevenueTrends(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.RevenueTrendsFetcher() },
		nil,
	)
	delinquents := staticSource(views.Delinquents(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.DelinquentsFetcher() },
		studentDetailLoader,
	)

	cmd.AddCommand(
		newListCmd("trends", "List confirmed revenue per month",
			`  edupredict financial trends --output json`,
			cobra.NoArgs, func([]string) listSource { return trends }),
		newListCmd("delinquents", "List students with overdue debt",
			`  edupredict financial delinquents --sort total_debt:desc`,
			cobra.NoArgs, func([]string) listSource { return delinquents }),
	)
	return cmd
}
