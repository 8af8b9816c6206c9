package cli

import (
	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/views"
)

func newLogsCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "logs", Short: "Browse the backend activity and audit logs"}

	activity := staticSource(views.ActivityLogs(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.ActivityLogFetcher() },
		nil,
	)
	audit := staticSource(views.AuditLogs(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.AuditLogFetcher() },
		nil,
	)

	cmd.AddCommand(
		newListCmd("activity", "List user activity, newest first",
			`  edupredict logs activity --filter action=LOGIN --search admin`,
			cobra.NoArgs, func([]string) listSource { return activity }),
		newListCmd("audit", "List data changes recorded by the backend",
			`  edupredict logs audit --sort timestamp:asc --output ndjson`,
			cobra.NoArgs, func([]string) listSource { return audit }),
	)
	return cmd
}
