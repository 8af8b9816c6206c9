package cli

import (
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/api"
	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/views"
)

func newRolesCmd() *cobra.Command {
	cmd := &cobra.Command{Use: "roles", Short: "Inspect and assign user roles"}
	cmd.AddCommand(newRolesListCmd(), newRolesAssignCmd(), newRolesCatalogCmd())
	return cmd
}

func newRolesListCmd() *cobra.Command {
	source := staticSource(views.Roles(),
		func(a *app) listview.PageFetcher[listview.Record] { return a.client.UserRolesFetcher() },
		nil,
	)
	return newListCmd("list", "List users with their role", `  edupredict roles list --filter role=Profesor --sort name`,
		cobra.NoArgs, func([]string) listSource { return source })
}

func newRolesAssignCmd() *cobra.Command {
	return &cobra.Command{
		Use:     "assign <user-id> <role>",
		Short:   "Assign a role to a user",
		Example: `  edupredict roles assign 42 Profesor`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "roles assign", map[string]string{"user_id": args[0], "role": args[1]})

			userID, err := strconv.Atoi(strings.TrimSpace(args[0]))
			if err != nil || userID <= 0 {
				return audit.finish(ctx, 0, fmt.Errorf("user id must be a positive integer, got %q", args[0]))
			}
			a, err := newApp(cmd)
			if err != nil {
				return audit.finish(ctx, 0, err)
			}
			if _, err = a.requireSession(ctx); err != nil {
				return audit.finish(ctx, 0, err)
			}

			err = a.client.AssignRole(ctx, userID, args[1])
			if err = audit.finish(ctx, 1, err); err != nil {
				return commandError(fmt.Errorf("assigning role: %w", err))
			}
			cmd.Printf("Assigned role %s to user %d\n", strings.TrimSpace(args[1]), userID)
			return nil
		},
	}
}

func newRolesCatalogCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "catalog",
		Short: "List the roles that can be assigned",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
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

			roles, err := a.client.ListRoles(ctx)
			if err != nil {
				return commandError(fmt.Errorf("listing roles: %w", err))
			}
			if format == OutputNDJSON {
				return renderRolesNDJSON(cmd.OutOrStdout(), roles)
			}
			return renderValue(cmd.OutOrStdout(), format, roles, func(w io.Writer) error {
				return renderRoles(w, roles)
			})
		},
	}
}

func renderRoles(w io.Writer, roles []api.Role) error {
	if len(roles) == 0 {
		fmt.Fprintln(w, noRecordsMessage)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ROLE\tDESCRIPTION")
	fmt.Fprintln(tw, "----\t-----------")
	for _, r := range roles {
		fmt.Fprintf(tw, "%s\t%s\n", r.Name, orDash(r.Description))
	}
	return tw.Flush()
}

func renderRolesNDJSON(w io.Writer, roles []api.Role) error {
	for _, r := range roles {
		if err := renderValue(w, OutputNDJSON, r, nil); err != nil {
			return err
		}
	}
	return nil
}
