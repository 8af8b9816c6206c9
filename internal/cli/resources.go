package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/tui"
	"github.com/edupredict/edupredict/internal/views"
)

// ErrNoFields is returned by create and update without any --set.
var ErrNoFields = errors.New("at least one --set field=value is required")

func newResourcesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "resources",
		Short: "Manage academic data (subjects, classrooms, semesters, branches)",
		Long:  "Manage academic data. Known resources: " + strings.Join(resourceNames(), ", ") + ".",
	}
	cmd.AddCommand(newResourcesListCmd(), newResourcesCreateCmd(), newResourcesUpdateCmd(), newResourcesDeleteCmd())
	return cmd
}

func resourceNames() []string {
	out := make([]string, 0, len(views.Resources()))
	for _, rc := range views.Resources() {
		out = append(out, rc.Name)
	}
	return out
}

func newResourcesListCmd() *cobra.Command {
	return newListCmd("list <resource>", "List one page of a resource",
		`  edupredict resources list materias --sort ciclo_materia --search calculo`,
		cobra.ExactArgs(1),
		func(args []string) listSource {
			return func(a *app) (views.View, listview.PageFetcher[listview.Record], tui.DetailLoader, error) {
				rc, err := views.LookupResource(args[0])
				if err != nil {
					return views.View{}, nil, nil, err
				}
				return rc.View(), a.client.ResourceFetcher(rc.Path), nil, nil
			}
		})
}

func newResourcesCreateCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "create <resource>",
		Short:   "Create a resource item",
		Example: `  edupredict resources create aulas --set nombre=A-101 --set capacidad=40 --set sucursal_id=1`,
		Args:    cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceWrite(cmd, args[0], "", sets)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to set (repeatable)")
	return cmd
}

func newResourcesUpdateCmd() *cobra.Command {
	var sets []string
	cmd := &cobra.Command{
		Use:     "update <resource> <id>",
		Short:   "Update a resource item",
		Example: `  edupredict resources update materias 7 --set nombre="Cálculo II"`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runResourceWrite(cmd, args[0], args[1], sets)
		},
	}
	cmd.Flags().StringArrayVar(&sets, "set", nil, "field=value to set (repeatable)")
	return cmd
}

// runResourceWrite creates an item when id is empty and updates it otherwise.
func runResourceWrite(cmd *cobra.Command, resource, id string, sets []string) error {
	ctx := cmd.Context()
	op := "resources create"
	if id != "" {
		op = "resources update"
	}
	params := map[string]string{"resource": resource, "fields": strings.Join(sets, ",")}
	if id != "" {
		params["id"] = id
	}
	audit := newAuditContext(ctx, op, params)

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	if len(sets) == 0 {
		return audit.finish(ctx, 0, ErrNoFields)
	}
	rc, err := views.LookupResource(resource)
	if err != nil {
		return audit.finish(ctx, 0, err)
	}
	item, err := rc.ParseItem(sets)
	if err != nil {
		return audit.finish(ctx, 0, err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return audit.finish(ctx, 0, err)
	}
	if _, err = a.requireSession(ctx); err != nil {
		return audit.finish(ctx, 0, err)
	}

	var saved listview.Record
	if id == "" {
		saved, err = a.client.CreateResource(ctx, rc.Path, item)
	} else {
		saved, err = a.client.UpdateResource(ctx, rc.Path, id, item)
	}
	if err = audit.finish(ctx, 1, err); err != nil {
		return commandError(fmt.Errorf("saving %s: %w", rc.Name, err))
	}

	view := rc.View()
	return renderValue(cmd.OutOrStdout(), format, saved, func(w io.Writer) error {
		verb := "Created"
		if id != "" {
			verb = "Updated"
		}
		fmt.Fprintf(w, "%s %s %s\n", verb, strings.TrimSuffix(strings.ToLower(rc.Label), "s"), view.ID(saved))
		return renderFieldTable(w, tui.RecordFields(saved))
	})
}

func newResourcesDeleteCmd() *cobra.Command {
	var yes bool
	cmd := &cobra.Command{
		Use:     "delete <resource> <id>",
		Short:   "Delete a resource item",
		Example: `  edupredict resources delete aulas 12 --yes`,
		Args:    cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "resources delete", map[string]string{"resource": args[0], "id": args[1]})

			rc, err := views.LookupResource(args[0])
			if err != nil {
				return audit.finish(ctx, 0, err)
			}
			if !yes {
				if !tui.IsTTY() {
					return audit.finish(ctx, 0, ErrConfirmationRequired)
				}
				res := Confirm(cmd.OutOrStdout(), cmd.InOrStdin(), fmt.Sprintf("Delete %s %s?", rc.Name, args[1]))
				if !res.Accepted {
					cmd.Println("Aborted")
					return nil
				}
			}

			a, err := newApp(cmd)
			if err != nil {
				return audit.finish(ctx, 0, err)
			}
			if _, err = a.requireSession(ctx); err != nil {
				return audit.finish(ctx, 0, err)
			}
			if err = audit.finish(ctx, 1, a.client.DeleteResource(ctx, rc.Path, args[1])); err != nil {
				return commandError(fmt.Errorf("deleting %s %s: %w", rc.Name, args[1], err))
			}
			cmd.Printf("Deleted %s %s\n", rc.Name, args[1])
			return nil
		},
	}
	cmd.Flags().BoolVarP(&yes, "yes", "y", false, "skip the confirmation prompt")
	return cmd
}
