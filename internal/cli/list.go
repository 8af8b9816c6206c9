package cli

import (
	"context"
	"errors"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/cli/pagination"
	"github.com/edupredict/edupredict/internal/config"
	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/tui"
	"github.com/edupredict/edupredict/internal/views"
)

// ErrNotInteractive is returned by --interactive without a terminal.
var ErrNotInteractive = errors.New("--interactive requires a terminal")

// listSource supplies the view and its page fetcher once the app is wired.
type listSource func(a *app) (views.View, listview.PageFetcher[listview.Record], tui.DetailLoader, error)

// newListCmd builds a list command with the shared list flags.
func newListCmd(use, short, example string, args cobra.PositionalArgs, source func(args []string) listSource) *cobra.Command {
	params := pagination.NewParams(listview.DefaultPageSize)
	var interactive bool

	cmd := &cobra.Command{
		Use:     use,
		Short:   short,
		Example: example,
		Args:    args,
		PreRunE: func(cmd *cobra.Command, _ []string) error {
			if !cmd.Flags().Changed(pagination.FlagPageSize) {
				params.PageSize = config.GetPageSize()
			}
			return params.Validate()
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			return runList(cmd, *params, interactive, source(args))
		},
	}

	params.AddFlags(cmd.Flags())
	cmd.Flags().BoolVarP(&interactive, "interactive", "i", false, "browse the list in an interactive terminal UI")
	return cmd
}

// runList fetches one page and prints it, or hands the controller to the TUI.
func runList(cmd *cobra.Command, params pagination.Params, interactive bool, source listSource) error {
	ctx := cmd.Context()

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}
	if interactive && !tui.IsTTY() {
		return ErrNotInteractive
	}

	a, err := newApp(cmd)
	if err != nil {
		return err
	}
	if _, err = a.requireSession(ctx); err != nil {
		return err
	}

	view, fetch, loader, err := source(a)
	if err != nil {
		return err
	}
	ctrl, err := listview.NewController(fetch, view.Schema, params.PageSize)
	if err != nil {
		return err
	}
	if err = applyListParams(ctx, ctrl, view.Name, params); err != nil {
		return err
	}

	if interactive {
		return runInteractive(ctx, view, ctrl, loader)
	}

	if err = ctrl.Load(ctx); err != nil {
		return commandError(fmt.Errorf("listing %s: %w", view.Name, err))
	}
	snap := ctrl.Snapshot()
	logFilteredEmpty(ctx, view.Name, snap)
	return renderPage(cmd.OutOrStdout(), format, view, snap)
}

func runInteractive(
	ctx context.Context,
	view views.View,
	ctrl *listview.Controller[listview.Record],
	loader tui.DetailLoader,
) error {
	model := tui.NewListViewModel(ctx, view, ctrl, loader)
	p := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(ctx))
	if _, err := p.Run(); err != nil && !errors.Is(err, tea.ErrProgramKilled) {
		return fmt.Errorf("running %s browser: %w", view.Name, err)
	}
	return nil
}

// staticSource returns a listSource for a fixed view.
func staticSource(
	view views.View,
	fetcher func(a *app) listview.PageFetcher[listview.Record],
	loader func(a *app) tui.DetailLoader,
) listSource {
	return func(a *app) (views.View, listview.PageFetcher[listview.Record], tui.DetailLoader, error) {
		var dl tui.DetailLoader
		if loader != nil {
			dl = loader(a)
		}
		return view, fetcher(a), dl, nil
	}
}
