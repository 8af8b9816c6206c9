package cli

import (
	"context"

	"github.com/edupredict/edupredict/internal/cli/pagination"
	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/logging"
)

// applyListParams validates the list flags and positions ctrl accordingly.
// Nothing is fetched; invalid flags are logged and returned before any request.
func applyListParams(
	ctx context.Context,
	ctrl *listview.Controller[listview.Record],
	view string,
	params pagination.Params,
) error {
	log := logging.FromContext(ctx)

	if err := pagination.Apply(ctrl, params); err != nil {
		log.Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "apply_filters").
			Str("view", view).
			Err(err).
			Msg("invalid list flags")
		return err
	}

	log.Debug().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "apply_filters").
		Str("view", view).
		Int("page", params.Page).
		Int("page_size", params.PageSize).
		Str("search", params.Search).
		Strs("filters", params.Filters).
		Str("sort", params.Sort).
		Msg("applied list flags")
	return nil
}

// logFilteredEmpty warns when local filters hide every fetched record.
func logFilteredEmpty(ctx context.Context, view string, snap listview.Snapshot[listview.Record]) {
	if len(snap.Records) > 0 || snap.Fetched == 0 {
		return
	}
	logging.FromContext(ctx).Warn().Ctx(ctx).
		Str("component", "cli").
		Str("operation", "apply_filters").
		Str("view", view).
		Int("fetched", snap.Fetched).
		Msg("no records on this page match the filters")
}
