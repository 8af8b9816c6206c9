package cli

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/cli/pagination"
	"github.com/edupredict/edupredict/internal/config"
	"github.com/edupredict/edupredict/internal/listview"
	"github.com/edupredict/edupredict/internal/views"
)

// OutputFormat selects how command results are printed.
type OutputFormat string

// Supported output formats.
const (
	OutputTable  OutputFormat = "table"
	OutputJSON   OutputFormat = "json"
	OutputNDJSON OutputFormat = "ndjson"
)

// ErrInvalidOutputFormat is returned for an unknown --output value.
var ErrInvalidOutputFormat = errors.New("output format must be table, json or ndjson")

// tabPadding is the minimum column padding for tabwriter output.
const tabPadding = 2

// noRecordsMessage is printed for an empty page; it is not an error.
const noRecordsMessage = "No records found."

// ParseOutputFormat validates a format name.
func ParseOutputFormat(s string) (OutputFormat, error) {
	switch f := OutputFormat(strings.ToLower(strings.TrimSpace(s))); f {
	case OutputTable, OutputJSON, OutputNDJSON:
		return f, nil
	default:
		return "", fmt.Errorf("%w, got %q", ErrInvalidOutputFormat, s)
	}
}

// outputFormat returns --output, falling back to the configured default.
func outputFormat(cmd *cobra.Command) (OutputFormat, error) {
	s, _ := cmd.Flags().GetString(flagOutput)
	if s == "" {
		s = config.GetDefaultOutputFormat()
	}
	return ParseOutputFormat(s)
}

// pageOutput is the JSON document of one list page.
type pageOutput struct {
	View       string            `json:"view"`
	Pagination pagination.Meta   `json:"pagination"`
	Filters    filtersOutput     `json:"filters"`
	Records    []listview.Record `json:"records"`
}

type filtersOutput struct {
	Search     string            `json:"search,omitempty"`
	Categories map[string]string `json:"categories,omitempty"`
	Sort       string            `json:"sort,omitempty"`
}

// renderPage prints a ready snapshot of view in the given format.
func renderPage(w io.Writer, format OutputFormat, view views.View, snap listview.Snapshot[listview.Record]) error {
	meta := pagination.NewMeta(snap)
	switch format {
	case OutputJSON:
		out := pageOutput{
			View:       view.Name,
			Pagination: meta,
			Filters: filtersOutput{
				Search:     strings.TrimSpace(snap.Filters.SearchText),
				Categories: snap.Filters.Active(),
			},
			Records: snap.Records,
		}
		if !snap.Sort.IsNone() {
			out.Filters.Sort = snap.Sort.String()
		}
		if out.Records == nil {
			out.Records = []listview.Record{}
		}
		return writeJSON(w, out)
	case OutputNDJSON:
		enc := json.NewEncoder(w)
		for _, r := range snap.Records {
			if err := enc.Encode(r); err != nil {
				return fmt.Errorf("encoding record: %w", err)
			}
		}
		return nil
	default:
		return renderPageTable(w, view, snap, meta)
	}
}

func renderPageTable(w io.Writer, view views.View, snap listview.Snapshot[listview.Record], meta pagination.Meta) error {
	if len(snap.Records) == 0 {
		fmt.Fprintln(w, noRecordsMessage)
	} else {
		tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
		headers := view.Headers()
		fmt.Fprintln(tw, strings.Join(headers, "\t"))
		fmt.Fprintln(tw, strings.Join(underline(headers), "\t"))
		for _, r := range snap.Records {
			fmt.Fprintln(tw, strings.Join(view.Row(r), "\t"))
		}
		if err := tw.Flush(); err != nil {
			return fmt.Errorf("flushing table writer: %w", err)
		}
	}

	fmt.Fprintln(w)
	fmt.Fprintln(w, meta.Footer())
	if hint := meta.NextHint(); hint != "" {
		fmt.Fprintln(w, hint)
	}
	return nil
}

func underline(headers []string) []string {
	out := make([]string, len(headers))
	for i, h := range headers {
		out[i] = strings.Repeat("-", len(h))
	}
	return out
}

// writeJSON pretty-prints v.
func writeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(v); err != nil {
		return fmt.Errorf("encoding JSON: %w", err)
	}
	return nil
}

// renderValue prints a single result: JSON for the structured formats,
// otherwise the table callback.
func renderValue(w io.Writer, format OutputFormat, v any, table func(io.Writer) error) error {
	switch format {
	case OutputJSON:
		return writeJSON(w, v)
	case OutputNDJSON:
		if err := json.NewEncoder(w).Encode(v); err != nil {
			return fmt.Errorf("encoding JSON: %w", err)
		}
		return nil
	default:
		return table(w)
	}
}
