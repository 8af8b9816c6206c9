package cli

import (
	"context"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"
	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"
	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/edupredict/edupredict/internal/api"
	"github.com/edupredict/edupredict/internal/logging"
	"github.com/edupredict/edupredict/internal/tui"
)

// overviewOutput is the JSON shape of the overview command.
type overviewOutput struct {
	Attendance api.AttendanceStats `json:"attendance"`
	Financial  api.FinancialStats  `json:"financial"`
}

// statsClient is the part of the API client the overview needs.
type statsClient interface {
	AttendanceStats(ctx context.Context) (api.AttendanceStats, error)
	FinancialStats(ctx context.Context) (api.FinancialStats, error)
}

func newOverviewCmd() *cobra.Command {
	var plain bool

	cmd := &cobra.Command{
		Use:   "overview",
		Short: "Attendance and financial summary",
		Long:  "Fetches the attendance and financial statistics concurrently and prints them side by side.",
		Example: `  edupredict overview
  edupredict overview --plain
  edupredict overview --output json`,
		Args: cobra.NoArgs,
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

			out, err := fetchOverview(ctx, a.client)
			if err != nil {
				return commandError(err)
			}
			return renderValue(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
				p := message.NewPrinter(language.English)
				if plain || !tui.IsTTY() {
					return renderOverviewPlain(w, p, out)
				}
				fmt.Fprintln(w, renderOverviewBoxes(p, out))
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&plain, "plain", false, "plain text without boxes or colors")
	return cmd
}

// fetchOverview loads both cards concurrently; the first failure cancels the other.
func fetchOverview(ctx context.Context, client statsClient) (overviewOutput, error) {
	var out overviewOutput
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		s, err := client.AttendanceStats(gctx)
		if err != nil {
			return fmt.Errorf("fetching attendance stats: %w", err)
		}
		out.Attendance = s
		return nil
	})
	g.Go(func() error {
		s, err := client.FinancialStats(gctx)
		if err != nil {
			return fmt.Errorf("fetching financial stats: %w", err)
		}
		out.Financial = s
		return nil
	})

	if err := g.Wait(); err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).
			Str("component", "cli").
			Str("operation", "overview").
			Err(err).
			Msg("overview fetch failed")
		return overviewOutput{}, err
	}
	return out, nil
}

type overviewRow struct {
	label string
	value string
}

func attendanceRows(p *message.Printer, s api.AttendanceStats) []overviewRow {
	return []overviewRow{
		{"Global rate", p.Sprintf("%.1f%%", s.GlobalRate)},
		{"Today", p.Sprintf("%.1f%%", s.TodayRate)},
		{"Absent today", p.Sprintf("%d", s.TodayAbsent)},
		{"Last record", orDash(s.LastRecordDate)},
	}
}

func financialRows(p *message.Printer, s api.FinancialStats) []overviewRow {
	return []overviewRow{
		{"Revenue", formatMoney(p, s.TotalRevenue)},
		{"Pending debt", formatMoney(p, s.PendingDebt)},
		{"Delinquency", p.Sprintf("%.1f%%", s.DelinquencyRate)},
		{"Collection", p.Sprintf("%.1f%%", s.CollectionRate)},
	}
}

// formatMoney prints d rounded to cents with grouped thousands, e.g. 1,234,567.80.
func formatMoney(p *message.Printer, d decimal.Decimal) string {
	d = d.Round(2)
	sign := ""
	if d.IsNegative() {
		sign = "-"
		d = d.Abs()
	}
	_, frac, _ := strings.Cut(d.StringFixed(2), ".")
	return sign + p.Sprintf("%d", d.IntPart()) + "." + frac
}

func renderOverviewPlain(w io.Writer, p *message.Printer, out overviewOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "ATTENDANCE")
	for _, r := range attendanceRows(p, out.Attendance) {
		fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value)
	}
	fmt.Fprintln(tw)
	fmt.Fprintln(tw, "FINANCIAL")
	for _, r := range financialRows(p, out.Financial) {
		fmt.Fprintf(tw, "%s:\t%s\n", r.label, r.value)
	}
	return tw.Flush()
}

func renderOverviewBoxes(p *message.Printer, out overviewOutput) string {
	return lipgloss.JoinHorizontal(lipgloss.Top,
		renderCard("Attendance", attendanceRows(p, out.Attendance)),
		" ",
		renderCard("Financial", financialRows(p, out.Financial)),
	)
}

func renderCard(title string, rows []overviewRow) string {
	width := 0
	for _, r := range rows {
		width = max(width, len(r.label))
	}
	var b strings.Builder
	b.WriteString(tui.HeaderStyle.Render(title))
	for _, r := range rows {
		b.WriteString("\n")
		b.WriteString(tui.LabelStyle.Render(fmt.Sprintf("%-*s", width, r.label)))
		b.WriteString("  ")
		b.WriteString(tui.ValueStyle.Render(r.value))
	}
	return tui.BoxStyle.Render(b.String())
}
