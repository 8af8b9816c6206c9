package cli

import (
	"fmt"
	"io"
	"strconv"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/api"
	"github.com/edupredict/edupredict/internal/views"
)

const defaultSimulationFactor = 1.10

func newAnalyticsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "analytics",
		Short: "Dropout model drivers, correlations and what-if simulations",
	}
	cmd.AddCommand(newAnalyticsFactorsCmd(), newAnalyticsCorrelationsCmd(), newAnalyticsSimulateCmd())
	return cmd
}

// analyticsApp resolves the output format and a logged-in client.
func analyticsApp(cmd *cobra.Command) (OutputFormat, *app, error) {
	format, err := outputFormat(cmd)
	if err != nil {
		return "", nil, err
	}
	a, err := newApp(cmd)
	if err != nil {
		return "", nil, err
	}
	if _, err = a.requireSession(cmd.Context()); err != nil {
		return "", nil, err
	}
	return format, a, nil
}

func newAnalyticsFactorsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "factors",
		Short: "List the dropout model inputs by weight",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, a, err := analyticsApp(cmd)
			if err != nil {
				return err
			}
			features, err := a.client.FeatureImportance(cmd.Context())
			if err != nil {
				return commandError(err)
			}
			if features == nil {
				features = []api.Feature{}
			}
			return renderValue(cmd.OutOrStdout(), format, features, func(w io.Writer) error {
				return renderFeatures(w, features)
			})
		},
	}
}

func renderFeatures(w io.Writer, features []api.Feature) error {
	if len(features) == 0 {
		fmt.Fprintln(w, noRecordsMessage)
		return nil
	}
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintln(tw, "FACTOR\tINPUT\tIMPACT")
	for _, f := range features {
		fmt.Fprintf(tw, "%s\t%s\t%.1f%%\n", views.FeatureLabel(f.Name), f.Name, f.Weight*100)
	}
	return tw.Flush()
}

func newAnalyticsCorrelationsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "correlations",
		Short: "Summarize how attendance relates to grades",
		Long: `Fetches the attendance against grade scatter and prints the number of
students, both means and the Pearson correlation coefficient.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, a, err := analyticsApp(cmd)
			if err != nil {
				return err
			}
			corr, err := a.client.Correlations(cmd.Context())
			if err != nil {
				return commandError(err)
			}
			summary := corr.Summary()
			return renderValue(cmd.OutOrStdout(), format, summary, func(w io.Writer) error {
				return renderCorrelations(w, summary)
			})
		},
	}
}

func renderCorrelations(w io.Writer, s api.CorrelationSummary) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Students:\t%d\n", s.Points)
	if s.Points > 0 {
		fmt.Fprintf(tw, "Mean attendance:\t%s\n", percent(s.MeanAttendance))
		fmt.Fprintf(tw, "Mean grade:\t%.2f\n", s.MeanGrade)
	}
	r := "-"
	if s.Pearson != nil {
		r = strconv.FormatFloat(*s.Pearson, 'f', 2, 64)
	}
	fmt.Fprintf(tw, "Pearson r:\t%s\n", r)
	return tw.Flush()
}

func newAnalyticsSimulateCmd() *cobra.Command {
	req := api.SimulationRequest{Factor: defaultSimulationFactor, Target: api.SimulationTargets()[0]}

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Project the dropout risk if one model input improves",
		Example: `  # What if attendance improved by 10%?
  edupredict analytics simulate

  # What if average grades improved by 25%?
  edupredict analytics simulate --target notas_promedio --factor 1.25`,
		Args: cobra.NoArgs,
		PreRunE: func(*cobra.Command, []string) error {
			return req.Validate()
		},
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, a, err := analyticsApp(cmd)
			if err != nil {
				return err
			}
			res, err := a.client.Simulate(cmd.Context(), req)
			if err != nil {
				return commandError(err)
			}
			return renderValue(cmd.OutOrStdout(), format, res, func(w io.Writer) error {
				return renderSimulation(w, req, res)
			})
		},
	}

	cmd.Flags().Float64Var(&req.Factor, "factor", req.Factor,
		fmt.Sprintf("improvement factor between %.2f and %.2f", api.MinSimulationFactor, api.MaxSimulationFactor))
	cmd.Flags().StringVar(&req.Target, "target", req.Target, "model input to improve")
	return cmd
}

func renderSimulation(w io.Writer, req api.SimulationRequest, res api.SimulationResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Scenario:\t%s +%.0f%%\n", views.FeatureLabel(req.Target), (req.Factor-1)*100)
	fmt.Fprintf(tw, "Current risk:\t%s\n", percent(res.BaselineRisk))
	fmt.Fprintf(tw, "Projected risk:\t%s\n", percent(res.SimulatedRisk))
	fmt.Fprintf(tw, "Improvement:\t%.1f%%\n", res.ImprovementPercent)
	fmt.Fprintf(tw, "Dropouts prevented:\t~%.0f\n", res.StudentsSavedProjection)
	if res.Insight != "" {
		fmt.Fprintf(tw, "Insight:\t%s\n", res.Insight)
	}
	return tw.Flush()
}
