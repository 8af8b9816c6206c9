package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/api"
	"github.com/edupredict/edupredict/pkg/version"
)

// versionCheckTimeout bounds the backend check so version stays fast offline.
const versionCheckTimeout = 3 * time.Second

type versionOutput struct {
	Client         string `json:"client"`
	Commit         string `json:"commit,omitempty"`
	BuildDate      string `json:"build_date,omitempty"`
	Backend        string `json:"backend,omitempty"`
	BackendVersion string `json:"backend_version,omitempty"`
	Compatible     *bool  `json:"compatible,omitempty"`
	BackendError   string `json:"backend_error,omitempty"`
}

func newVersionCmd() *cobra.Command {
	var clientOnly bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print the CLI version and the backend's version",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			format, err := outputFormat(cmd)
			if err != nil {
				return err
			}
			out := versionOutput{
				Client:    cmd.Root().Version,
				Commit:    version.GetCommit(),
				BuildDate: version.GetBuildDate(),
			}
			if !clientOnly {
				checkBackend(cmd, &out)
			}
			return renderValue(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
				renderVersion(w, out)
				return nil
			})
		},
	}

	cmd.Flags().BoolVar(&clientOnly, "client", false, "only print the CLI version")
	return cmd
}

// checkBackend fills in the backend fields. Failures are reported, not returned.
func checkBackend(cmd *cobra.Command, out *versionOutput) {
	a, err := newApp(cmd)
	if err != nil {
		out.BackendError = err.Error()
		return
	}
	out.Backend = a.client.BaseURL()

	ctx, cancel := context.WithTimeout(cmd.Context(), versionCheckTimeout)
	defer cancel()

	h, err := a.client.CheckCompatibility(ctx)
	out.BackendVersion = h.Version
	switch {
	case err == nil:
		ok := true
		out.Compatible = &ok
	case errors.Is(err, api.ErrIncompatible):
		ok := false
		out.Compatible = &ok
		out.BackendError = err.Error()
	default:
		out.BackendError = err.Error()
	}
}

func renderVersion(w io.Writer, out versionOutput) {
	fmt.Fprintf(w, "edupredict %s", out.Client)
	if out.Commit != "" {
		fmt.Fprintf(w, " (%s)", shortCommit(out.Commit))
	}
	if out.BuildDate != "" {
		fmt.Fprintf(w, " built %s", out.BuildDate)
	}
	fmt.Fprintln(w)

	if out.Backend == "" && out.BackendError == "" {
		return
	}
	switch {
	case out.Compatible != nil && *out.Compatible:
		fmt.Fprintf(w, "backend %s: %s\n", out.Backend, orDash(out.BackendVersion))
	case out.Compatible != nil:
		fmt.Fprintf(w, "backend %s: %s (unsupported, want %s)\n", out.Backend, out.BackendVersion, api.SupportedAPIVersions)
	default:
		fmt.Fprintf(w, "backend %s: unreachable: %s\n", orDash(out.Backend), out.BackendError)
	}
}

func shortCommit(c string) string {
	const n = 7
	if len(c) > n {
		return c[:n]
	}
	return c
}
