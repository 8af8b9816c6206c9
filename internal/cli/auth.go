package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/session"
)

// ErrInvalidCredentials is returned when the backend refuses a login.
var ErrInvalidCredentials = errors.New("invalid username or password")

// identityOutput is the JSON shape of login and whoami.
type identityOutput struct {
	session.Identity
	BaseURL string `json:"base_url"`
}

func newLoginCmd() *cobra.Command {
	var (
		username      string
		passwordStdin bool
	)

	cmd := &cobra.Command{
		Use:   "login",
		Short: "Sign in to the EduPredict backend",
		Long: `Exchanges a username and password for an access token and saves the session.

The password is prompted for without echo. Use --password-stdin to pipe it in.`,
		Example: `  # Interactive
  edupredict login --username admin

  # From a secret store
  pass show edupredict | edupredict login --username admin --password-stdin`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runLogin(cmd, username, passwordStdin)
		},
	}

	cmd.Flags().StringVarP(&username, "username", "u", "", "account username")
	cmd.Flags().BoolVar(&passwordStdin, "password-stdin", false, "read the password from stdin")
	_ = cmd.MarkFlagRequired("username")
	return cmd
}

func runLogin(cmd *cobra.Command, username string, passwordStdin bool) error {
	ctx := cmd.Context()
	audit := newAuditContext(ctx, "login", map[string]string{"username": username})

	format, err := outputFormat(cmd)
	if err != nil {
		return err
	}

	var password string
	if passwordStdin {
		password, err = readPassword(io.Discard, cmd.InOrStdin())
	} else {
		password, err = readPassword(cmd.ErrOrStderr(), cmd.InOrStdin())
	}
	if err != nil {
		return audit.finish(ctx, 0, err)
	}

	a, err := newApp(cmd)
	if err != nil {
		return audit.finish(ctx, 0, err)
	}
	sess, err := a.sessions.Login(ctx, strings.TrimSpace(username), password)
	if errors.Is(err, session.ErrRejected) {
		err = fmt.Errorf("%w: %w", ErrInvalidCredentials, err)
	}
	if err = audit.finish(ctx, 1, err); err != nil {
		return err
	}

	out := identityOutput{Identity: sess.User, BaseURL: sess.BaseURL}
	return renderValue(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
		fmt.Fprintf(w, "Logged in to %s as %s\n", sess.BaseURL, describeIdentity(sess.User))
		return nil
	})
}

func newLogoutCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "logout",
		Short: "Forget the saved session",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx := cmd.Context()
			audit := newAuditContext(ctx, "logout", nil)

			a, err := newApp(cmd)
			if err != nil {
				return audit.finish(ctx, 0, err)
			}
			if err = audit.finish(ctx, 1, a.sessions.Logout()); err != nil {
				return fmt.Errorf("logging out: %w", err)
			}
			cmd.Println("Logged out")
			return nil
		},
	}
}

func newWhoamiCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "whoami",
		Short: "Show the signed-in user",
		Long:  "Validates the saved session against the backend and prints its user.",
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
			sess, err := a.requireSession(cmd.Context())
			if err != nil {
				return commandError(err)
			}

			out := identityOutput{Identity: sess.User, BaseURL: sess.BaseURL}
			return renderValue(cmd.OutOrStdout(), format, out, func(w io.Writer) error {
				return renderIdentity(w, out)
			})
		},
	}
}

func renderIdentity(w io.Writer, out identityOutput) error {
	tw := tabwriter.NewWriter(w, 0, 0, tabPadding, ' ', 0)
	fmt.Fprintf(tw, "Name:\t%s\n", out.DisplayName())
	fmt.Fprintf(tw, "Username:\t%s\n", out.Username)
	fmt.Fprintf(tw, "Email:\t%s\n", orDash(out.Email))
	fmt.Fprintf(tw, "Role:\t%s\n", orDash(out.Role))
	fmt.Fprintf(tw, "ID:\t%d\n", out.ID)
	fmt.Fprintf(tw, "Backend:\t%s\n", out.BaseURL)
	return tw.Flush()
}

func describeIdentity(id session.Identity) string {
	if id.Role == "" {
		return id.DisplayName()
	}
	return fmt.Sprintf("%s (%s)", id.DisplayName(), id.Role)
}

func orDash(s string) string {
	if strings.TrimSpace(s) == "" {
		return "-"
	}
	return s
}
