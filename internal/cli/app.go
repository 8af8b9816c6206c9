package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/edupredict/edupredict/internal/api"
	"github.com/edupredict/edupredict/internal/config"
	"github.com/edupredict/edupredict/internal/session"
)

// Process exit codes besides 0 and the generic 1.
const (
	ExitNotLoggedIn = 3
	ExitForbidden   = 4
)

// ExitError carries a specific process exit code.
type ExitError struct {
	Code int
	Err  error
}

func (e *ExitError) Error() string {
	return e.Err.Error()
}

func (e *ExitError) Unwrap() error {
	return e.Err
}

// app is the per-invocation wiring: config, session and API client.
type app struct {
	cfg      *config.Config
	sessions *session.Manager
	client   *api.Client
}

// newApp builds the session manager and API client from the global config.
// The manager is the client's token source and the client is the manager's
// authenticator; a 401 on an authenticated call tears the session down.
func newApp(cmd *cobra.Command) (*app, error) {
	cfg := config.GetGlobalConfig()

	store, err := session.NewFileStore(cfg.Session.File)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}
	mgr := session.NewManager(store, nil, cfg.API.BaseURL)

	client, err := api.New(api.Options{
		BaseURL:        cfg.API.BaseURL,
		Timeout:        cfg.API.Timeout,
		UserAgent:      userAgent(cmd),
		Tokens:         mgr,
		OnUnauthorized: mgr.Invalidate,
	})
	if err != nil {
		return nil, fmt.Errorf("creating API client: %w", err)
	}
	mgr.SetAuthenticator(authAdapter{client: client})

	return &app{cfg: cfg, sessions: mgr, client: client}, nil
}

func userAgent(cmd *cobra.Command) string {
	ver := cmd.Root().Version
	if ver == "" {
		ver = "dev"
	}
	return "edupredict-cli/" + ver
}

// requireSession restores and validates the saved session.
func (a *app) requireSession(ctx context.Context) (*session.Session, error) {
	sess, err := a.sessions.Restore(ctx)
	if errors.Is(err, session.ErrNotLoggedIn) {
		return nil, &ExitError{Code: ExitNotLoggedIn, Err: err}
	}
	if err != nil {
		return nil, err
	}
	logger.Debug().Ctx(ctx).
		Str("component", "session").
		Str("username", sess.User.Username).
		Msg("session restored")
	return sess, nil
}

// commandError maps API failures to friendlier errors and exit codes.
func commandError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, api.ErrUnauthorized):
		return &ExitError{Code: ExitNotLoggedIn, Err: fmt.Errorf("session expired, run 'edupredict login': %w", err)}
	case errors.Is(err, api.ErrForbidden):
		return &ExitError{Code: ExitForbidden, Err: fmt.Errorf("your role does not allow this: %w", err)}
	default:
		return err
	}
}

// authAdapter exposes the API client as a session.Authenticator.
type authAdapter struct {
	client *api.Client
}

func (a authAdapter) Login(ctx context.Context, username, password string) (session.Credentials, error) {
	tok, err := a.client.Login(ctx, username, password)
	if err != nil {
		return session.Credentials{}, rejected(err)
	}
	return session.Credentials{AccessToken: tok.AccessToken, TokenType: tok.TokenType}, nil
}

func (a authAdapter) Me(ctx context.Context) (session.Identity, error) {
	u, err := a.client.Me(ctx)
	if err != nil {
		return session.Identity{}, rejected(err)
	}
	return session.Identity{
		ID:        u.ID,
		Username:  u.Username,
		Email:     u.Email,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      u.Role,
	}, nil
}

// rejected marks 401 responses so the session manager drops the token.
func rejected(err error) error {
	if errors.Is(err, api.ErrUnauthorized) {
		return fmt.Errorf("%w: %w", session.ErrRejected, err)
	}
	return err
}
