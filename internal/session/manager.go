package session

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/edupredict/edupredict/internal/logging"
)

// Manager errors.
var (
	// ErrNotLoggedIn is returned by commands that need a session when there is none.
	ErrNotLoggedIn = errors.New("not logged in: run 'edupredict login'")
	// ErrRejected marks an Authenticator error caused by the backend refusing
	// the token or the credentials. Other errors (network, 5xx) leave the
	// saved session in place.
	ErrRejected = errors.New("credentials rejected")
	// ErrMissingCredentials is returned by Login for an empty username or password.
	ErrMissingCredentials = errors.New("username and password are required")
)

// Authenticator talks to the backend on behalf of the Manager.
// Me must authenticate with the Manager's current token.
type Authenticator interface {
	Login(ctx context.Context, username, password string) (Credentials, error)
	Me(ctx context.Context) (Identity, error)
}

// Manager owns the process session.
type Manager struct {
	store   Store
	auth    Authenticator
	baseURL string
	now     func() time.Time

	mu      sync.RWMutex
	current *Session
}

// NewManager creates a manager with no current session. baseURL is recorded in
// saved sessions so a token is never sent to a different backend.
func NewManager(store Store, auth Authenticator, baseURL string) *Manager {
	return &Manager{
		store:   store,
		auth:    auth,
		baseURL: strings.TrimRight(baseURL, "/"),
		now:     time.Now,
	}
}

// SetAuthenticator replaces the authenticator. The API client needs the
// manager as its token source, so the two are wired in two steps.
func (m *Manager) SetAuthenticator(auth Authenticator) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.auth = auth
}

// Restore loads the saved session and validates it with the backend.
// A rejected token is deleted and ErrNotLoggedIn returned; a transport
// failure keeps the saved token and returns the error.
func (m *Manager) Restore(ctx context.Context) (*Session, error) {
	log := logging.FromContext(ctx)

	saved, err := m.store.Load()
	switch {
	case errors.Is(err, ErrNoSession):
		return nil, ErrNotLoggedIn
	case errors.Is(err, ErrStoreCorrupted), errors.Is(err, ErrUnsupportedFile):
		log.Warn().Ctx(ctx).Str("component", "session").Err(err).Msg("discarding unreadable session file")
		_ = m.store.Delete()
		return nil, ErrNotLoggedIn
	case err != nil:
		return nil, fmt.Errorf("loading session: %w", err)
	}

	if m.baseURL != "" && saved.BaseURL != "" && saved.BaseURL != m.baseURL {
		log.Debug().Ctx(ctx).Str("component", "session").
			Str("saved_url", saved.BaseURL).Str("api_url", m.baseURL).
			Msg("saved session belongs to another backend")
		return nil, ErrNotLoggedIn
	}

	m.set(saved)
	user, err := m.me(ctx)
	if err != nil {
		if errors.Is(err, ErrRejected) {
			log.Info().Ctx(ctx).Str("component", "session").Msg("saved session rejected by backend")
			m.Invalidate(ctx)
			return nil, ErrNotLoggedIn
		}
		return nil, fmt.Errorf("validating session: %w", err)
	}

	saved.User = user
	saved.ValidatedAt = m.now().UTC()
	m.set(saved)
	if err = m.store.Save(saved); err != nil {
		log.Warn().Ctx(ctx).Str("component", "session").Err(err).Msg("could not persist validated session")
	}
	return saved.clone(), nil
}

// Login exchanges credentials for a token, fetches the identity and saves the session.
func (m *Manager) Login(ctx context.Context, username, password string) (*Session, error) {
	if strings.TrimSpace(username) == "" || password == "" {
		return nil, ErrMissingCredentials
	}

	auth := m.authenticator()
	creds, err := auth.Login(ctx, username, password)
	if err != nil {
		return nil, fmt.Errorf("logging in: %w", err)
	}

	now := m.now().UTC()
	sess := &Session{
		Token:     creds.AccessToken,
		TokenType: creds.TokenType,
		BaseURL:   m.baseURL,
		CreatedAt: now,
	}
	m.set(sess)

	user, err := m.me(ctx)
	if err != nil {
		m.set(nil)
		return nil, fmt.Errorf("fetching identity: %w", err)
	}
	sess.User = user
	sess.ValidatedAt = now
	m.set(sess)

	if err = m.store.Save(sess); err != nil {
		return nil, fmt.Errorf("saving session: %w", err)
	}

	logging.FromContext(ctx).Info().Ctx(ctx).Str("component", "session").
		Str("username", user.Username).Msg("logged in")
	return sess.clone(), nil
}

// Logout forgets the session in memory and on disk.
func (m *Manager) Logout() error {
	m.set(nil)
	return m.store.Delete()
}

// Invalidate tears the session down after the backend rejected the token.
// It is safe to call from any goroutine and more than once.
func (m *Manager) Invalidate(ctx context.Context) {
	m.mu.Lock()
	had := m.current != nil
	m.current = nil
	m.mu.Unlock()

	if err := m.store.Delete(); err != nil {
		logging.FromContext(ctx).Warn().Ctx(ctx).Str("component", "session").Err(err).Msg("could not delete session file")
	}
	if had {
		logging.FromContext(ctx).Warn().Ctx(ctx).Str("component", "session").Msg("session invalidated")
	}
}

// Current returns a copy of the current session.
func (m *Manager) Current() (*Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	if !m.current.Valid() {
		return nil, false
	}
	return m.current.clone(), true
}

// Token returns the Authorization header value, or "" when logged out.
func (m *Manager) Token() string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.current.AuthorizationHeader()
}

// Require returns ErrNotLoggedIn when there is no current session.
func (m *Manager) Require() error {
	if _, ok := m.Current(); !ok {
		return ErrNotLoggedIn
	}
	return nil
}

func (m *Manager) me(ctx context.Context) (Identity, error) {
	return m.authenticator().Me(ctx)
}

func (m *Manager) authenticator() Authenticator {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.auth
}

func (m *Manager) set(s *Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.current = s.clone()
}
