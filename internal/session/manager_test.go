package session

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeAuth accepts admin/secret and validates tokens it issued.
type fakeAuth struct {
	mgr       *Manager
	meErr     error
	loginHits int
	meHits    int
}

func (f *fakeAuth) Login(_ context.Context, username, password string) (Credentials, error) {
	f.loginHits++
	if username != "admin" || password != "secret" {
		return Credentials{}, fmt.Errorf("%w: bad credentials", ErrRejected)
	}
	return Credentials{AccessToken: "issued-token", TokenType: "bearer"}, nil
}

func (f *fakeAuth) Me(_ context.Context) (Identity, error) {
	f.meHits++
	if f.meErr != nil {
		return Identity{}, f.meErr
	}
	if f.mgr.Token() != "Bearer issued-token" {
		return Identity{}, fmt.Errorf("%w: unknown token", ErrRejected)
	}
	return Identity{ID: 1, Username: "admin", Role: "Admin"}, nil
}

const testBaseURL = "http://localhost:8000"

func newTestManager(t *testing.T) (*Manager, *fakeAuth, *FileStore) {
	t.Helper()
	store := newTestStore(t)
	auth := &fakeAuth{}
	mgr := NewManager(store, nil, testBaseURL+"/")
	mgr.SetAuthenticator(auth)
	auth.mgr = mgr
	mgr.now = func() time.Time { return time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC) }
	return mgr, auth, store
}

func TestManager_Login(t *testing.T) {
	ctx := context.Background()
	mgr, _, store := newTestManager(t)

	require.ErrorIs(t, mgr.Require(), ErrNotLoggedIn)

	sess, err := mgr.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	assert.Equal(t, "admin", sess.User.Username)
	assert.Equal(t, testBaseURL, sess.BaseURL)
	assert.Equal(t, "Bearer issued-token", mgr.Token())
	require.NoError(t, mgr.Require())

	saved, err := store.Load()
	require.NoError(t, err)
	assert.Equal(t, "issued-token", saved.Token)
}

func TestManager_LoginFailures(t *testing.T) {
	ctx := context.Background()
	mgr, auth, _ := newTestManager(t)

	_, err := mgr.Login(ctx, "", "secret")
	require.ErrorIs(t, err, ErrMissingCredentials)
	assert.Zero(t, auth.loginHits)

	_, err = mgr.Login(ctx, "admin", "wrong")
	require.ErrorIs(t, err, ErrRejected)

	auth.meErr = errors.New("backend down")
	_, err = mgr.Login(ctx, "admin", "secret")
	require.Error(t, err)
	assert.Empty(t, mgr.Token(), "no half-built session is kept")
}

func TestManager_Restore(t *testing.T) {
	ctx := context.Background()

	t.Run("nothing saved", func(t *testing.T) {
		mgr, _, _ := newTestManager(t)
		_, err := mgr.Restore(ctx)
		require.ErrorIs(t, err, ErrNotLoggedIn)
	})

	t.Run("valid token", func(t *testing.T) {
		mgr, auth, store := newTestManager(t)
		require.NoError(t, store.Save(&Session{Token: "issued-token", BaseURL: testBaseURL}))

		sess, err := mgr.Restore(ctx)
		require.NoError(t, err)
		assert.Equal(t, "admin", sess.User.Username)
		assert.False(t, sess.ValidatedAt.IsZero())
		assert.Equal(t, 1, auth.meHits)
	})

	t.Run("rejected token is torn down", func(t *testing.T) {
		mgr, _, store := newTestManager(t)
		require.NoError(t, store.Save(&Session{Token: "revoked", BaseURL: testBaseURL}))

		_, err := mgr.Restore(ctx)
		require.ErrorIs(t, err, ErrNotLoggedIn)
		assert.Empty(t, mgr.Token())
		_, err = store.Load()
		require.ErrorIs(t, err, ErrNoSession)
	})

	t.Run("transport error keeps saved token", func(t *testing.T) {
		mgr, auth, store := newTestManager(t)
		require.NoError(t, store.Save(&Session{Token: "issued-token", BaseURL: testBaseURL}))
		auth.meErr = errors.New("connection refused")

		_, err := mgr.Restore(ctx)
		require.Error(t, err)
		require.NotErrorIs(t, err, ErrNotLoggedIn)
		_, err = store.Load()
		require.NoError(t, err)
	})

	t.Run("other backend", func(t *testing.T) {
		mgr, auth, store := newTestManager(t)
		require.NoError(t, store.Save(&Session{Token: "issued-token", BaseURL: "https://prod.example"}))

		_, err := mgr.Restore(ctx)
		require.ErrorIs(t, err, ErrNotLoggedIn)
		assert.Zero(t, auth.meHits, "token is not sent to a different backend")
	})
}

func TestManager_LogoutAndInvalidate(t *testing.T) {
	ctx := context.Background()
	mgr, _, store := newTestManager(t)
	_, err := mgr.Login(ctx, "admin", "secret")
	require.NoError(t, err)

	mgr.Invalidate(ctx)
	mgr.Invalidate(ctx)
	_, ok := mgr.Current()
	assert.False(t, ok)
	_, err = store.Load()
	require.ErrorIs(t, err, ErrNoSession)

	_, err = mgr.Login(ctx, "admin", "secret")
	require.NoError(t, err)
	require.NoError(t, mgr.Logout())
	assert.Empty(t, mgr.Token())
}

func TestManager_CurrentIsACopy(t *testing.T) {
	mgr, _, _ := newTestManager(t)
	_, err := mgr.Login(context.Background(), "admin", "secret")
	require.NoError(t, err)

	sess, ok := mgr.Current()
	require.True(t, ok)
	sess.Token = "tampered"
	assert.Equal(t, "Bearer issued-token", mgr.Token())
}
