package state

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

var alice = model.Session{ID: 1, Username: "alice", Email: "alice@example.com", FirstName: "Alice", Token: "jwt-access"}

func TestAuth_LoginSuccessPersistsSession(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	auth := NewAuth(&fakeAuthClient{loginSession: alice}, st, nil)

	require.NoError(t, auth.Login(ctx, "alice", "pw"))

	snap := auth.Snapshot()
	assert.Equal(t, AuthAuthenticated, snap.Status)
	assert.True(t, snap.IsAuthenticated())
	assert.Empty(t, snap.Err)
	assert.False(t, snap.Loading)

	token, ok, err := st.Get(ctx, store.KeyUserToken)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "jwt-access", token)

	user, ok, err := store.LoadJSON[model.Session](ctx, st, store.KeyUserData)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "alice", user.Username)
}

func TestAuth_LoginTokenOnlyResponseIsAuthenticated(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	client := &fakeAuthClient{loginSession: model.Session{ID: 1, Token: "tok-123"}}
	auth := NewAuth(client, st, nil)

	require.NoError(t, auth.Login(ctx, "  alice  ", " pw "))

	snap := auth.Snapshot()
	assert.Equal(t, AuthAuthenticated, snap.Status)
	assert.True(t, snap.IsAuthenticated())
	require.NotNil(t, snap.Session)
	assert.Equal(t, "alice", snap.Session.Username)

	restored := NewAuth(client, st, nil).Restore(ctx)
	assert.Equal(t, AuthAuthenticated, restored.Status)
	assert.True(t, restored.IsAuthenticated())
}

func TestAuth_LoginFailureKeepsPreviousSession(t *testing.T) {
	ctx := context.Background()
	client := &fakeAuthClient{loginSession: alice}
	auth := NewAuth(client, newFlakyStore(t), nil)
	require.NoError(t, auth.Login(ctx, "alice", "pw"))

	client.loginErr = errors.New("Invalid credentials")
	err := auth.Login(ctx, "alice", "wrong")
	require.Error(t, err)

	snap := auth.Snapshot()
	assert.Equal(t, AuthFailed, snap.Status)
	assert.Equal(t, "Invalid credentials", snap.Err)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "alice", snap.Session.Username)
	assert.True(t, snap.IsAuthenticated())

	auth.ClearError()
	snap = auth.Snapshot()
	assert.Empty(t, snap.Err)
	assert.Equal(t, AuthAuthenticated, snap.Status)
}

func TestAuth_LoginFailureFromAnonymous(t *testing.T) {
	auth := NewAuth(&fakeAuthClient{loginErr: errors.New("Invalid credentials")}, newFlakyStore(t), nil)

	require.Error(t, auth.Login(context.Background(), "alice", "wrong"))

	snap := auth.Snapshot()
	assert.Equal(t, AuthFailed, snap.Status)
	assert.False(t, snap.IsAuthenticated())

	auth.ClearError()
	assert.Equal(t, AuthAnonymous, auth.Snapshot().Status)
}

func TestAuth_PersistFailureStillAuthenticates(t *testing.T) {
	st := newFlakyStore(t)
	st.failSet = true
	auth := NewAuth(&fakeAuthClient{loginSession: alice}, st, nil)

	require.NoError(t, auth.Login(context.Background(), "alice", "pw"))
	assert.True(t, auth.Snapshot().IsAuthenticated())
}

func TestAuth_IgnoresIntentWhileInFlight(t *testing.T) {
	ctx := context.Background()
	client := &fakeAuthClient{
		loginSession: alice,
		started:      make(chan struct{}, 1),
		release:      make(chan struct{}),
	}
	auth := NewAuth(client, newFlakyStore(t), nil)

	done := make(chan error, 1)
	go func() { done <- auth.Login(ctx, "alice", "pw") }()
	<-client.started

	assert.Equal(t, AuthAuthenticating, auth.Snapshot().Status)
	assert.True(t, auth.Snapshot().Loading)
	assert.ErrorIs(t, auth.Login(ctx, "bob", "pw"), ErrAuthInFlight)
	assert.ErrorIs(t, auth.Register(ctx, model.RegisterCredentials{Username: "bob"}), ErrAuthInFlight)

	close(client.release)
	require.NoError(t, <-done)
	snap := auth.Snapshot()
	require.NotNil(t, snap.Session)
	assert.Equal(t, "alice", snap.Session.Username)
}

func TestAuth_RegisterAuthenticates(t *testing.T) {
	carol := model.Session{ID: 5, Username: "carol", Token: "mock_token_1"}
	auth := NewAuth(&fakeAuthClient{registerSession: carol}, newFlakyStore(t), nil)

	err := auth.Register(context.Background(), model.RegisterCredentials{Username: "carol", Email: "c@example.com", Password: "secret1"})
	require.NoError(t, err)
	assert.Equal(t, AuthAuthenticated, auth.Snapshot().Status)
}

func TestAuth_LogoutThenRestoreIsAnonymous(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	auth := NewAuth(&fakeAuthClient{loginSession: alice}, st, nil)
	require.NoError(t, auth.Login(ctx, "alice", "pw"))

	auth.Logout(ctx)
	assert.Equal(t, AuthAnonymous, auth.Snapshot().Status)
	assert.Nil(t, auth.Snapshot().Session)

	_, ok, err := st.Get(ctx, store.KeyUserToken)
	require.NoError(t, err)
	assert.False(t, ok)

	fresh := NewAuth(&fakeAuthClient{}, st, nil)
	snap := fresh.Restore(ctx)
	assert.Equal(t, AuthAnonymous, snap.Status)
	assert.False(t, snap.IsAuthenticated())
}

func TestAuth_LogoutSwallowsStorageErrors(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	auth := NewAuth(&fakeAuthClient{loginSession: alice}, st, nil)
	require.NoError(t, auth.Login(ctx, "alice", "pw"))

	st.failRm = true
	auth.Logout(ctx)
	assert.Equal(t, AuthAnonymous, auth.Snapshot().Status)
}

func TestAuth_RestoreAuthenticatesFromStore(t *testing.T) {
	ctx := context.Background()
	st := newFlakyStore(t)
	require.NoError(t, NewAuth(&fakeAuthClient{loginSession: alice}, st, nil).Login(ctx, "alice", "pw"))

	snap := NewAuth(&fakeAuthClient{}, st, nil).Restore(ctx)
	assert.Equal(t, AuthAuthenticated, snap.Status)
	require.NotNil(t, snap.Session)
	assert.Equal(t, "jwt-access", snap.Session.Token)
	assert.Equal(t, "Alice", snap.Session.FirstName)
}

func TestAuth_RestoreTreatsBadDataAsAbsent(t *testing.T) {
	tests := []struct {
		name  string
		token string
		user  string
	}{
		{name: "token only", token: "abc"},
		{name: "user only", user: `{"username": "alice"}`},
		{name: "malformed user", token: "abc", user: "{oops"},
		{name: "user without username", token: "abc", user: `{"id": 3}`},
		{name: "blank token", token: "  ", user: `{"username": "alice"}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := context.Background()
			st := newFlakyStore(t)
			if tt.token != "" {
				require.NoError(t, st.Set(ctx, store.KeyUserToken, tt.token))
			}
			if tt.user != "" {
				require.NoError(t, st.Set(ctx, store.KeyUserData, tt.user))
			}

			snap := NewAuth(&fakeAuthClient{}, st, nil).Restore(ctx)
			assert.Equal(t, AuthAnonymous, snap.Status)
			assert.Empty(t, snap.Err)
		})
	}
}

func TestAuth_RestoreReadFailureIsAnonymous(t *testing.T) {
	st := newFlakyStore(t)
	st.failGet = true

	snap := NewAuth(&fakeAuthClient{}, st, nil).Restore(context.Background())
	assert.Equal(t, AuthAnonymous, snap.Status)
}

func TestAuth_RestoreDropsExpiredToken(t *testing.T) {
	ctx := context.Background()
	now := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, jwt.RegisteredClaims{
		ExpiresAt: jwt.NewNumericDate(now.Add(-time.Minute)),
	}).SignedString([]byte("secret"))
	require.NoError(t, err)

	st := newFlakyStore(t)
	require.NoError(t, st.Set(ctx, store.KeyUserToken, token))
	require.NoError(t, st.Set(ctx, store.KeyUserData, `{"username": "alice"}`))

	auth := NewAuth(&fakeAuthClient{}, st, nil)
	auth.now = func() time.Time { return now }
	assert.Equal(t, AuthAnonymous, auth.Restore(ctx).Status)

	auth.now = func() time.Time { return now.Add(-time.Hour) }
	assert.Equal(t, AuthAuthenticated, auth.Restore(ctx).Status)
}
