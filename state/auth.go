package state

import (
	"context"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"

	"moviedeck-cli/model"
	"moviedeck-cli/store"
)

type AuthStatus string

const (
	AuthAnonymous      AuthStatus = "anonymous"
	AuthAuthenticating AuthStatus = "authenticating"
	AuthAuthenticated  AuthStatus = "authenticated"
	AuthFailed         AuthStatus = "error"
)

const (
	loginFailedMessage    = "Login failed"
	registerFailedMessage = "Registration failed"
)

// ErrAuthInFlight is returned when a login or register intent arrives while another is pending.
var ErrAuthInFlight = errors.New("authentication already in progress")

type AuthClient interface {
	Login(ctx context.Context, username string, password string) (model.Session, error)
	Register(ctx context.Context, username string, email string, password string) (model.Session, error)
}

type AuthSnapshot struct {
	Status  AuthStatus
	Session *model.Session
	Loading bool
	Err     string
}

func (s AuthSnapshot) IsAuthenticated() bool {
	return s.Session != nil && s.Session.Username != "" && s.Session.Token != ""
}

// Auth owns the session. The session is mirrored to the store under
// store.KeyUserToken and store.KeyUserData.
type Auth struct {
	client AuthClient
	store  store.Store
	logger *slog.Logger
	now    func() time.Time

	mu       sync.Mutex
	status   AuthStatus
	session  *model.Session
	err      string
	inFlight bool
}

func NewAuth(client AuthClient, st store.Store, logger *slog.Logger) *Auth {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}
	return &Auth{
		client: client,
		store:  st,
		logger: logger.With("component", "auth"),
		now:    time.Now,
		status: AuthAnonymous,
	}
}

func (a *Auth) Login(ctx context.Context, username string, password string) error {
	if err := a.begin(); err != nil {
		return err
	}
	session, err := a.client.Login(ctx, username, password)
	return a.complete(ctx, withUsername(session, username), err, loginFailedMessage)
}

func (a *Auth) Register(ctx context.Context, creds model.RegisterCredentials) error {
	if err := a.begin(); err != nil {
		return err
	}
	session, err := a.client.Register(ctx, creds.Username, creds.Email, creds.Password)
	return a.complete(ctx, withUsername(session, creds.Username), err, registerFailedMessage)
}

// withUsername fills a missing username from the submitted one so an accepted
// session always has a user record.
func withUsername(session model.Session, username string) model.Session {
	if strings.TrimSpace(session.Username) == "" {
		session.Username = strings.TrimSpace(username)
	}
	return session
}

func (a *Auth) begin() error {
	a.mu.Lock()
	defer a.mu.Unlock()
	if a.inFlight {
		return ErrAuthInFlight
	}
	a.inFlight = true
	a.status = AuthAuthenticating
	a.err = ""
	return nil
}

func (a *Auth) complete(ctx context.Context, session model.Session, err error, fallback string) error {
	if err != nil {
		message := strings.TrimSpace(err.Error())
		if message == "" {
			message = fallback
		}
		a.mu.Lock()
		a.inFlight = false
		a.status = AuthFailed
		a.err = message
		a.mu.Unlock()
		a.logger.Warn("authentication failed", "error", err)
		return err
	}

	a.persist(ctx, session)

	a.mu.Lock()
	a.inFlight = false
	a.status = AuthAuthenticated
	a.session = &session
	a.err = ""
	a.mu.Unlock()
	a.logger.Info("authenticated", "username", session.Username)
	return nil
}

func (a *Auth) persist(ctx context.Context, session model.Session) {
	if err := a.store.Set(ctx, store.KeyUserToken, session.Token); err != nil {
		a.logger.Warn("persist session token", "error", err)
	}
	if err := store.SaveJSON(ctx, a.store, store.KeyUserData, session); err != nil {
		a.logger.Warn("persist session user", "error", err)
	}
}

// Logout never fails observably; storage errors are logged.
func (a *Auth) Logout(ctx context.Context) {
	a.mu.Lock()
	a.session = nil
	a.status = AuthAnonymous
	a.err = ""
	a.mu.Unlock()

	for _, key := range []string{store.KeyUserToken, store.KeyUserData} {
		if err := a.store.Remove(ctx, key); err != nil {
			a.logger.Warn("remove session key", "key", key, "error", err)
		}
	}
}

// Restore seeds the session from the store. Missing, malformed or expired data leaves the container anonymous.
func (a *Auth) Restore(ctx context.Context) AuthSnapshot {
	session, ok := a.readStoredSession(ctx)

	a.mu.Lock()
	if ok {
		a.session = &session
		a.status = AuthAuthenticated
	} else {
		a.session = nil
		a.status = AuthAnonymous
	}
	a.err = ""
	a.mu.Unlock()

	return a.Snapshot()
}

func (a *Auth) readStoredSession(ctx context.Context) (model.Session, bool) {
	token, ok, err := a.store.Get(ctx, store.KeyUserToken)
	if err != nil {
		a.logger.Warn("read session token", "error", err)
		return model.Session{}, false
	}
	if !ok || strings.TrimSpace(token) == "" {
		return model.Session{}, false
	}

	session, ok, err := store.LoadJSON[model.Session](ctx, a.store, store.KeyUserData)
	if err != nil {
		a.logger.Warn("read session user", "error", err)
		return model.Session{}, false
	}
	if !ok || strings.TrimSpace(session.Username) == "" {
		return model.Session{}, false
	}

	session.Token = token
	if session.Expired(a.now()) {
		a.logger.Info("stored session expired", "username", session.Username)
		return model.Session{}, false
	}
	return session, true
}

func (a *Auth) ClearError() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.err = ""
	if a.status == AuthFailed {
		if a.session != nil {
			a.status = AuthAuthenticated
		} else {
			a.status = AuthAnonymous
		}
	}
}

func (a *Auth) Snapshot() AuthSnapshot {
	a.mu.Lock()
	defer a.mu.Unlock()
	snap := AuthSnapshot{
		Status:  a.status,
		Loading: a.inFlight,
		Err:     a.err,
	}
	if a.session != nil {
		session := *a.session
		snap.Session = &session
	}
	return snap
}
