package service

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"moviedeck-cli/model"
)

const (
	DefaultAuthBaseURL   = "https://dummyjson.com"
	DefaultExpiresInMins = 30

	loginPath        = "/auth/login"
	createUserPath   = "/users/add"
	mockTokenPrefix  = "mock_token_"
	loginFailedText  = "Login failed"
	registerFailText = "Registration failed"
)

type AuthConfig struct {
	BaseURL       string
	ExpiresInMins int
	// OfflineRegistrationFallback makes Register build a local account when the
	// remote create-user call fails, so registration never fails for the caller.
	OfflineRegistrationFallback bool
}

// AuthResponse is the user payload returned by the auth provider. Depending on the
// endpoint and provider version the session token arrives as accessToken or token.
type AuthResponse struct {
	ID          int64  `json:"id"`
	Username    string `json:"username"`
	Email       string `json:"email"`
	FirstName   string `json:"firstName"`
	LastName    string `json:"lastName"`
	Image       string `json:"image"`
	AccessToken string `json:"accessToken"`
	Token       string `json:"token"`
}

// NormalizeUser maps a provider response onto a Session. accessToken wins over token;
// a response carrying neither is rejected.
func NormalizeUser(raw AuthResponse) (model.Session, error) {
	token := strings.TrimSpace(raw.AccessToken)
	if token == "" {
		token = strings.TrimSpace(raw.Token)
	}
	if token == "" {
		return model.Session{}, &AuthError{Message: "auth response did not include a session token"}
	}
	return model.Session{
		ID:        raw.ID,
		Username:  raw.Username,
		Email:     raw.Email,
		FirstName: raw.FirstName,
		LastName:  raw.LastName,
		Image:     raw.Image,
		Token:     token,
	}, nil
}

// AuthClient talks to the mock authentication service.
type AuthClient struct {
	http            *jsonClient
	baseURL         string
	expiresInMins   int
	offlineFallback bool
	now             func() time.Time
}

// NewAuthClient creates an auth client. If httpClient is nil, a default client is used.
func NewAuthClient(httpClient *http.Client, cfg AuthConfig, logger *slog.Logger) *AuthClient {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		baseURL = DefaultAuthBaseURL
	}
	expires := cfg.ExpiresInMins
	if expires <= 0 {
		expires = DefaultExpiresInMins
	}
	return &AuthClient{
		http:            newJSONClient(httpClient, logger),
		baseURL:         baseURL,
		expiresInMins:   expires,
		offlineFallback: cfg.OfflineRegistrationFallback,
		now:             time.Now,
	}
}

// Login exchanges credentials for a session. Surrounding whitespace is never
// significant in credentials and is trimmed before sending.
func (c *AuthClient) Login(ctx context.Context, username string, password string) (model.Session, error) {
	payload := struct {
		Username      string `json:"username"`
		Password      string `json:"password"`
		ExpiresInMins int    `json:"expiresInMins"`
	}{
		Username:      strings.TrimSpace(username),
		Password:      strings.TrimSpace(password),
		ExpiresInMins: c.expiresInMins,
	}

	var raw AuthResponse
	if err := c.post(ctx, loginPath, payload, &raw, loginFailedText); err != nil {
		return model.Session{}, err
	}
	if strings.TrimSpace(raw.Username) == "" {
		raw.Username = payload.Username
	}
	return NormalizeUser(raw)
}

// Register creates an account. The provider never issues a token for new accounts, so
// one is synthesised from the current time.
func (c *AuthClient) Register(ctx context.Context, username string, email string, password string) (model.Session, error) {
	username = strings.TrimSpace(username)
	email = strings.TrimSpace(email)
	payload := struct {
		Username string `json:"username"`
		Email    string `json:"email"`
		Password string `json:"password"`
	}{
		Username: username,
		Email:    email,
		Password: strings.TrimSpace(password),
	}

	var raw AuthResponse
	err := c.post(ctx, createUserPath, payload, &raw, registerFailText)
	if err != nil {
		if !c.offlineFallback || errors.Is(err, context.Canceled) {
			return model.Session{}, err
		}
		c.http.logger.Warn("remote registration failed; using offline account",
			slog.String("username", username),
			slog.String("error", err.Error()),
		)
		return c.offlineSession(username, email), nil
	}

	raw.AccessToken = ""
	raw.Token = c.syntheticToken()
	if strings.TrimSpace(raw.Username) == "" {
		raw.Username = username
	}
	if strings.TrimSpace(raw.Email) == "" {
		raw.Email = email
	}
	return NormalizeUser(raw)
}

func (c *AuthClient) offlineSession(username string, email string) model.Session {
	return model.Session{
		ID:        c.now().UnixMilli(),
		Username:  username,
		Email:     email,
		FirstName: username,
		LastName:  "",
		Token:     c.syntheticToken(),
	}
}

func (c *AuthClient) syntheticToken() string {
	return mockTokenPrefix + strconv.FormatInt(c.now().UnixMilli(), 10)
}

func (c *AuthClient) post(ctx context.Context, path string, payload any, out any, fallbackMessage string) error {
	err := c.http.do(ctx, http.MethodPost, joinURL(c.baseURL, path), payload, out)
	var status *statusError
	if errors.As(err, &status) {
		message := providerMessage(status.Body)
		if message == "" {
			message = fallbackMessage
		}
		return &AuthError{StatusCode: status.StatusCode, Message: message}
	}
	return err
}
