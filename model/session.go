package model

import (
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

type Session struct {
	ID        int64  `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Image     string `json:"image,omitempty"`
	Token     string `json:"token"`
}

func (s Session) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(s.FirstName) + " " + strings.TrimSpace(s.LastName))
	if name != "" {
		return name
	}
	return s.Username
}

// ExpiresAt reads the exp claim when the token is a JWT. Signatures are not checked:
// the client never holds the provider's key and only uses exp to drop stale sessions.
func (s Session) ExpiresAt() (time.Time, bool) {
	if strings.Count(s.Token, ".") != 2 {
		return time.Time{}, false
	}
	claims := jwt.RegisteredClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.Token, &claims); err != nil {
		return time.Time{}, false
	}
	if claims.ExpiresAt == nil {
		return time.Time{}, false
	}
	return claims.ExpiresAt.Time, true
}

func (s Session) Expired(now time.Time) bool {
	exp, ok := s.ExpiresAt()
	return ok && !now.Before(exp)
}
