package session

import (
	"strings"
	"time"
)

// Identity is the user a token belongs to.
type Identity struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name,omitempty"`
	LastName  string `json:"last_name,omitempty"`
	Role      string `json:"role,omitempty"`
}

// DisplayName returns the full name, or the username when no name is known.
func (i Identity) DisplayName() string {
	name := strings.TrimSpace(strings.TrimSpace(i.FirstName) + " " + strings.TrimSpace(i.LastName))
	if name == "" {
		return i.Username
	}
	return name
}

// Credentials is what a successful login returns.
type Credentials struct {
	AccessToken string
	TokenType   string
}

// Session is an authenticated session.
type Session struct {
	Token       string    `json:"access_token"`
	TokenType   string    `json:"token_type"`
	BaseURL     string    `json:"base_url"`
	User        Identity  `json:"user"`
	CreatedAt   time.Time `json:"created_at"`
	ValidatedAt time.Time `json:"validated_at"`
}

// Valid reports whether the session carries a token.
func (s *Session) Valid() bool {
	return s != nil && s.Token != ""
}

// AuthorizationHeader returns the Authorization header value.
func (s *Session) AuthorizationHeader() string {
	if !s.Valid() {
		return ""
	}
	typ := s.TokenType
	if typ == "" || strings.EqualFold(typ, "bearer") {
		typ = "Bearer"
	}
	return typ + " " + s.Token
}

func (s *Session) clone() *Session {
	if s == nil {
		return nil
	}
	c := *s
	return &c
}
