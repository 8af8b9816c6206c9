package api

import (
	"context"
	"fmt"
	"net/http"
)

// Token is the login response.
type Token struct {
	AccessToken string `json:"access_token"`
	TokenType   string `json:"token_type"`
}

// User is a backend user account.
type User struct {
	ID        int    `json:"id"`
	Username  string `json:"username"`
	Email     string `json:"email"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Role      string `json:"role"`
	IsActive  bool   `json:"is_active"`
}

// Login exchanges credentials for an access token using the OAuth2 password form.
func (c *Client) Login(ctx context.Context, username, password string) (Token, error) {
	req := c.request(ctx).SetFormData(map[string]string{
		"username": username,
		"password": password,
	})
	body, err := c.send(ctx, req, http.MethodPost, loginPath)
	if err != nil {
		return Token{}, err
	}

	var tok Token
	if err = decodeJSON(body, &tok, loginPath); err != nil {
		return Token{}, err
	}
	if tok.AccessToken == "" {
		return Token{}, fmt.Errorf("decoding %s response: missing access_token", loginPath)
	}
	return tok, nil
}

// Me returns the user owning the current token.
func (c *Client) Me(ctx context.Context) (User, error) {
	var u User
	if err := c.getJSON(ctx, "/auth/me", nil, &u); err != nil {
		return User{}, err
	}
	return u, nil
}
