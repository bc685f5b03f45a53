package client

import (
	"context"
	"errors"
	"net/http"

	"github.com/DjordjeVuckovic/essay-grader/internal/apperr"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type User struct {
	ID       int64  `json:"id"`
	Username string `json:"username"`
	FullName string `json:"nombre_completo,omitempty"`
}

type loginResponse struct {
	Message string `json:"message"`
	User    User   `json:"user"`
}

// Login authenticates and stores the session cookie in the client's jar.
func (c *Client) Login(ctx context.Context, username, password string) (*User, error) {
	if username == "" || password == "" {
		return nil, apperr.NewValidation("username and password are required")
	}

	var resp loginResponse
	if err := c.do(ctx, "login", http.MethodPost, loginRequest{Username: username, Password: password}, &resp, "api", "login"); err != nil {
		return nil, err
	}
	return &resp.User, nil
}

func (c *Client) Logout(ctx context.Context) error {
	return c.do(ctx, "logout", http.MethodPost, nil, nil, "api", "logout")
}

// VerifySession reports whether the current session cookie is still accepted.
func (c *Client) VerifySession(ctx context.Context) (bool, error) {
	err := c.do(ctx, "verify session", http.MethodGet, nil, nil, "api", "verify-token")
	if errors.Is(err, apperr.ErrUnauthorized) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	return true, nil
}
