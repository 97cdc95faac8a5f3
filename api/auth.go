package api

import (
	"context"
	"encoding/json"

	"marche/models"
)

// Session is the credential bundle returned by login and registration.
type Session struct {
	AccessToken string      `json:"access_token"`
	User        models.User `json:"user"`
}

// Login exchanges credentials for a session. The token is not installed on
// the client automatically; callers decide when to adopt it.
func (c *Client) Login(ctx context.Context, email, password string) (*Session, error) {
	raw, err := c.post(ctx, "/auth/login", models.LoginInput{Email: email, Password: password})
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Register creates an account and returns the fresh session.
func (c *Client) Register(ctx context.Context, input models.RegisterInput) (*Session, error) {
	raw, err := c.post(ctx, "/auth/register", input)
	if err != nil {
		return nil, err
	}
	var session Session
	if err := json.Unmarshal(raw, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// Me fetches the user behind the installed token, validating it.
func (c *Client) Me(ctx context.Context) (*models.User, error) {
	raw, err := c.get(ctx, "/auth/me")
	if err != nil {
		return nil, err
	}
	var payload struct {
		User models.User `json:"user"`
	}
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, err
	}
	return &payload.User, nil
}
