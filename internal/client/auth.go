package client

import (
	"context"
	"net/http"
	"strings"

	"go-interview-client/internal/credentials"
	"go-interview-client/internal/model"
	"go-interview-client/pkg/apierror"
)

// Register creates an account. The backend issues no tokens here; callers log
// in afterwards.
func (c *Client) Register(ctx context.Context, req model.RegisterRequest) (*model.User, error) {
	if strings.TrimSpace(req.Email) == "" || req.Password == "" {
		return nil, apierror.Validation(model.ErrInvalidInput)
	}

	var user model.User
	err := c.call(ctx, Request{Method: http.MethodPost, Path: "/auth/register", Body: req, SkipAuth: true}, &user)
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (c *Client) Login(ctx context.Context, email, password string) (*model.TokenPair, error) {
	if strings.TrimSpace(email) == "" || password == "" {
		return nil, apierror.Validation(model.ErrInvalidInput)
	}

	body := model.LoginRequest{Email: strings.TrimSpace(email), Password: password}
	return c.authenticate(ctx, Request{Method: http.MethodPost, Path: "/auth/login", Body: body, SkipAuth: true})
}

// LoginWithGoogle exchanges a Google ID token for a session.
func (c *Client) LoginWithGoogle(ctx context.Context, idToken string) (*model.TokenPair, error) {
	if strings.TrimSpace(idToken) == "" {
		return nil, apierror.Validation(model.ErrInvalidInput)
	}

	body := model.GoogleLoginRequest{IDToken: idToken}
	return c.authenticate(ctx, Request{Method: http.MethodPost, Path: "/auth/google", Body: body, SkipAuth: true})
}

func (c *Client) authenticate(ctx context.Context, req Request) (*model.TokenPair, error) {
	var tokens model.TokenPair
	if err := c.call(ctx, req, &tokens); err != nil {
		return nil, err
	}

	if err := c.saveTokens(tokens); err != nil {
		return nil, err
	}

	c.logger.Info("signed in", "path", req.Path, "mode", c.mode)
	return &tokens, nil
}

// Logout tells the backend best-effort and always drops local credentials.
func (c *Client) Logout(ctx context.Context) error {
	req := Request{Method: http.MethodPost, Path: "/auth/logout"}
	if c.mode == credentials.ModeToken {
		if pair, err := c.store.Load(); err == nil && pair.RefreshToken != "" {
			req.Body = model.RefreshRequest{RefreshToken: pair.RefreshToken}
		}
	}

	status, _, err := c.send(ctx, req, c.accessToken(), false)
	if err != nil {
		c.logger.Warn("logout request failed", "error", err)
	} else if status < 200 || status > 299 {
		c.logger.Warn("logout rejected by backend", "status", status)
	}

	return c.clearCredentials()
}

func (c *Client) Me(ctx context.Context) (*model.User, error) {
	var user model.User
	if err := c.call(ctx, Request{Method: http.MethodGet, Path: "/auth/me"}, &user); err != nil {
		return nil, err
	}
	return &user, nil
}
