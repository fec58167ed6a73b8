package model

import (
	"fmt"
	"strings"
)

type User struct {
	ID    int64  `json:"id"`
	Email string `json:"email"`
	Name  string `json:"name,omitempty"`
	Role  string `json:"role,omitempty"`
}

func (u User) Validate() error {
	if u.ID <= 0 || strings.TrimSpace(u.Email) == "" {
		return fmt.Errorf("%w: user requires id and email", ErrMalformedResponse)
	}
	return nil
}

type RegisterRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
	Name     string `json:"name,omitempty"`
	Role     string `json:"role,omitempty"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type GoogleLoginRequest struct {
	IDToken string `json:"id_token_str"`
}

type RefreshRequest struct {
	RefreshToken string `json:"refresh_token"`
}

type TokenPair struct {
	AccessToken  string `json:"access_token"`
	RefreshToken string `json:"refresh_token,omitempty"`
	TokenType    string `json:"token_type"`
	ExpiresIn    int64  `json:"expires_in,omitempty"`
}

func (p TokenPair) Validate() error {
	if strings.TrimSpace(p.AccessToken) == "" {
		return fmt.Errorf("%w: token response has no access_token", ErrMalformedResponse)
	}
	return nil
}

// AuthClaims is what the stand-in backend reads out of a validated JWT.
type AuthClaims struct {
	Subject string `json:"sub"`
	Type    string `json:"type"`
	TokenID string `json:"jti"`
}
