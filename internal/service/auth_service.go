package service

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"

	"go-interview-client/internal/model"
	"go-interview-client/internal/repository"
	"go-interview-client/pkg/apierror"
)

const (
	tokenTypeAccess  = "access"
	tokenTypeRefresh = "refresh"
	bcryptCost       = 12
	defaultRole      = "candidate"
)

type AuthService struct {
	users      *repository.UserRepository
	tokens     *repository.TokenRepository
	jwtSecret  []byte
	accessTTL  time.Duration
	refreshTTL time.Duration
	now        func() time.Time
	hashCost   int
}

type AuthOption func(*AuthService)

// WithClock replaces time.Now for token issuing and validation.
func WithClock(now func() time.Time) AuthOption {
	return func(s *AuthService) { s.now = now }
}

// WithHashCost lowers the bcrypt cost, for tests.
func WithHashCost(cost int) AuthOption {
	return func(s *AuthService) { s.hashCost = cost }
}

func NewAuthService(users *repository.UserRepository, tokens *repository.TokenRepository, jwtSecret string, accessTTL, refreshTTL time.Duration, opts ...AuthOption) *AuthService {
	s := &AuthService{
		users:      users,
		tokens:     tokens,
		jwtSecret:  []byte(jwtSecret),
		accessTTL:  accessTTL,
		refreshTTL: refreshTTL,
		now:        time.Now,
		hashCost:   bcryptCost,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.User, error) {
	email := strings.TrimSpace(req.Email)
	if !strings.Contains(email, "@") || strings.TrimSpace(req.Password) == "" {
		return model.User{}, apierror.New(http.StatusUnprocessableEntity, "email and password are required")
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.hashCost)
	if err != nil {
		return model.User{}, err
	}

	role := strings.ToLower(strings.TrimSpace(req.Role))
	if role == "" {
		role = defaultRole
	}

	record, err := s.users.Create(ctx, repository.UserRecord{
		User:         model.User{Email: email, Name: strings.TrimSpace(req.Name), Role: role},
		PasswordHash: string(hash),
		CreatedAt:    s.now().UTC(),
	})
	if errors.Is(err, model.ErrUserAlreadyExists) {
		return model.User{}, apierror.New(http.StatusBadRequest, "Email already registered")
	}
	if err != nil {
		return model.User{}, err
	}

	return record.User, nil
}

func (s *AuthService) Login(ctx context.Context, email, password string) (model.TokenPair, error) {
	record, err := s.users.FindByEmail(ctx, email)
	if err != nil || record.PasswordHash == "" {
		return model.TokenPair{}, invalidCredentials()
	}

	if err := bcrypt.CompareHashAndPassword([]byte(record.PasswordHash), []byte(password)); err != nil {
		return model.TokenPair{}, invalidCredentials()
	}

	return s.issueTokenPair(ctx, record.User)
}

// LoginWithGoogle trusts the email claim of the id token without verifying
// its signature; the stand-in has no Google keys to check against.
func (s *AuthService) LoginWithGoogle(ctx context.Context, idToken string) (model.TokenPair, error) {
	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(strings.TrimSpace(idToken), claims); err != nil {
		return model.TokenPair{}, apierror.New(http.StatusUnauthorized, "Invalid Google ID token")
	}

	email, _ := claims["email"].(string)
	if !strings.Contains(email, "@") {
		return model.TokenPair{}, apierror.New(http.StatusBadRequest, "Google token did not contain an email")
	}

	record, err := s.users.FindByEmail(ctx, email)
	if errors.Is(err, model.ErrUserNotFound) {
		name, _ := claims["name"].(string)
		record, err = s.users.Create(ctx, repository.UserRecord{
			User:      model.User{Email: email, Name: name, Role: defaultRole},
			CreatedAt: s.now().UTC(),
		})
	}
	if err != nil {
		return model.TokenPair{}, err
	}

	return s.issueTokenPair(ctx, record.User)
}

// Refresh rotates: the presented refresh token is consumed and a new pair issued.
func (s *AuthService) Refresh(ctx context.Context, refreshToken string) (model.TokenPair, error) {
	claims, err := s.ValidateToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return model.TokenPair{}, apierror.New(http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	ownerID, err := s.tokens.Consume(ctx, claims.TokenID)
	if err != nil || strconv.FormatInt(ownerID, 10) != claims.Subject {
		return model.TokenPair{}, apierror.New(http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	record, err := s.users.FindByID(ctx, ownerID)
	if err != nil {
		return model.TokenPair{}, apierror.New(http.StatusUnauthorized, "Invalid or expired refresh token")
	}

	return s.issueTokenPair(ctx, record.User)
}

// Logout revokes the refresh token if it parses; anything else is a no-op.
func (s *AuthService) Logout(ctx context.Context, refreshToken string) {
	claims, err := s.ValidateToken(refreshToken, tokenTypeRefresh)
	if err != nil {
		return
	}
	_ = s.tokens.Revoke(ctx, claims.TokenID)
}

func (s *AuthService) ValidateToken(tokenString string, expectedType string) (*model.AuthClaims, error) {
	parser := jwt.NewParser(
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(s.now),
		jwt.WithExpirationRequired(),
	)

	parsed, err := parser.Parse(tokenString, func(*jwt.Token) (any, error) {
		return s.jwtSecret, nil
	})
	if err != nil || !parsed.Valid {
		return nil, apierror.New(http.StatusUnauthorized, "Could not validate credentials")
	}

	claimsMap, ok := parsed.Claims.(jwt.MapClaims)
	if !ok {
		return nil, apierror.New(http.StatusUnauthorized, "Could not validate credentials")
	}

	claims := &model.AuthClaims{}
	claims.Type, _ = claimsMap["type"].(string)
	claims.Subject, _ = claimsMap["sub"].(string)
	claims.TokenID, _ = claimsMap["jti"].(string)

	if expectedType != "" && claims.Type != expectedType {
		return nil, apierror.New(http.StatusUnauthorized, "Could not validate credentials")
	}
	if claims.Subject == "" {
		return nil, apierror.New(http.StatusUnauthorized, "Could not validate credentials")
	}

	return claims, nil
}

// Me resolves the user behind validated access claims.
func (s *AuthService) Me(ctx context.Context, claims *model.AuthClaims) (model.User, error) {
	id, err := UserIDFromClaims(claims)
	if err != nil {
		return model.User{}, err
	}

	record, err := s.users.FindByID(ctx, id)
	if err != nil {
		return model.User{}, apierror.New(http.StatusNotFound, "User not found")
	}
	return record.User, nil
}

func UserIDFromClaims(claims *model.AuthClaims) (int64, error) {
	if claims == nil {
		return 0, apierror.New(http.StatusUnauthorized, "Not authenticated")
	}
	id, err := strconv.ParseInt(claims.Subject, 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.New(http.StatusUnauthorized, "Could not validate credentials")
	}
	return id, nil
}

func (s *AuthService) AccessTTL() time.Duration {
	return s.accessTTL
}

func (s *AuthService) RefreshTTL() time.Duration {
	return s.refreshTTL
}

func (s *AuthService) issueTokenPair(ctx context.Context, user model.User) (model.TokenPair, error) {
	now := s.now().UTC()
	subject := strconv.FormatInt(user.ID, 10)
	refreshJTI := uuid.NewString()

	accessToken, err := s.signToken(jwt.MapClaims{
		"sub":   subject,
		"email": user.Email,
		"type":  tokenTypeAccess,
		"jti":   uuid.NewString(),
		"iat":   now.Unix(),
		"exp":   now.Add(s.accessTTL).Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	refreshExpiry := now.Add(s.refreshTTL)
	refreshToken, err := s.signToken(jwt.MapClaims{
		"sub":  subject,
		"type": tokenTypeRefresh,
		"jti":  refreshJTI,
		"iat":  now.Unix(),
		"exp":  refreshExpiry.Unix(),
	})
	if err != nil {
		return model.TokenPair{}, err
	}

	if err := s.tokens.Store(ctx, refreshJTI, user.ID, refreshExpiry); err != nil {
		return model.TokenPair{}, fmt.Errorf("store refresh token: %w", err)
	}

	return model.TokenPair{
		AccessToken:  accessToken,
		RefreshToken: refreshToken,
		TokenType:    "bearer",
		ExpiresIn:    int64(s.accessTTL.Seconds()),
	}, nil
}

func (s *AuthService) signToken(claims jwt.MapClaims) (string, error) {
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString(s.jwtSecret)
}

func invalidCredentials() error {
	return apierror.New(http.StatusUnauthorized, "Invalid credentials")
}
