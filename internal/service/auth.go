package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/authgate/authgate-go/internal/crypto"
	"github.com/authgate/authgate-go/internal/model"
	"github.com/authgate/authgate-go/internal/repository"
	"github.com/authgate/authgate-go/internal/session"
)

var (
	ErrNameRequired       = errors.New("name is required")
	ErrEmailRequired      = errors.New("email is required")
	ErrPasswordRequired   = errors.New("password is required")
	ErrPasswordMismatch   = errors.New("passwords do not match")
	ErrEmailTaken         = errors.New("email already in use")
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid password")
)

// UserStore is the credential store users are persisted in.
// *repository.UserRepository satisfies it; tests substitute an
// in-memory fake.
type UserStore interface {
	Create(ctx context.Context, user *model.User) error
	GetByEmail(ctx context.Context, email string) (*model.User, error)
}

// AuthService handles registration and login. On success it establishes
// both identity mechanisms: a server-side session and a bearer token.
type AuthService struct {
	users     UserStore
	sessions  *session.Store
	jwtSecret string
	jwtExpiry time.Duration
}

// NewAuthService creates a new AuthService.
func NewAuthService(users UserStore, sessions *session.Store, secret string, expiry time.Duration) *AuthService {
	return &AuthService{
		users:     users,
		sessions:  sessions,
		jwtSecret: secret,
		jwtExpiry: expiry,
	}
}

// Register creates a new user account, starts a session, and returns a
// signed token. Registration success is defined by the user row landing
// in the database: there is no rollback if session creation fails
// afterwards — the account exists and the client recovers by logging in.
func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (model.AuthResponse, error) {
	if strings.TrimSpace(req.Name) == "" {
		return model.AuthResponse{}, ErrNameRequired
	}
	if strings.TrimSpace(req.Email) == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}
	if req.Password != req.ConfirmPassword {
		return model.AuthResponse{}, ErrPasswordMismatch
	}

	hash, err := crypto.HashPassword(req.Password)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("hashing password: %w", err)
	}

	user := &model.User{
		Name:         strings.TrimSpace(req.Name),
		Email:        normalizeEmail(req.Email),
		PasswordHash: hash,
	}

	if err := s.users.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicateEmail) {
			return model.AuthResponse{}, ErrEmailTaken
		}
		return model.AuthResponse{}, fmt.Errorf("creating user: %w", err)
	}

	slog.Info("user registered", "user_id", user.ID, "email", user.Email)

	return s.issueIdentity(ctx, user, "user created successfully")
}

// Login authenticates a user by email and password, starts a fresh
// session, and returns a signed token.
func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (model.AuthResponse, error) {
	if strings.TrimSpace(req.Email) == "" {
		return model.AuthResponse{}, ErrEmailRequired
	}
	if req.Password == "" {
		return model.AuthResponse{}, ErrPasswordRequired
	}

	user, err := s.users.GetByEmail(ctx, normalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, repository.ErrUserNotFound) {
			return model.AuthResponse{}, ErrUserNotFound
		}
		return model.AuthResponse{}, fmt.Errorf("finding user: %w", err)
	}

	match, err := crypto.VerifyPassword(req.Password, user.PasswordHash)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("verifying password: %w", err)
	}
	if !match {
		return model.AuthResponse{}, ErrInvalidCredentials
	}

	slog.Info("user logged in", "user_id", user.ID, "email", user.Email)

	return s.issueIdentity(ctx, user, "authentication successful")
}

// issueIdentity establishes a session and mints a token for a user who
// has just proven their identity. Session create and token signing run
// sequentially; either failure surfaces as an internal error.
func (s *AuthService) issueIdentity(ctx context.Context, user *model.User, msg string) (model.AuthResponse, error) {
	sessionID, err := s.sessions.Create(ctx, user.ID, user.Email)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("creating session: %w", err)
	}

	token, err := crypto.GenerateToken(user.ID, s.jwtSecret, s.jwtExpiry)
	if err != nil {
		return model.AuthResponse{}, fmt.Errorf("signing token: %w", err)
	}

	return model.AuthResponse{
		Msg:       msg,
		Token:     token,
		SessionID: sessionID,
		User:      publicUser(user),
	}, nil
}

func publicUser(user *model.User) model.UserResponse {
	return model.UserResponse{
		ID:    user.ID,
		Name:  user.Name,
		Email: user.Email,
	}
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
