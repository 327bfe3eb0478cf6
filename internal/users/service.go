package users

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"healthtrack-backend/internal/shared/session"
	"healthtrack-backend/internal/shared/telemetry"
)

var (
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrWeakPassword       = errors.New("password must be at least 8 characters")
)

// ResetTokenTTL bounds how long a password reset link stays valid.
const ResetTokenTTL = time.Hour

// ResetMailer sends the password reset email. Implementations must not block
// the request path on provider latency beyond their own timeout.
type ResetMailer interface {
	SendPasswordReset(ctx context.Context, email, resetURL string) error
}

type Service struct {
	Repo        Repo
	Mailer      ResetMailer
	AuthSecret  string
	ResetSecret string
	AppURL      string
}

func NewService(repo Repo, mailer ResetMailer, authSecret, resetSecret, appURL string) *Service {
	return &Service{
		Repo:        repo,
		Mailer:      mailer,
		AuthSecret:  authSecret,
		ResetSecret: resetSecret,
		AppURL:      strings.TrimRight(appURL, "/"),
	}
}

// Register creates an account and returns the user plus a signed session token.
func (s *Service) Register(ctx context.Context, email, name, password string) (User, string, error) {
	if s == nil || s.Repo == nil {
		return User{}, "", errors.New("users service not configured")
	}
	email = strings.ToLower(strings.TrimSpace(email))
	name = strings.TrimSpace(name)
	if email == "" || !strings.Contains(email, "@") {
		return User{}, "", errors.New("a valid email is required")
	}
	if name == "" {
		return User{}, "", errors.New("name is required")
	}
	if len(password) < 8 {
		return User{}, "", ErrWeakPassword
	}

	hash, err := session.HashPassword(password)
	if err != nil {
		return User{}, "", fmt.Errorf("hash password: %w", err)
	}

	user := User{
		ID:           uuid.NewString(),
		Email:        email,
		Name:         name,
		PasswordHash: hash,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}
	if err := s.Repo.Create(ctx, user); err != nil {
		return User{}, "", err
	}

	token, err := session.Sign(s.AuthSecret, user.ID)
	if err != nil {
		return User{}, "", fmt.Errorf("sign session token: %w", err)
	}
	return user, token, nil
}

// Login verifies credentials and returns the user plus a signed session token.
// Missing accounts and wrong passwords both return ErrInvalidCredentials.
func (s *Service) Login(ctx context.Context, email, password string) (User, string, error) {
	if s == nil || s.Repo == nil {
		return User{}, "", errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return User{}, "", ErrInvalidCredentials
		}
		return User{}, "", err
	}
	if !session.VerifyPassword(user.PasswordHash, password) {
		return User{}, "", ErrInvalidCredentials
	}

	token, err := session.Sign(s.AuthSecret, user.ID)
	if err != nil {
		return User{}, "", fmt.Errorf("sign session token: %w", err)
	}
	return user, token, nil
}

func (s *Service) GetByID(ctx context.Context, userID string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return User{}, errors.New("user id is required")
	}
	return s.Repo.GetByID(ctx, userID)
}

// UpdateName changes the display name of the current user and returns the
// updated record.
func (s *Service) UpdateName(ctx context.Context, userID, name string) (User, error) {
	if s == nil || s.Repo == nil {
		return User{}, errors.New("users service not configured")
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return User{}, errors.New("name cannot be empty")
	}
	if err := s.Repo.UpdateName(ctx, userID, name); err != nil {
		return User{}, err
	}
	return s.Repo.GetByID(ctx, userID)
}

// DeleteAccount removes the user. Documents and markers go with the account
// row; the caller is responsible for clearing the session cookie.
func (s *Service) DeleteAccount(ctx context.Context, userID string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if strings.TrimSpace(userID) == "" {
		return errors.New("user id is required")
	}
	return s.Repo.Delete(ctx, userID)
}

// ForgotPassword emails a reset link when the account exists. It never reveals
// whether the email is registered; unknown addresses are a silent no-op.
func (s *Service) ForgotPassword(ctx context.Context, email string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	user, err := s.Repo.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil
		}
		return err
	}

	token, err := session.SignReset(s.ResetSecret, user.ID, ResetTokenTTL)
	if err != nil {
		return fmt.Errorf("sign reset token: %w", err)
	}
	resetURL := fmt.Sprintf("%s/reset-password?token=%s", s.AppURL, token)

	if s.Mailer == nil {
		telemetry.Warn("password_reset.mailer_missing", map[string]any{"user_id": user.ID})
		return nil
	}
	if err := s.Mailer.SendPasswordReset(ctx, user.Email, resetURL); err != nil {
		telemetry.Error("password_reset.send_failed", map[string]any{
			"user_id": user.ID,
			"error":   err.Error(),
		})
	}
	return nil
}

// ResetPassword validates a reset token and replaces the stored password.
func (s *Service) ResetPassword(ctx context.Context, token, password string) error {
	if s == nil || s.Repo == nil {
		return errors.New("users service not configured")
	}
	if len(password) < 8 {
		return ErrWeakPassword
	}
	userID, err := session.VerifyReset(s.ResetSecret, token)
	if err != nil {
		return session.ErrInvalidToken
	}
	hash, err := session.HashPassword(password)
	if err != nil {
		return fmt.Errorf("hash password: %w", err)
	}
	return s.Repo.UpdatePassword(ctx, userID, hash)
}
