package users_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"healthtrack-backend/internal/shared/session"
	"healthtrack-backend/internal/users"
)

type captureMailer struct {
	email    string
	resetURL string
	err      error
}

func (m *captureMailer) SendPasswordReset(ctx context.Context, email, resetURL string) error {
	m.email = email
	m.resetURL = resetURL
	return m.err
}

func newTestService(mailer *captureMailer) *users.Service {
	return users.NewService(users.NewMemoryRepo(), mailer, "auth-secret", "reset-secret", "http://localhost:3000")
}

func TestRegisterAndLogin(t *testing.T) {
	svc := newTestService(&captureMailer{})
	ctx := context.Background()

	user, token, err := svc.Register(ctx, "Ana@Example.com", "Ana", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.Email != "ana@example.com" {
		t.Fatalf("expected lowercased email, got %s", user.Email)
	}
	if token == "" {
		t.Fatalf("expected session token")
	}
	userID, err := session.Verify("auth-secret", token)
	if err != nil || userID != user.ID {
		t.Fatalf("token should verify to the new user, got %q err=%v", userID, err)
	}

	if _, _, err := svc.Register(ctx, "ana@example.com", "Other", "another pass"); !errors.Is(err, users.ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	if _, _, err := svc.Login(ctx, "ana@example.com", "wrong"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for bad password, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "nobody@example.com", "whatever"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials for unknown email, got %v", err)
	}

	logged, loginToken, err := svc.Login(ctx, "ana@example.com", "correct horse")
	if err != nil {
		t.Fatalf("login: %v", err)
	}
	if logged.ID != user.ID || loginToken == "" {
		t.Fatalf("login should return the registered user with a token")
	}
}

func TestRegisterRejectsWeakPassword(t *testing.T) {
	svc := newTestService(&captureMailer{})
	if _, _, err := svc.Register(context.Background(), "ana@example.com", "Ana", "short"); !errors.Is(err, users.ErrWeakPassword) {
		t.Fatalf("expected ErrWeakPassword, got %v", err)
	}
}

func TestForgotPasswordResetFlow(t *testing.T) {
	mailer := &captureMailer{}
	svc := newTestService(mailer)
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "ana@example.com", "Ana", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ForgotPassword(ctx, "ana@example.com"); err != nil {
		t.Fatalf("forgot password: %v", err)
	}
	if mailer.email != "ana@example.com" {
		t.Fatalf("expected reset mail to registered address, got %q", mailer.email)
	}
	idx := strings.Index(mailer.resetURL, "token=")
	if idx < 0 {
		t.Fatalf("reset url missing token: %s", mailer.resetURL)
	}
	token := mailer.resetURL[idx+len("token="):]

	if err := svc.ResetPassword(ctx, token, "a new password"); err != nil {
		t.Fatalf("reset password: %v", err)
	}
	if _, _, err := svc.Login(ctx, "ana@example.com", "correct horse"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("old password should no longer work")
	}
	logged, _, err := svc.Login(ctx, "ana@example.com", "a new password")
	if err != nil || logged.ID != user.ID {
		t.Fatalf("new password should log in: %v", err)
	}
}

func TestForgotPasswordUnknownEmailIsSilent(t *testing.T) {
	mailer := &captureMailer{}
	svc := newTestService(mailer)
	if err := svc.ForgotPassword(context.Background(), "nobody@example.com"); err != nil {
		t.Fatalf("unknown email should not error: %v", err)
	}
	if mailer.email != "" {
		t.Fatalf("no mail should be sent for unknown email")
	}
}

func TestUpdateName(t *testing.T) {
	svc := newTestService(&captureMailer{})
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "ana@example.com", "Ana", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	updated, err := svc.UpdateName(ctx, user.ID, "  Ana Maria  ")
	if err != nil {
		t.Fatalf("update name: %v", err)
	}
	if updated.Name != "Ana Maria" {
		t.Fatalf("expected trimmed name, got %q", updated.Name)
	}

	if _, err := svc.UpdateName(ctx, user.ID, "   "); err == nil {
		t.Fatalf("blank name must be rejected")
	}
	stored, err := svc.GetByID(ctx, user.ID)
	if err != nil || stored.Name != "Ana Maria" {
		t.Fatalf("rejected update must not change the name, got %q err=%v", stored.Name, err)
	}

	if _, err := svc.UpdateName(ctx, "missing-user", "Someone"); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("expected ErrNotFound for unknown user, got %v", err)
	}
}

func TestDeleteAccount(t *testing.T) {
	svc := newTestService(&captureMailer{})
	ctx := context.Background()

	user, _, err := svc.Register(ctx, "ana@example.com", "Ana", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.DeleteAccount(ctx, user.ID); err != nil {
		t.Fatalf("delete account: %v", err)
	}
	if _, err := svc.GetByID(ctx, user.ID); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("deleted account should read as not found, got %v", err)
	}
	if _, _, err := svc.Login(ctx, "ana@example.com", "correct horse"); !errors.Is(err, users.ErrInvalidCredentials) {
		t.Fatalf("deleted account must not log in, got %v", err)
	}

	if err := svc.DeleteAccount(ctx, user.ID); !errors.Is(err, users.ErrNotFound) {
		t.Fatalf("second delete should report not found, got %v", err)
	}
}

func TestResetPasswordRejectsSessionToken(t *testing.T) {
	svc := newTestService(&captureMailer{})
	ctx := context.Background()

	_, token, err := svc.Register(ctx, "ana@example.com", "Ana", "correct horse")
	if err != nil {
		t.Fatalf("register: %v", err)
	}

	if err := svc.ResetPassword(ctx, token, "a new password"); !errors.Is(err, session.ErrInvalidToken) {
		t.Fatalf("session token must not reset passwords, got %v", err)
	}
}
