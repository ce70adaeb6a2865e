package auth_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/metarwatch/metarwatch/internal/auth"
)

func newService(now func() time.Time) (*auth.Service, *auth.InMemoryAdminRepository) {
	admins := auth.NewInMemoryAdminRepository()
	svc := auth.NewService(auth.ServiceConfig{
		JWTService: auth.NewJWTService(auth.JWTConfig{
			SigningKey: "test-secret-key-for-testing-only",
			Issuer:     "https://api.metarwatch.io",
			Audience:   "metarwatch-api",
		}),
		Admins: admins,
		Logger: zerolog.Nop(),
		Now:    now,
	})
	return svc, admins
}

func TestBootstrap(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	admin, err := svc.Bootstrap(ctx, &auth.CredentialsRequest{Username: "ops", Password: "correct-horse-battery"})
	if err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	if admin.Username != "ops" || admin.ID == "" {
		t.Errorf("admin = %+v", admin)
	}
	if admin.PasswordHash == "" || admin.PasswordHash == "correct-horse-battery" {
		t.Error("password must be stored hashed")
	}

	// Second bootstrap is refused.
	if _, err := svc.Bootstrap(ctx, &auth.CredentialsRequest{Username: "other", Password: "another-password-1"}); err != auth.ErrAlreadyBootstrapped {
		t.Errorf("second bootstrap err = %v, want ErrAlreadyBootstrapped", err)
	}
}

func TestBootstrap_RejectsShortPassword(t *testing.T) {
	svc, _ := newService(nil)
	if _, err := svc.Bootstrap(context.Background(), &auth.CredentialsRequest{Username: "ops", Password: "short"}); err == nil {
		t.Fatal("expected validation error for short password")
	}
}

func TestLogin(t *testing.T) {
	svc, _ := newService(nil)
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx, &auth.CredentialsRequest{Username: "ops", Password: "correct-horse-battery"}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	t.Run("valid credentials", func(t *testing.T) {
		resp, err := svc.Login(ctx, &auth.CredentialsRequest{Username: "ops", Password: "correct-horse-battery"})
		if err != nil {
			t.Fatalf("login: %v", err)
		}
		if resp.TokenType != "Bearer" || resp.AccessToken == "" {
			t.Errorf("response = %+v", resp)
		}

		username, err := svc.ValidateAccessToken(resp.AccessToken)
		if err != nil {
			t.Fatalf("validate token: %v", err)
		}
		if username != "ops" {
			t.Errorf("username = %q, want ops", username)
		}
	})

	t.Run("wrong password", func(t *testing.T) {
		if _, err := svc.Login(ctx, &auth.CredentialsRequest{Username: "ops", Password: "wrong-password-here"}); err != auth.ErrInvalidCredentials {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})

	t.Run("unknown username", func(t *testing.T) {
		if _, err := svc.Login(ctx, &auth.CredentialsRequest{Username: "nobody", Password: "whatever-password"}); err != auth.ErrInvalidCredentials {
			t.Errorf("err = %v, want ErrInvalidCredentials", err)
		}
	})
}

func TestPasswordReset(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	clock := func() time.Time { return now }
	svc, _ := newService(clock)
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx, &auth.CredentialsRequest{Username: "ops", Password: "correct-horse-battery"}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}

	code, err := svc.RequestPasswordReset(ctx, &auth.ResetRequest{Username: "ops"})
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if len(code) != 6 {
		t.Fatalf("code = %q, want six digits", code)
	}

	t.Run("wrong code", func(t *testing.T) {
		wrong := "000000"
		if wrong == code {
			wrong = "000001"
		}
		err := svc.ConfirmPasswordReset(ctx, &auth.ResetConfirmRequest{Username: "ops", Code: wrong, NewPassword: "brand-new-password"})
		if err != auth.ErrInvalidResetCode {
			t.Errorf("err = %v, want ErrInvalidResetCode", err)
		}
	})

	t.Run("valid code", func(t *testing.T) {
		err := svc.ConfirmPasswordReset(ctx, &auth.ResetConfirmRequest{Username: "ops", Code: code, NewPassword: "brand-new-password"})
		if err != nil {
			t.Fatalf("confirm reset: %v", err)
		}

		if _, err := svc.Login(ctx, &auth.CredentialsRequest{Username: "ops", Password: "correct-horse-battery"}); err != auth.ErrInvalidCredentials {
			t.Errorf("old password still accepted: err = %v", err)
		}
		if _, err := svc.Login(ctx, &auth.CredentialsRequest{Username: "ops", Password: "brand-new-password"}); err != nil {
			t.Errorf("new password rejected: %v", err)
		}
	})

	t.Run("code is single use", func(t *testing.T) {
		err := svc.ConfirmPasswordReset(ctx, &auth.ResetConfirmRequest{Username: "ops", Code: code, NewPassword: "yet-another-password"})
		if err != auth.ErrInvalidResetCode {
			t.Errorf("err = %v, want ErrInvalidResetCode for reused code", err)
		}
	})
}

func TestPasswordReset_Expiry(t *testing.T) {
	now := time.Date(2026, 2, 20, 10, 0, 0, 0, time.UTC)
	svc, _ := newService(func() time.Time { return now })
	ctx := context.Background()

	if _, err := svc.Bootstrap(ctx, &auth.CredentialsRequest{Username: "ops", Password: "correct-horse-battery"}); err != nil {
		t.Fatalf("bootstrap: %v", err)
	}
	code, err := svc.RequestPasswordReset(ctx, &auth.ResetRequest{Username: "ops"})
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}

	now = now.Add(31 * time.Minute)
	err = svc.ConfirmPasswordReset(ctx, &auth.ResetConfirmRequest{Username: "ops", Code: code, NewPassword: "brand-new-password"})
	if err != auth.ErrInvalidResetCode {
		t.Errorf("err = %v, want ErrInvalidResetCode after expiry", err)
	}
}

func TestPasswordReset_UnknownAccount(t *testing.T) {
	svc, _ := newService(nil)

	// No error and no code: the endpoint must not reveal account existence.
	code, err := svc.RequestPasswordReset(context.Background(), &auth.ResetRequest{Username: "nobody"})
	if err != nil {
		t.Fatalf("request reset: %v", err)
	}
	if code != "" {
		t.Errorf("code = %q, want empty for unknown account", code)
	}
}
