package auth

import (
	"errors"
	"testing"
	"time"

	"github.com/vladislavdragonenkov/storefront/internal/storage/memory"
)

func TestTokenManager_IssueAndValidate(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", time.Hour)

	token, err := manager.Issue("admin@shop.com", true)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}

	claims, err := manager.Validate(token)
	if err != nil {
		t.Fatalf("validate failed: %v", err)
	}
	if claims.Email != "admin@shop.com" || !claims.IsAdmin {
		t.Fatalf("unexpected claims %+v", claims)
	}
}

func TestTokenManager_RejectsExpired(t *testing.T) {
	t.Parallel()

	manager := NewTokenManager("test-secret", -time.Minute)

	token, err := manager.Issue("admin@shop.com", true)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := manager.Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestTokenManager_RejectsForeignSecret(t *testing.T) {
	t.Parallel()

	token, err := NewTokenManager("secret-a", time.Hour).Issue("admin@shop.com", true)
	if err != nil {
		t.Fatalf("issue failed: %v", err)
	}
	if _, err := NewTokenManager("secret-b", time.Hour).Validate(token); !errors.Is(err, ErrInvalidToken) {
		t.Fatalf("expected invalid token error, got %v", err)
	}
}

func TestService_SeedAdminAndLogin(t *testing.T) {
	t.Parallel()

	admins := memory.NewAdminRepository()
	svc := NewService(admins, NewTokenManager("test-secret", time.Hour), nil)

	created, err := svc.SeedAdmin()
	if err != nil {
		t.Fatalf("seed failed: %v", err)
	}
	if !created {
		t.Fatal("expected seed to create the admin")
	}

	// Повторный seed — no-op.
	created, err = svc.SeedAdmin()
	if err != nil {
		t.Fatalf("second seed failed: %v", err)
	}
	if created {
		t.Fatal("expected second seed to be a no-op")
	}

	token, err := svc.Login(SeedAdminEmail, "bikeadmin123")
	if err != nil {
		t.Fatalf("login failed: %v", err)
	}
	if token == "" {
		t.Fatal("expected non-empty token")
	}
}

func TestService_LoginNormalizesEmail(t *testing.T) {
	t.Parallel()

	admins := memory.NewAdminRepository()
	svc := NewService(admins, NewTokenManager("test-secret", time.Hour), nil)
	if _, err := svc.SeedAdmin(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.Login("  Admin@Shop.com ", "bikeadmin123"); err != nil {
		t.Fatalf("expected login with unnormalized email to succeed, got %v", err)
	}
}

func TestService_LoginRejectsBadCredentials(t *testing.T) {
	t.Parallel()

	admins := memory.NewAdminRepository()
	svc := NewService(admins, NewTokenManager("test-secret", time.Hour), nil, WithSeedPassword("custom-pass"))
	if _, err := svc.SeedAdmin(); err != nil {
		t.Fatalf("seed failed: %v", err)
	}

	if _, err := svc.Login(SeedAdminEmail, "wrong"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials, got %v", err)
	}
	if _, err := svc.Login("nobody@shop.com", "custom-pass"); !errors.Is(err, ErrInvalidCredentials) {
		t.Fatalf("expected invalid credentials for unknown email, got %v", err)
	}
	if _, err := svc.Login(SeedAdminEmail, "custom-pass"); err != nil {
		t.Fatalf("expected custom seed password to work, got %v", err)
	}
}
