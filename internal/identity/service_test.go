package identity

import (
	"context"
	"errors"
	"testing"

	"golang.org/x/crypto/bcrypt"
)

func TestRegisterAndAuthenticate(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)

	ctx := context.Background()
	user, err := svc.Register(ctx, Credentials{Name: "A", Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if user.ID == "" {
		t.Fatal("expected a generated user ID")
	}
	if bcrypt.CompareHashAndPassword(user.PasswordHash, []byte("pw")) != nil {
		t.Fatal("stored hash does not match password")
	}

	authed, err := svc.Authenticate(ctx, Credentials{Email: "a@x.com", Password: "pw"})
	if err != nil {
		t.Fatalf("authenticate: %v", err)
	}
	if authed.ID != user.ID {
		t.Fatalf("expected user %s, got %s", user.ID, authed.ID)
	}
}

func TestRegisterDuplicateEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "A", Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Register(ctx, Credentials{Name: "A", Email: "a@x.com", Password: "pw"}); !errors.Is(err, ErrEmailTaken) {
		t.Fatalf("expected ErrEmailTaken, got %v", err)
	}

	// Exactly one record for the email must exist.
	if _, err := repo.FindByEmail(ctx, "a@x.com"); err != nil {
		t.Fatalf("find: %v", err)
	}
}

func TestAuthenticateEnumerationSafe(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "A", Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}

	_, wrongPass := svc.Authenticate(ctx, Credentials{Email: "a@x.com", Password: "wrong"})
	_, unknown := svc.Authenticate(ctx, Credentials{Email: "nobody@x.com", Password: "pw"})

	if !errors.Is(wrongPass, ErrInvalidCredentials) {
		t.Fatalf("wrong password: expected ErrInvalidCredentials, got %v", wrongPass)
	}
	if !errors.Is(unknown, ErrInvalidCredentials) {
		t.Fatalf("unknown email: expected ErrInvalidCredentials, got %v", unknown)
	}
	if wrongPass.Error() != unknown.Error() {
		t.Fatalf("failure modes must be indistinguishable: %q vs %q", wrongPass, unknown)
	}
}

func TestRegisterRejectsMissingFields(t *testing.T) {
	svc := NewService(NewMemoryRepository())

	if _, err := svc.Register(context.Background(), Credentials{Email: "a@x.com"}); !errors.Is(err, ErrValidation) {
		t.Fatalf("expected ErrValidation, got %v", err)
	}
}

func TestRegisterNormalizesEmail(t *testing.T) {
	repo := NewMemoryRepository()
	svc := NewService(repo)
	ctx := context.Background()

	if _, err := svc.Register(ctx, Credentials{Name: "A", Email: "  A@X.Com ", Password: "pw"}); err != nil {
		t.Fatalf("register: %v", err)
	}
	if _, err := svc.Authenticate(ctx, Credentials{Email: "a@x.com", Password: "pw"}); err != nil {
		t.Fatalf("authenticate with normalized email: %v", err)
	}
}
