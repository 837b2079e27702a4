package auth_test

import (
	"errors"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"

	authApplication "github.com/rcarvalho-pb/payment_gateway-go/internal/application/auth"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/inmemory"
)

type noopLogger struct{}

func (n *noopLogger) Info(string, map[string]any)  {}
func (n *noopLogger) Warn(string, map[string]any)  {}
func (n *noopLogger) Error(string, map[string]any) {}

func newService() *authApplication.Service {
	return &authApplication.Service{
		Users:     inmemory.NewUserRepository(),
		JWTSecret: []byte("test-secret"),
		TokenTTL:  time.Hour,
		Logger:    &noopLogger{},
	}
}

func TestSignUp_HashesPasswordAndRejectsDuplicates(t *testing.T) {
	service := newService()

	u, err := service.SignUp("Ana", "ana@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if u.PasswordHash == "s3cret" || u.PasswordHash == "" {
		t.Error("expected password to be hashed")
	}

	_, err = service.SignUp("Ana", "ana@example.com", "other")
	if !errors.Is(err, authApplication.ErrEmailInUse) {
		t.Fatalf("expected ErrEmailInUse, got %v", err)
	}
}

func TestLogin_ReturnsSignedToken(t *testing.T) {
	service := newService()

	u, err := service.SignUp("Ana", "ana@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}

	token, logged, err := service.Login("ana@example.com", "s3cret")
	if err != nil {
		t.Fatal(err)
	}
	if logged.ID != u.ID {
		t.Errorf("expected user %s, got %s", u.ID, logged.ID)
	}

	parsed, err := jwt.Parse(token, func(t *jwt.Token) (any, error) {
		return []byte("test-secret"), nil
	})
	if err != nil {
		t.Fatal(err)
	}

	sub, err := parsed.Claims.GetSubject()
	if err != nil {
		t.Fatal(err)
	}
	if sub != u.ID {
		t.Errorf("expected subject %s, got %s", u.ID, sub)
	}
}

func TestLogin_WrongPassword_Fails(t *testing.T) {
	service := newService()

	if _, err := service.SignUp("Ana", "ana@example.com", "s3cret"); err != nil {
		t.Fatal(err)
	}

	_, _, err := service.Login("ana@example.com", "wrong")
	if !errors.Is(err, authApplication.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}

	_, _, err = service.Login("missing@example.com", "s3cret")
	if !errors.Is(err, authApplication.ErrInvalidCredentials) {
		t.Fatalf("expected ErrInvalidCredentials, got %v", err)
	}
}

func TestUpsertGoogleUser_IsIdempotentPerGoogleID(t *testing.T) {
	service := newService()

	first, err := service.UpsertGoogleUser("g-1", "Ana", "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}

	second, err := service.UpsertGoogleUser("g-1", "Ana", "ana@example.com")
	if err != nil {
		t.Fatal(err)
	}

	if first.ID != second.ID {
		t.Errorf("expected same account, got %s and %s", first.ID, second.ID)
	}
}
