package sqlite_test

import (
	"errors"
	"testing"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/user"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/sqlite"
)

func TestUserRepository_SaveAndFind(t *testing.T) {
	repo := sqlite.NewUserRepository(setupTestDB(t))

	u := &user.User{
		ID:           "u-1",
		GoogleID:     "g-1",
		Name:         "Ana",
		Email:        "ana@example.com",
		PasswordHash: "hash",
		CreatedAt:    time.Now().UTC(),
	}

	if err := repo.Save(u); err != nil {
		t.Fatal(err)
	}

	byEmail, err := repo.FindByEmail("ana@example.com")
	if err != nil {
		t.Fatal(err)
	}
	if byEmail.ID != "u-1" {
		t.Errorf("expected user u-1, got %s", byEmail.ID)
	}

	byGoogle, err := repo.FindByGoogleID("g-1")
	if err != nil {
		t.Fatal(err)
	}
	if byGoogle.ID != "u-1" {
		t.Errorf("expected user u-1, got %s", byGoogle.ID)
	}

	if _, err := repo.FindByEmail("missing@example.com"); !errors.Is(err, user.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}
}
