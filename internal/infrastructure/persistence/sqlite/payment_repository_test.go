package sqlite_test

import (
	"database/sql"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	_ "modernc.org/sqlite"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infrastructure/persistence/sqlite"
)

func setupTestDB(t *testing.T) *sql.DB {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { db.Close() })

	if err := sqlite.RunMigrations(db); err != nil {
		t.Fatal(err)
	}

	return db
}

func testRecord(id string, status payment.Status) *payment.Record {
	now := time.Now().UTC()
	return &payment.Record{
		ExternalID: id,
		Status:     status,
		Amount:     decimal.RequireFromString("10.50"),
		PayerEmail: "a@b.com",
		CreatedAt:  now,
		UpdatedAt:  now,
	}
}

func TestPaymentRepository_UpsertIsIdempotentPerExternalID(t *testing.T) {
	repo := sqlite.NewPaymentRepository(setupTestDB(t))

	created, err := repo.Upsert(testRecord("ext-1", payment.StatusPending))
	if err != nil {
		t.Fatal(err)
	}
	if !created {
		t.Fatal("expected first upsert to create the record")
	}

	created, err = repo.Upsert(testRecord("ext-1", payment.StatusApproved))
	if err != nil {
		t.Fatal(err)
	}
	if created {
		t.Fatal("expected second upsert to be a no-op")
	}

	rec, err := repo.FindByExternalID("ext-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != payment.StatusPending {
		t.Errorf("expected existing record untouched, got status %s", rec.Status)
	}
	if !rec.Amount.Equal(decimal.RequireFromString("10.50")) {
		t.Errorf("expected amount 10.50, got %s", rec.Amount)
	}
}

func TestPaymentRepository_UpdateStatusIf_IsCompareAndSet(t *testing.T) {
	repo := sqlite.NewPaymentRepository(setupTestDB(t))

	if _, err := repo.Upsert(testRecord("ext-1", payment.StatusPending)); err != nil {
		t.Fatal(err)
	}

	applied, err := repo.UpdateStatusIf("ext-1", payment.StatusPending, payment.StatusApproved)
	if err != nil {
		t.Fatal(err)
	}
	if !applied {
		t.Fatal("expected pending -> approved to apply")
	}

	// stale expectation loses
	applied, err = repo.UpdateStatusIf("ext-1", payment.StatusPending, payment.StatusRejected)
	if err != nil {
		t.Fatal(err)
	}
	if applied {
		t.Fatal("expected stale compare-and-set to fail")
	}

	rec, err := repo.FindByExternalID("ext-1")
	if err != nil {
		t.Fatal(err)
	}
	if rec.Status != payment.StatusApproved {
		t.Errorf("expected status approved, got %s", rec.Status)
	}
}

func TestPaymentRepository_Touch_AdvancesUpdatedAtOnly(t *testing.T) {
	repo := sqlite.NewPaymentRepository(setupTestDB(t))

	rec := testRecord("ext-1", payment.StatusApproved)
	rec.UpdatedAt = time.Now().UTC().Add(-time.Hour)
	rec.CreatedAt = rec.UpdatedAt
	if _, err := repo.Upsert(rec); err != nil {
		t.Fatal(err)
	}

	if err := repo.Touch("ext-1"); err != nil {
		t.Fatal(err)
	}

	got, err := repo.FindByExternalID("ext-1")
	if err != nil {
		t.Fatal(err)
	}
	if got.Status != payment.StatusApproved {
		t.Errorf("expected status untouched, got %s", got.Status)
	}
	if !got.UpdatedAt.After(rec.CreatedAt) {
		t.Error("expected updatedAt to advance")
	}
}

func TestPaymentRepository_FindMissing_ReturnsNotFound(t *testing.T) {
	repo := sqlite.NewPaymentRepository(setupTestDB(t))

	if _, err := repo.FindByExternalID("nope"); !errors.Is(err, payment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound, got %v", err)
	}

	if err := repo.Touch("nope"); !errors.Is(err, payment.ErrNotFound) {
		t.Fatalf("expected ErrNotFound from Touch, got %v", err)
	}
}
