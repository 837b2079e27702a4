package sqlite

import (
	"database/sql"
	"errors"
	"time"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type PaymentRepository struct {
	db *sql.DB
}

func NewPaymentRepository(db *sql.DB) *PaymentRepository {
	return &PaymentRepository{db: db}
}

func (r *PaymentRepository) Upsert(rec *payment.Record) (bool, error) {
	res, err := r.db.Exec(
		`INSERT OR IGNORE INTO payments
		 (external_id, status, amount, payer_email, description, created_at, updated_at)
		 VALUES (?, ?, ?, ?, ?, ?, ?)`,
		rec.ExternalID,
		string(rec.Status),
		rec.Amount.String(),
		rec.PayerEmail,
		rec.Description,
		rec.CreatedAt,
		rec.UpdatedAt,
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	// 0 rows = record already exists
	return affected == 1, nil
}

func (r *PaymentRepository) FindByExternalID(externalID string) (*payment.Record, error) {
	row := r.db.QueryRow(
		`SELECT external_id, status, amount, payer_email, description, created_at, updated_at
		 FROM payments
		 WHERE external_id = ?`,
		externalID,
	)

	var rec payment.Record
	var status, amount string

	if err := row.Scan(
		&rec.ExternalID,
		&status,
		&amount,
		&rec.PayerEmail,
		&rec.Description,
		&rec.CreatedAt,
		&rec.UpdatedAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, payment.ErrNotFound
		}
		return nil, err
	}

	rec.Status = payment.Status(status)

	parsed, err := decimal.NewFromString(amount)
	if err != nil {
		return nil, err
	}
	rec.Amount = parsed

	return &rec, nil
}

// UpdateStatusIf moves a record from one status to another only if it is
// still at the expected status, so concurrent reconcilers serialize per key.
func (r *PaymentRepository) UpdateStatusIf(externalID string, from, to payment.Status) (bool, error) {
	res, err := r.db.Exec(
		`UPDATE payments
		 SET status = ?, updated_at = ?
		 WHERE external_id = ? AND status = ?`,
		string(to),
		time.Now().UTC(),
		externalID,
		string(from),
	)
	if err != nil {
		return false, err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return false, err
	}

	return affected == 1, nil
}

func (r *PaymentRepository) Touch(externalID string) error {
	res, err := r.db.Exec(
		`UPDATE payments
		 SET updated_at = ?
		 WHERE external_id = ?`,
		time.Now().UTC(),
		externalID,
	)
	if err != nil {
		return err
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return err
	}
	if affected == 0 {
		return payment.ErrNotFound
	}

	return nil
}
