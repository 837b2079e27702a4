package inmemory

import (
	"sync"
	"time"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type PaymentRepository struct {
	mu      sync.RWMutex
	records map[string]payment.Record
}

func NewPaymentRepository() *PaymentRepository {
	return &PaymentRepository{
		records: make(map[string]payment.Record),
	}
}

func (r *PaymentRepository) Upsert(rec *payment.Record) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.records[rec.ExternalID]; exists {
		return false, nil
	}

	r.records[rec.ExternalID] = *rec
	return true, nil
}

func (r *PaymentRepository) FindByExternalID(externalID string) (*payment.Record, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	rec, ok := r.records[externalID]
	if !ok {
		return nil, payment.ErrNotFound
	}

	return &rec, nil
}

func (r *PaymentRepository) UpdateStatusIf(externalID string, from, to payment.Status) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[externalID]
	if !ok || rec.Status != from {
		return false, nil
	}

	rec.Status = to
	rec.UpdatedAt = time.Now().UTC()
	r.records[externalID] = rec

	return true, nil
}

func (r *PaymentRepository) Touch(externalID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	rec, ok := r.records[externalID]
	if !ok {
		return payment.ErrNotFound
	}

	rec.UpdatedAt = time.Now().UTC()
	r.records[externalID] = rec
	return nil
}
