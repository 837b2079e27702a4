package payment

import "errors"

var ErrNotFound = errors.New("payment record not found")

type Repository interface {
	Upsert(*Record) (bool, error)
	FindByExternalID(string) (*Record, error)
	UpdateStatusIf(externalID string, from, to Status) (bool, error)
	Touch(externalID string) error
}
