package payment

import (
	"context"

	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
)

type ProcessorRequest struct {
	Amount          decimal.Decimal
	Description     string
	PaymentMethodID string
	PayerEmail      string
	Token           string
	Installments    int
	IdempotencyKey  string
}

type ProcessorPayment struct {
	ID           string
	Status       string
	StatusDetail string
	Amount       decimal.Decimal
	PayerEmail   string
	Description  string
}

type CardTokenRequest struct {
	CardNumber     string
	CardholderName string
	ExpMonth       string
	ExpYear        string
	SecurityCode   string
}

type PaymentMethod struct {
	ID            string
	Name          string
	PaymentTypeID string
}

type ProcessorClient interface {
	CreatePayment(ctx context.Context, req ProcessorRequest) (*ProcessorPayment, error)
	GetPayment(ctx context.Context, id string) (*ProcessorPayment, error)
	CreateCardToken(ctx context.Context, req CardTokenRequest) (string, error)
	PaymentMethods(ctx context.Context, bin string) ([]PaymentMethod, error)
}

type EventRecorder interface {
	Record(event.Event) error
}

type EventPublisher interface {
	Publish(event.Event) error
}
