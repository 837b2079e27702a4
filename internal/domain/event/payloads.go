package event

type PaymentCreatedPayload struct {
	ExternalID string
	Status     string
	Amount     string
	PayerEmail string
}

type PaymentStatusChangedPayload struct {
	ExternalID string
	From       string
	To         string
	Source     string
}
