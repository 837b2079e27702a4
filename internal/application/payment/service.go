package payment

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/rcarvalho-pb/payment_gateway-go/internal/domain/event"
	domainPayment "github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/metrics"
)

var emailPattern = regexp.MustCompile(`^[A-Za-z0-9._%+\-]+@[A-Za-z0-9.\-]+\.[A-Za-z]{2,}$`)

type Service struct {
	Repo      domainPayment.Repository
	Processor ProcessorClient
	Recorder  EventRecorder
	Logger    logging.Logger
	Metrics   *metrics.Counters
}

type PixRequest struct {
	Amount      decimal.Decimal
	Email       string
	Description string
}

type CardRequest struct {
	Amount          decimal.Decimal
	Token           string
	Description     string
	Installments    int
	PaymentMethodID string
	Email           string
}

type Receipt struct {
	ExternalID   string
	Status       domainPayment.Status
	StatusDetail string
}

type Notification struct {
	ExternalID string
	RawStatus  string
	EventType  string
}

type StatusResult struct {
	Status domainPayment.Status
	Detail string
	Source string
}

func (s *Service) CreatePix(ctx context.Context, req PixRequest) (*Receipt, error) {
	if !req.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, validationError("invalid payer email")
	}

	return s.create(ctx, ProcessorRequest{
		Amount:          req.Amount,
		Description:     req.Description,
		PaymentMethodID: "pix",
		PayerEmail:      req.Email,
		IdempotencyKey:  uuid.NewString(),
	})
}

func (s *Service) CreateCard(ctx context.Context, req CardRequest) (*Receipt, error) {
	if !req.Amount.IsPositive() {
		return nil, validationError("amount must be greater than zero")
	}
	if !emailPattern.MatchString(req.Email) {
		return nil, validationError("invalid payer email")
	}
	if req.Token == "" {
		return nil, validationError("missing card token")
	}
	if req.Installments < 1 {
		return nil, validationError("installments must be at least 1")
	}
	if req.PaymentMethodID == "" {
		return nil, validationError("missing payment method id")
	}

	return s.create(ctx, ProcessorRequest{
		Amount:          req.Amount,
		Description:     req.Description,
		PaymentMethodID: req.PaymentMethodID,
		PayerEmail:      req.Email,
		Token:           req.Token,
		Installments:    req.Installments,
		IdempotencyKey:  uuid.NewString(),
	})
}

func (s *Service) create(ctx context.Context, req ProcessorRequest) (*Receipt, error) {
	p, err := s.Processor.CreatePayment(ctx, req)
	if err != nil {
		s.Metrics.ProcessorFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	status, ok := domainPayment.Normalize(p.Status)
	if !ok {
		s.Logger.Warn("unmapped processor status", map[string]any{
			"payment-id": p.ID,
			"raw-status": p.Status,
		})
	}

	now := time.Now().UTC()
	rec := &domainPayment.Record{
		ExternalID:  p.ID,
		Status:      status,
		Amount:      req.Amount,
		PayerEmail:  req.PayerEmail,
		Description: req.Description,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	created, err := s.Repo.Upsert(rec)
	if err != nil {
		return nil, err
	}

	if created {
		s.Metrics.PaymentsCreated.Inc()
		s.record(event.Event{
			Type: event.PaymentCreated,
			Payload: event.PaymentCreatedPayload{
				ExternalID: p.ID,
				Status:     string(status),
				Amount:     req.Amount.String(),
				PayerEmail: req.PayerEmail,
			},
		})
	}

	s.Logger.Info("payment created", map[string]any{
		"payment-id": p.ID,
		"status":     string(status),
		"method":     req.PaymentMethodID,
	})

	return &Receipt{ExternalID: p.ID, Status: status, StatusDetail: p.StatusDetail}, nil
}

func (s *Service) CreateCardToken(ctx context.Context, req CardTokenRequest) (string, error) {
	if req.CardNumber == "" || req.CardholderName == "" || req.SecurityCode == "" {
		return "", validationError("missing card fields")
	}
	if req.ExpMonth == "" || req.ExpYear == "" {
		return "", validationError("missing card expiry")
	}

	token, err := s.Processor.CreateCardToken(ctx, req)
	if err != nil {
		s.Metrics.ProcessorFailures.Inc()
		return "", fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	return token, nil
}

func (s *Service) PaymentMethods(ctx context.Context, bin string) ([]PaymentMethod, error) {
	if len(bin) < 6 {
		return nil, validationError("card bin must have at least 6 digits")
	}

	methods, err := s.Processor.PaymentMethods(ctx, bin)
	if err != nil {
		s.Metrics.ProcessorFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}
	return methods, nil
}

// Reconcile applies one webhook notification to the matching record. When
// the notification carries only the payment id, the authoritative status is
// fetched from the processor before the transition is attempted.
func (s *Service) Reconcile(ctx context.Context, n Notification) error {
	s.Metrics.WebhooksReceived.Inc()

	if n.ExternalID == "" {
		return validationError("notification missing payment id")
	}

	raw := n.RawStatus
	var seed *domainPayment.Record

	if raw == "" {
		p, err := s.Processor.GetPayment(ctx, n.ExternalID)
		if err != nil {
			if errors.Is(err, domainPayment.ErrNotFound) {
				return err
			}
			s.Metrics.ProcessorFailures.Inc()
			return fmt.Errorf("%w: %v", ErrProcessor, err)
		}
		raw = p.Status
		seed = recordFromProcessor(p)
	}

	status, ok := domainPayment.Normalize(raw)
	if !ok {
		s.Logger.Warn("unmapped processor status", map[string]any{
			"payment-id": n.ExternalID,
			"raw-status": raw,
			"event-type": n.EventType,
		})
	}

	return s.apply(n.ExternalID, status, seed, "webhook")
}

// Status answers the current payment status, preferring the local record.
// Terminal local statuses are trusted without a processor round trip.
func (s *Service) Status(ctx context.Context, externalID string, refresh bool) (*StatusResult, error) {
	if externalID == "" {
		return nil, validationError("missing payment id")
	}

	rec, err := s.Repo.FindByExternalID(externalID)
	if err != nil && !errors.Is(err, domainPayment.ErrNotFound) {
		return nil, err
	}

	if rec != nil && (rec.Status.Terminal() || !refresh) {
		return &StatusResult{Status: rec.Status, Source: "local"}, nil
	}

	p, err := s.Processor.GetPayment(ctx, externalID)
	if err != nil {
		if errors.Is(err, domainPayment.ErrNotFound) {
			if rec != nil {
				return &StatusResult{Status: rec.Status, Source: "local"}, nil
			}
			return nil, err
		}
		s.Metrics.ProcessorFailures.Inc()
		return nil, fmt.Errorf("%w: %v", ErrProcessor, err)
	}

	status, ok := domainPayment.Normalize(p.Status)
	if !ok {
		s.Logger.Warn("unmapped processor status", map[string]any{
			"payment-id": externalID,
			"raw-status": p.Status,
		})
	}

	if err := s.apply(externalID, status, recordFromProcessor(p), "refresh"); err != nil {
		return nil, err
	}

	// the transition table may have kept a more informative local status
	if rec, err := s.Repo.FindByExternalID(externalID); err == nil {
		status = rec.Status
	}

	return &StatusResult{Status: status, Detail: p.StatusDetail, Source: "remote"}, nil
}

// apply runs the upsert-then-compare-and-set loop shared by the reconciler
// and the status facade. Redelivery of the current status only touches
// updatedAt; transitions rejected by the table are logged no-ops.
func (s *Service) apply(externalID string, incoming domainPayment.Status, seed *domainPayment.Record, source string) error {
	for range 3 {
		rec, err := s.Repo.FindByExternalID(externalID)
		if err != nil {
			if !errors.Is(err, domainPayment.ErrNotFound) {
				return err
			}

			fresh := seed
			if fresh == nil {
				fresh = &domainPayment.Record{ExternalID: externalID}
			}
			now := time.Now().UTC()
			fresh.Status = incoming
			fresh.CreatedAt = now
			fresh.UpdatedAt = now

			created, err := s.Repo.Upsert(fresh)
			if err != nil {
				return err
			}
			if !created {
				continue // lost the race, re-read and transition instead
			}

			s.Metrics.TransitionsApplied.Inc()
			s.record(event.Event{
				Type: event.PaymentStatusChanged,
				Payload: event.PaymentStatusChangedPayload{
					ExternalID: externalID,
					To:         string(incoming),
					Source:     source,
				},
			})
			return nil
		}

		if rec.Status == incoming {
			return s.Repo.Touch(externalID)
		}

		if !domainPayment.CanTransition(rec.Status, incoming) {
			s.Metrics.TransitionsRejected.Inc()
			s.Logger.Warn("superseded status notification ignored", map[string]any{
				"payment-id": externalID,
				"current":    string(rec.Status),
				"incoming":   string(incoming),
				"source":     source,
			})
			return nil
		}

		applied, err := s.Repo.UpdateStatusIf(externalID, rec.Status, incoming)
		if err != nil {
			return err
		}
		if applied {
			s.Metrics.TransitionsApplied.Inc()
			s.record(event.Event{
				Type: event.PaymentStatusChanged,
				Payload: event.PaymentStatusChangedPayload{
					ExternalID: externalID,
					From:       string(rec.Status),
					To:         string(incoming),
					Source:     source,
				},
			})
			return nil
		}
	}

	return fmt.Errorf("reconcile %s: record contention, giving up", externalID)
}

func (s *Service) record(evt event.Event) {
	if s.Recorder == nil {
		return
	}
	if err := s.Recorder.Record(evt); err != nil {
		s.Logger.Error("failed to record event", map[string]any{
			"event-type": string(evt.Type),
			"error":      err.Error(),
		})
	}
}

func recordFromProcessor(p *ProcessorPayment) *domainPayment.Record {
	return &domainPayment.Record{
		ExternalID:  p.ID,
		Amount:      p.Amount,
		PayerEmail:  p.PayerEmail,
		Description: p.Description,
	}
}
