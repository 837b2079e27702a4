package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/shopspring/decimal"

	paymentApplication "github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	domainPayment "github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
	"github.com/rcarvalho-pb/payment_gateway-go/internal/infra/logging"
)

type PaymentHandler struct {
	Service *paymentApplication.Service
	Logger  logging.Logger
}

type PixPaymentRequest struct {
	Valor     decimal.Decimal `json:"valor"`
	Email     string          `json:"email"`
	Descricao string          `json:"descricao"`
}

type CardPaymentRequest struct {
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	Token             string          `json:"token"`
	Description       string          `json:"description"`
	Installments      int             `json:"installments"`
	PaymentMethodID   string          `json:"payment_method_id"`
	Email             string          `json:"email"`
}

type CardTokenRequest struct {
	CardNumber string `json:"cardNumber"`
	CardName   string `json:"cardName"`
	ExpiryDate string `json:"expiryDate"`
	CVV        string `json:"cvv"`
}

type WebhookRequest struct {
	Data struct {
		ID     flexibleID `json:"id"`
		Status string     `json:"status"`
	} `json:"data"`
	Action string `json:"action"`
	Type   string `json:"type"`
}

// the processor sends data.id as a number on some events and a string on
// others
type flexibleID string

func (f *flexibleID) UnmarshalJSON(b []byte) error {
	s := strings.Trim(string(b), `"`)
	if s == "null" {
		s = ""
	}
	*f = flexibleID(s)
	return nil
}

func (h *PaymentHandler) CreatePix(w http.ResponseWriter, r *http.Request) {
	var req PixPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.Service.CreatePix(r.Context(), paymentApplication.PixRequest{
		Amount:      req.Valor,
		Email:       req.Email,
		Description: req.Descricao,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"message": "payment created",
		"response": map[string]any{
			"id":            receipt.ExternalID,
			"status":        receipt.Status,
			"status_detail": receipt.StatusDetail,
		},
	})
}

func (h *PaymentHandler) CreateCard(w http.ResponseWriter, r *http.Request) {
	var req CardPaymentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	receipt, err := h.Service.CreateCard(r.Context(), paymentApplication.CardRequest{
		Amount:          req.TransactionAmount,
		Token:           req.Token,
		Description:     req.Description,
		Installments:    req.Installments,
		PaymentMethodID: req.PaymentMethodID,
		Email:           req.Email,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	if receipt.Status == domainPayment.StatusRejected {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"error":         "payment declined",
			"id":            receipt.ExternalID,
			"status":        receipt.Status,
			"status_detail": receipt.StatusDetail,
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"id":            receipt.ExternalID,
		"status":        receipt.Status,
		"status_detail": receipt.StatusDetail,
	})
}

func (h *PaymentHandler) CreateCardToken(w http.ResponseWriter, r *http.Request) {
	var req CardTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}

	month, year, ok := splitExpiry(req.ExpiryDate)
	if !ok {
		writeError(w, http.StatusBadRequest, "invalid card expiry, expected MM/YY")
		return
	}

	token, err := h.Service.CreateCardToken(r.Context(), paymentApplication.CardTokenRequest{
		CardNumber:     req.CardNumber,
		CardholderName: req.CardName,
		ExpMonth:       month,
		ExpYear:        year,
		SecurityCode:   req.CVV,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"token": token})
}

func (h *PaymentHandler) PaymentMethods(w http.ResponseWriter, r *http.Request) {
	methods, err := h.Service.PaymentMethods(r.Context(), r.PathValue("bin"))
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{"results": methods})
}

func (h *PaymentHandler) Webhook(w http.ResponseWriter, r *http.Request) {
	var req WebhookRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid notification body")
		return
	}

	eventType := req.Action
	if eventType == "" {
		eventType = req.Type
	}

	err := h.Service.Reconcile(r.Context(), paymentApplication.Notification{
		ExternalID: string(req.Data.ID),
		RawStatus:  req.Data.Status,
		EventType:  eventType,
	})
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]string{"message": "webhook processed"})
}

func (h *PaymentHandler) Status(w http.ResponseWriter, r *http.Request) {
	refresh := r.URL.Query().Get("refresh") != ""

	result, err := h.Service.Status(r.Context(), r.PathValue("paymentId"), refresh)
	if err != nil {
		h.fail(w, err)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"status": result.Status,
		"detail": result.Detail,
		"source": result.Source,
	})
}

func (h *PaymentHandler) fail(w http.ResponseWriter, err error) {
	var validation *paymentApplication.ValidationError

	switch {
	case errors.As(err, &validation):
		writeError(w, http.StatusBadRequest, validation.Msg)
	case errors.Is(err, domainPayment.ErrNotFound):
		writeError(w, http.StatusNotFound, "payment not found")
	default:
		h.Logger.Error("payment request failed", map[string]any{"error": err.Error()})
		writeError(w, http.StatusInternalServerError, "internal error")
	}
}

func splitExpiry(expiry string) (month, year string, ok bool) {
	parts := strings.Split(expiry, "/")
	if len(parts) != 2 || len(parts[0]) != 2 || len(parts[1]) != 2 {
		return "", "", false
	}
	return parts[0], "20" + parts[1], true
}

func writeJSON(w http.ResponseWriter, code int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}
