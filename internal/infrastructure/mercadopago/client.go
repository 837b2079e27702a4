package mercadopago

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	paymentApplication "github.com/rcarvalho-pb/payment_gateway-go/internal/application/payment"
	domainPayment "github.com/rcarvalho-pb/payment_gateway-go/internal/domain/payment"
)

type Client struct {
	baseURL     string
	accessToken string
	httpClient  *http.Client
}

func NewClient(baseURL, accessToken string, timeout time.Duration) *Client {
	return &Client{
		baseURL:     baseURL,
		accessToken: accessToken,
		httpClient:  &http.Client{Timeout: timeout},
	}
}

type paymentBody struct {
	ID                int64           `json:"id"`
	Status            string          `json:"status"`
	StatusDetail      string          `json:"status_detail"`
	TransactionAmount decimal.Decimal `json:"transaction_amount"`
	Description       string          `json:"description"`
	Payer             struct {
		Email string `json:"email"`
	} `json:"payer"`
}

type errorBody struct {
	Message string `json:"message"`
}

func (c *Client) CreatePayment(ctx context.Context, req paymentApplication.ProcessorRequest) (*paymentApplication.ProcessorPayment, error) {
	body := map[string]any{
		"transaction_amount": req.Amount.InexactFloat64(),
		"description":        req.Description,
		"payment_method_id":  req.PaymentMethodID,
		"payer":              map[string]string{"email": req.PayerEmail},
	}
	if req.Token != "" {
		body["token"] = req.Token
		body["installments"] = req.Installments
	}

	headers := map[string]string{"X-Idempotency-Key": req.IdempotencyKey}

	var out paymentBody
	if err := c.do(ctx, http.MethodPost, "/v1/payments", body, headers, &out); err != nil {
		return nil, err
	}

	return fromBody(&out), nil
}

func (c *Client) GetPayment(ctx context.Context, id string) (*paymentApplication.ProcessorPayment, error) {
	var out paymentBody
	if err := c.do(ctx, http.MethodGet, "/v1/payments/"+id, nil, nil, &out); err != nil {
		return nil, err
	}

	return fromBody(&out), nil
}

func (c *Client) CreateCardToken(ctx context.Context, req paymentApplication.CardTokenRequest) (string, error) {
	body := map[string]any{
		"card_number":      req.CardNumber,
		"expiration_month": req.ExpMonth,
		"expiration_year":  req.ExpYear,
		"security_code":    req.SecurityCode,
		"cardholder":       map[string]string{"name": req.CardholderName},
	}

	var out struct {
		ID string `json:"id"`
	}
	if err := c.do(ctx, http.MethodPost, "/v1/card_tokens", body, nil, &out); err != nil {
		return "", err
	}

	return out.ID, nil
}

func (c *Client) PaymentMethods(ctx context.Context, bin string) ([]paymentApplication.PaymentMethod, error) {
	var out struct {
		Results []struct {
			ID            string `json:"id"`
			Name          string `json:"name"`
			PaymentTypeID string `json:"payment_type_id"`
		} `json:"results"`
	}
	if err := c.do(ctx, http.MethodGet, "/v1/payment_methods/search?bin="+bin, nil, nil, &out); err != nil {
		return nil, err
	}

	methods := make([]paymentApplication.PaymentMethod, 0, len(out.Results))
	for _, r := range out.Results {
		methods = append(methods, paymentApplication.PaymentMethod{
			ID:            r.ID,
			Name:          r.Name,
			PaymentTypeID: r.PaymentTypeID,
		})
	}

	return methods, nil
}

func (c *Client) do(ctx context.Context, method, path string, body any, headers map[string]string, out any) error {
	var reader io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return err
	}

	req.Header.Set("Authorization", "Bearer "+c.accessToken)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		return domainPayment.ErrNotFound
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		var apiErr errorBody
		_ = json.NewDecoder(resp.Body).Decode(&apiErr)
		if apiErr.Message == "" {
			apiErr.Message = resp.Status
		}
		return fmt.Errorf("mercado pago %s %s: %s", method, path, apiErr.Message)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func fromBody(b *paymentBody) *paymentApplication.ProcessorPayment {
	return &paymentApplication.ProcessorPayment{
		ID:           strconv.FormatInt(b.ID, 10),
		Status:       b.Status,
		StatusDetail: b.StatusDetail,
		Amount:       b.TransactionAmount,
		PayerEmail:   b.Payer.Email,
		Description:  b.Description,
	}
}
