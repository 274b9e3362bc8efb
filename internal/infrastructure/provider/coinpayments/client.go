package coinpayments

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"go.uber.org/zap"

	"funding-server/internal/config"
	apperrors "funding-server/internal/domain/errors"
	"funding-server/internal/domain/provider"
)

const (
	headerClient    = "X-CoinPayments-Client"
	headerTimestamp = "X-CoinPayments-Timestamp"
	headerSignature = "X-CoinPayments-Signature"

	// timestampLayout is whole-second precision; the API rejects
	// fractional components.
	timestampLayout = "2006-01-02T15:04:05"
)

// Client calls the CoinPayments merchant invoice API.
type Client struct {
	clientID   string
	secret     string
	invoiceURL string

	webhookURL  string
	successURL  string
	cancelURL   string
	refundEmail string

	httpClient *http.Client
	logger     *zap.Logger
	now        func() time.Time
}

// NewClient creates a new invoice API client from the service configuration.
func NewClient(cfg *config.ServiceConfig, logger *zap.Logger) *Client {
	timeout := time.Duration(cfg.CoinPayments.RequestTimeout) * time.Second
	if timeout <= 0 {
		timeout = 30 * time.Second
	}

	return &Client{
		clientID:    cfg.CoinPayments.ClientID,
		secret:      cfg.CoinPayments.ClientSecret,
		invoiceURL:  cfg.CoinPayments.InvoiceURL,
		webhookURL:  cfg.PublicBaseURL + "/webhook",
		successURL:  cfg.Funding.SuccessURL,
		cancelURL:   cfg.Funding.CancelURL,
		refundEmail: cfg.Funding.RefundEmailFallback,
		httpClient:  &http.Client{Timeout: timeout},
		logger:      logger,
		now:         time.Now,
	}
}

type invoiceAmount struct {
	Total    string `json:"total"`
	Currency string `json:"currency"`
}

type invoiceItem struct {
	Name     string        `json:"name"`
	Quantity int           `json:"quantity"`
	Amount   invoiceAmount `json:"amount"`
}

type invoiceCustomData struct {
	OrderID string `json:"orderId"`
	UserID  string `json:"userId"`
}

type createInvoicePayload struct {
	ClientID         string            `json:"clientId"`
	Amount           invoiceAmount     `json:"amount"`
	Items            []invoiceItem     `json:"items"`
	PayoutCurrency   string            `json:"payoutCurrency"`
	RefundEmail      string            `json:"refundEmail"`
	NotificationsURL string            `json:"notificationsUrl"`
	RedirectURL      string            `json:"redirectUrl"`
	CancelURL        string            `json:"cancelUrl"`
	CustomData       invoiceCustomData `json:"customData"`
}

type createdInvoice struct {
	ID          string `json:"id"`
	Link        string `json:"link"`
	CheckoutURL string `json:"checkoutLink"`
}

type createInvoiceResult struct {
	Invoices []createdInvoice `json:"invoices"`
}

// CreateInvoice builds the canonical invoice payload, signs it and posts it
// to the merchant API. Non-success responses and malformed bodies surface as
// remote errors; the call is never retried here because invoice creation is
// not idempotent on the remote side.
func (c *Client) CreateInvoice(ctx context.Context, req *provider.CreateInvoiceRequest) (*provider.CreateInvoiceResponse, error) {
	refundEmail := req.RefundEmail
	if refundEmail == "" {
		refundEmail = c.refundEmail
	}

	payload := createInvoicePayload{
		ClientID: c.clientID,
		Amount: invoiceAmount{
			Total:    req.Amount.StringFixed(2),
			Currency: req.Currency,
		},
		Items: []invoiceItem{
			{
				Name:     req.ItemName,
				Quantity: 1,
				Amount: invoiceAmount{
					Total:    req.Amount.StringFixed(2),
					Currency: req.Currency,
				},
			},
		},
		PayoutCurrency:   req.CryptoCurrency,
		RefundEmail:      refundEmail,
		NotificationsURL: c.webhookURL,
		RedirectURL:      c.successURL,
		CancelURL:        c.cancelURL,
		CustomData: invoiceCustomData{
			OrderID: req.OrderID,
			UserID:  req.UserID,
		},
	}

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to serialize invoice payload", err)
	}

	timestamp := c.now().UTC().Truncate(time.Second).Format(timestampLayout)

	signature, err := Sign(http.MethodPost, c.invoiceURL, c.clientID, timestamp, string(body), c.secret)
	if err != nil {
		return nil, err
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.invoiceURL, bytes.NewReader(body))
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to create invoice request", err)
	}

	httpReq.Header.Set("Content-Type", "application/json")
	httpReq.Header.Set(headerClient, c.clientID)
	httpReq.Header.Set(headerTimestamp, timestamp)
	httpReq.Header.Set(headerSignature, signature)

	c.logger.Info("Creating invoice",
		zap.String("order_id", req.OrderID),
		zap.String("amount", req.Amount.StringFixed(2)),
		zap.String("currency", req.Currency))

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		c.logger.Error("Invoice creation request failed", zap.Error(err))
		return nil, apperrors.NewRemoteError("invoice creation request failed", err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, apperrors.NewRemoteError("failed to read invoice response", err)
	}

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		c.logger.Error("Invoice creation rejected",
			zap.Int("status_code", resp.StatusCode),
			zap.String("response", string(respBody)))
		return nil, apperrors.NewRemoteError(
			fmt.Sprintf("invoice creation returned status %d: %s", resp.StatusCode, string(respBody)), nil)
	}

	var result createInvoiceResult
	if err := json.Unmarshal(respBody, &result); err != nil {
		return nil, apperrors.NewRemoteError("failed to parse invoice response", err)
	}

	if len(result.Invoices) == 0 {
		return nil, apperrors.NewRemoteError("no invoice returned", nil)
	}

	invoice := result.Invoices[0]
	checkout := invoice.CheckoutURL
	if checkout == "" {
		checkout = invoice.Link
	}

	c.logger.Info("Invoice created",
		zap.String("invoice_id", invoice.ID),
		zap.String("order_id", req.OrderID))

	return &provider.CreateInvoiceResponse{
		InvoiceID:   invoice.ID,
		Link:        invoice.Link,
		CheckoutURL: checkout,
	}, nil
}
