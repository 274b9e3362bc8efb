package http

import (
	"bytes"
	"context"
	"crypto/hmac"
	"encoding/json"
	"io"
	"net/http"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"funding-server/internal/domain/dto"
	apperrors "funding-server/internal/domain/errors"
	"funding-server/internal/domain/model"
	"funding-server/internal/infrastructure/provider/coinpayments"
)

// Reconciler is the slice of ReconcileService the handler consumes.
type Reconciler interface {
	Reconcile(ctx context.Context, notification *dto.WebhookNotification) (model.PaymentStatus, error)
}

type WebhookHandler struct {
	reconciler    Reconciler
	clientID      string
	webhookSecret string
	logger        *zap.Logger
}

// NewWebhookHandler creates the processor notification handler. When
// webhookSecret is empty inbound deliveries are accepted on shape alone.
func NewWebhookHandler(reconciler Reconciler, clientID, webhookSecret string, logger *zap.Logger) *WebhookHandler {
	return &WebhookHandler{
		reconciler:    reconciler,
		clientID:      clientID,
		webhookSecret: webhookSecret,
		logger:        logger,
	}
}

// HandleWebhook handles POST /webhook. Validation failures answer 400 and
// unknown invoices 404; both are safe for the notifier to drop. Any other
// failure answers 500 so the notifier's delivery retry drives the payment to
// consistency.
func (h *WebhookHandler) HandleWebhook(c echo.Context) error {
	body, err := io.ReadAll(c.Request().Body)
	if err != nil {
		h.logger.Error("Error reading request body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Error reading request body"})
	}

	if h.webhookSecret != "" {
		sig := c.Request().Header.Get("X-CoinPayments-Signature")
		timestamp := c.Request().Header.Get("X-CoinPayments-Timestamp")

		expected, err := coinpayments.Sign(
			http.MethodPost,
			h.notificationURL(c),
			h.clientID,
			timestamp,
			string(body),
			h.webhookSecret,
		)
		if err != nil || !hmac.Equal([]byte(expected), []byte(sig)) {
			h.logger.Warn("Webhook signature verification failed",
				zap.String("signature", sig))
			return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Invalid webhook signature"})
		}
	}

	var notification dto.WebhookNotification
	decoder := json.NewDecoder(bytes.NewReader(body))
	if err := decoder.Decode(&notification); err != nil {
		h.logger.Warn("Malformed webhook body", zap.Error(err))
		return c.JSON(http.StatusBadRequest, echo.Map{"error": "Malformed notification body"})
	}

	status, err := h.reconciler.Reconcile(c.Request().Context(), &notification)
	if err != nil {
		switch apperrors.CodeOf(err) {
		case apperrors.CodeValidation:
			h.logger.Warn("Invalid notification", zap.Error(err))
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		case apperrors.CodeNotFound:
			// Expected for retried deliveries of unknown or old
			// invoices; never fatal.
			h.logger.Info("Notification for unknown invoice", zap.Error(err))
			return c.JSON(http.StatusNotFound, echo.Map{"error": err.Error()})
		default:
			h.logger.Error("Reconciliation failed", zap.Error(err))
			return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Reconciliation failed"})
		}
	}

	return c.JSON(http.StatusOK, dto.WebhookResponse{
		Success: true,
		Status:  string(status),
	})
}

func (h *WebhookHandler) notificationURL(c echo.Context) string {
	scheme := c.Scheme()
	if scheme == "" {
		scheme = "https"
	}
	return scheme + "://" + c.Request().Host + c.Request().URL.Path
}
