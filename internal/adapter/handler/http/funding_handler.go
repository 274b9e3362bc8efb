package http

import (
	"context"
	"net/http"
	"strconv"

	"github.com/labstack/echo/v4"
	"go.uber.org/zap"

	"funding-server/internal/domain/dto"
	apperrors "funding-server/internal/domain/errors"
	"funding-server/internal/domain/model"
	domainRepo "funding-server/internal/domain/repository"
	"funding-server/internal/middleware/auth"
)

// InvoiceCreator is the slice of InvoiceService the handler consumes.
type InvoiceCreator interface {
	CreateInvoice(ctx context.Context, req *dto.CreateFundingRequest) (*dto.CreateFundingResponse, error)
}

type FundingHandler struct {
	invoices    InvoiceCreator
	paymentRepo domainRepo.PaymentRepository
	balanceRepo domainRepo.BalanceRepository
	logger      *zap.Logger
}

func NewFundingHandler(
	invoices InvoiceCreator,
	paymentRepo domainRepo.PaymentRepository,
	balanceRepo domainRepo.BalanceRepository,
	logger *zap.Logger,
) *FundingHandler {
	return &FundingHandler{
		invoices:    invoices,
		paymentRepo: paymentRepo,
		balanceRepo: balanceRepo,
		logger:      logger,
	}
}

// CreateFunding handles POST /api/v1/fundings
func (h *FundingHandler) CreateFunding(c echo.Context) error {
	var req dto.CreateFundingRequest

	if err := c.Bind(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	if err := c.Validate(&req); err != nil {
		return c.JSON(http.StatusBadRequest, echo.Map{
			"error": "Invalid request body",
		})
	}

	// The authenticated subject owns the funding; the body may not fund
	// someone else's account.
	if user, err := auth.GetUserFromContext(c); err == nil && user.UserID != req.UserID {
		return c.JSON(http.StatusForbidden, echo.Map{
			"error": "userId does not match the authenticated user",
		})
	}

	resp, err := h.invoices.CreateInvoice(c.Request().Context(), &req)
	if err != nil {
		h.logger.Error("Funding creation failed",
			zap.String("order_id", req.OrderID),
			zap.String("user_id", req.UserID),
			zap.Error(err))

		if apperrors.CodeOf(err) == apperrors.CodeValidation {
			return c.JSON(http.StatusBadRequest, echo.Map{"error": err.Error()})
		}
		return c.JSON(apperrors.HTTPStatusOf(err), echo.Map{
			"error": "Unable to create funding invoice, please try again later",
		})
	}

	return c.JSON(http.StatusCreated, resp)
}

// GetFundings handles GET /api/v1/fundings
func (h *FundingHandler) GetFundings(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	limit, _ := strconv.Atoi(c.QueryParam("limit"))
	offset, _ := strconv.Atoi(c.QueryParam("offset"))
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	payments, err := h.paymentRepo.GetByUserID(c.Request().Context(), user.UserID, limit, offset)
	if err != nil {
		h.logger.Error("Failed to list fundings",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to list fundings"})
	}

	if payments == nil {
		payments = []*model.Payment{}
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success":  true,
		"payments": payments,
	})
}

// GetBalance handles GET /api/v1/balance
func (h *FundingHandler) GetBalance(c echo.Context) error {
	user, err := auth.GetUserFromContext(c)
	if err != nil {
		return c.JSON(http.StatusUnauthorized, echo.Map{"error": "Authentication required"})
	}

	balance, err := h.balanceRepo.GetBalance(c.Request().Context(), user.UserID)
	if err != nil {
		h.logger.Error("Failed to get balance",
			zap.String("user_id", user.UserID),
			zap.Error(err))
		return c.JSON(http.StatusInternalServerError, echo.Map{"error": "Failed to get balance"})
	}

	return c.JSON(http.StatusOK, echo.Map{
		"success": true,
		"balance": balance,
	})
}
