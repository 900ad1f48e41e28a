package api

import (
	"bytes"
	"context"
	"io"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/service"
)

const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

type CheckoutService interface {
	Checkout(ctx context.Context, caller service.Caller, req service.CheckoutRequest) (*entity.CheckoutResult, error)
}

type TransactionService interface {
	ListTransactions(ctx context.Context) ([]entity.Transaction, error)
	ListUserTransactions(ctx context.Context, caller service.Caller, userID int64) ([]entity.Transaction, error)
	GetTransaction(ctx context.Context, caller service.Caller, id int64) (*entity.Transaction, error)
}

type TransactionExporter interface {
	ExportTransactions(ctx context.Context, w io.Writer) error
}

type TransactionHandler struct {
	checkoutService    CheckoutService
	transactionService TransactionService
	exporter           TransactionExporter
}

func NewTransactionHandler(checkoutService CheckoutService, transactionService TransactionService, exporter TransactionExporter) *TransactionHandler {
	return &TransactionHandler{
		checkoutService:    checkoutService,
		transactionService: transactionService,
		exporter:           exporter,
	}
}

// Checkout --> POST /api/transaction/checkout
func (h *TransactionHandler) Checkout(c echo.Context) error {
	req := service.CheckoutRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	req.IdempotencyKey = c.Request().Header.Get("Idempotency-Key")

	result, err := h.checkoutService.Checkout(c.Request().Context(), caller(c), req)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, result)
}

// ListTransactions --> GET /api/transaction/all
func (h *TransactionHandler) ListTransactions(c echo.Context) error {
	txs, err := h.transactionService.ListTransactions(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, txs)
}

// ListUserTransactions --> GET /api/transaction/user/:userId
func (h *TransactionHandler) ListUserTransactions(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return invalidID(c)
	}
	txs, err := h.transactionService.ListUserTransactions(c.Request().Context(), caller(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, txs)
}

// GetTransaction --> GET /api/transaction/:id
func (h *TransactionHandler) GetTransaction(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	tx, err := h.transactionService.GetTransaction(c.Request().Context(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, tx)
}

// Export --> GET /api/transaction/export
func (h *TransactionHandler) Export(c echo.Context) error {
	buf := new(bytes.Buffer)
	if err := h.exporter.ExportTransactions(c.Request().Context(), buf); err != nil {
		return writeError(c, err)
	}
	c.Response().Header().Set(echo.HeaderContentDisposition, "attachment; filename=transactions.xlsx")
	return c.Blob(200, xlsxContentType, buf.Bytes())
}
