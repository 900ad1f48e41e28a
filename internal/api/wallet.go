package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/service"
)

type WalletService interface {
	TopUp(ctx context.Context, caller service.Caller, userID int64, amount decimal.Decimal) (decimal.Decimal, error)
	GetBalance(ctx context.Context, caller service.Caller, userID int64) (*entity.Wallet, error)
}

type WalletHandler struct {
	walletService WalletService
}

func NewWalletHandler(walletService WalletService) *WalletHandler {
	return &WalletHandler{walletService: walletService}
}

type topUpRequest struct {
	UserID int64           `json:"user_id"`
	Amount decimal.Decimal `json:"amount"`
}

// GetBalance --> GET /api/wallet/:userId
func (h *WalletHandler) GetBalance(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return invalidID(c)
	}
	wallet, err := h.walletService.GetBalance(c.Request().Context(), caller(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, wallet)
}

// TopUp --> POST /api/wallet/add
func (h *WalletHandler) TopUp(c echo.Context) error {
	req := topUpRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	balance, err := h.walletService.TopUp(c.Request().Context(), caller(c), req.UserID, req.Amount)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]interface{}{
		"message": "Wallet topped up successfully.",
		"balance": balance,
	})
}
