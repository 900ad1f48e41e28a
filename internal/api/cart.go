package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/entity"
	"kiosk-service/internal/service"
)

type CartService interface {
	CreateCart(ctx context.Context, caller service.Caller, userID int64) (*entity.Cart, error)
	AddProduct(ctx context.Context, caller service.Caller, cartID, productID int64, quantity int) (*entity.CartProduct, error)
	UpdateQuantity(ctx context.Context, caller service.Caller, userID, productID int64, quantity int) error
	RemoveProduct(ctx context.Context, caller service.Caller, cartID, productID int64) error
	RemoveProductForUser(ctx context.Context, caller service.Caller, userID, productID int64) error
	GetCart(ctx context.Context, caller service.Caller, cartID int64) (*entity.Cart, error)
	GetActiveCart(ctx context.Context, caller service.Caller, userID int64) (*entity.Cart, error)
}

type CartHandler struct {
	cartService CartService
}

func NewCartHandler(cartService CartService) *CartHandler {
	return &CartHandler{cartService: cartService}
}

type cartRequest struct {
	UserID    int64 `json:"user_id" query:"user_id"`
	CartID    int64 `json:"cart_id" query:"cart_id"`
	ProductID int64 `json:"product_id" query:"product_id"`
	Quantity  int   `json:"quantity" query:"quantity"`
}

// CreateCart --> POST /api/cart/create
func (h *CartHandler) CreateCart(c echo.Context) error {
	req := cartRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	cart, err := h.cartService.CreateCart(c.Request().Context(), caller(c), req.UserID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, cart)
}

// AddProduct --> POST /api/cart/addProduct
func (h *CartHandler) AddProduct(c echo.Context) error {
	req := cartRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	line, err := h.cartService.AddProduct(c.Request().Context(), caller(c), req.CartID, req.ProductID, req.Quantity)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, line)
}

// UpdateQuantity --> PUT /api/cart/update-product-quantity
func (h *CartHandler) UpdateQuantity(c echo.Context) error {
	req := cartRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := h.cartService.UpdateQuantity(c.Request().Context(), caller(c), req.UserID, req.ProductID, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Product quantity updated in cart."})
}

// RemoveProduct --> DELETE /api/cart/remove-product?cart_id=&product_id= (or user_id= for the open cart)
func (h *CartHandler) RemoveProduct(c echo.Context) error {
	req := cartRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}

	ctx := c.Request().Context()
	var err error
	if req.CartID != 0 {
		err = h.cartService.RemoveProduct(ctx, caller(c), req.CartID, req.ProductID)
	} else {
		err = h.cartService.RemoveProductForUser(ctx, caller(c), req.UserID, req.ProductID)
	}
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Product removed from cart successfully."})
}

// GetCart --> GET /api/cart/:id
func (h *CartHandler) GetCart(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	cart, err := h.cartService.GetCart(c.Request().Context(), caller(c), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cart)
}

// GetActiveCart --> GET /api/cart/active/:userId
func (h *CartHandler) GetActiveCart(c echo.Context) error {
	userID, err := paramID(c, "userId")
	if err != nil {
		return invalidID(c)
	}
	cart, err := h.cartService.GetActiveCart(c.Request().Context(), caller(c), userID)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, cart)
}
