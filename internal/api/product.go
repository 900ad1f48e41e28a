package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/entity"
)

type ProductService interface {
	ListProducts(ctx context.Context) ([]entity.Product, error)
	ListActiveProducts(ctx context.Context) ([]entity.Product, error)
	ListProductsByCategory(ctx context.Context, name string) ([]entity.Product, error)
	GetProductByID(ctx context.Context, id int64) (*entity.Product, error)
	CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error)
	UpdateProduct(ctx context.Context, id int64, product *entity.Product) (*entity.Product, error)
	ToggleActive(ctx context.Context, id int64) (*entity.Product, error)
	DeleteProduct(ctx context.Context, id int64) error
	ReserveStock(ctx context.Context, id int64, quantity int) error
	ReleaseStock(ctx context.Context, id int64, quantity int) error
	WarmupCache(ctx context.Context) (int, error)
}

type ProductHandler struct {
	productService ProductService
}

func NewProductHandler(productService ProductService) *ProductHandler {
	return &ProductHandler{productService: productService}
}

type stockRequest struct {
	Quantity int `json:"quantity"`
}

// ListProducts --> GET /api/product
func (h *ProductHandler) ListProducts(c echo.Context) error {
	products, err := h.productService.ListProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, products)
}

// ListActiveProducts --> GET /api/product/activeProducts
func (h *ProductHandler) ListActiveProducts(c echo.Context) error {
	products, err := h.productService.ListActiveProducts(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, products)
}

// ListByCategory --> GET /api/product/byCategory?name=
func (h *ProductHandler) ListByCategory(c echo.Context) error {
	products, err := h.productService.ListProductsByCategory(c.Request().Context(), c.QueryParam("name"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, products)
}

// GetProduct --> GET /api/product/:id
func (h *ProductHandler) GetProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	product, err := h.productService.GetProductByID(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, product)
}

// CreateProduct --> POST /api/product/addProduct
func (h *ProductHandler) CreateProduct(c echo.Context) error {
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return invalidPayload(c)
	}
	created, err := h.productService.CreateProduct(c.Request().Context(), &product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, created)
}

// UpdateProduct --> PUT /api/product/:id
func (h *ProductHandler) UpdateProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	product := entity.Product{}
	if err := c.Bind(&product); err != nil {
		return invalidPayload(c)
	}
	updated, err := h.productService.UpdateProduct(c.Request().Context(), id, &product)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, updated)
}

// ToggleActive --> PUT /api/product/:id/toggle-active
func (h *ProductHandler) ToggleActive(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	product, err := h.productService.ToggleActive(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, product)
}

// DeleteProduct --> DELETE /api/product/:id
func (h *ProductHandler) DeleteProduct(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	if err := h.productService.DeleteProduct(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Product has been successfully deleted."})
}

// ReserveStock --> POST /api/product/reserve/:id
func (h *ProductHandler) ReserveStock(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	req := stockRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := h.productService.ReserveStock(c.Request().Context(), id, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Stock reserved."})
}

// ReleaseStock --> POST /api/product/release/:id
func (h *ProductHandler) ReleaseStock(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	req := stockRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	if err := h.productService.ReleaseStock(c.Request().Context(), id, req.Quantity); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Stock released."})
}

// WarmupCache --> GET /api/product/warmup-cache
func (h *ProductHandler) WarmupCache(c echo.Context) error {
	n, err := h.productService.WarmupCache(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]interface{}{"message": "Product cache warmed.", "products": n})
}
