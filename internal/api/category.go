package api

import (
	"context"

	"github.com/labstack/echo/v4"
	"kiosk-service/internal/entity"
)

type CategoryService interface {
	ListCategories(ctx context.Context) ([]entity.ProductCategory, error)
	GetCategory(ctx context.Context, id int64) (*entity.ProductCategory, error)
	CreateCategory(ctx context.Context, name string) (*entity.ProductCategory, error)
	UpdateCategory(ctx context.Context, id int64, name string) (*entity.ProductCategory, error)
	DeleteCategory(ctx context.Context, id int64) error
}

type CategoryHandler struct {
	categoryService CategoryService
}

func NewCategoryHandler(categoryService CategoryService) *CategoryHandler {
	return &CategoryHandler{categoryService: categoryService}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) ListCategories(c echo.Context) error {
	categories, err := h.categoryService.ListCategories(c.Request().Context())
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, categories)
}

func (h *CategoryHandler) GetCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	category, err := h.categoryService.GetCategory(c.Request().Context(), id)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, category)
}

func (h *CategoryHandler) CreateCategory(c echo.Context) error {
	req := categoryRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	category, err := h.categoryService.CreateCategory(c.Request().Context(), req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(201, category)
}

func (h *CategoryHandler) UpdateCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	req := categoryRequest{}
	if err := c.Bind(&req); err != nil {
		return invalidPayload(c)
	}
	category, err := h.categoryService.UpdateCategory(c.Request().Context(), id, req.Name)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, category)
}

func (h *CategoryHandler) DeleteCategory(c echo.Context) error {
	id, err := paramID(c, "id")
	if err != nil {
		return invalidID(c)
	}
	if err := h.categoryService.DeleteCategory(c.Request().Context(), id); err != nil {
		return writeError(c, err)
	}
	return c.JSON(200, map[string]string{"message": "Product Category successfully deleted."})
}
