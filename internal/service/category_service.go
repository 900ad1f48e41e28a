package service

import (
	"context"
	"errors"
	"strings"
	"unicode/utf8"

	"kiosk-service/internal/entity"
)

type CategoryService struct {
	categoryRepo CategoryStore
}

func NewCategoryService(categoryRepo CategoryStore) *CategoryService {
	return &CategoryService{categoryRepo: categoryRepo}
}

func (s *CategoryService) ListCategories(ctx context.Context) ([]entity.ProductCategory, error) {
	categories, err := s.categoryRepo.ListCategories(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing categories")
		return nil, err
	}
	return categories, nil
}

func (s *CategoryService) GetCategory(ctx context.Context, id int64) (*entity.ProductCategory, error) {
	category, err := s.categoryRepo.GetCategoryByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Product Category not found.")
		}
		logger.Error().Err(err).Msgf("Error getting category %d", id)
		return nil, err
	}
	return category, nil
}

func (s *CategoryService) CreateCategory(ctx context.Context, name string) (*entity.ProductCategory, error) {
	name, err := s.checkName(ctx, name, 0)
	if err != nil {
		return nil, err
	}

	created, err := s.categoryRepo.CreateCategory(ctx, &entity.ProductCategory{Name: name})
	if err != nil {
		logger.Error().Err(err).Msg("Error creating category")
		return nil, err
	}
	return created, nil
}

func (s *CategoryService) UpdateCategory(ctx context.Context, id int64, name string) (*entity.ProductCategory, error) {
	if _, err := s.GetCategory(ctx, id); err != nil {
		return nil, err
	}
	name, err := s.checkName(ctx, name, id)
	if err != nil {
		return nil, err
	}

	updated, err := s.categoryRepo.UpdateCategory(ctx, &entity.ProductCategory{ID: id, Name: name})
	if err != nil {
		logger.Error().Err(err).Msgf("Error updating category %d", id)
		return nil, err
	}
	return updated, nil
}

// DeleteCategory refuses while any product still belongs to the category.
func (s *CategoryService) DeleteCategory(ctx context.Context, id int64) error {
	err := s.categoryRepo.DeleteCategory(ctx, id)
	switch {
	case errors.Is(err, ErrNotFound):
		return notFoundf("Product Category not found.")
	case errors.Is(err, ErrConflict):
		return newError(ErrConflict, "Product Category still has products and cannot be deleted.")
	case err != nil:
		logger.Error().Err(err).Msgf("Error deleting category %d", id)
		return err
	}
	return nil
}

func (s *CategoryService) checkName(ctx context.Context, name string, excludeID int64) (string, error) {
	name = strings.TrimSpace(name)
	if n := utf8.RuneCountInString(name); n == 0 || n > 100 {
		return "", invalidf("Invalid data.")
	}

	taken, err := s.categoryRepo.NameTaken(ctx, name, excludeID)
	if err != nil {
		logger.Error().Err(err).Msg("Error checking category name")
		return "", err
	}
	if taken {
		return "", newError(ErrConflict, "Category with this name already exists.")
	}
	return name, nil
}
