package repository

import (
	"context"
	"database/sql"

	"kiosk-service/internal/entity"
)

type CategoryRepository struct {
	db *sql.DB
}

func NewCategoryRepository(db *sql.DB) *CategoryRepository {
	return &CategoryRepository{db}
}

func (r *CategoryRepository) ListCategories(ctx context.Context) ([]entity.ProductCategory, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, name FROM product_categories ORDER BY id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	categories := []entity.ProductCategory{}
	for rows.Next() {
		var category entity.ProductCategory
		if err := rows.Scan(&category.ID, &category.Name); err != nil {
			return nil, err
		}
		categories = append(categories, category)
	}
	return categories, rows.Err()
}

func (r *CategoryRepository) GetCategoryByID(ctx context.Context, id int64) (*entity.ProductCategory, error) {
	category := &entity.ProductCategory{}
	err := r.db.QueryRowContext(ctx, `SELECT id, name FROM product_categories WHERE id = ?`, id).Scan(&category.ID, &category.Name)
	if err != nil {
		return nil, translate(err)
	}
	return category, nil
}

// NameTaken reports whether another category (not excludeID) already uses name, ignoring case.
func (r *CategoryRepository) NameTaken(ctx context.Context, name string, excludeID int64) (bool, error) {
	var count int
	query := `SELECT COUNT(*) FROM product_categories WHERE LOWER(name) = LOWER(?) AND id <> ?`
	if err := r.db.QueryRowContext(ctx, query, name, excludeID).Scan(&count); err != nil {
		return false, err
	}
	return count > 0, nil
}

func (r *CategoryRepository) CreateCategory(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO product_categories (name) VALUES (?)`, category.Name)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	category.ID = id
	return category, nil
}

func (r *CategoryRepository) UpdateCategory(ctx context.Context, category *entity.ProductCategory) (*entity.ProductCategory, error) {
	_, err := r.db.ExecContext(ctx, `UPDATE product_categories SET name = ? WHERE id = ?`, category.Name, category.ID)
	if err != nil {
		return nil, translate(err)
	}
	return category, nil
}

// DeleteCategory fails with ErrConflict while products reference the category.
func (r *CategoryRepository) DeleteCategory(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM product_categories WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res, ErrNotFound)
}
