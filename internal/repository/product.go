package repository

import (
	"context"
	"database/sql"

	"kiosk-service/internal/entity"
)

const productColumns = `p.id, p.name, p.description, p.unit_price, p.available, p.quantity, p.category_id, p.image, p.is_active`

type ProductRepository struct {
	db *sql.DB
}

func NewProductRepository(db *sql.DB) *ProductRepository {
	return &ProductRepository{db}
}

type rowScanner interface {
	Scan(dest ...interface{}) error
}

func scanProduct(row rowScanner) (*entity.Product, error) {
	product := &entity.Product{}
	var quantity sql.NullInt64
	err := row.Scan(&product.ID, &product.Name, &product.Description, &product.UnitPrice, &product.Available, &quantity, &product.CategoryID, &product.Image, &product.IsActive)
	if err != nil {
		return nil, err
	}
	if quantity.Valid {
		q := int(quantity.Int64)
		product.Quantity = &q
	}
	return product, nil
}

func (r *ProductRepository) queryProducts(ctx context.Context, query string, args ...interface{}) ([]entity.Product, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []entity.Product{}
	for rows.Next() {
		product, err := scanProduct(rows)
		if err != nil {
			return nil, err
		}
		products = append(products, *product)
	}
	return products, rows.Err()
}

func (r *ProductRepository) ListProducts(ctx context.Context) ([]entity.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products p ORDER BY p.id`)
}

// ListActiveProducts returns products that are active and not marked unavailable.
func (r *ProductRepository) ListActiveProducts(ctx context.Context) ([]entity.Product, error) {
	return r.queryProducts(ctx, `SELECT `+productColumns+` FROM products p WHERE p.is_active = 1 AND LOWER(p.available) <> 'no' ORDER BY p.id`)
}

func (r *ProductRepository) ListProductsByCategoryName(ctx context.Context, name string) ([]entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p JOIN product_categories c ON c.id = p.category_id WHERE LOWER(c.name) = LOWER(?) ORDER BY p.id`
	return r.queryProducts(ctx, query, name)
}

func (r *ProductRepository) GetProductByID(ctx context.Context, id int64) (*entity.Product, error) {
	query := `SELECT ` + productColumns + ` FROM products p WHERE p.id = ?`
	product, err := scanProduct(r.db.QueryRowContext(ctx, query, id))
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (r *ProductRepository) CreateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `INSERT INTO products (name, description, unit_price, available, quantity, category_id, image, is_active) VALUES (?, ?, ?, ?, ?, ?, ?, ?)`
	res, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.UnitPrice, product.Available, nullableInt(product.Quantity), product.CategoryID, product.Image, product.IsActive)
	if err != nil {
		return nil, translate(err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	product.ID = id
	return product, nil
}

func (r *ProductRepository) UpdateProduct(ctx context.Context, product *entity.Product) (*entity.Product, error) {
	query := `UPDATE products SET name = ?, description = ?, unit_price = ?, available = ?, quantity = ?, category_id = ?, image = ?, is_active = ? WHERE id = ?`
	_, err := r.db.ExecContext(ctx, query, product.Name, product.Description, product.UnitPrice, product.Available, nullableInt(product.Quantity), product.CategoryID, product.Image, product.IsActive, product.ID)
	if err != nil {
		return nil, translate(err)
	}
	return product, nil
}

func (r *ProductRepository) SetProductActive(ctx context.Context, id int64, active bool) error {
	_, err := r.db.ExecContext(ctx, `UPDATE products SET is_active = ? WHERE id = ?`, active, id)
	return err
}

// DeleteProduct fails with ErrConflict while carts still reference the product.
func (r *ProductRepository) DeleteProduct(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM products WHERE id = ?`, id)
	if err != nil {
		return translate(err)
	}
	return expectOneRow(res, ErrNotFound)
}

// ReserveStock takes quantity units out of stock, marking the product unavailable once it reaches zero.
func (r *ProductRepository) ReserveStock(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE products SET quantity = quantity - ?, available = IF(quantity = 0, 'no', available)
		WHERE id = ? AND quantity >= ? AND LOWER(available) <> 'no'`
	res, err := r.db.ExecContext(ctx, query, quantity, id, quantity)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrInsufficientStock)
}

// ReleaseStock puts quantity units back and flips an unavailable product back to available.
func (r *ProductRepository) ReleaseStock(ctx context.Context, id int64, quantity int) error {
	query := `UPDATE products SET quantity = COALESCE(quantity, 0) + ?, available = IF(LOWER(available) = 'no' AND quantity > 0, 'yes', available)
		WHERE id = ?`
	res, err := r.db.ExecContext(ctx, query, quantity, id)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}

func nullableInt(v *int) interface{} {
	if v == nil {
		return nil
	}
	return int64(*v)
}
