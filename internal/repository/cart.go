package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
)

const cartColumns = `id, user_id, date_created, status, transaction_id`

type CartRepository struct {
	db *sql.DB
}

func NewCartRepository(db *sql.DB) *CartRepository {
	return &CartRepository{db}
}

func scanCart(row rowScanner) (*entity.Cart, error) {
	cart := &entity.Cart{}
	var transactionID sql.NullInt64
	if err := row.Scan(&cart.ID, &cart.UserID, &cart.DateCreated, &cart.Status, &transactionID); err != nil {
		return nil, err
	}
	if transactionID.Valid {
		cart.TransactionID = &transactionID.Int64
	}
	return cart, nil
}

func (r *CartRepository) GetCartByID(ctx context.Context, id int64) (*entity.Cart, error) {
	cart, err := scanCart(r.db.QueryRowContext(ctx, `SELECT `+cartColumns+` FROM carts WHERE id = ?`, id))
	if err != nil {
		return nil, translate(err)
	}
	return cart, nil
}

func (r *CartRepository) GetOpenCartByUser(ctx context.Context, userID int64) (*entity.Cart, error) {
	query := `SELECT ` + cartColumns + ` FROM carts WHERE user_id = ? AND status = 'open'`
	cart, err := scanCart(r.db.QueryRowContext(ctx, query, userID))
	if err != nil {
		return nil, translate(err)
	}
	return cart, nil
}

// CreateCart opens a new cart. A second open cart for the same user fails with ErrConflict.
func (r *CartRepository) CreateCart(ctx context.Context, userID int64) (*entity.Cart, error) {
	now := time.Now().UTC()
	res, err := r.db.ExecContext(ctx, `INSERT INTO carts (user_id, date_created, status) VALUES (?, ?, 'open')`, userID, now)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &entity.Cart{ID: id, UserID: userID, DateCreated: now, Status: entity.CartOpen}, nil
}

// ListCartLines returns the lines of a cart joined with the current product name, price and stock.
func (r *CartRepository) ListCartLines(ctx context.Context, cartID int64) ([]entity.CartProduct, error) {
	query := `SELECT cp.id, cp.cart_id, cp.product_id, cp.quantity, p.name, p.unit_price, COALESCE(p.quantity, 0), p.is_active
		FROM cart_products cp JOIN products p ON p.id = cp.product_id
		WHERE cp.cart_id = ? ORDER BY cp.id`
	rows, err := r.db.QueryContext(ctx, query, cartID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	lines := []entity.CartProduct{}
	for rows.Next() {
		var line entity.CartProduct
		if err := rows.Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity, &line.ProductName, &line.UnitPrice, &line.Stock, &line.ProductActive); err != nil {
			return nil, err
		}
		line.LineTotal = line.UnitPrice.Mul(decimal.NewFromInt(int64(line.Quantity)))
		lines = append(lines, line)
	}
	return lines, rows.Err()
}

func (r *CartRepository) GetCartLine(ctx context.Context, cartID, productID int64) (*entity.CartProduct, error) {
	line := &entity.CartProduct{}
	query := `SELECT id, cart_id, product_id, quantity FROM cart_products WHERE cart_id = ? AND product_id = ?`
	err := r.db.QueryRowContext(ctx, query, cartID, productID).Scan(&line.ID, &line.CartID, &line.ProductID, &line.Quantity)
	if err != nil {
		return nil, translate(err)
	}
	return line, nil
}

func (r *CartRepository) InsertCartLine(ctx context.Context, cartID, productID int64, quantity int) (*entity.CartProduct, error) {
	res, err := r.db.ExecContext(ctx, `INSERT INTO cart_products (cart_id, product_id, quantity) VALUES (?, ?, ?)`, cartID, productID, quantity)
	if err != nil {
		return nil, translate(err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, err
	}
	return &entity.CartProduct{ID: id, CartID: cartID, ProductID: productID, Quantity: quantity}, nil
}

func (r *CartRepository) UpdateCartLineQuantity(ctx context.Context, cartID, productID int64, quantity int) error {
	_, err := r.db.ExecContext(ctx, `UPDATE cart_products SET quantity = ? WHERE cart_id = ? AND product_id = ?`, quantity, cartID, productID)
	return err
}

func (r *CartRepository) DeleteCartLine(ctx context.Context, cartID, productID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM cart_products WHERE cart_id = ? AND product_id = ?`, cartID, productID)
	if err != nil {
		return err
	}
	return expectOneRow(res, ErrNotFound)
}
