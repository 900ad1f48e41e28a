package repository

import (
	"context"
	"database/sql"
	"time"

	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
)

// Sale is a single transaction reduced to what the weekly report needs.
type Sale struct {
	Date   time.Time
	Amount decimal.Decimal
}

type ReportRepository struct {
	db *sql.DB
}

func NewReportRepository(db *sql.DB) *ReportRepository {
	return &ReportRepository{db}
}

// CountProductsInOpenCarts sums line quantities over every open cart.
func (r *ReportRepository) CountProductsInOpenCarts(ctx context.Context) (int, error) {
	var total int
	query := `SELECT COALESCE(SUM(cp.quantity), 0) FROM cart_products cp JOIN carts c ON c.id = cp.cart_id WHERE c.status = 'open'`
	if err := r.db.QueryRowContext(ctx, query).Scan(&total); err != nil {
		return 0, err
	}
	return total, nil
}

func (r *ReportRepository) SalesSince(ctx context.Context, since time.Time) ([]Sale, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT transaction_date, total_amount FROM transactions WHERE transaction_date >= ? ORDER BY transaction_date`, since)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	sales := []Sale{}
	for rows.Next() {
		var sale Sale
		if err := rows.Scan(&sale.Date, &sale.Amount); err != nil {
			return nil, err
		}
		sales = append(sales, sale)
	}
	return sales, rows.Err()
}

// MostPopularProducts ranks products by units sold across checked-out carts.
func (r *ReportRepository) MostPopularProducts(ctx context.Context, limit int) ([]entity.PopularProduct, error) {
	query := `SELECT p.id, p.name, SUM(cp.quantity) AS units
		FROM cart_products cp
		JOIN carts c ON c.id = cp.cart_id
		JOIN products p ON p.id = cp.product_id
		WHERE c.status = 'checked_out'
		GROUP BY p.id, p.name
		ORDER BY units DESC, p.id
		LIMIT ?`
	rows, err := r.db.QueryContext(ctx, query, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	products := []entity.PopularProduct{}
	for rows.Next() {
		var p entity.PopularProduct
		if err := rows.Scan(&p.ProductID, &p.Name, &p.UnitsSold); err != nil {
			return nil, err
		}
		products = append(products, p)
	}
	return products, rows.Err()
}
