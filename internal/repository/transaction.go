package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
)

// CheckoutCommit is everything the checkout writes in one database transaction.
type CheckoutCommit struct {
	UserID    int64
	CartID    int64
	OrderType entity.OrderType
	Total     decimal.Decimal
	Lines     []entity.CartProduct
	Date      time.Time
}

type TransactionRepository struct {
	db *sql.DB
}

func NewTransactionRepository(db *sql.DB) *TransactionRepository {
	return &TransactionRepository{db}
}

// CommitCheckout decrements stock, debits the wallet, records the transaction and closes the cart.
// Every UPDATE is guarded so a concurrent change rolls the whole checkout back with ErrConcurrentUpdate.
func (r *TransactionRepository) CommitCheckout(ctx context.Context, commit CheckoutCommit) (int64, decimal.Decimal, error) {
	// Start a transaction
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, decimal.Zero, err
	}

	// Decrement stock per line
	stockQuery := `UPDATE products SET quantity = quantity - ? WHERE id = ? AND quantity >= ?`
	for _, line := range commit.Lines {
		res, err := tx.ExecContext(ctx, stockQuery, line.Quantity, line.ProductID, line.Quantity)
		if err != nil {
			tx.Rollback()
			return 0, decimal.Zero, err
		}
		if err = expectOneRow(res, ErrConcurrentUpdate); err != nil {
			tx.Rollback()
			return 0, decimal.Zero, fmt.Errorf("stock for product %d: %w", line.ProductID, err)
		}
	}

	// Debit the wallet
	res, err := tx.ExecContext(ctx, `UPDATE wallets SET balance = balance - ? WHERE user_id = ? AND balance >= ?`, commit.Total, commit.UserID, commit.Total)
	if err != nil {
		tx.Rollback()
		return 0, decimal.Zero, err
	}
	if err = expectOneRow(res, ErrConcurrentUpdate); err != nil {
		tx.Rollback()
		return 0, decimal.Zero, fmt.Errorf("wallet of user %d: %w", commit.UserID, err)
	}

	// Insert transaction
	res, err = tx.ExecContext(ctx, `INSERT INTO transactions (user_id, cart_id, transaction_date, order_type, total_amount) VALUES (?, ?, ?, ?, ?)`,
		commit.UserID, commit.CartID, commit.Date, string(commit.OrderType), commit.Total)
	if err != nil {
		tx.Rollback()
		return 0, decimal.Zero, translate(err)
	}
	transactionID, err := res.LastInsertId()
	if err != nil {
		tx.Rollback()
		return 0, decimal.Zero, err
	}

	// Close the cart
	res, err = tx.ExecContext(ctx, `UPDATE carts SET status = 'checked_out', transaction_id = ? WHERE id = ? AND status = 'open'`, transactionID, commit.CartID)
	if err != nil {
		tx.Rollback()
		return 0, decimal.Zero, err
	}
	if err = expectOneRow(res, ErrConcurrentUpdate); err != nil {
		tx.Rollback()
		return 0, decimal.Zero, fmt.Errorf("cart %d: %w", commit.CartID, err)
	}

	var balance decimal.Decimal
	if err = tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = ?`, commit.UserID).Scan(&balance); err != nil {
		tx.Rollback()
		return 0, decimal.Zero, err
	}

	// Commit the transaction
	if err = tx.Commit(); err != nil {
		return 0, decimal.Zero, err
	}
	return transactionID, balance, nil
}

const transactionSelect = `SELECT t.id, t.user_id, t.cart_id, t.transaction_date, t.order_type, t.total_amount, u.first_name, u.last_name
	FROM transactions t JOIN users u ON u.id = t.user_id`

func (r *TransactionRepository) queryTransactions(ctx context.Context, query string, args ...interface{}) ([]entity.Transaction, error) {
	rows, err := r.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	transactions := []entity.Transaction{}
	for rows.Next() {
		var t entity.Transaction
		if err := rows.Scan(&t.ID, &t.UserID, &t.CartID, &t.TransactionDate, &t.OrderType, &t.TotalAmount, &t.FirstName, &t.LastName); err != nil {
			return nil, err
		}
		transactions = append(transactions, t)
	}
	return transactions, rows.Err()
}

func (r *TransactionRepository) ListTransactions(ctx context.Context) ([]entity.Transaction, error) {
	return r.queryTransactions(ctx, transactionSelect+` ORDER BY t.transaction_date DESC, t.id DESC`)
}

func (r *TransactionRepository) ListTransactionsByUser(ctx context.Context, userID int64) ([]entity.Transaction, error) {
	return r.queryTransactions(ctx, transactionSelect+` WHERE t.user_id = ? ORDER BY t.transaction_date DESC, t.id DESC`, userID)
}

func (r *TransactionRepository) GetTransactionByID(ctx context.Context, id int64) (*entity.Transaction, error) {
	t := &entity.Transaction{}
	err := r.db.QueryRowContext(ctx, transactionSelect+` WHERE t.id = ?`, id).
		Scan(&t.ID, &t.UserID, &t.CartID, &t.TransactionDate, &t.OrderType, &t.TotalAmount, &t.FirstName, &t.LastName)
	if err != nil {
		return nil, translate(err)
	}
	return t, nil
}
