package repository

import (
	"context"
	"database/sql"

	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
)

type WalletRepository struct {
	db *sql.DB
}

func NewWalletRepository(db *sql.DB) *WalletRepository {
	return &WalletRepository{db}
}

func (r *WalletRepository) GetWallet(ctx context.Context, userID int64) (*entity.Wallet, error) {
	wallet := &entity.Wallet{}
	err := r.db.QueryRowContext(ctx, `SELECT user_id, balance FROM wallets WHERE user_id = ?`, userID).Scan(&wallet.UserID, &wallet.Balance)
	if err != nil {
		return nil, translate(err)
	}
	return wallet, nil
}

// TopUp creates the wallet at zero when missing, adds amount and returns the new balance.
func (r *WalletRepository) TopUp(ctx context.Context, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return decimal.Zero, err
	}

	_, err = tx.ExecContext(ctx, `INSERT INTO wallets (user_id, balance) VALUES (?, 0) ON DUPLICATE KEY UPDATE user_id = user_id`, userID)
	if err != nil {
		tx.Rollback()
		return decimal.Zero, translate(err)
	}

	_, err = tx.ExecContext(ctx, `UPDATE wallets SET balance = balance + ? WHERE user_id = ?`, amount, userID)
	if err != nil {
		tx.Rollback()
		return decimal.Zero, err
	}

	var balance decimal.Decimal
	err = tx.QueryRowContext(ctx, `SELECT balance FROM wallets WHERE user_id = ?`, userID).Scan(&balance)
	if err != nil {
		tx.Rollback()
		return decimal.Zero, err
	}

	if err = tx.Commit(); err != nil {
		return decimal.Zero, err
	}
	return balance, nil
}
