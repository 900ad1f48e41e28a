package service

import (
	"context"
	"errors"

	"github.com/shopspring/decimal"
	"kiosk-service/internal/entity"
)

var maxTopUp = decimal.NewFromInt(1000)

type WalletService struct {
	walletRepo WalletStore
	userRepo   UserStore
}

func NewWalletService(walletRepo WalletStore, userRepo UserStore) *WalletService {
	return &WalletService{walletRepo: walletRepo, userRepo: userRepo}
}

// TopUp adds amount to the user's wallet, creating it on first use, and returns the new balance.
func (s *WalletService) TopUp(ctx context.Context, caller Caller, userID int64, amount decimal.Decimal) (decimal.Decimal, error) {
	if !amount.IsPositive() || amount.GreaterThan(maxTopUp) || !amount.Equal(amount.Round(2)) {
		return decimal.Zero, invalidf("Amount must be between R0.01 and R1000.")
	}
	if err := caller.mustAccess(userID); err != nil {
		return decimal.Zero, err
	}

	if _, err := activeUser(ctx, s.userRepo, userID); err != nil {
		if errors.Is(err, ErrNotFound) {
			return decimal.Zero, notFoundf("User not found.")
		}
		logger.Error().Err(err).Msgf("Error getting user by ID %d", userID)
		return decimal.Zero, err
	}

	balance, err := s.walletRepo.TopUp(ctx, userID, amount)
	if err != nil {
		logger.Error().Err(err).Msgf("Error topping up wallet of user %d", userID)
		return decimal.Zero, err
	}
	logger.Info().Msgf("Wallet of user %d topped up by %s", userID, amount.StringFixed(2))
	return balance, nil
}

func (s *WalletService) GetBalance(ctx context.Context, caller Caller, userID int64) (*entity.Wallet, error) {
	if err := caller.mustAccess(userID); err != nil {
		return nil, err
	}

	wallet, err := s.walletRepo.GetWallet(ctx, userID)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Wallet not found.")
		}
		logger.Error().Err(err).Msgf("Error getting wallet of user %d", userID)
		return nil, err
	}
	return wallet, nil
}
