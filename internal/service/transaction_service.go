package service

import (
	"context"
	"errors"

	"kiosk-service/internal/entity"
)

type TransactionService struct {
	txRepo TransactionStore
}

func NewTransactionService(txRepo TransactionStore) *TransactionService {
	return &TransactionService{txRepo: txRepo}
}

func (s *TransactionService) ListTransactions(ctx context.Context) ([]entity.Transaction, error) {
	transactions, err := s.txRepo.ListTransactions(ctx)
	if err != nil {
		logger.Error().Err(err).Msg("Error listing transactions")
		return nil, err
	}
	return transactions, nil
}

func (s *TransactionService) ListUserTransactions(ctx context.Context, caller Caller, userID int64) ([]entity.Transaction, error) {
	if err := caller.mustAccess(userID); err != nil {
		return nil, err
	}
	transactions, err := s.txRepo.ListTransactionsByUser(ctx, userID)
	if err != nil {
		logger.Error().Err(err).Msgf("Error listing transactions of user %d", userID)
		return nil, err
	}
	return transactions, nil
}

func (s *TransactionService) GetTransaction(ctx context.Context, caller Caller, id int64) (*entity.Transaction, error) {
	transaction, err := s.txRepo.GetTransactionByID(ctx, id)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, notFoundf("Transaction not found.")
		}
		logger.Error().Err(err).Msgf("Error getting transaction %d", id)
		return nil, err
	}
	if err := caller.mustAccess(transaction.UserID); err != nil {
		return nil, err
	}
	return transaction, nil
}
