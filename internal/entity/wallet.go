package entity

import "github.com/shopspring/decimal"

type Wallet struct {
	UserID  int64           `json:"user_id"`
	Balance decimal.Decimal `json:"balance"`
}
