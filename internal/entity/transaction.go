package entity

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

type OrderType string

const (
	OrderPickup   OrderType = "Pickup"
	OrderDelivery OrderType = "Delivery"
)

// DeliveryFee is added once to the checkout total for delivery orders.
var DeliveryFee = decimal.NewFromInt(15)

// ParseOrderType accepts "pickup"/"delivery" in any case.
func ParseOrderType(s string) (OrderType, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "pickup":
		return OrderPickup, true
	case "delivery":
		return OrderDelivery, true
	}
	return "", false
}

type Transaction struct {
	ID              int64           `json:"id"`
	UserID          int64           `json:"user_id"`
	CartID          int64           `json:"cart_id"`
	TransactionDate time.Time       `json:"transaction_date"`
	OrderType       OrderType       `json:"order_type"`
	TotalAmount     decimal.Decimal `json:"total_amount"`
	FirstName       string          `json:"first_name,omitempty"`
	LastName        string          `json:"last_name,omitempty"`
}

// CheckoutResult is returned to the caller after a committed checkout.
type CheckoutResult struct {
	Message              string          `json:"message"`
	TransactionID        int64           `json:"transaction_id"`
	TotalAmount          decimal.Decimal `json:"total_amount"`
	UpdatedWalletBalance decimal.Decimal `json:"updated_wallet_balance"`
}

// TransactionEvent is the payload published after a checkout commits.
type TransactionEvent struct {
	TransactionID int64           `json:"transaction_id"`
	UserID        int64           `json:"user_id"`
	CartID        int64           `json:"cart_id"`
	OrderType     OrderType       `json:"order_type"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	ProductIDs    []int64         `json:"product_ids"`
	Date          time.Time       `json:"date"`
}

/*
Mysql Table

CREATE TABLE transactions (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL REFERENCES users(id),
	cart_id BIGINT NOT NULL UNIQUE REFERENCES carts(id),
	transaction_date DATETIME NOT NULL,
	order_type VARCHAR(20) NOT NULL,
	total_amount DECIMAL(12,2) NOT NULL
);
*/
