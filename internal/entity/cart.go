package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

type CartStatus string

const (
	CartOpen       CartStatus = "open"
	CartCheckedOut CartStatus = "checked_out"
)

type Cart struct {
	ID            int64           `json:"id"`
	UserID        int64           `json:"user_id"`
	DateCreated   time.Time       `json:"date_created"`
	Status        CartStatus      `json:"status"`
	TransactionID *int64          `json:"transaction_id"`
	Products      []CartProduct   `json:"products"`
	Total         decimal.Decimal `json:"total"`
}

// CartProduct is a single line of a cart. The product fields are a read-time snapshot.
type CartProduct struct {
	ID            int64           `json:"id"`
	CartID        int64           `json:"cart_id"`
	ProductID     int64           `json:"product_id"`
	Quantity      int             `json:"quantity"`
	ProductName   string          `json:"product_name,omitempty"`
	UnitPrice     decimal.Decimal `json:"unit_price"`
	Stock         int             `json:"stock"`
	ProductActive bool            `json:"product_active"`
	LineTotal     decimal.Decimal `json:"line_total"`
}

// IsOpen reports whether the cart can still be edited.
func (c *Cart) IsOpen() bool {
	return c.Status == CartOpen
}

/*
Mysql Table

CREATE TABLE carts (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	user_id BIGINT NOT NULL,
	date_created DATETIME NOT NULL,
	status VARCHAR(20) NOT NULL,
	transaction_id BIGINT NULL,
	open_user_id BIGINT AS (IF(status = 'open', user_id, NULL)) STORED,
	UNIQUE KEY uq_carts_open_user (open_user_id)
);

CREATE TABLE cart_products (
	id BIGINT AUTO_INCREMENT PRIMARY KEY,
	cart_id BIGINT NOT NULL REFERENCES carts(id),
	product_id BIGINT NOT NULL REFERENCES products(id),
	quantity INT NOT NULL,
	UNIQUE KEY uq_cart_product (cart_id, product_id)
);
*/
