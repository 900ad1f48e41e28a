package entity

import "github.com/shopspring/decimal"

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Available   string          `json:"available"` // "yes" / "no"; "no" hides the product from the active listing
	Quantity    *int            `json:"quantity"`
	CategoryID  int64           `json:"category_id"`
	Image       string          `json:"image"`
	IsActive    bool            `json:"is_active"`
}

// Stock returns the product quantity, treating an unset quantity as zero.
func (p *Product) Stock() int {
	if p.Quantity == nil {
		return 0
	}
	return *p.Quantity
}

/*
Schema MySQL for products table:
CREATE TABLE `products` (
  `id` bigint NOT NULL AUTO_INCREMENT,
  `category_id` bigint NOT NULL,
  `name` varchar(50) NOT NULL,
  `description` varchar(200) NOT NULL,
  `unit_price` decimal(12,2) NOT NULL,
  `available` varchar(50) NOT NULL,
  `quantity` int NULL,
  `image` varchar(500) NULL,
  `is_active` tinyint(1) NOT NULL DEFAULT 1,
  PRIMARY KEY (`id`),
  FOREIGN KEY (`category_id`) REFERENCES product_categories(`id`)
) ENGINE=InnoDB DEFAULT CHARSET=utf8mb4;
*/
