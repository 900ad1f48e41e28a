package entity

import "github.com/shopspring/decimal"

type WeeklySales struct {
	Week  string          `json:"week"` // ISO year-week, e.g. 2025-21
	Total decimal.Decimal `json:"total"`
}

type PopularProduct struct {
	ProductID int64  `json:"product_id"`
	Name      string `json:"name"`
	UnitsSold int    `json:"units_sold"`
}

type ReportSummary struct {
	TotalProductsInCarts int              `json:"total_products_in_carts"`
	AverageSalesPerWeek  decimal.Decimal  `json:"average_sales_per_week"`
	WeeklySales          []WeeklySales    `json:"weekly_sales"`
	MostPopularProducts  []PopularProduct `json:"most_popular_products"`
}
