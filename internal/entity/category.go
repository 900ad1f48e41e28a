package entity

type ProductCategory struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}
