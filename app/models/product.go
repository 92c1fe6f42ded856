package models

// Product is one entry of the static catalog.
type Product struct {
	ID    int     `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
	Size  string  `json:"size"`
	Tag   string  `json:"tag"`
}
