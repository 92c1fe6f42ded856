// Package catalog holds the fixed product list sold by the storefront.
package catalog

import "github.com/shashiranjanraj/teahouse/app/models"

var products = []models.Product{
	{ID: 1, Name: "Himalayan Dawn Green", Price: 650, Size: "100g", Tag: "First flush"},
	{ID: 2, Name: "Darjeeling Muscatel", Price: 820, Size: "100g", Tag: "Second flush"},
	{ID: 3, Name: "Assam Malty Breakfast", Price: 480, Size: "250g", Tag: "Strong & bold"},
}

// Products returns a copy of the catalog.
func Products() []models.Product {
	out := make([]models.Product, len(products))
	copy(out, products)
	return out
}
