package routes

import (
	"github.com/shashiranjanraj/teahouse/app/controllers"
	"github.com/shashiranjanraj/teahouse/app/services"
	"github.com/shashiranjanraj/teahouse/pkg/router"
)

// Register mounts the storefront routes. orders may be nil when only the
// route table is needed.
func Register(r *router.Router, orders *services.OrderService) {
	health := controllers.NewHealthController()
	products := controllers.NewProductController()
	orderController := controllers.NewOrderController(orders)

	r.Get("/", "health", health.Show)

	api := r.Group("/api")
	api.Get("/products", "products.index", products.Index)
	api.Get("/orders", "orders.index", orderController.Index)
	api.Post("/orders", "orders.store", orderController.Store)
}
