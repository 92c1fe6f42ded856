// Package kernel assembles the HTTP handler: global middleware, the metrics
// endpoint and the storefront routes.
package kernel

import (
	"net/http"

	"github.com/shashiranjanraj/teahouse/app/routes"
	"github.com/shashiranjanraj/teahouse/app/services"
	"github.com/shashiranjanraj/teahouse/pkg/metrics"
	"github.com/shashiranjanraj/teahouse/pkg/middleware"
	"github.com/shashiranjanraj/teahouse/pkg/reqid"
	"github.com/shashiranjanraj/teahouse/pkg/router"
)

// NewRouter builds the router with every route registered.
func NewRouter(orders *services.OrderService, corsOrigins []string) *router.Router {
	r := router.New()

	// Outermost first: metrics sees the full latency, Recovery catches panics
	// before they reach net/http, and the request id exists before Logger runs.
	r.Use(metrics.Middleware())
	r.Use(middleware.Recovery)
	r.Use(reqid.Middleware())
	r.Use(middleware.Logger)
	r.Use(middleware.CORS(middleware.DefaultCORSOptions(corsOrigins)))

	r.Handle("/metrics", metrics.Handler())

	routes.Register(r, orders)
	return r
}

// Handler returns the HTTP handler served by the process.
func Handler(orders *services.OrderService, corsOrigins []string) http.Handler {
	return NewRouter(orders, corsOrigins).Handler()
}
