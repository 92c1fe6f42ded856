// Package repositories persists orders.
//
// Two interchangeable OrderStore implementations exist: MongoOrderStore for
// durable storage and MemoryOrderStore for when no database is reachable.
// The choice is made once at startup; see internal/server.
package repositories

import (
	"context"
	"errors"
	"sort"

	"github.com/shashiranjanraj/teahouse/app/models"
)

// ErrStore marks a failure of the backing store. Callers map it to a 500.
var ErrStore = errors.New("order store unavailable")

// OrderStore creates and lists orders.
type OrderStore interface {
	// Create persists order and returns it with its assigned ID.
	// The whole order is written or nothing is.
	Create(ctx context.Context, order models.Order) (models.Order, error)

	// All returns every order, newest CreatedAt first.
	All(ctx context.Context) ([]models.Order, error)

	// Backend names the implementation for logs and metrics.
	Backend() string
}

// storeError wraps err so errors.Is(err, ErrStore) holds and the driver
// error stays reachable.
type storeError struct {
	op  string
	err error
}

func (e *storeError) Error() string { return "order store: " + e.op + ": " + e.err.Error() }

func (e *storeError) Is(target error) bool { return target == ErrStore }

func (e *storeError) Unwrap() error { return e.err }

func wrap(op string, err error) error {
	if err == nil || errors.Is(err, ErrStore) {
		return err
	}
	return &storeError{op: op, err: err}
}

// sortNewestFirst orders by CreatedAt descending. The sort is stable so
// orders with equal timestamps keep their relative order.
func sortNewestFirst(orders []models.Order) {
	sort.SliceStable(orders, func(i, j int) bool {
		return orders[i].CreatedAt.After(orders[j].CreatedAt)
	})
}
