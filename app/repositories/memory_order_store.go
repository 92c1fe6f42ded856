package repositories

import (
	"context"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/shashiranjanraj/teahouse/app/models"
)

// MemoryOrderStore keeps orders for the life of the process. IDs are
// sequential decimal strings starting at "1".
type MemoryOrderStore struct {
	mu     sync.RWMutex
	orders []models.Order
	nextID atomic.Int64
}

func NewMemoryOrderStore() *MemoryOrderStore {
	return &MemoryOrderStore{}
}

func (s *MemoryOrderStore) Backend() string { return "memory" }

func (s *MemoryOrderStore) Create(ctx context.Context, order models.Order) (models.Order, error) {
	if err := ctx.Err(); err != nil {
		return models.Order{}, wrap("create", err)
	}

	order.Cart = append([]models.CartLine(nil), order.Cart...)

	s.mu.Lock()
	order.ID = strconv.FormatInt(s.nextID.Add(1), 10)
	s.orders = append(s.orders, order)
	s.mu.Unlock()

	return order, nil
}

// All returns a sorted deep copy; the insertion log itself is never
// reordered.
// The copy is reversed before the stable sort so equal timestamps list the
// most recently created order first.
func (s *MemoryOrderStore) All(ctx context.Context) ([]models.Order, error) {
	if err := ctx.Err(); err != nil {
		return nil, wrap("list", err)
	}

	s.mu.RLock()
	out := make([]models.Order, len(s.orders))
	for i, o := range s.orders {
		o.Cart = append([]models.CartLine(nil), o.Cart...)
		out[len(s.orders)-1-i] = o
	}
	s.mu.RUnlock()

	sortNewestFirst(out)
	return out, nil
}
