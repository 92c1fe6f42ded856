package services

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/shashiranjanraj/teahouse/app/models"
	"github.com/shashiranjanraj/teahouse/app/notifications"
	"github.com/shashiranjanraj/teahouse/app/repositories"
	"github.com/shashiranjanraj/teahouse/pkg/logger"
	"github.com/shashiranjanraj/teahouse/pkg/metrics"
	"github.com/shashiranjanraj/teahouse/pkg/notification"
	"github.com/shashiranjanraj/teahouse/pkg/validate"
)

// ValidationError lists the request fields that failed presence checks.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	names := make([]string, 0, len(e.Fields))
	for name := range e.Fields {
		names = append(names, name)
	}
	sort.Strings(names)
	return "invalid order: " + strings.Join(names, ", ")
}

// Notifier sends a notification without blocking the caller.
type Notifier interface {
	SendAsync(address string, n notification.Notification)
}

// OrderOptions configures how new orders are announced.
type OrderOptions struct {
	Recipient      string
	CurrencySymbol string
	Channels       []string
	Now            func() time.Time
}

type OrderService struct {
	store    repositories.OrderStore
	notifier Notifier
	opts     OrderOptions
}

func NewOrderService(store repositories.OrderStore, notifier Notifier, opts OrderOptions) *OrderService {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	return &OrderService{store: store, notifier: notifier, opts: opts}
}

// Place validates in, stores the order and announces it in the background.
// The notification outcome never affects the result.
func (s *OrderService) Place(ctx context.Context, in models.OrderInput) (models.Order, error) {
	if errs := validate.Struct(in); validate.HasErrors(errs) {
		return models.Order{}, &ValidationError{Fields: errs}
	}

	order, err := s.store.Create(ctx, in.ToOrder(s.opts.Now()))
	if err != nil {
		metrics.StoreErrors.WithLabelValues("create").Inc()
		return models.Order{}, fmt.Errorf("place order: %w", err)
	}
	metrics.OrdersCreated.WithLabelValues(s.store.Backend()).Inc()

	logger.WithCtx(ctx).Info("order stored",
		"order_id", order.ID, "store", s.store.Backend(), "lines", len(order.Cart))

	if s.notifier != nil {
		s.notifier.SendAsync(s.opts.Recipient, notifications.OrderPlaced{
			Order:          order,
			CurrencySymbol: s.opts.CurrencySymbol,
			Channels:       s.opts.Channels,
		})
	}
	return order, nil
}

// List returns every order, newest first.
func (s *OrderService) List(ctx context.Context) ([]models.Order, error) {
	orders, err := s.store.All(ctx)
	if err != nil {
		metrics.StoreErrors.WithLabelValues("list").Inc()
		return nil, fmt.Errorf("list orders: %w", err)
	}
	if orders == nil {
		orders = []models.Order{}
	}
	return orders, nil
}
