package services_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/shashiranjanraj/teahouse/app/models"
	"github.com/shashiranjanraj/teahouse/app/notifications"
	"github.com/shashiranjanraj/teahouse/app/repositories"
	"github.com/shashiranjanraj/teahouse/app/services"
	"github.com/shashiranjanraj/teahouse/pkg/notification"
)

type mockStore struct{ mock.Mock }

func (m *mockStore) Create(ctx context.Context, o models.Order) (models.Order, error) {
	args := m.Called(ctx, o)
	return args.Get(0).(models.Order), args.Error(1)
}

func (m *mockStore) All(ctx context.Context) ([]models.Order, error) {
	args := m.Called(ctx)
	orders, _ := args.Get(0).([]models.Order)
	return orders, args.Error(1)
}

func (m *mockStore) Backend() string { return "mock" }

type mockNotifier struct{ mock.Mock }

func (m *mockNotifier) SendAsync(address string, n notification.Notification) {
	m.Called(address, n)
}

var fixedNow = time.Date(2026, 10, 18, 10, 0, 0, 0, time.UTC)

func validInput() models.OrderInput {
	return models.OrderInput{
		Name: "A", Phone: "123", Address: "X",
		Cart: []models.CartLine{{ID: "1", Name: "Himalayan Dawn Green", Price: 650, Qty: 2}},
	}
}

func newService(store repositories.OrderStore, n services.Notifier) *services.OrderService {
	return services.NewOrderService(store, n, services.OrderOptions{
		Recipient:      "ops@example.com",
		CurrencySymbol: "₹",
		Now:            func() time.Time { return fixedNow },
	})
}

func TestPlace_StoresAndNotifies(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}

	want := validInput().ToOrder(fixedNow)
	saved := want
	saved.ID = "abc"

	store.On("Create", mock.Anything, want).Return(saved, nil).Once()
	notifier.On("SendAsync", "ops@example.com", mock.MatchedBy(func(n notification.Notification) bool {
		op, ok := n.(notifications.OrderPlaced)
		return ok && op.Order.ID == "abc" && op.CurrencySymbol == "₹"
	})).Once()

	got, err := newService(store, notifier).Place(context.Background(), validInput())
	require.NoError(t, err)
	assert.Equal(t, "abc", got.ID)
	assert.Equal(t, fixedNow, got.CreatedAt)

	store.AssertExpectations(t)
	notifier.AssertExpectations(t)
}

func TestPlace_ValidationErrorHasNoSideEffects(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}

	in := validInput()
	in.Address = ""
	in.Cart = []models.CartLine{}

	_, err := newService(store, notifier).Place(context.Background(), in)

	var verr *services.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Contains(t, verr.Fields, "address")
	assert.Contains(t, verr.Fields, "cart")
	assert.Equal(t, "invalid order: address, cart", verr.Error())

	store.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
	notifier.AssertNotCalled(t, "SendAsync", mock.Anything, mock.Anything)
}

func TestPlace_StoreFailureSkipsNotification(t *testing.T) {
	store := &mockStore{}
	notifier := &mockNotifier{}
	store.On("Create", mock.Anything, mock.Anything).
		Return(models.Order{}, errors.Join(repositories.ErrStore, errors.New("connection reset")))

	_, err := newService(store, notifier).Place(context.Background(), validInput())
	assert.ErrorIs(t, err, repositories.ErrStore)
	notifier.AssertNotCalled(t, "SendAsync", mock.Anything, mock.Anything)
}

func TestPlace_HonoursClientTimestamp(t *testing.T) {
	store := repositories.NewMemoryOrderStore()
	notifier := &mockNotifier{}
	notifier.On("SendAsync", mock.Anything, mock.Anything)

	in := validInput()
	at := fixedNow.Add(-24 * time.Hour)
	in.CreatedAt = &at

	got, err := newService(store, notifier).Place(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, at, got.CreatedAt)
}

func TestPlace_NilNotifier(t *testing.T) {
	svc := newService(repositories.NewMemoryOrderStore(), nil)
	_, err := svc.Place(context.Background(), validInput())
	assert.NoError(t, err)
}

func TestList(t *testing.T) {
	store := &mockStore{}
	store.On("All", mock.Anything).Return(nil, nil).Once()

	orders, err := newService(store, nil).List(context.Background())
	require.NoError(t, err)
	assert.NotNil(t, orders)
	assert.Empty(t, orders)

	store.On("All", mock.Anything).Return(nil, repositories.ErrStore).Once()
	_, err = newService(store, nil).List(context.Background())
	assert.ErrorIs(t, err, repositories.ErrStore)
}
