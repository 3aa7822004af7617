package service

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/checkout"
	"campus-preorder/internal/client"
	"campus-preorder/internal/clock"
	"campus-preorder/internal/config"
	"campus-preorder/internal/logger"
	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

const studentID = "student-1"

type orderFixture struct {
	log      *callLog
	orders   *fakeOrderRepo
	payments *fakePaymentRepo
	orphans  *fakeOrphanRepo
	carts    *recordingStore
	gateway  *fakeGateway
	svc      OrderService
}

func newOrderFixture(t *testing.T, now time.Time) *orderFixture {
	t.Helper()
	log := &callLog{}
	f := &orderFixture{
		log:      log,
		orders:   &fakeOrderRepo{log: log},
		payments: &fakePaymentRepo{log: log},
		orphans:  &fakeOrphanRepo{log: log},
		carts:    &recordingStore{MemoryStore: cart.NewMemoryStore(), log: log},
		gateway:  &fakeGateway{log: log},
	}
	f.svc = NewOrderService(f.orders, f.payments, f.orphans, f.carts, f.gateway, clock.Fixed{At: now}, logger.Discard())
	return f
}

// draft puts a two-line cart in the store and returns a draft for the
// 13:00 slot at a third floor location.
func (f *orderFixture) draft(t *testing.T) checkout.Draft {
	t.Helper()
	c, err := cart.Cart{}.Add("vendor-1", cart.Line{MenuItemID: "m-1", Name: "Nasi Goreng", UnitPrice: 15000, Quantity: 2})
	require.NoError(t, err)
	c, err = c.Add("vendor-1", cart.Line{MenuItemID: "m-2", Name: "Es Teh", UnitPrice: 5000, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, f.carts.MemoryStore.Put(context.Background(), studentID, c))

	return checkout.Draft{
		Cart:          c,
		Location:      &model.PickupLocation{ID: "loc-lab", Name: "Computer Lab", Floor: 3},
		Slot:          &model.TimeSlot{ID: "slot-1300", TimeRangeLabel: "13:00-15:00"},
		Day:           checkout.Today,
		PaymentMethod: model.PaymentAtPickup,
	}
}

func (f *orderFixture) cartEmpty(t *testing.T) bool {
	t.Helper()
	c, err := f.carts.MemoryStore.Get(context.Background(), studentID)
	require.NoError(t, err)
	return c.IsEmpty()
}

func TestPlaceOrder_MissingSlotMakesNoCalls(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	d := f.draft(t)
	d.Slot = nil

	_, err := f.svc.PlaceOrder(context.Background(), studentID, d)
	require.ErrorIs(t, err, checkout.ErrMissingSelection)
	assert.Empty(t, f.log.list())
	assert.False(t, f.cartEmpty(t))
}

func TestPlaceOrder_PreconditionsMakeNoCalls(t *testing.T) {
	tests := map[string]struct {
		now    time.Time
		mutate func(d *checkout.Draft)
		want   error
	}{
		"empty cart": {
			now:    wednesdayMorning,
			mutate: func(d *checkout.Draft) { d.Cart = cart.Cart{} },
			want:   checkout.ErrEmptyCart,
		},
		"sunday": {
			now:    time.Date(2026, 10, 17, 9, 0, 0, 0, wib),
			mutate: func(d *checkout.Draft) { d.Day = checkout.Tomorrow },
			want:   checkout.ErrUnavailableDay,
		},
		"bad slot label": {
			now:    wednesdayMorning,
			mutate: func(d *checkout.Draft) { d.Slot.TimeRangeLabel = "noon" },
			want:   checkout.ErrInvalidTime,
		},
		"too soon": {
			now:  time.Date(2026, 10, 14, 11, 30, 0, 0, wib),
			want: checkout.ErrTooSoon,
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			f := newOrderFixture(t, tt.now)
			d := f.draft(t)
			if tt.mutate != nil {
				tt.mutate(&d)
			}

			_, err := f.svc.PlaceOrder(context.Background(), studentID, d)
			require.ErrorIs(t, err, tt.want)
			assert.Empty(t, f.log.list())
		})
	}
}

func TestPlaceOrder_InsertsInOrderThenClearsCart(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)

	var gotItems []model.OrderItem
	f.orders.CreateItemsFn = func(_ context.Context, items []model.OrderItem) error {
		gotItems = items
		return nil
	}

	order, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.NoError(t, err)

	assert.Equal(t, []string{"orders.insert", "order_items.insert", "payments.insert", "cart.clear"}, f.log.list())
	assert.True(t, f.cartEmpty(t))

	require.Len(t, gotItems, 2)
	assert.Equal(t, int64(30000), gotItems[0].TotalPrice)
	assert.Equal(t, order.ID, gotItems[0].OrderID)

	require.NotNil(t, order.Payment)
	assert.Equal(t, model.PaymentPending, order.Payment.Status)
	assert.Equal(t, model.PaymentAtPickup, order.Payment.Method)
	assert.Equal(t, order.Total, order.Payment.Amount)
	assert.Empty(t, f.gateway.charged)
}

func TestPlaceOrder_InstantPayCompletesPayment(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	d := f.draft(t)
	d.PaymentMethod = model.PaymentInstant
	d.PaymentNonce = "fake-valid-nonce"

	order, err := f.svc.PlaceOrder(context.Background(), studentID, d)
	require.NoError(t, err)

	assert.Equal(t, []string{"orders.insert", "order_items.insert", "gateway.charge", "payments.insert", "cart.clear"}, f.log.list())
	assert.Equal(t, model.PaymentCompleted, order.Payment.Status)
	assert.Equal(t, "txn-1", order.Payment.TransactionID)
	require.Len(t, f.gateway.charged, 1)
	assert.Equal(t, client.ChargeRequest{OrderNumber: order.OrderNumber, Amount: 37900, Nonce: "fake-valid-nonce"}, f.gateway.charged[0])
}

func TestPlaceOrder_DeclinedChargeLeavesPaymentPending(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	f.gateway.ChargeFn = func(context.Context, client.ChargeRequest) (string, error) {
		return "", errors.New("declined")
	}
	d := f.draft(t)
	d.PaymentMethod = model.PaymentInstant

	order, err := f.svc.PlaceOrder(context.Background(), studentID, d)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, order.Payment.Status)
	assert.Empty(t, order.Payment.TransactionID)
}

func TestPlaceOrder_ItemsFailureDeletesOrderOnce(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	insertErr := errors.New("order_items: permission denied")
	f.orders.CreateItemsFn = func(context.Context, []model.OrderItem) error { return insertErr }

	var createdID string
	f.orders.CreateFn = func(_ context.Context, order *model.Order) error {
		createdID = order.ID
		return nil
	}

	order, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.Error(t, err)
	assert.Nil(t, order)

	assert.ErrorIs(t, err, checkout.ErrItemsFailed)
	assert.ErrorIs(t, err, insertErr)
	assert.NotErrorIs(t, err, checkout.ErrCompensationFailed)

	assert.Equal(t, []string{createdID}, f.orders.deleted)
	assert.Equal(t, []string{"orders.insert", "order_items.insert", "orders.delete"}, f.log.list())
	assert.Empty(t, f.orphans.recorded)
	assert.False(t, f.cartEmpty(t), "cart survives a failed placement")
}

func TestPlaceOrder_FailedRollbackIsSurfacedAndQueued(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	f.orders.CreateItemsFn = func(context.Context, []model.OrderItem) error { return errors.New("timeout") }
	f.orders.DeleteFn = func(context.Context, string) error { return errors.New("connection lost") }

	_, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.Error(t, err)
	assert.ErrorIs(t, err, checkout.ErrItemsFailed)
	assert.ErrorIs(t, err, checkout.ErrCompensationFailed)
	assert.Equal(t, "compensation_failed", checkout.Code(err))

	require.Len(t, f.orphans.recorded, 1)
	assert.Equal(t, f.orders.deleted[0], f.orphans.recorded[0])
}

func TestPlaceOrder_CreateFailure(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	f.orders.CreateFn = func(context.Context, *model.Order) error { return errors.New("duplicate key") }

	_, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.ErrorIs(t, err, checkout.ErrCreateFailed)
	assert.Equal(t, []string{"orders.insert"}, f.log.list())
	assert.Empty(t, f.orders.deleted)
}

func TestPlaceOrder_RetriesTakenOrderNumber(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	var numbers []string
	f.orders.CreateFn = func(_ context.Context, order *model.Order) error {
		numbers = append(numbers, order.OrderNumber)
		if len(numbers) == 1 {
			return gorm.ErrDuplicatedKey
		}
		return nil
	}

	order, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.NoError(t, err)

	require.Len(t, numbers, 2)
	assert.Equal(t, "BG-"+strconv.FormatInt(wednesdayMorning.UnixMilli(), 10), numbers[0])
	assert.Equal(t, "BG-"+strconv.FormatInt(wednesdayMorning.UnixMilli()+1, 10), numbers[1], "a frozen clock steps one millisecond")
	assert.Equal(t, numbers[1], order.OrderNumber)
	assert.Equal(t, []string{"orders.insert", "orders.insert", "order_items.insert", "payments.insert", "cart.clear"}, f.log.list())
}

func TestPlaceOrder_TakenOrderNumberTwiceFails(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	f.orders.CreateFn = func(context.Context, *model.Order) error { return gorm.ErrDuplicatedKey }

	_, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.ErrorIs(t, err, checkout.ErrCreateFailed)
	assert.Equal(t, []string{"orders.insert", "orders.insert"}, f.log.list())
	assert.Empty(t, f.orders.deleted)
	assert.False(t, f.cartEmpty(t))
}

func TestPlaceOrder_PaymentFailureIsTolerated(t *testing.T) {
	f := newOrderFixture(t, wednesdayMorning)
	f.payments.CreateFn = func(context.Context, *model.Payment) error { return errors.New("payments: insert failed") }

	order, err := f.svc.PlaceOrder(context.Background(), studentID, f.draft(t))
	require.NoError(t, err)
	assert.Nil(t, order.Payment)
	assert.Empty(t, f.orders.deleted)
	assert.Equal(t, []string{"orders.insert", "order_items.insert", "payments.insert", "cart.clear"}, f.log.list())
	assert.True(t, f.cartEmpty(t))
}

func TestPlaceOrder_EndToEnd(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	carts := cart.NewMemoryStore()
	orderRepo := repository.NewOrderRepository(db)
	paymentRepo := repository.NewPaymentRepository(db)

	svc := NewOrderService(
		orderRepo,
		paymentRepo,
		repository.NewOrphanRepository(db),
		carts,
		client.NewPaymentGateway(config.Braintree{}, logger.Discard()),
		clock.Fixed{At: wednesdayMorning},
		logger.Discard(),
	)

	c, err := cart.Cart{}.Add("vendor-1", cart.Line{MenuItemID: "m-1", Name: "Soto Ayam", UnitPrice: 18000, Quantity: 1})
	require.NoError(t, err)
	require.NoError(t, carts.Put(ctx, studentID, c))

	order, err := svc.PlaceOrder(ctx, studentID, checkout.Draft{
		Cart:     c,
		Location: &model.PickupLocation{ID: "loc-lab", Floor: 3},
		Slot:     &model.TimeSlot{ID: "slot-1500", TimeRangeLabel: "15:00-17:00"},
		Day:      checkout.Today,
		Notes:    "no chili",
	})
	require.NoError(t, err)

	assert.Equal(t, int64(2900), order.ServiceFee)
	assert.Equal(t, int64(18000+2900), order.Total)
	assert.Equal(t, model.StatusScheduled, order.Status)
	assert.Equal(t, "BG-"+strconv.FormatInt(wednesdayMorning.UnixMilli(), 10), order.OrderNumber)
	assert.True(t, strings.HasPrefix(order.OrderNumber, "BG-"))
	assert.True(t, order.PickupAt.Equal(time.Date(2026, 10, 14, 15, 0, 0, 0, wib)))

	stored, err := orderRepo.FindByID(ctx, order.ID)
	require.NoError(t, err)
	assert.Len(t, stored.Items, 1)
	assert.Equal(t, "no chili", stored.SpecialInstructions)

	payment, err := paymentRepo.FindByOrderID(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentPending, payment.Status)

	left, err := carts.Get(ctx, studentID)
	require.NoError(t, err)
	assert.True(t, left.IsEmpty())
}

func TestOrderService_GetAndCancel(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	orderRepo := repository.NewOrderRepository(db)
	svc := NewOrderService(orderRepo, repository.NewPaymentRepository(db), repository.NewOrphanRepository(db),
		cart.NewMemoryStore(), nil, clock.Fixed{At: wednesdayMorning}, logger.Discard())

	mine := &model.Order{ID: "o-1", OrderNumber: "BG-1", StudentID: studentID, VendorID: "v-1", Status: model.StatusScheduled, PickupAt: wednesdayMorning}
	confirmed := &model.Order{ID: "o-2", OrderNumber: "BG-2", StudentID: studentID, VendorID: "v-1", Status: model.StatusConfirmed, PickupAt: wednesdayMorning}
	theirs := &model.Order{ID: "o-3", OrderNumber: "BG-3", StudentID: "student-2", VendorID: "v-1", Status: model.StatusScheduled, PickupAt: wednesdayMorning}
	for _, o := range []*model.Order{mine, confirmed, theirs} {
		require.NoError(t, orderRepo.Create(ctx, o))
	}

	_, err := svc.GetMine(ctx, studentID, "o-3")
	assert.ErrorIs(t, err, ErrNotFound)

	got, err := svc.GetMine(ctx, studentID, "o-1")
	require.NoError(t, err)
	assert.Nil(t, got.Payment)

	list, err := svc.ListMine(ctx, studentID)
	require.NoError(t, err)
	assert.Len(t, list, 2)

	cancelled, err := svc.Cancel(ctx, studentID, "o-1")
	require.NoError(t, err)
	assert.Equal(t, model.StatusCancelled, cancelled.Status)

	_, err = svc.Cancel(ctx, studentID, "o-2")
	assert.ErrorIs(t, err, ErrInvalidTransition)

	_, err = svc.Cancel(ctx, studentID, "o-1")
	assert.ErrorIs(t, err, ErrInvalidTransition)
}
