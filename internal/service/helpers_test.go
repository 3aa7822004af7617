package service

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/client"
	"campus-preorder/internal/model"
)

var wib = time.FixedZone("WIB", 7*60*60)

// wednesdayMorning is 2026-10-14 09:00 WIB.
var wednesdayMorning = time.Date(2026, 10, 14, 9, 0, 0, 0, wib)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{Logger: logger.Discard})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(model.Tables()...))

	sqlDB, err := db.DB()
	require.NoError(t, err)
	t.Cleanup(func() { _ = sqlDB.Close() })
	return db
}

// callLog records the order in which collaborators are hit.
type callLog struct {
	mu    sync.Mutex
	calls []string
}

func (l *callLog) add(call string) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.calls = append(l.calls, call)
}

func (l *callLog) list() []string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return append([]string(nil), l.calls...)
}

type fakeOrderRepo struct {
	log *callLog

	CreateFn      func(ctx context.Context, order *model.Order) error
	CreateItemsFn func(ctx context.Context, items []model.OrderItem) error
	DeleteFn      func(ctx context.Context, orderID string) error

	deleted []string
}

func (f *fakeOrderRepo) Create(ctx context.Context, order *model.Order) error {
	f.log.add("orders.insert")
	if f.CreateFn != nil {
		return f.CreateFn(ctx, order)
	}
	return nil
}

func (f *fakeOrderRepo) CreateItems(ctx context.Context, items []model.OrderItem) error {
	f.log.add("order_items.insert")
	if f.CreateItemsFn != nil {
		return f.CreateItemsFn(ctx, items)
	}
	return nil
}

func (f *fakeOrderRepo) Delete(ctx context.Context, orderID string) error {
	f.log.add("orders.delete")
	f.deleted = append(f.deleted, orderID)
	if f.DeleteFn != nil {
		return f.DeleteFn(ctx, orderID)
	}
	return nil
}

func (f *fakeOrderRepo) FindByID(context.Context, string) (*model.Order, error) {
	f.log.add("orders.select")
	return nil, gorm.ErrRecordNotFound
}

func (f *fakeOrderRepo) GetOrderItems(context.Context, string) ([]model.OrderItem, error) {
	f.log.add("order_items.select")
	return nil, nil
}

func (f *fakeOrderRepo) CountItems(context.Context, string) (int64, error) {
	f.log.add("order_items.count")
	return 0, nil
}

func (f *fakeOrderRepo) ListByStudent(context.Context, string) ([]model.Order, error) {
	f.log.add("orders.select")
	return nil, nil
}

func (f *fakeOrderRepo) ListByVendor(context.Context, string, model.OrderStatus) ([]model.Order, error) {
	f.log.add("orders.select")
	return nil, nil
}

func (f *fakeOrderRepo) UpdateStatus(context.Context, string, model.OrderStatus, model.OrderStatus) error {
	f.log.add("orders.update")
	return nil
}

type fakePaymentRepo struct {
	log      *callLog
	CreateFn func(ctx context.Context, payment *model.Payment) error
	created  []*model.Payment
}

func (f *fakePaymentRepo) Create(ctx context.Context, payment *model.Payment) error {
	f.log.add("payments.insert")
	if f.CreateFn != nil {
		if err := f.CreateFn(ctx, payment); err != nil {
			return err
		}
	}
	f.created = append(f.created, payment)
	return nil
}

func (f *fakePaymentRepo) FindByOrderID(context.Context, string) (*model.Payment, error) {
	f.log.add("payments.select")
	return nil, gorm.ErrRecordNotFound
}

func (f *fakePaymentRepo) Exists(context.Context, string) (bool, error) {
	f.log.add("payments.count")
	return false, nil
}

type fakeOrphanRepo struct {
	log      *callLog
	recorded []string
}

func (f *fakeOrphanRepo) Record(_ context.Context, orderID, _ string) error {
	f.log.add("orphan_orders.insert")
	f.recorded = append(f.recorded, orderID)
	return nil
}

func (f *fakeOrphanRepo) ListUnresolved(context.Context, int) ([]model.OrphanOrder, error) {
	return nil, nil
}

func (f *fakeOrphanRepo) MarkResolved(context.Context, string) error {
	return nil
}

func (f *fakeOrphanRepo) RecordAttempt(context.Context, string, error) error {
	return nil
}

// recordingStore wraps the in-memory cart store and logs every call.
type recordingStore struct {
	*cart.MemoryStore
	log *callLog
}

func (s *recordingStore) Get(ctx context.Context, studentID string) (cart.Cart, error) {
	s.log.add("cart.get")
	return s.MemoryStore.Get(ctx, studentID)
}

func (s *recordingStore) Put(ctx context.Context, studentID string, c cart.Cart) error {
	s.log.add("cart.put")
	return s.MemoryStore.Put(ctx, studentID, c)
}

func (s *recordingStore) Delete(ctx context.Context, studentID string) error {
	s.log.add("cart.clear")
	return s.MemoryStore.Delete(ctx, studentID)
}

type fakeGateway struct {
	log      *callLog
	ChargeFn func(ctx context.Context, req client.ChargeRequest) (string, error)
	charged  []client.ChargeRequest
}

func (g *fakeGateway) Charge(ctx context.Context, req client.ChargeRequest) (string, error) {
	g.log.add("gateway.charge")
	g.charged = append(g.charged, req)
	if g.ChargeFn != nil {
		return g.ChargeFn(ctx, req)
	}
	return "txn-1", nil
}
