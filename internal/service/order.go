package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"campus-preorder/internal/cart"
	"campus-preorder/internal/checkout"
	"campus-preorder/internal/client"
	"campus-preorder/internal/clock"
	"campus-preorder/internal/model"
	"campus-preorder/internal/repository"
)

const (
	stepCreateOrder   = "create_order"
	stepCreateItems   = "create_order_items"
	stepCreatePayment = "create_payment"
)

type OrderService interface {
	// PlaceOrder validates draft against a fresh clock read and writes the
	// order, its items and its payment as three separate inserts.
	PlaceOrder(ctx context.Context, studentID string, draft checkout.Draft) (*model.Order, error)
	ListMine(ctx context.Context, studentID string) ([]model.Order, error)
	GetMine(ctx context.Context, studentID, orderID string) (*model.Order, error)
	Cancel(ctx context.Context, studentID, orderID string) (*model.Order, error)
}

type orderServiceImpl struct {
	orderRepo   repository.OrderRepository
	paymentRepo repository.PaymentRepository
	orphanRepo  repository.OrphanRepository
	carts       cart.Store
	gateway     client.PaymentGateway
	clock       clock.Clock
	log         *slog.Logger
}

func NewOrderService(
	orderRepo repository.OrderRepository,
	paymentRepo repository.PaymentRepository,
	orphanRepo repository.OrphanRepository,
	carts cart.Store,
	gateway client.PaymentGateway,
	clk clock.Clock,
	log *slog.Logger,
) OrderService {
	return &orderServiceImpl{
		orderRepo:   orderRepo,
		paymentRepo: paymentRepo,
		orphanRepo:  orphanRepo,
		carts:       carts,
		gateway:     gateway,
		clock:       clk,
		log:         log,
	}
}

func (s *orderServiceImpl) PlaceOrder(ctx context.Context, studentID string, draft checkout.Draft) (*model.Order, error) {
	now := s.clock.Now()
	pickupAt, err := checkout.Validate(draft, now)
	if err != nil {
		return nil, err
	}

	quote := checkout.NewQuote(draft.Cart, draft.Location)
	order := &model.Order{
		ID:                  uuid.NewString(),
		OrderNumber:         orderNumber(now),
		StudentID:           studentID,
		VendorID:            draft.Cart.VendorID,
		Status:              model.StatusScheduled,
		Subtotal:            quote.Subtotal,
		ServiceFee:          quote.ServiceFee,
		Total:               quote.Total,
		PickupLocationID:    draft.Location.ID,
		TimeSlotID:          draft.Slot.ID,
		PickupAt:            pickupAt,
		SpecialInstructions: draft.Notes,
	}

	items := make([]model.OrderItem, 0, len(draft.Cart.Lines))
	for _, line := range draft.Cart.Lines {
		items = append(items, model.OrderItem{
			ID:         uuid.NewString(),
			OrderID:    order.ID,
			MenuItemID: line.MenuItemID,
			Name:       line.Name,
			Quantity:   line.Quantity,
			UnitPrice:  line.UnitPrice,
			TotalPrice: line.Total(),
		})
	}

	method := draft.PaymentMethod
	if method == "" {
		method = model.PaymentAtPickup
	}

	var payment *model.Payment
	saga := checkout.NewSaga(s.log,
		checkout.Step{
			Name: stepCreateOrder,
			Action: func(ctx context.Context) error {
				err := s.orderRepo.Create(ctx, order)
				if !errors.Is(err, gorm.ErrDuplicatedKey) {
					return err
				}
				taken := order.OrderNumber
				order.OrderNumber = s.nextOrderNumber(taken)
				s.log.WarnContext(ctx, "order number taken, retrying",
					slog.String("action", "place_order"),
					slog.String("order_number", taken),
					slog.String("retry_number", order.OrderNumber),
				)
				return s.orderRepo.Create(ctx, order)
			},
			Compensate: func(ctx context.Context) error {
				return s.orderRepo.Delete(ctx, order.ID)
			},
		},
		checkout.Step{
			Name: stepCreateItems,
			Action: func(ctx context.Context) error {
				return s.orderRepo.CreateItems(ctx, items)
			},
		},
		checkout.Step{
			Name:     stepCreatePayment,
			Optional: true,
			Action: func(ctx context.Context) error {
				p := s.buildPayment(ctx, order, method, draft.PaymentNonce)
				if err := s.paymentRepo.Create(ctx, p); err != nil {
					return err
				}
				payment = p
				return nil
			},
		},
	)

	if _, err := saga.Run(ctx); err != nil {
		return nil, s.placementError(ctx, order, err)
	}

	if err := s.carts.Delete(ctx, studentID); err != nil {
		s.log.WarnContext(ctx, "clear cart after order",
			slog.String("action", "place_order"),
			slog.String("order_id", order.ID),
			slog.Any("error", err),
		)
	}

	order.Items = items
	order.Payment = payment

	s.log.InfoContext(ctx, "order placed",
		slog.String("action", "place_order"),
		slog.String("order_id", order.ID),
		slog.String("order_number", order.OrderNumber),
		slog.Int64("total", order.Total),
		slog.Bool("payment_recorded", payment != nil),
	)
	return order, nil
}

func orderNumber(t time.Time) string {
	return fmt.Sprintf("BG-%d", t.UnixMilli())
}

// nextOrderNumber reads the clock again and steps one millisecond past taken
// when the clock has not moved.
func (s *orderServiceImpl) nextOrderNumber(taken string) string {
	now := s.clock.Now()
	if next := orderNumber(now); next != taken {
		return next
	}
	return orderNumber(now.Add(time.Millisecond))
}

// buildPayment charges instant pay through the gateway. A declined or failed
// charge is recorded as pending so the student can still pay at pickup.
func (s *orderServiceImpl) buildPayment(ctx context.Context, order *model.Order, method model.PaymentMethod, nonce string) *model.Payment {
	p := &model.Payment{
		ID:      uuid.NewString(),
		OrderID: order.ID,
		Method:  method,
		Status:  model.PaymentPending,
		Amount:  order.Total,
	}
	if method != model.PaymentInstant {
		return p
	}

	txID, err := s.gateway.Charge(ctx, client.ChargeRequest{
		OrderNumber: order.OrderNumber,
		Amount:      order.Total,
		Nonce:       nonce,
	})
	if err != nil {
		s.log.WarnContext(ctx, "instant payment failed, leaving payment pending",
			slog.String("action", "place_order"),
			slog.String("order_id", order.ID),
			slog.Any("error", err),
		)
		return p
	}

	p.Status = model.PaymentCompleted
	p.TransactionID = txID
	return p
}

func (s *orderServiceImpl) placementError(ctx context.Context, order *model.Order, err error) error {
	var stepErr *checkout.StepError
	if !errors.As(err, &stepErr) {
		return err
	}

	switch stepErr.Step {
	case stepCreateOrder:
		return &checkout.OrderError{Kind: checkout.ErrCreateFailed, Err: stepErr.Err}
	case stepCreateItems:
		if stepErr.CompensationErr == nil {
			return &checkout.OrderError{Kind: checkout.ErrItemsFailed, Err: stepErr.Err}
		}
		s.recordOrphan(ctx, order.ID, stepErr)
		return &checkout.OrderError{
			Kind: checkout.ErrItemsFailed,
			Err:  fmt.Errorf("%w: %w", checkout.ErrCompensationFailed, stepErr),
		}
	default:
		return err
	}
}

func (s *orderServiceImpl) recordOrphan(ctx context.Context, orderID string, cause error) {
	ctx = context.WithoutCancel(ctx)
	if err := s.orphanRepo.Record(ctx, orderID, cause.Error()); err != nil {
		s.log.ErrorContext(ctx, "record orphan order",
			slog.String("action", "place_order"),
			slog.String("order_id", orderID),
			slog.Any("error", err),
		)
		return
	}
	s.log.WarnContext(ctx, "order left without items, queued for reconciliation",
		slog.String("action", "place_order"),
		slog.String("order_id", orderID),
	)
}

func (s *orderServiceImpl) ListMine(ctx context.Context, studentID string) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByStudent(ctx, studentID)
	if err != nil {
		return nil, fmt.Errorf("list orders: %w", err)
	}
	return orders, nil
}

func (s *orderServiceImpl) GetMine(ctx context.Context, studentID, orderID string) (*model.Order, error) {
	order, err := s.orderRepo.FindByID(ctx, orderID)
	if err != nil {
		return nil, notFound(err, "order")
	}
	if order.StudentID != studentID {
		return nil, fmt.Errorf("order: %w", ErrNotFound)
	}

	payment, err := s.paymentRepo.FindByOrderID(ctx, orderID)
	switch {
	case err == nil:
		order.Payment = payment
	case !errors.Is(err, gorm.ErrRecordNotFound):
		return nil, fmt.Errorf("get payment: %w", err)
	}

	return order, nil
}

func (s *orderServiceImpl) Cancel(ctx context.Context, studentID, orderID string) (*model.Order, error) {
	order, err := s.GetMine(ctx, studentID, orderID)
	if err != nil {
		return nil, err
	}
	if !order.Status.StudentCancellable() {
		return nil, fmt.Errorf("cancel %s order: %w", order.Status, ErrInvalidTransition)
	}

	if err := s.orderRepo.UpdateStatus(ctx, order.ID, order.Status, model.StatusCancelled); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, fmt.Errorf("order changed meanwhile: %w", ErrInvalidTransition)
		}
		return nil, fmt.Errorf("cancel order: %w", err)
	}

	order.Status = model.StatusCancelled
	s.log.InfoContext(ctx, "order cancelled by student",
		slog.String("action", "cancel_order"),
		slog.String("order_id", order.ID),
	)
	return order, nil
}
