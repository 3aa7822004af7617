package client

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/braintree-go/braintree-go"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"campus-preorder/internal/config"
)

// ChargeRequest is one instant-pay charge. Amount is in minor currency units.
type ChargeRequest struct {
	OrderNumber string
	Amount      int64
	Nonce       string
}

type PaymentGateway interface {
	// Charge captures the amount immediately and returns the gateway
	// transaction id.
	Charge(ctx context.Context, req ChargeRequest) (string, error)
}

type braintreeGateway struct {
	gateway  *braintree.Braintree
	decimals int32
	log      *slog.Logger
}

// NewPaymentGateway returns a Braintree gateway when a merchant is configured
// and the demo gateway otherwise.
func NewPaymentGateway(cfg config.Braintree, log *slog.Logger) PaymentGateway {
	if !cfg.Enabled() {
		return &demoGateway{log: log}
	}

	env := braintree.Sandbox
	if cfg.Environment == "production" {
		env = braintree.Production
	}

	return &braintreeGateway{
		gateway:  braintree.New(env, cfg.MerchantID, cfg.PublicKey, cfg.PrivateKey),
		decimals: cfg.CurrencyDecimals,
		log:      log,
	}
}

// toBraintreeAmount converts minor units into braintree's (unscaled, scale)
// decimal. With 2 decimals 32900 becomes 329.00.
func toBraintreeAmount(amount int64, decimals int32) (*braintree.Decimal, decimal.Decimal) {
	major := decimal.New(amount, -decimals)
	return braintree.NewDecimal(major.Shift(decimals).IntPart(), int(decimals)), major
}

func (g *braintreeGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	if req.Nonce == "" {
		return "", fmt.Errorf("instant pay requires a payment nonce")
	}

	btAmount, major := toBraintreeAmount(req.Amount, g.decimals)

	tx, err := g.gateway.Transaction().Create(ctx, &braintree.TransactionRequest{
		Type:               "sale",
		Amount:             btAmount,
		OrderId:            req.OrderNumber,
		PaymentMethodNonce: req.Nonce,
		Options: &braintree.TransactionOptions{
			SubmitForSettlement: true,
		},
	})
	if err != nil {
		return "", fmt.Errorf("transaction creation failed: %w", err)
	}

	if tx.Status == braintree.TransactionStatusProcessorDeclined {
		return "", fmt.Errorf("transaction declined by processor: %s", tx.ProcessorResponseText)
	}

	g.log.InfoContext(ctx, "payment captured",
		slog.String("action", "payment_charge"),
		slog.String("order_number", req.OrderNumber),
		slog.String("amount", major.StringFixed(g.decimals)),
		slog.String("transaction_id", tx.Id),
	)
	return tx.Id, nil
}

// demoGateway approves every charge without contacting anyone.
type demoGateway struct {
	log *slog.Logger
}

func (g *demoGateway) Charge(ctx context.Context, req ChargeRequest) (string, error) {
	id := "demo-" + uuid.NewString()
	g.log.DebugContext(ctx, "demo payment approved",
		slog.String("action", "payment_charge"),
		slog.String("order_number", req.OrderNumber),
		slog.Int64("amount", req.Amount),
	)
	return id, nil
}
