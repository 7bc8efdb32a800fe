// Package checkout turns a priced selection into a pending order. The whole
// conversion is one database transaction: stock decrements, the order row,
// its lines and the cart cleanup commit together or not at all.
package checkout

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/internal/cart"
	"github.com/lojaonline/backend/internal/inventory"
	"github.com/lojaonline/backend/internal/orders"
	"github.com/lojaonline/backend/internal/pricing"
	"github.com/lojaonline/backend/internal/products"
	"github.com/lojaonline/backend/pkg/config"
	dbpkg "github.com/lojaonline/backend/pkg/db"
	"github.com/lojaonline/backend/pkg/db/models"
	"github.com/lojaonline/backend/pkg/enums"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/logger"
	"github.com/lojaonline/backend/pkg/metrics"
	"github.com/lojaonline/backend/pkg/outbox"
	"github.com/lojaonline/backend/pkg/outbox/payloads"
)

type serializableTxRunner interface {
	WithSerializableTx(ctx context.Context, opts dbpkg.SerializableTxOptions, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// Service defines the checkout operations exposed to controllers.
type Service interface {
	CheckoutFromCart(ctx context.Context, buyerID uuid.UUID) (*orders.Detail, error)
	CheckoutDirect(ctx context.Context, buyerID, productID uuid.UUID, qty int) (*orders.Detail, error)
}

type service struct {
	tx       serializableTxRunner
	carts    cart.Repository
	products products.Repository
	orders   orders.Repository
	outbox   outboxPublisher
	metrics  *metrics.CheckoutMetrics
	logg     *logger.Logger
	cfg      config.CheckoutConfig
}

// NewService builds a checkout service with the required dependencies.
func NewService(
	tx serializableTxRunner,
	carts cart.Repository,
	productsRepo products.Repository,
	ordersRepo orders.Repository,
	outboxSvc outboxPublisher,
	checkoutMetrics *metrics.CheckoutMetrics,
	logg *logger.Logger,
	cfg config.CheckoutConfig,
) (Service, error) {
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if carts == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if ordersRepo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		tx:       tx,
		carts:    carts,
		products: productsRepo,
		orders:   ordersRepo,
		outbox:   outboxSvc,
		metrics:  checkoutMetrics,
		logg:     logg,
		cfg:      cfg,
	}, nil
}

// requestedLine is one (product, qty) pair in deterministic insertion order.
type requestedLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// CheckoutFromCart converts the buyer's whole cart into one pending order
// and clears the converted lines.
func (s *service) CheckoutFromCart(ctx context.Context, buyerID uuid.UUID) (*orders.Detail, error) {
	started := time.Now()

	var detail *orders.Detail
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		cartRecord, err := s.carts.WithTx(tx).FindByBuyer(ctx, buyerID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
		}
		if len(cartRecord.Items) == 0 {
			return pkgerrors.New(pkgerrors.CodeEmptyCart, "cart is empty")
		}

		lines := make([]requestedLine, 0, len(cartRecord.Items))
		for _, item := range cartRecord.Items {
			lines = append(lines, requestedLine{ProductID: item.ProductID, Quantity: item.Quantity})
		}

		order, err := s.placeOrder(ctx, tx, buyerID, lines)
		if err != nil {
			return err
		}

		if err := s.carts.WithTx(tx).DeleteLines(ctx, cartRecord.ID, nil); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "clearing cart")
		}

		converted := outbox.DomainEvent{
			EventType:     enums.EventCartConverted,
			AggregateType: enums.AggregateCart,
			AggregateID:   cartRecord.ID,
			Version:       1,
			Data: payloads.CartConvertedEvent{
				CartID:  cartRecord.ID,
				BuyerID: buyerID,
				OrderID: order.OrderID,
			},
		}
		if err := s.outbox.Emit(ctx, tx, converted); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing cart event")
		}

		detail = order
		return nil
	})
	s.observe("cart", started, err)
	if err != nil {
		return nil, err
	}
	s.logPlaced(ctx, detail, "cart")
	return detail, nil
}

// CheckoutDirect buys a single product without touching the buyer's cart.
func (s *service) CheckoutDirect(ctx context.Context, buyerID, productID uuid.UUID, qty int) (*orders.Detail, error) {
	started := time.Now()

	if qty < 1 {
		s.observe("direct", started, pkgerrors.New(pkgerrors.CodeValidation, ""))
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var detail *orders.Detail
	err := s.runTx(ctx, func(tx *gorm.DB) error {
		order, err := s.placeOrder(ctx, tx, buyerID, []requestedLine{{ProductID: productID, Quantity: qty}})
		if err != nil {
			return err
		}
		detail = order
		return nil
	})
	s.observe("direct", started, err)
	if err != nil {
		return nil, err
	}
	s.logPlaced(ctx, detail, "direct")
	return detail, nil
}

func (s *service) logPlaced(ctx context.Context, detail *orders.Detail, mode string) {
	if s.logg == nil || detail == nil {
		return
	}
	logCtx := s.logg.WithFields(ctx, map[string]any{
		"order_id":     detail.OrderID.String(),
		"buyer_id":     detail.BuyerID.String(),
		"total_amount": detail.TotalAmount.String(),
		"lines":        len(detail.Lines),
		"mode":         mode,
	})
	s.logg.Info(logCtx, "order placed")
}

// placeOrder prices, reserves and persists the requested lines inside tx.
// Line order is preserved end to end, so order items replay the request.
func (s *service) placeOrder(ctx context.Context, tx *gorm.DB, buyerID uuid.UUID, lines []requestedLine) (*orders.Detail, error) {
	productsRepo := s.products.WithTx(tx)
	ordersRepo := s.orders.WithTx(tx)

	total := decimal.Zero
	items := make([]models.OrderItem, 0, len(lines))
	eventLines := make([]payloads.OrderCreatedLine, 0, len(lines))

	for _, line := range lines {
		if line.Quantity < 1 {
			return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
		}

		product, err := productsRepo.FindPublishedByID(ctx, line.ProductID)
		if err != nil {
			if err == gorm.ErrRecordNotFound {
				return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
			}
			return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
		}

		unitPrice, err := pricing.FinalUnitPrice(product.Price, product.DiscountType, product.DiscountValue)
		if err != nil {
			return nil, err
		}

		if err := inventory.Reserve(ctx, tx, inventory.ReservationRequest{
			ProductID: product.ID,
			Quantity:  line.Quantity,
		}); err != nil {
			return nil, err
		}

		items = append(items, models.OrderItem{
			ProductID:   product.ID,
			SellerID:    product.SellerID,
			ProductName: product.Name,
			Quantity:    line.Quantity,
			UnitPrice:   unitPrice,
		})
		eventLines = append(eventLines, payloads.OrderCreatedLine{
			ProductID: product.ID,
			SellerID:  product.SellerID,
			Quantity:  line.Quantity,
			UnitPrice: unitPrice,
		})
		total = total.Add(pricing.LineSubtotal(unitPrice, line.Quantity))
	}

	order, err := ordersRepo.CreateOrder(ctx, &models.Order{
		BuyerID:     buyerID,
		Status:      enums.OrderStatusPending,
		TotalAmount: total.Round(2),
	})
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order")
	}
	for i := range items {
		items[i].OrderID = order.ID
	}
	if err := ordersRepo.CreateOrderItems(ctx, items); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "creating order items")
	}

	created := outbox.DomainEvent{
		EventType:     enums.EventOrderCreated,
		AggregateType: enums.AggregateOrder,
		AggregateID:   order.ID,
		Actor:         &outbox.ActorRef{BuyerID: buyerID, Role: "buyer"},
		Version:       1,
		Data: payloads.OrderCreatedEvent{
			OrderID:     order.ID,
			BuyerID:     buyerID,
			TotalAmount: order.TotalAmount,
			Lines:       eventLines,
			PlacedAt:    order.CreatedAt,
		},
	}
	if err := s.outbox.Emit(ctx, tx, created); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "queueing order event")
	}

	detail := &orders.Detail{
		OrderID:     order.ID,
		BuyerID:     buyerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Lines:       make([]orders.LineDetail, 0, len(items)),
		PlacedAt:    order.CreatedAt,
	}
	for _, item := range items {
		detail.Lines = append(detail.Lines, orders.LineDetail{
			ProductID:   item.ProductID,
			SellerID:    item.SellerID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return detail, nil
}

// runTx wraps the serializable transaction and maps exhausted serialization
// retries to the generic transaction failure the API surfaces.
func (s *service) runTx(ctx context.Context, fn func(tx *gorm.DB) error) error {
	opts := dbpkg.SerializableTxOptions{
		Timeout:    s.cfg.TxTimeout,
		MaxRetries: s.cfg.MaxRetries,
	}
	err := s.tx.WithSerializableTx(ctx, opts, fn)
	if err == nil {
		return nil
	}
	if dbpkg.IsSerializationFailure(err) {
		s.metrics.IncTxRetry()
		return pkgerrors.Wrap(pkgerrors.CodeTransaction, err, "checkout could not be completed, please retry")
	}
	return err
}

func (s *service) observe(mode string, started time.Time, err error) {
	s.metrics.ObserveDuration(mode, time.Since(started))
	if err == nil {
		s.metrics.IncCompleted()
		return
	}
	typed := pkgerrors.As(err)
	if typed == nil {
		s.metrics.IncRejected("internal")
		return
	}
	switch typed.Code() {
	case pkgerrors.CodeInsufficientStock:
		s.metrics.IncStockConflict()
		s.metrics.IncRejected("insufficient_stock")
	case pkgerrors.CodeEmptyCart:
		s.metrics.IncRejected("empty_cart")
	case pkgerrors.CodeValidation:
		s.metrics.IncRejected("validation")
	case pkgerrors.CodeNotFound:
		s.metrics.IncRejected("not_found")
	case pkgerrors.CodeTransaction:
		s.metrics.IncRejected("transaction")
	default:
		s.metrics.IncRejected("internal")
	}
}
