package payloads

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// OrderCreatedLine snapshots one line of a new order.
type OrderCreatedLine struct {
	ProductID uuid.UUID       `json:"product_id"`
	SellerID  uuid.UUID       `json:"seller_id"`
	Quantity  int             `json:"quantity"`
	UnitPrice decimal.Decimal `json:"unit_price"`
}

// OrderCreatedEvent signals a completed checkout. Downstream consumers use
// it to notify sellers without the checkout path waiting on delivery.
type OrderCreatedEvent struct {
	OrderID     uuid.UUID          `json:"order_id"`
	BuyerID     uuid.UUID          `json:"buyer_id"`
	TotalAmount decimal.Decimal    `json:"total_amount"`
	Lines       []OrderCreatedLine `json:"lines"`
	PlacedAt    time.Time          `json:"placed_at"`
}

// CartConvertedEvent is emitted when a checkout clears the buyer's cart.
type CartConvertedEvent struct {
	CartID  uuid.UUID `json:"cart_id"`
	BuyerID uuid.UUID `json:"buyer_id"`
	OrderID uuid.UUID `json:"order_id"`
}

// SellerDeactivatedEvent reports a seller shutdown and its side effects.
type SellerDeactivatedEvent struct {
	SellerID           uuid.UUID `json:"seller_id"`
	UnpublishedCount   int       `json:"unpublished_count"`
	DeactivatedAt      time.Time `json:"deactivated_at"`
	TriggeredByBuyerID uuid.UUID `json:"triggered_by,omitempty"`
}
