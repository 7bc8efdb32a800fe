package cart

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lojaonline/backend/pkg/enums"
)

// LineView is one cart line joined with its product snapshot and the
// discount-adjusted unit price in effect right now.
type LineView struct {
	LineID        uuid.UUID           `json:"line_id"`
	ProductID     uuid.UUID           `json:"product_id"`
	ProductName   string              `json:"product_name"`
	BasePrice     decimal.Decimal     `json:"base_price"`
	DiscountType  *enums.DiscountType `json:"discount_type,omitempty"`
	DiscountValue *decimal.Decimal    `json:"discount_value,omitempty"`
	UnitPrice     decimal.Decimal     `json:"unit_price"`
	Quantity      int                 `json:"quantity"`
	LineSubtotal  decimal.Decimal     `json:"line_subtotal"`
	IsPublished   bool                `json:"is_published"`
	StockQuantity int                 `json:"stock_quantity"`
	ImageURLs     []string            `json:"image_urls,omitempty"`
	AddedAt       time.Time           `json:"added_at"`
}

// View is the buyer-facing cart projection. A buyer without a cart gets an
// empty view rather than an error.
type View struct {
	CartID   *uuid.UUID      `json:"cart_id,omitempty"`
	BuyerID  uuid.UUID       `json:"buyer_id"`
	Items    []LineView      `json:"items"`
	Subtotal decimal.Decimal `json:"subtotal"`
}

// AddLineInput carries the add-to-cart request.
type AddLineInput struct {
	BuyerID   uuid.UUID
	ProductID uuid.UUID
	Quantity  int
}

// UpdateLineInput carries the quantity change request.
type UpdateLineInput struct {
	BuyerID  uuid.UUID
	LineID   uuid.UUID
	Quantity int
}
