package orders

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/lojaonline/backend/pkg/enums"
)

// LineDetail is one snapshot line inside an order response.
type LineDetail struct {
	ProductID   uuid.UUID       `json:"product_id"`
	SellerID    uuid.UUID       `json:"seller_id"`
	ProductName string          `json:"product_name"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	Subtotal    decimal.Decimal `json:"subtotal"`
}

// Detail is the full order view returned by the detail endpoint.
type Detail struct {
	OrderID     uuid.UUID         `json:"order_id"`
	BuyerID     uuid.UUID         `json:"buyer_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	Lines       []LineDetail      `json:"lines"`
	PlacedAt    time.Time         `json:"placed_at"`
}

// Summary is the compact row returned in the history list.
type Summary struct {
	OrderID     uuid.UUID         `json:"order_id"`
	Status      enums.OrderStatus `json:"status"`
	TotalAmount decimal.Decimal   `json:"total_amount"`
	LineCount   int               `json:"line_count"`
	PlacedAt    time.Time         `json:"placed_at"`
}

// HistoryList wraps the paginated history plus the next page cursor.
type HistoryList struct {
	Orders     []Summary `json:"orders"`
	NextCursor string    `json:"next_cursor,omitempty"`
}
