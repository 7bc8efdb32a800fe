package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"
	"github.com/shopspring/decimal"

	"github.com/lojaonline/backend/pkg/enums"
)

// Product represents a seller listing. StockQuantity is the authoritative
// on-hand count and is only ever decremented behind a conditional update,
// so it can never cross below zero.
type Product struct {
	ID            uuid.UUID           `gorm:"column:id;type:uuid;primaryKey"`
	SellerID      uuid.UUID           `gorm:"column:seller_id;type:uuid;not null;index"`
	Name          string              `gorm:"column:name;not null"`
	Description   *string             `gorm:"column:description"`
	Price         decimal.Decimal     `gorm:"column:price;type:numeric(12,2);not null"`
	DiscountType  *enums.DiscountType `gorm:"column:discount_type;type:discount_type"`
	DiscountValue *decimal.Decimal    `gorm:"column:discount_value;type:numeric(12,2)"`
	StockQuantity int                 `gorm:"column:stock_quantity;not null;default:0"`
	IsPublished   bool                `gorm:"column:is_published;not null;default:true"`
	ImageURLs     pq.StringArray      `gorm:"column:image_urls;type:text[]"`
	Seller        *Seller             `gorm:"foreignKey:SellerID"`
	CreatedAt     time.Time           `gorm:"column:created_at;autoCreateTime"`
	UpdatedAt     time.Time           `gorm:"column:updated_at;autoUpdateTime"`
}
