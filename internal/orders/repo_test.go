package orders

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/pkg/db/models"
	"github.com/lojaonline/backend/pkg/enums"
	"github.com/lojaonline/backend/pkg/pagination"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := "file:orders_" + uuid.NewString() + "?mode=memory&cache=shared"
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	if err != nil {
		t.Fatalf("open db: %v", err)
	}
	if err := db.AutoMigrate(&models.Seller{}, &models.Product{}, &models.Order{}, &models.OrderItem{}); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

func seedOrder(t *testing.T, db *gorm.DB, buyerID uuid.UUID, total string, placedAt time.Time) uuid.UUID {
	t.Helper()
	order := models.Order{
		ID:          uuid.New(),
		BuyerID:     buyerID,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.RequireFromString(total),
		CreatedAt:   placedAt,
	}
	if err := db.Omit("Items").Create(&order).Error; err != nil {
		t.Fatalf("seed order: %v", err)
	}
	return order.ID
}

func TestCreateOrderWithItems(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyerID := uuid.New()
	sellerID := uuid.New()
	productID := uuid.New()

	order, err := repo.CreateOrder(ctx, &models.Order{
		BuyerID:     buyerID,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("45.00"),
	})
	if err != nil {
		t.Fatalf("create order: %v", err)
	}

	items := []models.OrderItem{
		{OrderID: order.ID, ProductID: productID, SellerID: sellerID, ProductName: "a", Quantity: 2, UnitPrice: decimal.RequireFromString("10.00")},
		{OrderID: order.ID, ProductID: uuid.New(), SellerID: sellerID, ProductName: "b", Quantity: 1, UnitPrice: decimal.RequireFromString("25.00")},
	}
	if err := repo.CreateOrderItems(ctx, items); err != nil {
		t.Fatalf("create order items: %v", err)
	}

	got, err := repo.FindByIDForBuyer(ctx, order.ID, buyerID)
	if err != nil {
		t.Fatalf("find order: %v", err)
	}
	if len(got.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(got.Items))
	}
	if !got.TotalAmount.Equal(decimal.RequireFromString("45.00")) {
		t.Fatalf("expected total 45.00, got %s", got.TotalAmount)
	}
	if got.Status != enums.OrderStatusPending {
		t.Fatalf("expected pending status, got %s", got.Status)
	}
}

func TestFindByIDForBuyerScopesByBuyer(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyerID := uuid.New()
	orderID := seedOrder(t, db, buyerID, "10.00", time.Now())

	if _, err := repo.FindByIDForBuyer(ctx, orderID, uuid.New()); err != gorm.ErrRecordNotFound {
		t.Fatalf("expected record not found for foreign buyer, got %v", err)
	}
	if _, err := repo.FindByIDForBuyer(ctx, orderID, buyerID); err != nil {
		t.Fatalf("owner lookup failed: %v", err)
	}
}

func TestListByBuyerPaginatesNewestFirst(t *testing.T) {
	t.Parallel()

	db := newTestDB(t)
	repo := NewRepository(db)
	ctx := context.Background()
	buyerID := uuid.New()

	base := time.Now().Add(-time.Hour).Truncate(time.Millisecond)
	var seeded []uuid.UUID
	for i := 0; i < 5; i++ {
		seeded = append(seeded, seedOrder(t, db, buyerID, "10.00", base.Add(time.Duration(i)*time.Minute)))
	}
	// Noise from another buyer must never leak in.
	seedOrder(t, db, uuid.New(), "99.00", base.Add(time.Hour))

	page1, err := repo.ListByBuyer(ctx, buyerID, pagination.Params{Limit: 2})
	if err != nil {
		t.Fatalf("list page 1: %v", err)
	}
	if len(page1.Orders) != 2 {
		t.Fatalf("expected 2 orders, got %d", len(page1.Orders))
	}
	if page1.NextCursor == "" {
		t.Fatalf("expected next cursor")
	}
	if page1.Orders[0].OrderID != seeded[4] || page1.Orders[1].OrderID != seeded[3] {
		t.Fatalf("expected newest orders first")
	}

	page2, err := repo.ListByBuyer(ctx, buyerID, pagination.Params{Limit: 2, Cursor: page1.NextCursor})
	if err != nil {
		t.Fatalf("list page 2: %v", err)
	}
	if len(page2.Orders) != 2 {
		t.Fatalf("expected 2 orders on page 2, got %d", len(page2.Orders))
	}
	if page2.Orders[0].OrderID != seeded[2] || page2.Orders[1].OrderID != seeded[1] {
		t.Fatalf("unexpected page 2 contents")
	}

	page3, err := repo.ListByBuyer(ctx, buyerID, pagination.Params{Limit: 2, Cursor: page2.NextCursor})
	if err != nil {
		t.Fatalf("list page 3: %v", err)
	}
	if len(page3.Orders) != 1 || page3.Orders[0].OrderID != seeded[0] {
		t.Fatalf("unexpected final page contents")
	}
	if page3.NextCursor != "" {
		t.Fatalf("expected no cursor on final page")
	}
}
