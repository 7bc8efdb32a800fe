// Package inventory guards the authoritative stock counts. Reservation is a
// single conditional decrement so concurrent checkouts can never drive
// stock_quantity below zero, whatever the isolation level.
package inventory

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/pkg/db/models"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
)

// ReservationRequest asks for qty units of one product.
type ReservationRequest struct {
	ProductID uuid.UUID
	Quantity  int
}

// Reserve decrements stock for one product inside the caller's transaction.
// The WHERE clause carries the stock check, so the decrement either applies
// fully or not at all. Zero rows affected means either a missing product or
// insufficient stock; a follow-up read distinguishes the two.
func Reserve(ctx context.Context, tx *gorm.DB, req ReservationRequest) error {
	if tx == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "transaction required")
	}
	if req.Quantity < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "reservation quantity must be at least 1")
	}

	res := tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ? AND stock_quantity >= ?", req.ProductID, req.Quantity).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity - ?", req.Quantity))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}

	var product models.Product
	err := tx.WithContext(ctx).
		Select("id", "stock_quantity").
		Where("id = ?", req.ProductID).
		First(&product).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return err
	}
	return pkgerrors.InsufficientStock(req.ProductID.String(), product.StockQuantity)
}

// ReserveAll applies the requests in order and stops at the first failure.
// Callers run it inside a transaction so a partial pass rolls back whole.
func ReserveAll(ctx context.Context, tx *gorm.DB, reqs []ReservationRequest) error {
	for _, req := range reqs {
		if err := Reserve(ctx, tx, req); err != nil {
			return err
		}
	}
	return nil
}

// Restock adds qty units back. Used by admin corrections and tests.
func Restock(ctx context.Context, tx *gorm.DB, productID uuid.UUID, qty int) error {
	if qty < 1 {
		return pkgerrors.New(pkgerrors.CodeValidation, "restock quantity must be at least 1")
	}
	res := tx.WithContext(ctx).Model(&models.Product{}).
		Where("id = ?", productID).
		UpdateColumn("stock_quantity", gorm.Expr("stock_quantity + ?", qty))
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
	}
	return nil
}
