// Package products exposes the narrow catalog reads the checkout flow needs.
// Catalog CRUD and search belong to a separate surface and are not served
// here.
package products

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/pkg/db/models"
)

// Repository defines persistence operations against the products table.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindPublishedByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	UnpublishBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error)
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a products repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

func (r *repository) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).Where("id = ?", id).First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) FindPublishedByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	var product models.Product
	err := r.db.WithContext(ctx).
		Where("id = ? AND is_published = ?", id, true).
		First(&product).Error
	if err != nil {
		return nil, err
	}
	return &product, nil
}

func (r *repository) UnpublishBySeller(ctx context.Context, sellerID uuid.UUID) (int64, error) {
	res := r.db.WithContext(ctx).Model(&models.Product{}).
		Where("seller_id = ? AND is_published = ?", sellerID, true).
		Update("is_published", false)
	return res.RowsAffected, res.Error
}
