package cart

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	dbpkg "github.com/lojaonline/backend/pkg/db"
	"github.com/lojaonline/backend/pkg/db/models"
)

// Repository defines persistence operations for carts and their lines.
type Repository interface {
	WithTx(tx *gorm.DB) Repository
	FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error)
	FindOrCreateByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error)
	UpsertLine(ctx context.Context, cartID, productID uuid.UUID, qty int) error
	FindLine(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error)
	UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, qty int) error
	DeleteLine(ctx context.Context, lineID uuid.UUID) error
	DeleteLines(ctx context.Context, cartID uuid.UUID, productIDs []uuid.UUID) error
}

type repository struct {
	db *gorm.DB
}

// NewRepository builds a cart repository bound to the provided DB.
func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *gorm.DB) Repository {
	if tx == nil {
		return r
	}
	return &repository{db: tx}
}

// FindByBuyer loads the buyer's cart with lines and product snapshots in
// insertion order. Returns gorm.ErrRecordNotFound when no cart exists yet.
func (r *repository) FindByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).
		Preload("Items", func(db *gorm.DB) *gorm.DB {
			return db.Order("cart_items.created_at ASC").Order("cart_items.id ASC")
		}).
		Preload("Items.Product").
		Where("buyer_id = ?", buyerID).
		First(&cart).Error
	if err != nil {
		return nil, err
	}
	return &cart, nil
}

// FindOrCreateByBuyer returns the buyer's cart, creating it lazily on first
// use. A concurrent create loses on the unique buyer key and re-reads.
func (r *repository) FindOrCreateByBuyer(ctx context.Context, buyerID uuid.UUID) (*models.Cart, error) {
	var cart models.Cart
	err := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, err
	}

	cart = models.Cart{ID: uuid.New(), BuyerID: buyerID}
	if createErr := r.db.WithContext(ctx).Create(&cart).Error; createErr != nil {
		if dbpkg.IsUniqueViolation(createErr) {
			var existing models.Cart
			if retryErr := r.db.WithContext(ctx).Where("buyer_id = ?", buyerID).First(&existing).Error; retryErr != nil {
				return nil, retryErr
			}
			return &existing, nil
		}
		return nil, createErr
	}
	return &cart, nil
}

// UpsertLine inserts a cart line or increments the quantity of an existing
// line for the same product. The unique (cart_id, product_id) key arbitrates.
func (r *repository) UpsertLine(ctx context.Context, cartID, productID uuid.UUID, qty int) error {
	line := models.CartItem{
		ID:        uuid.New(),
		CartID:    cartID,
		ProductID: productID,
		Quantity:  qty,
	}
	return r.db.WithContext(ctx).Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("cart_items.quantity + excluded.quantity"),
		}),
	}).Create(&line).Error
}

func (r *repository) FindLine(ctx context.Context, lineID uuid.UUID) (*models.CartItem, error) {
	var line models.CartItem
	err := r.db.WithContext(ctx).Where("id = ?", lineID).First(&line).Error
	if err != nil {
		return nil, err
	}
	return &line, nil
}

func (r *repository) UpdateLineQuantity(ctx context.Context, lineID uuid.UUID, qty int) error {
	res := r.db.WithContext(ctx).Model(&models.CartItem{}).
		Where("id = ?", lineID).
		Update("quantity", qty)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *repository) DeleteLine(ctx context.Context, lineID uuid.UUID) error {
	res := r.db.WithContext(ctx).Where("id = ?", lineID).Delete(&models.CartItem{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// DeleteLines removes lines from a cart. A nil or empty productIDs slice
// clears the whole cart.
func (r *repository) DeleteLines(ctx context.Context, cartID uuid.UUID, productIDs []uuid.UUID) error {
	q := r.db.WithContext(ctx).Where("cart_id = ?", cartID)
	if len(productIDs) > 0 {
		q = q.Where("product_id IN ?", productIDs)
	}
	return q.Delete(&models.CartItem{}).Error
}
