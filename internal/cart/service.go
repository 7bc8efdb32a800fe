// Package cart manages the buyer's open selection: lazy cart creation, line
// upserts and the joined product snapshots the storefront renders.
package cart

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/internal/pricing"
	"github.com/lojaonline/backend/internal/products"
	"github.com/lojaonline/backend/pkg/db/models"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/logger"
)

// Service defines the cart operations exposed to controllers and checkout.
type Service interface {
	AddLine(ctx context.Context, input AddLineInput) (*View, error)
	GetCart(ctx context.Context, buyerID uuid.UUID) (*View, error)
	UpdateLineQuantity(ctx context.Context, input UpdateLineInput) (*View, error)
	RemoveLine(ctx context.Context, buyerID, lineID uuid.UUID) (*View, error)
}

type service struct {
	repo     Repository
	products products.Repository
	logg     *logger.Logger
}

// NewService builds a cart service with the required dependencies.
func NewService(repo Repository, productsRepo products.Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("cart repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	return &service{repo: repo, products: productsRepo, logg: logg}, nil
}

func (s *service) AddLine(ctx context.Context, input AddLineInput) (*View, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	product, err := s.products.FindPublishedByID(ctx, input.ProductID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "product not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading product")
	}

	cart, err := s.repo.FindOrCreateByBuyer(ctx, input.BuyerID)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "resolving cart")
	}

	if err := s.repo.UpsertLine(ctx, cart.ID, product.ID, input.Quantity); err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "adding cart line")
	}

	if s.logg != nil {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"cart_id":    cart.ID.String(),
			"product_id": product.ID.String(),
			"quantity":   input.Quantity,
		})
		s.logg.Info(logCtx, "cart line added")
	}

	return s.GetCart(ctx, input.BuyerID)
}

// GetCart returns the buyer's cart joined with product snapshots. Buyers
// without a cart get an empty view.
func (s *service) GetCart(ctx context.Context, buyerID uuid.UUID) (*View, error) {
	cart, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return &View{BuyerID: buyerID, Items: []LineView{}, Subtotal: decimal.Zero.Round(2)}, nil
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	return s.buildView(cart)
}

func (s *service) UpdateLineQuantity(ctx context.Context, input UpdateLineInput) (*View, error) {
	if input.Quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	if _, err := s.ownedLine(ctx, input.BuyerID, input.LineID); err != nil {
		return nil, err
	}
	if err := s.repo.UpdateLineQuantity(ctx, input.LineID, input.Quantity); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "updating cart line")
	}
	return s.GetCart(ctx, input.BuyerID)
}

func (s *service) RemoveLine(ctx context.Context, buyerID, lineID uuid.UUID) (*View, error) {
	if _, err := s.ownedLine(ctx, buyerID, lineID); err != nil {
		return nil, err
	}
	if err := s.repo.DeleteLine(ctx, lineID); err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "removing cart line")
	}
	return s.GetCart(ctx, buyerID)
}

// ownedLine loads the line and checks it belongs to the buyer's cart. Lines
// in other buyers' carts surface as not found, never as forbidden.
func (s *service) ownedLine(ctx context.Context, buyerID, lineID uuid.UUID) (*models.CartItem, error) {
	line, err := s.repo.FindLine(ctx, lineID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart line")
	}
	cart, err := s.repo.FindByBuyer(ctx, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading cart")
	}
	if line.CartID != cart.ID {
		return nil, pkgerrors.New(pkgerrors.CodeNotFound, "cart line not found")
	}
	return line, nil
}

func (s *service) buildView(cart *models.Cart) (*View, error) {
	view := &View{
		CartID:   &cart.ID,
		BuyerID:  cart.BuyerID,
		Items:    make([]LineView, 0, len(cart.Items)),
		Subtotal: decimal.Zero,
	}

	for _, item := range cart.Items {
		if item.Product == nil {
			return nil, pkgerrors.New(pkgerrors.CodeInternal, "cart line missing product snapshot")
		}
		unitPrice, err := pricing.FinalUnitPrice(item.Product.Price, item.Product.DiscountType, item.Product.DiscountValue)
		if err != nil {
			return nil, err
		}
		lineSubtotal := pricing.LineSubtotal(unitPrice, item.Quantity)
		view.Items = append(view.Items, LineView{
			LineID:        item.ID,
			ProductID:     item.ProductID,
			ProductName:   item.Product.Name,
			BasePrice:     item.Product.Price,
			DiscountType:  item.Product.DiscountType,
			DiscountValue: item.Product.DiscountValue,
			UnitPrice:     unitPrice,
			Quantity:      item.Quantity,
			LineSubtotal:  lineSubtotal,
			IsPublished:   item.Product.IsPublished,
			StockQuantity: item.Product.StockQuantity,
			ImageURLs:     item.Product.ImageURLs,
			AddedAt:       item.CreatedAt,
		})
		view.Subtotal = view.Subtotal.Add(lineSubtotal)
	}

	view.Subtotal = view.Subtotal.Round(2)
	return view, nil
}
