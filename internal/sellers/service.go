// Package sellers handles merchant lifecycle changes that ripple into the
// catalog. Deactivating a seller and unpublishing their products happen in
// one transaction so the storefront never sees a half-applied state.
package sellers

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/internal/products"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/enums"
	"github.com/lojaonline/backend/pkg/logger"
	"github.com/lojaonline/backend/pkg/outbox"
	"github.com/lojaonline/backend/pkg/outbox/payloads"
)

type txRunner interface {
	WithTx(ctx context.Context, fn func(tx *gorm.DB) error) error
}

type outboxPublisher interface {
	Emit(ctx context.Context, tx *gorm.DB, event outbox.DomainEvent) error
}

// DeactivationResult reports the side effects of a seller shutdown.
type DeactivationResult struct {
	SellerID         uuid.UUID `json:"seller_id"`
	AlreadyInactive  bool      `json:"already_inactive"`
	UnpublishedCount int64     `json:"unpublished_count"`
}

// Service defines seller lifecycle operations.
type Service interface {
	Deactivate(ctx context.Context, sellerID uuid.UUID) (*DeactivationResult, error)
}

type service struct {
	repo     Repository
	products products.Repository
	tx       txRunner
	outbox   outboxPublisher
	logg     *logger.Logger
}

// NewService builds a sellers service with the required dependencies.
func NewService(repo Repository, productsRepo products.Repository, tx txRunner, outboxSvc outboxPublisher, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("sellers repository required")
	}
	if productsRepo == nil {
		return nil, fmt.Errorf("products repository required")
	}
	if tx == nil {
		return nil, fmt.Errorf("transaction runner required")
	}
	if outboxSvc == nil {
		return nil, fmt.Errorf("outbox publisher required")
	}
	return &service{
		repo:     repo,
		products: productsRepo,
		tx:       tx,
		outbox:   outboxSvc,
		logg:     logg,
	}, nil
}

// Deactivate flips the seller inactive and unpublishes every published
// product they own. Re-running against an inactive seller is a no-op.
func (s *service) Deactivate(ctx context.Context, sellerID uuid.UUID) (*DeactivationResult, error) {
	result := &DeactivationResult{SellerID: sellerID}

	err := s.tx.WithTx(ctx, func(tx *gorm.DB) error {
		repo := s.repo.WithTx(tx)
		if _, err := repo.FindByID(ctx, sellerID); err != nil {
			if err == gorm.ErrRecordNotFound {
				return pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")
			}
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading seller")
		}

		flipped, err := repo.SetActive(ctx, sellerID, false)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "deactivating seller")
		}
		if flipped == 0 {
			result.AlreadyInactive = true
			return nil
		}

		unpublished, err := s.products.WithTx(tx).UnpublishBySeller(ctx, sellerID)
		if err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unpublishing products")
		}
		result.UnpublishedCount = unpublished

		event := outbox.DomainEvent{
			EventType:     enums.EventSellerDeactivated,
			AggregateType: enums.AggregateSeller,
			AggregateID:   sellerID,
			Version:       1,
			Data: payloads.SellerDeactivatedEvent{
				SellerID:         sellerID,
				UnpublishedCount: int(unpublished),
				DeactivatedAt:    time.Now().UTC(),
			},
		}
		return s.outbox.Emit(ctx, tx, event)
	})
	if err != nil {
		return nil, err
	}

	if s.logg != nil && !result.AlreadyInactive {
		logCtx := s.logg.WithFields(ctx, map[string]any{
			"seller_id":   sellerID.String(),
			"unpublished": result.UnpublishedCount,
		})
		s.logg.Info(logCtx, "seller deactivated")
	}
	return result, nil
}
