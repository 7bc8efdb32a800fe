package orders

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/lojaonline/backend/pkg/db/models"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/pagination"
)

// Service defines the read operations exposed to controllers.
type Service interface {
	GetDetail(ctx context.Context, buyerID, orderID uuid.UUID) (*Detail, error)
	History(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*HistoryList, error)
}

type service struct {
	repo Repository
}

// NewService builds an orders service with the required dependencies.
func NewService(repo Repository) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("orders repository required")
	}
	return &service{repo: repo}, nil
}

func (s *service) GetDetail(ctx context.Context, buyerID, orderID uuid.UUID) (*Detail, error) {
	order, err := s.repo.FindByIDForBuyer(ctx, orderID, buyerID)
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "order not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "loading order")
	}
	return buildDetail(order), nil
}

func (s *service) History(ctx context.Context, buyerID uuid.UUID, params pagination.Params) (*HistoryList, error) {
	list, err := s.repo.ListByBuyer(ctx, buyerID, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeInternal, err, "listing orders")
	}
	return list, nil
}

func buildDetail(order *models.Order) *Detail {
	detail := &Detail{
		OrderID:     order.ID,
		BuyerID:     order.BuyerID,
		Status:      order.Status,
		TotalAmount: order.TotalAmount,
		Lines:       make([]LineDetail, 0, len(order.Items)),
		PlacedAt:    order.CreatedAt,
	}
	for _, item := range order.Items {
		detail.Lines = append(detail.Lines, LineDetail{
			ProductID:   item.ProductID,
			SellerID:    item.SellerID,
			ProductName: item.ProductName,
			Quantity:    item.Quantity,
			UnitPrice:   item.UnitPrice,
			Subtotal:    item.Subtotal(),
		})
	}
	return detail
}
