package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	orderssvc "github.com/lojaonline/backend/internal/orders"
	"github.com/lojaonline/backend/pkg/enums"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/pagination"
)

type stubOrdersService struct {
	detail     *orderssvc.Detail
	list       *orderssvc.HistoryList
	err        error
	lastParams pagination.Params
}

func (s *stubOrdersService) GetDetail(_ context.Context, _, _ uuid.UUID) (*orderssvc.Detail, error) {
	return s.detail, s.err
}

func (s *stubOrdersService) History(_ context.Context, _ uuid.UUID, params pagination.Params) (*orderssvc.HistoryList, error) {
	s.lastParams = params
	return s.list, s.err
}

func TestOrdersHistoryPassesPagingParams(t *testing.T) {
	svc := &stubOrdersService{list: &orderssvc.HistoryList{
		Orders: []orderssvc.Summary{{
			OrderID:     uuid.New(),
			Status:      enums.OrderStatusPending,
			TotalAmount: decimal.RequireFromString("10.00"),
			LineCount:   1,
		}},
		NextCursor: "next-page",
	}}
	handler := OrdersHistory(svc, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders?limit=5&cursor=abc", uuid.New(), ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	if svc.lastParams.Limit != 5 || svc.lastParams.Cursor != "abc" {
		t.Fatalf("unexpected params passed to service: %+v", svc.lastParams)
	}

	var envelope struct {
		Data orderssvc.HistoryList `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if len(envelope.Data.Orders) != 1 {
		t.Fatalf("expected 1 order got %d", len(envelope.Data.Orders))
	}
	if envelope.Data.NextCursor != "next-page" {
		t.Fatalf("expected cursor propagated got %q", envelope.Data.NextCursor)
	}
}

func TestOrdersHistoryRejectsOversizedLimit(t *testing.T) {
	handler := OrdersHistory(&stubOrdersService{}, nil)

	resp := httptest.NewRecorder()
	handler.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders?limit=5000", uuid.New(), ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}

func TestOrderDetailSuccess(t *testing.T) {
	buyerID := uuid.New()
	orderID := uuid.New()
	svc := &stubOrdersService{detail: &orderssvc.Detail{
		OrderID:     orderID,
		BuyerID:     buyerID,
		Status:      enums.OrderStatusPending,
		TotalAmount: decimal.RequireFromString("45.00"),
	}}
	router := newTestRouter()
	router.Get("/api/v1/orders/{orderID}", OrderDetail(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders/"+orderID.String(), buyerID, ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data orderssvc.Detail `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.OrderID != orderID {
		t.Fatalf("unexpected order id in response")
	}
}

func TestOrderDetailNotFound(t *testing.T) {
	svc := &stubOrdersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "order not found")}
	router := newTestRouter()
	router.Get("/api/v1/orders/{orderID}", OrderDetail(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodGet, "/api/v1/orders/"+uuid.NewString(), uuid.New(), ""))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}
