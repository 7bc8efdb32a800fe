package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	sellerssvc "github.com/lojaonline/backend/internal/sellers"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
)

type stubSellersService struct {
	result *sellerssvc.DeactivationResult
	err    error
}

func (s *stubSellersService) Deactivate(_ context.Context, _ uuid.UUID) (*sellerssvc.DeactivationResult, error) {
	return s.result, s.err
}

func TestSellerDeactivateSuccess(t *testing.T) {
	sellerID := uuid.New()
	svc := &stubSellersService{result: &sellerssvc.DeactivationResult{
		SellerID:         sellerID,
		UnpublishedCount: 3,
	}}
	router := newTestRouter()
	router.Post("/api/v1/sellers/{sellerID}/deactivate", SellerDeactivate(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/sellers/"+sellerID.String()+"/deactivate", uuid.New(), ""))

	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 got %d", resp.Code)
	}
	var envelope struct {
		Data sellerssvc.DeactivationResult `json:"data"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&envelope); err != nil {
		t.Fatalf("decode response: %v", err)
	}
	if envelope.Data.SellerID != sellerID {
		t.Fatalf("unexpected seller id in response")
	}
	if envelope.Data.UnpublishedCount != 3 {
		t.Fatalf("expected 3 unpublished products got %d", envelope.Data.UnpublishedCount)
	}
}

func TestSellerDeactivateUnknownSeller(t *testing.T) {
	svc := &stubSellersService{err: pkgerrors.New(pkgerrors.CodeNotFound, "seller not found")}
	router := newTestRouter()
	router.Post("/api/v1/sellers/{sellerID}/deactivate", SellerDeactivate(svc, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/sellers/"+uuid.NewString()+"/deactivate", uuid.New(), ""))

	if resp.Code != http.StatusNotFound {
		t.Fatalf("expected 404 got %d", resp.Code)
	}
}

func TestSellerDeactivateRejectsMalformedID(t *testing.T) {
	router := newTestRouter()
	router.Post("/api/v1/sellers/{sellerID}/deactivate", SellerDeactivate(&stubSellersService{}, nil))

	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, authedRequest(http.MethodPost, "/api/v1/sellers/nope/deactivate", uuid.New(), ""))

	if resp.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 got %d", resp.Code)
	}
}
