package controllers

import (
	"net/http"

	"github.com/lojaonline/backend/api/responses"
	sellerssvc "github.com/lojaonline/backend/internal/sellers"
	pkgerrors "github.com/lojaonline/backend/pkg/errors"
	"github.com/lojaonline/backend/pkg/logger"
)

// SellerDeactivate disables a seller and unpublishes their catalog.
// Repeating the call on an already inactive seller is a no-op.
func SellerDeactivate(svc sellerssvc.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "sellers service unavailable"))
			return
		}

		sellerID, err := pathUUID(r, "sellerID")
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.Deactivate(r.Context(), sellerID)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccess(w, result)
	}
}
