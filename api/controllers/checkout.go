package controllers

import (
	"net/http"

	"github.com/mvalderrama/pixelmart-backend/api/middleware"
	"github.com/mvalderrama/pixelmart-backend/api/responses"
	"github.com/mvalderrama/pixelmart-backend/api/validators"
	"github.com/mvalderrama/pixelmart-backend/internal/checkout"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
	"github.com/mvalderrama/pixelmart-backend/pkg/logger"
)

// CheckoutSession starts a hosted checkout for an approved image.
func CheckoutSession(svc checkout.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "checkout service unavailable"))
			return
		}

		userID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		var body checkout.CreateSessionRequest
		if err := validators.DecodeJSONBody(r, &body); err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		result, err := svc.CreateSession(r.Context(), userID, body)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		responses.WriteSuccessStatus(w, http.StatusCreated, result)
	}
}
