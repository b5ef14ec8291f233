package controllers

import (
	"net/http"

	"github.com/mvalderrama/pixelmart-backend/api/middleware"
	"github.com/mvalderrama/pixelmart-backend/api/responses"
	"github.com/mvalderrama/pixelmart-backend/api/validators"
	"github.com/mvalderrama/pixelmart-backend/internal/access"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
	"github.com/mvalderrama/pixelmart-backend/pkg/logger"
)

// ImageDownload authorizes the buyer and redirects to a short-lived signed
// URL. Browser navigations land here with the token in the query string, so
// the route sits behind the query-token auth middleware.
func ImageDownload(svc access.Service, logg *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if svc == nil {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeInternal, "access service unavailable"))
			return
		}

		userID, ok := middleware.UserUUIDFromContext(r.Context())
		if !ok {
			responses.WriteError(r.Context(), logg, w, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing"))
			return
		}

		imageName, err := validators.RequireQueryString(r, "image", 256)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		signedURL, err := svc.AuthorizeDownload(r.Context(), userID, imageName)
		if err != nil {
			responses.WriteError(r.Context(), logg, w, err)
			return
		}

		http.Redirect(w, r, signedURL, http.StatusFound)
	}
}
