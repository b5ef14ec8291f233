package controllers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"

	"github.com/mvalderrama/pixelmart-backend/api/middleware"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type stubAccessService struct {
	url       string
	err       error
	lastUser  uuid.UUID
	lastImage string
}

func (s *stubAccessService) AuthorizeDownload(_ context.Context, userID uuid.UUID, imageName string) (string, error) {
	s.lastUser = userID
	s.lastImage = imageName
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func downloadRequest(userID uuid.UUID, query string) *http.Request {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/images/download"+query, nil)
	if userID != uuid.Nil {
		req = req.WithContext(middleware.WithUserID(req.Context(), userID.String()))
	}
	return req
}

func TestImageDownloadRedirectsToSignedURL(t *testing.T) {
	svc := &stubAccessService{url: "https://storage.googleapis.com/bucket/protected-images/dunes.png?sig"}
	handler := ImageDownload(svc, nil)

	userID := uuid.New()
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, downloadRequest(userID, "?image=dunes.png"))

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d (%s)", rec.Code, rec.Body.String())
	}
	if got := rec.Header().Get("Location"); got != svc.url {
		t.Errorf("location %q", got)
	}
	if svc.lastUser != userID || svc.lastImage != "dunes.png" {
		t.Errorf("service called with %s %q", svc.lastUser, svc.lastImage)
	}
}

func TestImageDownloadRequiresIdentity(t *testing.T) {
	handler := ImageDownload(&stubAccessService{url: "u"}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, downloadRequest(uuid.Nil, "?image=dunes.png"))
	if rec.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401, got %d", rec.Code)
	}
}

func TestImageDownloadRequiresImageParam(t *testing.T) {
	handler := ImageDownload(&stubAccessService{url: "u"}, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, downloadRequest(uuid.New(), ""))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", rec.Code)
	}
}

func TestImageDownloadPropagatesDenial(t *testing.T) {
	svc := &stubAccessService{err: pkgerrors.New(pkgerrors.CodeForbidden, "image not purchased")}
	handler := ImageDownload(svc, nil)

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, downloadRequest(uuid.New(), "?image=dunes.png"))
	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}

	var envelope struct {
		Error struct {
			Message string `json:"message"`
		} `json:"error"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &envelope); err != nil {
		t.Fatalf("decode body: %v", err)
	}
	if envelope.Error.Message != "image not purchased" {
		t.Errorf("message %q", envelope.Error.Message)
	}
}
