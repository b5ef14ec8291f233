package routes

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mvalderrama/pixelmart-backend/internal/admin"
	"github.com/mvalderrama/pixelmart-backend/internal/auth"
	"github.com/mvalderrama/pixelmart-backend/internal/catalog"
	checkoutsvc "github.com/mvalderrama/pixelmart-backend/internal/checkout"
	"github.com/mvalderrama/pixelmart-backend/internal/payments"
	pkgAuth "github.com/mvalderrama/pixelmart-backend/pkg/auth"
	"github.com/mvalderrama/pixelmart-backend/pkg/auth/session"
	"github.com/mvalderrama/pixelmart-backend/pkg/config"
	"github.com/mvalderrama/pixelmart-backend/pkg/logger"
)

type stubSessionManager struct{}

func (stubSessionManager) HasSession(_ context.Context, _ string) (bool, error) {
	return true, nil
}

func (stubSessionManager) Rotate(_ context.Context, _, _ string) (string, string, error) {
	return "", "", nil
}

func (stubSessionManager) Revoke(_ context.Context, _ string) error {
	return nil
}

type stubAuthService struct{}

func (stubAuthService) Register(_ context.Context, _ auth.RegisterRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

func (stubAuthService) Login(_ context.Context, _ auth.LoginRequest) (*auth.AuthResponse, error) {
	return &auth.AuthResponse{}, nil
}

type stubCatalogService struct{}

func (stubCatalogService) PresignUpload(_ context.Context, _ uuid.UUID, _ catalog.PresignRequest) (*catalog.PresignResponse, error) {
	return &catalog.PresignResponse{}, nil
}

func (stubCatalogService) ListApproved(_ context.Context) ([]catalog.ImageDTO, error) {
	return []catalog.ImageDTO{}, nil
}

func (stubCatalogService) ListMine(_ context.Context, _ uuid.UUID) ([]catalog.ImageDTO, error) {
	return []catalog.ImageDTO{}, nil
}

type stubCheckoutService struct{}

func (stubCheckoutService) CreateSession(_ context.Context, _ uuid.UUID, _ checkoutsvc.CreateSessionRequest) (*checkoutsvc.CreateSessionResponse, error) {
	return &checkoutsvc.CreateSessionResponse{}, nil
}

type stubPaymentsService struct{}

func (stubPaymentsService) Status(_ context.Context, _ uuid.UUID) (*payments.StatusDTO, error) {
	return &payments.StatusDTO{PaidImages: []string{}}, nil
}

type stubAccessService struct{}

func (stubAccessService) AuthorizeDownload(_ context.Context, _ uuid.UUID, _ string) (string, error) {
	return "https://signed.example", nil
}

type stubAdminService struct{}

func (stubAdminService) GrantAdmin(_ context.Context, _ uuid.UUID, _ string) (*admin.GrantAdminResult, error) {
	return &admin.GrantAdminResult{IsAdmin: true}, nil
}

func (stubAdminService) ListPending(_ context.Context) ([]catalog.ImageDTO, error) {
	return []catalog.ImageDTO{}, nil
}

func (stubAdminService) SetApproval(_ context.Context, _ uuid.UUID, _ bool) (*catalog.ImageDTO, error) {
	return &catalog.ImageDTO{}, nil
}

func testConfig() *config.Config {
	return &config.Config{
		App: config.AppConfig{Env: "test", Port: "0"},
		JWT: config.JWTConfig{
			Secret:                 "secret",
			Issuer:                 "issuer",
			ExpirationMinutes:      60,
			RefreshTokenTTLMinutes: 120,
		},
	}
}

func newTestRouter(cfg *config.Config) http.Handler {
	logg := logger.New(logger.Options{ServiceName: "test-routing", Level: logger.ParseLevel("debug"), Output: io.Discard})
	return NewRouter(RouterParams{
		Config:          cfg,
		Logger:          logg,
		SessionManager:  stubSessionManager{},
		AuthService:     stubAuthService{},
		CatalogService:  stubCatalogService{},
		CheckoutService: stubCheckoutService{},
		PaymentsService: stubPaymentsService{},
		AccessService:   stubAccessService{},
		AdminService:    stubAdminService{},
	})
}

func buildToken(t *testing.T, cfg *config.Config, isAdmin bool) string {
	t.Helper()
	token, err := pkgAuth.MintAccessToken(cfg.JWT, time.Now().UTC(), pkgAuth.AccessTokenPayload{
		UserID:  uuid.New(),
		Email:   "buyer@example.com",
		IsAdmin: isAdmin,
		JTI:     session.NewAccessID(),
	})
	if err != nil {
		t.Fatalf("mint token: %v", err)
	}
	return token
}

func TestGalleryIsPublic(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for public gallery, got %d", resp.Code)
	}
}

func TestPrivateGroupRejectsMissingJWT(t *testing.T) {
	router := newTestRouter(testConfig())
	for _, route := range []string{"/api/v1/payments/status", "/api/v1/images/mine"} {
		req := httptest.NewRequest(http.MethodGet, route, nil)
		resp := httptest.NewRecorder()
		router.ServeHTTP(resp, req)
		if resp.Code != http.StatusUnauthorized {
			t.Fatalf("%s: expected 401 without token, got %d", route, resp.Code)
		}
	}
}

func TestPrivateGroupSucceedsWithJWT(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)
	req := httptest.NewRequest(http.MethodGet, "/api/v1/payments/status", nil)
	req.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 with token, got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestAdminGroupRequiresAdminFlag(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	nonAdmin := httptest.NewRequest(http.MethodGet, "/api/v1/admin/images/pending", nil)
	nonAdmin.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, false))
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, nonAdmin)
	if resp.Code != http.StatusForbidden {
		t.Fatalf("expected 403 for non-admin, got %d", resp.Code)
	}

	adminReq := httptest.NewRequest(http.MethodGet, "/api/v1/admin/images/pending", nil)
	adminReq.Header.Set("Authorization", "Bearer "+buildToken(t, cfg, true))
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, adminReq)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for admin, got %d (%s)", resp.Code, resp.Body.String())
	}
}

func TestDownloadAcceptsQueryToken(t *testing.T) {
	cfg := testConfig()
	router := newTestRouter(cfg)

	missing := httptest.NewRequest(http.MethodGet, "/api/v1/images/download?image=dunes.png", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, missing)
	if resp.Code != http.StatusUnauthorized {
		t.Fatalf("expected 401 without token, got %d", resp.Code)
	}

	withToken := httptest.NewRequest(http.MethodGet,
		"/api/v1/images/download?image=dunes.png&token="+buildToken(t, cfg, false), nil)
	resp = httptest.NewRecorder()
	router.ServeHTTP(resp, withToken)
	if resp.Code != http.StatusFound {
		t.Fatalf("expected 302 with query token, got %d (%s)", resp.Code, resp.Body.String())
	}
	if got := resp.Header().Get("Location"); got != "https://signed.example" {
		t.Errorf("location %q", got)
	}
}

func TestHealthLive(t *testing.T) {
	router := newTestRouter(testConfig())
	req := httptest.NewRequest(http.MethodGet, "/health/live", nil)
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	if resp.Code != http.StatusOK {
		t.Fatalf("expected 200 for liveness, got %d", resp.Code)
	}
}
