package routes

import (
	"context"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mvalderrama/pixelmart-backend/api/controllers"
	webhookcontrollers "github.com/mvalderrama/pixelmart-backend/api/controllers/webhooks"
	"github.com/mvalderrama/pixelmart-backend/api/middleware"
	"github.com/mvalderrama/pixelmart-backend/internal/access"
	"github.com/mvalderrama/pixelmart-backend/internal/admin"
	"github.com/mvalderrama/pixelmart-backend/internal/auth"
	"github.com/mvalderrama/pixelmart-backend/internal/catalog"
	checkoutsvc "github.com/mvalderrama/pixelmart-backend/internal/checkout"
	"github.com/mvalderrama/pixelmart-backend/internal/payments"
	stripewebhook "github.com/mvalderrama/pixelmart-backend/internal/webhooks/stripe"
	"github.com/mvalderrama/pixelmart-backend/pkg/auth/session"
	"github.com/mvalderrama/pixelmart-backend/pkg/config"
	"github.com/mvalderrama/pixelmart-backend/pkg/db"
	"github.com/mvalderrama/pixelmart-backend/pkg/logger"
	"github.com/mvalderrama/pixelmart-backend/pkg/metrics"
	"github.com/mvalderrama/pixelmart-backend/pkg/redis"
	"github.com/mvalderrama/pixelmart-backend/pkg/storage/gcs"
	"github.com/mvalderrama/pixelmart-backend/pkg/stripe"
)

type sessionManager interface {
	session.AccessSessionChecker
	Rotate(context.Context, string, string) (string, string, error)
	Revoke(context.Context, string) error
}

// RouterParams carries every dependency the HTTP surface needs.
type RouterParams struct {
	Config         *config.Config
	Logger         *logger.Logger
	DB             *db.Client
	Redis          *redis.Client
	GCS            *gcs.Client
	SessionManager sessionManager
	Metrics        *metrics.HTTPMetrics
	Gatherer       prometheus.Gatherer

	AuthService     auth.Service
	CatalogService  catalog.Service
	CheckoutService checkoutsvc.Service
	PaymentsService payments.Service
	AccessService   access.Service
	AdminService    admin.Service

	StripeClient       *stripe.Client
	StripeWebhookSvc   *stripewebhook.Service
	StripeWebhookGuard *stripewebhook.IdempotencyGuard
}

func NewRouter(p RouterParams) http.Handler {
	cfg := p.Config
	logg := p.Logger

	r := chi.NewRouter()
	r.Use(
		middleware.Recoverer(logg),
		middleware.RequestID(logg),
		middleware.Logging(logg),
		middleware.Metrics(p.Metrics),
		middleware.CORS(),
	)

	loginPolicy := middleware.NewAuthRateLimitPolicy(
		"login",
		cfg.AuthRateLimit.LoginWindow,
		cfg.AuthRateLimit.LoginIPLimit,
		cfg.AuthRateLimit.LoginEmailLimit,
	)
	registerPolicy := middleware.NewAuthRateLimitPolicy(
		"register",
		cfg.AuthRateLimit.RegisterWindow,
		cfg.AuthRateLimit.RegisterIPLimit,
		cfg.AuthRateLimit.RegisterEmailLimit,
	)

	r.Route("/health", func(r chi.Router) {
		r.Get("/live", controllers.HealthLive(cfg))
		r.Get("/ready", controllers.HealthReady(cfg, logg, controllers.ReadinessDeps(p.DB, p.Redis, p.GCS)))
	})

	if p.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(p.Gatherer, promhttp.HandlerOpts{}))
	}

	r.Route("/api/v1/webhooks", func(r chi.Router) {
		r.Post("/stripe", webhookcontrollers.StripeWebhook(p.StripeWebhookSvc, p.StripeClient, p.StripeWebhookGuard, p.Metrics, logg))
	})

	r.Route("/api/v1/auth", func(r chi.Router) {
		r.With(middleware.AuthRateLimit(loginPolicy, p.Redis, logg)).Post("/login", controllers.AuthLogin(p.AuthService, logg))
		r.With(
			middleware.AuthRateLimit(registerPolicy, p.Redis, logg),
			middleware.Idempotency(p.Redis, logg),
		).Post("/register", controllers.AuthRegister(p.AuthService, logg))
		r.Post("/logout", controllers.AuthLogout(p.SessionManager, cfg.JWT, logg))
		r.Post("/refresh", controllers.AuthRefresh(p.SessionManager, cfg.JWT, logg))
	})

	// Public catalog browsing.
	r.Get("/api/v1/gallery", controllers.ImagesGallery(p.CatalogService, logg))

	// Browser navigations carry the access token in the query string here.
	r.With(middleware.AuthWithQueryToken(cfg.JWT, p.SessionManager, logg)).
		Get("/api/v1/images/download", controllers.ImageDownload(p.AccessService, logg))

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(middleware.Auth(cfg.JWT, p.SessionManager, logg))
		r.Use(middleware.Idempotency(p.Redis, logg))

		r.Post("/checkout/session", controllers.CheckoutSession(p.CheckoutService, logg))
		r.Get("/payments/status", controllers.PaymentStatus(p.PaymentsService, logg))
		r.Post("/images/presign", controllers.ImagesPresign(p.CatalogService, logg))
		r.Get("/images/mine", controllers.ImagesMine(p.CatalogService, logg))
		r.Post("/admin/setup", controllers.AdminSetup(p.AdminService, logg))

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin(logg))
			r.Get("/admin/images/pending", controllers.AdminPendingImages(p.AdminService, logg))
			r.Post("/admin/images/{imageID}/approval", controllers.AdminSetApproval(p.AdminService, logg))
		})
	})

	return r
}
