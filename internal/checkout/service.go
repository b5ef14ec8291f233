package checkout

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"
	"gorm.io/gorm"

	"github.com/mvalderrama/pixelmart-backend/pkg/config"
	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type imageFinder interface {
	FindByName(ctx context.Context, name string) (*models.Image, error)
}

// Service issues Stripe Checkout Sessions for approved catalog images.
type Service interface {
	CreateSession(ctx context.Context, userID uuid.UUID, req CreateSessionRequest) (*CreateSessionResponse, error)
}

// ServiceParams bundles the dependencies required to build a checkout service.
type ServiceParams struct {
	Images imageFinder
	Stripe StripeCheckoutClient
	Config config.StripeConfig
}

type service struct {
	images     imageFinder
	stripe     StripeCheckoutClient
	priceCents int64
	currency   string
}

// NewService constructs a checkout service with the provided dependencies.
func NewService(params ServiceParams) (Service, error) {
	if params.Images == nil {
		return nil, fmt.Errorf("image finder is required")
	}
	if params.Stripe == nil {
		return nil, fmt.Errorf("stripe client is required")
	}
	priceCents := params.Config.ImagePriceCents
	if priceCents <= 0 {
		priceCents = 500
	}
	currency := strings.ToLower(strings.TrimSpace(params.Config.Currency))
	if currency == "" {
		currency = "usd"
	}
	return &service{
		images:     params.Images,
		stripe:     params.Stripe,
		priceCents: priceCents,
		currency:   currency,
	}, nil
}

func (s *service) CreateSession(ctx context.Context, userID uuid.UUID, req CreateSessionRequest) (*CreateSessionResponse, error) {
	if userID == uuid.Nil {
		return nil, pkgerrors.New(pkgerrors.CodeUnauthorized, "user identity missing")
	}
	imageName := strings.TrimSpace(req.ImageName)
	if imageName == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "image_name is required")
	}
	origin, err := normalizeOrigin(req.Origin)
	if err != nil {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "origin must be an absolute http(s) url")
	}

	image, err := s.images.FindByName(ctx, imageName)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, pkgerrors.New(pkgerrors.CodeNotFound, "image not found")
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "lookup image")
	}
	if image.Status != enums.ApprovalStatusApproved {
		return nil, pkgerrors.New(pkgerrors.CodeForbidden, "image is not approved for sale")
	}

	params := &stripe.CheckoutSessionParams{
		Mode:               stripe.String(string(stripe.CheckoutSessionModePayment)),
		PaymentMethodTypes: stripe.StringSlice([]string{"card"}),
		LineItems: []*stripe.CheckoutSessionLineItemParams{
			{
				PriceData: &stripe.CheckoutSessionLineItemPriceDataParams{
					Currency:   stripe.String(s.currency),
					UnitAmount: stripe.Int64(s.priceCents),
					ProductData: &stripe.CheckoutSessionLineItemPriceDataProductDataParams{
						Name: stripe.String("Image: " + image.Name),
					},
				},
				Quantity: stripe.Int64(1),
			},
		},
		SuccessURL: stripe.String(origin + "/dashboard?payment=success&image=" + url.QueryEscape(image.Name)),
		CancelURL:  stripe.String(origin + "/dashboard?payment=cancelled"),
	}
	params.AddMetadata("user_id", userID.String())
	params.AddMetadata("image_name", image.Name)

	session, err := s.stripe.CreateSession(ctx, params)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeDependency, err, "create checkout session")
	}

	return &CreateSessionResponse{
		SessionID: session.ID,
		URL:       session.URL,
	}, nil
}

// normalizeOrigin validates the redirect origin and strips any trailing slash
// so URL assembly stays predictable.
func normalizeOrigin(raw string) (string, error) {
	trimmed := strings.TrimSpace(raw)
	if trimmed == "" {
		return "", fmt.Errorf("origin is empty")
	}
	parsed, err := url.Parse(trimmed)
	if err != nil {
		return "", err
	}
	if (parsed.Scheme != "http" && parsed.Scheme != "https") || parsed.Host == "" {
		return "", fmt.Errorf("origin %q is not an absolute http(s) url", raw)
	}
	return strings.TrimRight(trimmed, "/"), nil
}
