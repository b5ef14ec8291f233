package stripewebhook

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/stripe/stripe-go/v84"

	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type paymentRecorder interface {
	RecordCompletedSession(ctx context.Context, userID uuid.UUID, imageName, sessionID string, at time.Time) error
}

// ServiceParams bundles the dependencies required to build the webhook service.
type ServiceParams struct {
	Payments paymentRecorder
}

// Service reconciles Stripe events into payment records.
type Service struct {
	payments paymentRecorder
}

func NewService(params ServiceParams) (*Service, error) {
	if params.Payments == nil {
		return nil, pkgerrors.New(pkgerrors.CodeInternal, "payment recorder required")
	}
	return &Service{payments: params.Payments}, nil
}

// HandleEvent applies a verified Stripe event. Unrecognized event types are
// acknowledged without any state change.
func (s *Service) HandleEvent(ctx context.Context, event *stripe.Event) error {
	if event == nil || event.Data == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "stripe event data required")
	}

	switch event.Type {
	case stripe.EventTypeCheckoutSessionCompleted:
		var session stripe.CheckoutSession
		if err := json.Unmarshal(event.Data.Raw, &session); err != nil {
			return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "decode checkout session event")
		}
		return s.recordCompletedCheckout(ctx, &session)
	default:
		return nil
	}
}

func (s *Service) recordCompletedCheckout(ctx context.Context, session *stripe.CheckoutSession) error {
	if session == nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "checkout session is required")
	}

	rawUserID := strings.TrimSpace(session.Metadata["user_id"])
	imageName := strings.TrimSpace(session.Metadata["image_name"])
	if rawUserID == "" || imageName == "" {
		return pkgerrors.New(pkgerrors.CodeValidation, "session metadata missing user_id or image_name")
	}
	userID, err := uuid.Parse(rawUserID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeValidation, err, "parse user_id metadata")
	}

	paidAt := time.Now().UTC()
	if err := s.payments.RecordCompletedSession(ctx, userID, imageName, session.ID, paidAt); err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "record completed session")
	}
	return nil
}
