package payments

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type stubRecordReader struct {
	record *models.PaymentRecord
	err    error
}

func (s stubRecordReader) FindByUserID(_ context.Context, _ uuid.UUID) (*models.PaymentRecord, error) {
	return s.record, s.err
}

func TestStatusDefaultsWhenNoRecord(t *testing.T) {
	t.Parallel()

	svc, err := NewService(stubRecordReader{})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	status, err := svc.Status(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if status.HasPaid {
		t.Error("has_paid must default to false")
	}
	if status.PaidImages == nil || len(status.PaidImages) != 0 {
		t.Errorf("paid_images must be an empty slice, got %#v", status.PaidImages)
	}
	if status.PaidAt != nil {
		t.Error("paid_at must default to nil")
	}
}

func TestStatusProjectsRecord(t *testing.T) {
	t.Parallel()

	paidAt := time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)
	svc, err := NewService(stubRecordReader{record: &models.PaymentRecord{
		UserID:        uuid.New(),
		HasPaid:       true,
		PaidImages:    pq.StringArray{"dunes.png", "ridge.png"},
		LastSessionID: "cs_test_1",
		PaidAt:        &paidAt,
	}})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}

	status, err := svc.Status(context.Background(), uuid.New())
	if err != nil {
		t.Fatalf("Status: %v", err)
	}
	if !status.HasPaid || len(status.PaidImages) != 2 || status.PaidAt == nil || !status.PaidAt.Equal(paidAt) {
		t.Fatalf("unexpected status: %+v", status)
	}
}

func TestStatusRequiresUser(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(stubRecordReader{})
	_, err := svc.Status(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestStatusWrapsReaderFailure(t *testing.T) {
	t.Parallel()

	svc, _ := NewService(stubRecordReader{err: errors.New("connection refused")})
	_, err := svc.Status(context.Background(), uuid.New())
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
}

func TestRecordCompletedSessionSQLShape(t *testing.T) {
	t.Parallel()

	for _, fragment := range []string{
		"ON CONFLICT (user_id) DO UPDATE",
		"has_paid = TRUE",
		"ANY (payment_records.paid_images)",
		"array_append(payment_records.paid_images",
		"last_session_id = EXCLUDED.last_session_id",
		"paid_at = EXCLUDED.paid_at",
	} {
		if !strings.Contains(recordCompletedSessionSQL, fragment) {
			t.Errorf("upsert statement missing %q", fragment)
		}
	}
}
