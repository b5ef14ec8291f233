package catalog

import (
	"context"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"

	"github.com/mvalderrama/pixelmart-backend/pkg/config"
	"github.com/mvalderrama/pixelmart-backend/pkg/db/models"
	"github.com/mvalderrama/pixelmart-backend/pkg/enums"
	pkgerrors "github.com/mvalderrama/pixelmart-backend/pkg/errors"
)

type stubImageRepo struct {
	created   *models.Image
	deleteID  uuid.UUID
	createErr error
	byStatus  []models.Image
	byOwner   []models.Image
}

func (s *stubImageRepo) Create(_ context.Context, image *models.Image) (*models.Image, error) {
	if s.createErr != nil {
		return nil, s.createErr
	}
	s.created = image
	return image, nil
}

func (s *stubImageRepo) Delete(_ context.Context, id uuid.UUID) error {
	s.deleteID = id
	return nil
}

func (s *stubImageRepo) ListByStatus(_ context.Context, _ enums.ApprovalStatus) ([]models.Image, error) {
	return s.byStatus, nil
}

func (s *stubImageRepo) ListByOwner(_ context.Context, _ uuid.UUID) ([]models.Image, error) {
	return s.byOwner, nil
}

type stubSigner struct {
	url        string
	err        error
	lastBucket string
	lastObject string
	lastMime   string
}

func (s *stubSigner) SignedURL(bucket, object, contentType string, _ time.Duration) (string, error) {
	s.lastBucket = bucket
	s.lastObject = object
	s.lastMime = contentType
	if s.err != nil {
		return "", s.err
	}
	return s.url, nil
}

func newCatalogService(t *testing.T, repo *stubImageRepo, signer *stubSigner) Service {
	t.Helper()
	svc, err := NewService(ServiceParams{
		Repo:            repo,
		Signer:          signer,
		Bucket:          "pixelmart-media",
		UploadTTL:       15 * time.Minute,
		ProtectedPrefix: "protected-images",
		Media:           config.MediaConfig{MaxUploadMB: 20},
	})
	if err != nil {
		t.Fatalf("NewService: %v", err)
	}
	return svc
}

func TestPresignUploadSuccess(t *testing.T) {
	t.Parallel()

	repo := &stubImageRepo{}
	signer := &stubSigner{url: "https://signed.example/put"}
	svc := newCatalogService(t, repo, signer)

	userID := uuid.New()
	res, err := svc.PresignUpload(context.Background(), userID, PresignRequest{
		FileName:  "Sunset Dunes.png",
		MimeType:  "image/png",
		SizeBytes: 1024,
		Tags:      []string{"landscape"},
	})
	if err != nil {
		t.Fatalf("PresignUpload: %v", err)
	}

	if res.Name != "Sunset-Dunes.png" {
		t.Errorf("name %q, want sanitized file name", res.Name)
	}
	if res.GCSKey != "protected-images/Sunset-Dunes.png" {
		t.Errorf("gcs key %q lacks protected prefix", res.GCSKey)
	}
	if res.SignedPUTURL != signer.url {
		t.Errorf("signed url %q", res.SignedPUTURL)
	}
	if signer.lastBucket != "pixelmart-media" || signer.lastObject != res.GCSKey || signer.lastMime != "image/png" {
		t.Errorf("signer called with %q %q %q", signer.lastBucket, signer.lastObject, signer.lastMime)
	}
	if repo.created == nil {
		t.Fatal("image row not persisted")
	}
	if repo.created.Status != enums.ApprovalStatusPending {
		t.Errorf("status %q, want pending", repo.created.Status)
	}
	if repo.created.OwnerID != userID {
		t.Errorf("owner %s, want %s", repo.created.OwnerID, userID)
	}
}

func TestPresignUploadValidation(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, &stubImageRepo{}, &stubSigner{url: "https://signed.example"})

	cases := []struct {
		name string
		user uuid.UUID
		req  PresignRequest
		code pkgerrors.Code
	}{
		{"missing user", uuid.Nil, PresignRequest{FileName: "a.png", MimeType: "image/png", SizeBytes: 1}, pkgerrors.CodeUnauthorized},
		{"empty file name", uuid.New(), PresignRequest{FileName: "   ", MimeType: "image/png", SizeBytes: 1}, pkgerrors.CodeValidation},
		{"traversal file name", uuid.New(), PresignRequest{FileName: "..", MimeType: "image/png", SizeBytes: 1}, pkgerrors.CodeValidation},
		{"zero size", uuid.New(), PresignRequest{FileName: "a.png", MimeType: "image/png", SizeBytes: 0}, pkgerrors.CodeValidation},
		{"oversize", uuid.New(), PresignRequest{FileName: "a.png", MimeType: "image/png", SizeBytes: 21 * 1024 * 1024}, pkgerrors.CodeValidation},
		{"bad mime", uuid.New(), PresignRequest{FileName: "a.pdf", MimeType: "application/pdf", SizeBytes: 1}, pkgerrors.CodeValidation},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.PresignUpload(context.Background(), tc.user, tc.req)
			typed := pkgerrors.As(err)
			if typed == nil || typed.Code() != tc.code {
				t.Fatalf("expected %s, got %v", tc.code, err)
			}
		})
	}
}

func TestPresignUploadDuplicateName(t *testing.T) {
	t.Parallel()

	repo := &stubImageRepo{createErr: errors.New(`duplicate key value violates unique constraint "idx_images_name"`)}
	svc := newCatalogService(t, repo, &stubSigner{url: "https://signed.example"})

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignRequest{
		FileName: "dup.png", MimeType: "image/png", SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeConflict {
		t.Fatalf("expected conflict, got %v", err)
	}
}

func TestPresignUploadSignFailureRollsBack(t *testing.T) {
	t.Parallel()

	repo := &stubImageRepo{}
	signer := &stubSigner{err: errors.New("signing key unavailable")}
	svc := newCatalogService(t, repo, signer)

	_, err := svc.PresignUpload(context.Background(), uuid.New(), PresignRequest{
		FileName: "a.png", MimeType: "image/png", SizeBytes: 10,
	})
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeDependency {
		t.Fatalf("expected dependency error, got %v", err)
	}
	if repo.created == nil || repo.deleteID != repo.created.ID {
		t.Error("pending row was not deleted after signing failure")
	}
}

func TestListApprovedProjectsDTOs(t *testing.T) {
	t.Parallel()

	img := models.Image{
		ID:        uuid.New(),
		Name:      "dunes.png",
		GCSKey:    "protected-images/dunes.png",
		Status:    enums.ApprovalStatusApproved,
		MimeType:  "image/png",
		SizeBytes: 2048,
	}
	repo := &stubImageRepo{byStatus: []models.Image{img}}
	svc := newCatalogService(t, repo, &stubSigner{url: "u"})

	out, err := svc.ListApproved(context.Background())
	if err != nil {
		t.Fatalf("ListApproved: %v", err)
	}
	if len(out) != 1 || out[0].Name != img.Name || out[0].Status != enums.ApprovalStatusApproved {
		t.Fatalf("unexpected projection: %+v", out)
	}
}

func TestListMineRequiresUser(t *testing.T) {
	t.Parallel()

	svc := newCatalogService(t, &stubImageRepo{}, &stubSigner{url: "u"})
	_, err := svc.ListMine(context.Background(), uuid.Nil)
	typed := pkgerrors.As(err)
	if typed == nil || typed.Code() != pkgerrors.CodeUnauthorized {
		t.Fatalf("expected unauthorized, got %v", err)
	}
}

func TestSanitizeImageName(t *testing.T) {
	t.Parallel()

	cases := map[string]string{
		"photo.png":            "photo.png",
		"  spaced name.jpg  ":  "spaced-name.jpg",
		"../../etc/passwd":     "passwd",
		"..":                   "",
		"...":                  "",
		"weird\x00byte.png":    "weirdbyte.png",
		"nested/dir/final.png": "final.png",
	}
	for in, want := range cases {
		if got := sanitizeImageName(in); got != want {
			t.Errorf("sanitizeImageName(%q) = %q, want %q", in, got, want)
		}
	}
	if strings.Contains(sanitizeImageName("a/../b.png"), "..") {
		t.Error("sanitized name must not contain traversal")
	}
}
