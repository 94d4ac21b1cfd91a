package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/abz-group/portal-api/internal/access"
	"github.com/abz-group/portal-api/internal/domain"
	"github.com/abz-group/portal-api/internal/pkg/id"
)

// presignTTL bounds how long a download link stays valid.
const presignTTL = 15 * time.Minute

type UploadRequest struct {
	Title          string
	Category       string
	ContentType    string
	AdminOnly      bool
	ManagerOnly    bool
	AllowedRoles   []string
	AllowedUserIDs []string
}

type Service interface {
	Upload(ctx context.Context, publisherID string, req UploadRequest, body io.Reader) (*domain.Document, error)
	ListVisible(ctx context.Context, p access.Principal) ([]domain.Document, error)
	Get(ctx context.Context, documentID string, p access.Principal) (*domain.Document, error)
	DownloadURL(ctx context.Context, documentID string, p access.Principal) (string, error)
	Delete(ctx context.Context, documentID string) error
}

type documentStore interface {
	Put(ctx context.Context, d *domain.Document) error
	Get(ctx context.Context, documentID string) (*domain.Document, error)
	Scan(ctx context.Context) ([]domain.Document, error)
	SoftDelete(ctx context.Context, documentID string) error
}

type objectStore interface {
	Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error)
	PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error)
	Delete(ctx context.Context, key string) error
}

type service struct {
	repo    documentStore
	objects objectStore
}

func NewService(repo documentStore, objects objectStore) Service {
	return &service{repo: repo, objects: objects}
}

func validCategory(c string) bool {
	switch c {
	case domain.DocumentCategoryPolicy, domain.DocumentCategoryNews, domain.DocumentCategoryForm:
		return true
	}
	return false
}

// Upload stores the payload in S3 keyed by a fresh document ID and records the
// metadata. The whole body is read once to compute size and hash before the
// S3 put.
func (s *service) Upload(ctx context.Context, publisherID string, req UploadRequest, body io.Reader) (*domain.Document, error) {
	if req.Title == "" {
		return nil, fmt.Errorf("title is required: %w", domain.ErrBadRequest)
	}
	if !validCategory(req.Category) {
		return nil, fmt.Errorf("unknown category %q: %w", req.Category, domain.ErrBadRequest)
	}
	for _, role := range req.AllowedRoles {
		if !domain.ValidRole(role) {
			return nil, fmt.Errorf("unknown role %q: %w", role, domain.ErrBadRequest)
		}
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return nil, fmt.Errorf("read upload body: %w", err)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("empty upload: %w", domain.ErrBadRequest)
	}
	sum := sha256.Sum256(data)

	docID := id.New()
	key := fmt.Sprintf("documents/%s", docID)
	if _, err := s.objects.Upload(ctx, key, bytes.NewReader(data), req.ContentType); err != nil {
		return nil, err
	}

	now := time.Now().UTC()
	d := &domain.Document{
		DocumentID:     docID,
		Title:          req.Title,
		Category:       req.Category,
		Object:         key,
		ContentType:    req.ContentType,
		Size:           int64(len(data)),
		Hash:           hex.EncodeToString(sum[:]),
		PublishedBy:    publisherID,
		AdminOnly:      req.AdminOnly,
		ManagerOnly:    req.ManagerOnly,
		AllowedRoles:   req.AllowedRoles,
		AllowedUserIDs: req.AllowedUserIDs,
		Enable:         true,
		CreatedAt:      now,
		UpdatedAt:      now,
	}
	if err := s.repo.Put(ctx, d); err != nil {
		// Orphaned objects are cleaned up by a bucket lifecycle rule.
		return nil, err
	}
	return d, nil
}

// ListVisible returns only the documents the principal may see.
func (s *service) ListVisible(ctx context.Context, p access.Principal) ([]domain.Document, error) {
	docs, err := s.repo.Scan(ctx)
	if err != nil {
		return nil, err
	}
	visible := make([]domain.Document, 0, len(docs))
	for _, d := range docs {
		if access.CanAccess(p, resourceOf(&d)) {
			visible = append(visible, d)
		}
	}
	return visible, nil
}

func (s *service) Get(ctx context.Context, documentID string, p access.Principal) (*domain.Document, error) {
	d, err := s.repo.Get(ctx, documentID)
	if err != nil {
		return nil, err
	}
	if !d.Enable {
		return nil, fmt.Errorf("document not found: %w", domain.ErrNotFound)
	}
	if !access.CanAccess(p, resourceOf(d)) {
		return nil, fmt.Errorf("document not visible to user: %w", domain.ErrForbidden)
	}
	return d, nil
}

// DownloadURL returns a presigned S3 link after the visibility check.
func (s *service) DownloadURL(ctx context.Context, documentID string, p access.Principal) (string, error) {
	d, err := s.Get(ctx, documentID, p)
	if err != nil {
		return "", err
	}
	return s.objects.PresignedURL(ctx, d.Object, presignTTL)
}

// Delete disables the metadata record and removes the object from S3.
func (s *service) Delete(ctx context.Context, documentID string) error {
	d, err := s.repo.Get(ctx, documentID)
	if err != nil {
		return err
	}
	if err := s.repo.SoftDelete(ctx, documentID); err != nil {
		return err
	}
	return s.objects.Delete(ctx, d.Object)
}

func resourceOf(d *domain.Document) access.Resource {
	return access.Resource{
		AdminOnly:      d.AdminOnly,
		ManagerOnly:    d.ManagerOnly,
		AllowedRoles:   d.AllowedRoles,
		AllowedUserIDs: d.AllowedUserIDs,
	}
}
