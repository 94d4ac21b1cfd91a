package document

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/hex"
	"io"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/abz-group/portal-api/internal/access"
	"github.com/abz-group/portal-api/internal/domain"
)

type mockDocumentStore struct{ mock.Mock }

func (m *mockDocumentStore) Put(ctx context.Context, d *domain.Document) error {
	args := m.Called(ctx, d)
	return args.Error(0)
}

func (m *mockDocumentStore) Get(ctx context.Context, documentID string) (*domain.Document, error) {
	args := m.Called(ctx, documentID)
	if d := args.Get(0); d != nil {
		return d.(*domain.Document), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockDocumentStore) Scan(ctx context.Context) ([]domain.Document, error) {
	args := m.Called(ctx)
	return args.Get(0).([]domain.Document), args.Error(1)
}

func (m *mockDocumentStore) SoftDelete(ctx context.Context, documentID string) error {
	args := m.Called(ctx, documentID)
	return args.Error(0)
}

type mockObjectStore struct{ mock.Mock }

func (m *mockObjectStore) Upload(ctx context.Context, key string, r io.Reader, contentType string) (string, error) {
	args := m.Called(ctx, key, r, contentType)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) PresignedURL(ctx context.Context, key string, ttl time.Duration) (string, error) {
	args := m.Called(ctx, key, ttl)
	return args.String(0), args.Error(1)
}

func (m *mockObjectStore) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func TestUpload_RecordsSizeAndHash(t *testing.T) {
	payload := []byte("politica de ferias 2026")
	repo := new(mockDocumentStore)
	var stored *domain.Document
	repo.On("Put", mock.Anything, mock.AnythingOfType("*domain.Document")).Run(func(args mock.Arguments) {
		stored = args.Get(1).(*domain.Document)
	}).Return(nil)
	objects := new(mockObjectStore)
	objects.On("Upload", mock.Anything, mock.AnythingOfType("string"), mock.Anything, "application/pdf").Return("s3://bucket/key", nil)

	svc := NewService(repo, objects)
	d, err := svc.Upload(context.Background(), "a1", UploadRequest{
		Title:       "Política de Férias",
		Category:    domain.DocumentCategoryPolicy,
		ContentType: "application/pdf",
	}, bytes.NewReader(payload))
	require.NoError(t, err)

	sum := sha256.Sum256(payload)
	assert.Equal(t, int64(len(payload)), d.Size)
	assert.Equal(t, hex.EncodeToString(sum[:]), d.Hash)
	assert.Equal(t, "a1", stored.PublishedBy)
	assert.True(t, stored.Enable)
	assert.Equal(t, "documents/"+d.DocumentID, d.Object)
}

func TestUpload_RejectsUnknownCategory(t *testing.T) {
	svc := NewService(new(mockDocumentStore), new(mockObjectStore))
	_, err := svc.Upload(context.Background(), "a1", UploadRequest{
		Title:    "X",
		Category: "memo",
	}, bytes.NewReader([]byte("x")))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestUpload_RejectsEmptyBody(t *testing.T) {
	svc := NewService(new(mockDocumentStore), new(mockObjectStore))
	_, err := svc.Upload(context.Background(), "a1", UploadRequest{
		Title:    "X",
		Category: domain.DocumentCategoryForm,
	}, bytes.NewReader(nil))
	assert.ErrorIs(t, err, domain.ErrBadRequest)
}

func TestListVisible_FiltersByPolicy(t *testing.T) {
	repo := new(mockDocumentStore)
	repo.On("Scan", mock.Anything).Return([]domain.Document{
		{DocumentID: "d-public", Enable: true},
		{DocumentID: "d-mgmt", Enable: true, ManagerOnly: true},
	}, nil)

	svc := NewService(repo, new(mockObjectStore))

	docs, err := svc.ListVisible(context.Background(), access.Principal{UserID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)
	require.Len(t, docs, 1)
	assert.Equal(t, "d-public", docs[0].DocumentID)

	docs, err = svc.ListVisible(context.Background(), access.Principal{UserID: "m1", Role: domain.RoleManager})
	require.NoError(t, err)
	assert.Len(t, docs, 2)
}

func TestGet_RestrictedDocumentForbidden(t *testing.T) {
	repo := new(mockDocumentStore)
	repo.On("Get", mock.Anything, "d1").Return(&domain.Document{DocumentID: "d1", Enable: true, AdminOnly: true}, nil)

	svc := NewService(repo, new(mockObjectStore))
	_, err := svc.Get(context.Background(), "d1", access.Principal{UserID: "u1", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrForbidden)
}

func TestGet_DisabledDocumentNotFound(t *testing.T) {
	repo := new(mockDocumentStore)
	repo.On("Get", mock.Anything, "d1").Return(&domain.Document{DocumentID: "d1", Enable: false}, nil)

	svc := NewService(repo, new(mockObjectStore))
	_, err := svc.Get(context.Background(), "d1", access.Principal{UserID: "u1", Role: domain.RoleUser})
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestDownloadURL_PresignsAfterVisibilityCheck(t *testing.T) {
	repo := new(mockDocumentStore)
	repo.On("Get", mock.Anything, "d1").Return(&domain.Document{DocumentID: "d1", Object: "documents/d1", Enable: true}, nil)
	objects := new(mockObjectStore)
	objects.On("PresignedURL", mock.Anything, "documents/d1", presignTTL).Return("https://s3/presigned", nil)

	svc := NewService(repo, objects)
	url, err := svc.DownloadURL(context.Background(), "d1", access.Principal{UserID: "u1", Role: domain.RoleUser})
	require.NoError(t, err)
	assert.Equal(t, "https://s3/presigned", url)
}

func TestDelete_RemovesMetadataAndObject(t *testing.T) {
	repo := new(mockDocumentStore)
	repo.On("Get", mock.Anything, "d1").Return(&domain.Document{DocumentID: "d1", Object: "documents/d1", Enable: true}, nil)
	repo.On("SoftDelete", mock.Anything, "d1").Return(nil)
	objects := new(mockObjectStore)
	objects.On("Delete", mock.Anything, "documents/d1").Return(nil)

	svc := NewService(repo, objects)
	require.NoError(t, svc.Delete(context.Background(), "d1"))
	repo.AssertExpectations(t)
	objects.AssertExpectations(t)
}
