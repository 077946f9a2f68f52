package handlers

import (
	"context"
	"net/http"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"

	"github.com/picstrata/backend/internal/models"
	"github.com/picstrata/backend/internal/services"
	authmw "github.com/picstrata/backend/libs/auth/middleware"
)

type mockAlbumService struct {
	album     *models.Album
	albums    []models.Album
	fileIDs   []string
	createErr error
	getErr    error
	listErr   error
}

func (m *mockAlbumService) Create(ctx context.Context, libraryID string, req *models.AlbumAdd) (*models.Album, error) {
	if m.createErr != nil {
		return nil, m.createErr
	}
	return m.album, nil
}

func (m *mockAlbumService) Get(ctx context.Context, libraryID, albumID string) (*models.Album, error) {
	if m.getErr != nil {
		return nil, m.getErr
	}
	return m.album, nil
}

func (m *mockAlbumService) List(ctx context.Context, libraryID string) ([]models.Album, error) {
	if m.listErr != nil {
		return nil, m.listErr
	}
	return m.albums, nil
}

func (m *mockAlbumService) Update(ctx context.Context, libraryID, albumID string, req *models.AlbumUpdate) (*models.Album, error) {
	return m.album, nil
}

func (m *mockAlbumService) Delete(ctx context.Context, libraryID, albumID string) error {
	return nil
}

func (m *mockAlbumService) ResolveMembership(ctx context.Context, album *models.Album) ([]string, error) {
	return m.fileIDs, nil
}

func setupAlbumRouter(albumService *mockAlbumService, accessService *mockAccessService) http.Handler {
	logger, _ := zap.NewDevelopment()

	r := chi.NewRouter()
	r.Use(authmw.APIKeyMiddleware(testAPIKey))
	NewAlbumHandler(albumService, accessService, logger).RegisterRoutes(r)

	return r
}

func TestAlbumHandler(t *testing.T) {
	tests := []struct {
		name           string
		method         string
		target         string
		body           string
		service        *mockAlbumService
		authorized     bool
		expectedStatus int
		bodyContains   string
	}{
		{
			name:   "list albums",
			method: http.MethodGet,
			target: "/libraries/lib-1/albums",
			service: &mockAlbumService{
				albums: []models.Album{{LibraryID: "lib-1", AlbumID: "album-1", Name: "Favorites"}},
			},
			authorized:     true,
			expectedStatus: http.StatusOK,
			bodyContains:   `"albumId":"album-1"`,
		},
		{
			name:           "list albums with no results",
			method:         http.MethodGet,
			target:         "/libraries/lib-1/albums",
			service:        &mockAlbumService{},
			authorized:     true,
			expectedStatus: http.StatusOK,
			bodyContains:   `[]`,
		},
		{
			name:   "create album",
			method: http.MethodPost,
			target: "/libraries/lib-1/albums",
			body:   `{"name":"Favorites"}`,
			service: &mockAlbumService{
				album: &models.Album{LibraryID: "lib-1", AlbumID: "album-1", Name: "Favorites"},
			},
			authorized:     true,
			expectedStatus: http.StatusCreated,
			bodyContains:   `"name":"Favorites"`,
		},
		{
			name:           "create album with duplicate name",
			method:         http.MethodPost,
			target:         "/libraries/lib-1/albums",
			body:           `{"name":"Favorites"}`,
			service:        &mockAlbumService{createErr: services.ErrDuplicateName},
			authorized:     true,
			expectedStatus: http.StatusConflict,
		},
		{
			name:           "get missing album",
			method:         http.MethodGet,
			target:         "/libraries/lib-1/albums/missing",
			service:        &mockAlbumService{getErr: services.ErrNotFound},
			authorized:     true,
			expectedStatus: http.StatusNotFound,
		},
		{
			name:   "resolve album membership",
			method: http.MethodGet,
			target: "/libraries/lib-1/albums/album-1/files",
			service: &mockAlbumService{
				album:   &models.Album{LibraryID: "lib-1", AlbumID: "album-1", Name: "Favorites"},
				fileIDs: []string{"f2", "f1"},
			},
			authorized:     true,
			expectedStatus: http.StatusOK,
			bodyContains:   `["f2","f1"]`,
		},
		{
			name:           "insufficient permissions",
			method:         http.MethodGet,
			target:         "/libraries/lib-1/albums",
			service:        &mockAlbumService{},
			authorized:     false,
			expectedStatus: http.StatusForbidden,
			bodyContains:   "insufficient permissions",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			router := setupAlbumRouter(tt.service, &mockAccessService{authorized: tt.authorized})

			rec := doRequest(t, router, tt.method, tt.target, tt.body)

			assert.Equal(t, tt.expectedStatus, rec.Code)
			if tt.bodyContains != "" {
				assert.Contains(t, rec.Body.String(), tt.bodyContains)
			}
		})
	}
}
