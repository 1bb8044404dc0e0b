package rest

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/rgavidia/go-inventory/internal/errors"
	"github.com/rgavidia/go-inventory/internal/service"
	"github.com/rgavidia/go-inventory/pkg/server"
)

// stubCategoryService is a stub implementation of service.CategoryService
type stubCategoryService struct {
	list     []service.CategoryDto
	category service.CategoryDto
	error    error
}

func (s *stubCategoryService) FindAll(_ context.Context) ([]service.CategoryDto, error) {
	return s.list, s.error
}

func (s *stubCategoryService) FindByID(_ context.Context, _ int64) (*service.CategoryDto, error) {
	return &s.category, s.error
}

func (s *stubCategoryService) Create(_ context.Context, _ service.CategoryCreateDto) (*service.CategoryDto, error) {
	return &s.category, s.error
}

func (s *stubCategoryService) Update(_ context.Context, _ int64, _ service.CategoryUpdateDto) (*service.CategoryDto, error) {
	return &s.category, s.error
}

func (s *stubCategoryService) DeleteByID(_ context.Context, _ int64) error {
	return s.error
}

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func newCategoryRouter(svc service.CategoryService) *chi.Mux {
	logger := testLogger()
	router := server.NewChiRouter(logger)
	NewCategoryHandler(svc, logger).RegisterRoutes(router)
	return router
}

func doRequest(t *testing.T, router *chi.Mux, method, target, body string) *httptest.ResponseRecorder {
	t.Helper()
	var reader io.Reader
	if body != "" {
		reader = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, reader)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)
	return rec
}

func decodeBody(t *testing.T, rec *httptest.ResponseRecorder) map[string]any {
	t.Helper()
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return body
}

func Test_CategoryHandler_FindAll(t *testing.T) {
	testCases := []struct {
		name           string
		service        *stubCategoryService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success - 200 with list",
			service:        &stubCategoryService{list: []service.CategoryDto{{ID: 1, Name: "Books", ProductCount: 2}}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - 500 on service failure",
			service:        &stubCategoryService{error: errors.New("boom")},
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to fetch categories",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newCategoryRouter(tc.service)
			// when
			rec := doRequest(t, router, http.MethodGet, "/api/categories", "")
			// then
			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody(t, rec)["error"])
				return
			}
			var list []service.CategoryDto
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &list))
			assert.Equal(t, tc.service.list, list)
		})
	}
}

func Test_CategoryHandler_FindByID(t *testing.T) {
	testCases := []struct {
		name           string
		target         string
		service        *stubCategoryService
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success - 200 with category",
			target:         "/api/categories/7",
			service:        &stubCategoryService{category: service.CategoryDto{ID: 7, Name: "Books"}},
			expectedStatus: http.StatusOK,
		},
		{
			name:           "Error - 404 when not found",
			target:         "/api/categories/7",
			service:        &stubCategoryService{error: apperrors.ErrCategoryNotFound},
			expectedStatus: http.StatusNotFound,
			expectedError:  "Category with ID 7 not found",
		},
		{
			name:           "Error - 400 on malformed ID",
			target:         "/api/categories/abc",
			service:        &stubCategoryService{},
			expectedStatus: http.StatusBadRequest,
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newCategoryRouter(tc.service)
			// when
			rec := doRequest(t, router, http.MethodGet, tc.target, "")
			// then
			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody(t, rec)["error"])
			}
		})
	}
}

func Test_CategoryHandler_Create(t *testing.T) {
	testCases := []struct {
		name           string
		service        *stubCategoryService
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success - 201 with created category",
			service:        &stubCategoryService{category: service.CategoryDto{ID: 1, Name: "Books"}},
			body:           `{"name": "Books"}`,
			expectedStatus: http.StatusCreated,
		},
		{
			name:           "Error - 400 on duplicate name",
			service:        &stubCategoryService{error: apperrors.ErrCategoryNameTaken},
			body:           `{"name": "Books"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  apperrors.ErrCategoryNameTaken.Error(),
		},
		{
			name:           "Error - 400 on empty name",
			service:        &stubCategoryService{error: apperrors.ErrCategoryNameRequired},
			body:           `{"name": "   "}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  apperrors.ErrCategoryNameRequired.Error(),
		},
		{
			name:           "Error - 400 on malformed body",
			service:        &stubCategoryService{},
			body:           `{"name": `,
			expectedStatus: http.StatusBadRequest,
			expectedError:  "Invalid request body",
		},
		{
			name:           "Error - 500 on service failure",
			service:        &stubCategoryService{error: errors.New("boom")},
			body:           `{"name": "Books"}`,
			expectedStatus: http.StatusInternalServerError,
			expectedError:  "Failed to create category",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newCategoryRouter(tc.service)
			// when
			rec := doRequest(t, router, http.MethodPost, "/api/categories", tc.body)
			// then
			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody(t, rec)["error"])
			}
		})
	}
}

func Test_CategoryHandler_Update(t *testing.T) {
	testCases := []struct {
		name           string
		service        *stubCategoryService
		body           string
		expectedStatus int
		expectedError  string
	}{
		{
			name:           "Success - 200 with updated category",
			service:        &stubCategoryService{category: service.CategoryDto{ID: 7, Name: "Gadgets"}},
			body:           `{"name": "Gadgets"}`,
			expectedStatus: http.StatusOK,
		},
		{
			// the update path maps every domain failure to 400,
			// including an unknown category
			name:           "Error - 400 when category not found",
			service:        &stubCategoryService{error: apperrors.ErrCategoryNotFound},
			body:           `{"name": "Gadgets"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  apperrors.ErrCategoryNotFound.Error(),
		},
		{
			name:           "Error - 400 on duplicate name",
			service:        &stubCategoryService{error: apperrors.ErrCategoryNameTaken},
			body:           `{"name": "Gadgets"}`,
			expectedStatus: http.StatusBadRequest,
			expectedError:  apperrors.ErrCategoryNameTaken.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newCategoryRouter(tc.service)
			// when
			rec := doRequest(t, router, http.MethodPut, "/api/categories/7", tc.body)
			// then
			assert.Equal(t, tc.expectedStatus, rec.Code)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, decodeBody(t, rec)["error"])
			}
		})
	}
}

func Test_CategoryHandler_DeleteByID(t *testing.T) {
	testCases := []struct {
		name            string
		service         *stubCategoryService
		expectedStatus  int
		expectedError   string
		expectedMessage string
	}{
		{
			name:            "Success - 200 with confirmation message",
			service:         &stubCategoryService{},
			expectedStatus:  http.StatusOK,
			expectedMessage: "Category deleted successfully",
		},
		{
			name:           "Error - 400 when category still has products",
			service:        &stubCategoryService{error: apperrors.ErrCategoryHasProducts},
			expectedStatus: http.StatusBadRequest,
			expectedError:  apperrors.ErrCategoryHasProducts.Error(),
		},
		{
			// the delete path maps not-found to 400 as well
			name:           "Error - 400 when category not found",
			service:        &stubCategoryService{error: apperrors.ErrCategoryNotFound},
			expectedStatus: http.StatusBadRequest,
			expectedError:  apperrors.ErrCategoryNotFound.Error(),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			// given
			router := newCategoryRouter(tc.service)
			// when
			rec := doRequest(t, router, http.MethodDelete, "/api/categories/7", "")
			// then
			assert.Equal(t, tc.expectedStatus, rec.Code)
			body := decodeBody(t, rec)
			if tc.expectedError != "" {
				assert.Equal(t, tc.expectedError, body["error"])
				return
			}
			assert.Equal(t, tc.expectedMessage, body["message"])
		})
	}
}

func Test_HealthHandler(t *testing.T) {
	// given
	logger := testLogger()
	router := server.NewChiRouter(logger)
	NewHealthHandler(logger).RegisterRoutes(router)

	t.Run("health endpoint reports healthy", func(t *testing.T) {
		// when
		rec := doRequest(t, router, http.MethodGet, "/health", "")
		// then
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Equal(t, "healthy", decodeBody(t, rec)["status"])
	})

	t.Run("index lists the API endpoints", func(t *testing.T) {
		// when
		rec := doRequest(t, router, http.MethodGet, "/", "")
		// then
		assert.Equal(t, http.StatusOK, rec.Code)
		body := decodeBody(t, rec)
		assert.Equal(t, "Inventory Management API", body["message"])
		endpoints, ok := body["endpoints"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, "/api/categories", endpoints["categories"])
		assert.Equal(t, "/api/products", endpoints["products"])
	})
}
