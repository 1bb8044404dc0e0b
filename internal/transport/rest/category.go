package rest

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-playground/validator/v10"
	apperrors "github.com/rgavidia/go-inventory/internal/errors"
	"github.com/rgavidia/go-inventory/internal/service"
	"github.com/rgavidia/go-inventory/pkg/web"
)

// CategoryHandler serves the /api/categories routes.
type CategoryHandler struct {
	service  service.CategoryService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewCategoryHandler creates a new CategoryHandler with the provided service.
func NewCategoryHandler(service service.CategoryService, logger *slog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for categories.
func (h *CategoryHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/categories", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})
}

// FindAll retrieves a list of all categories.
func (h *CategoryHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	list, err := h.service.FindAll(r.Context())
	if err != nil {
		mLogger.ErrorContext(r.Context(), "Error retrieving category list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch categories")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved category list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a category by its ID.
func (h *CategoryHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			mLogger.WarnContext(r.Context(), "Category not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Category with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving category", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve category with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new category.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	var createDto service.CategoryCreateDto
	if err := json.NewDecoder(r.Body).Decode(&createDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(createDto); err != nil {
		if respondValidationErrors(w, mLogger, err) {
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	created, err := h.service.Create(r.Context(), createDto)
	if err != nil {
		if apperrors.IsValidation(err) || apperrors.IsConflict(err) {
			mLogger.WarnContext(r.Context(), "Category rejected", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, domainMessage(err))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating category", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create category")
		return
	}
	mLogger.InfoContext(r.Context(), "Category created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update renames a category. Domain failures on the update path all map
// to 400, matching the call-site error mapping of the API.
func (h *CategoryHandler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var updateDto service.CategoryUpdateDto
	if err := json.NewDecoder(r.Body).Decode(&updateDto); err != nil {
		mLogger.ErrorContext(r.Context(), "Error decoding request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}
	if err := h.validate.Struct(updateDto); err != nil {
		if respondValidationErrors(w, mLogger, err) {
			return
		}
		mLogger.ErrorContext(r.Context(), "Error validating request body", "error", err)
		web.RespondError(w, mLogger, http.StatusBadRequest, "Invalid request body")
		return
	}

	updated, err := h.service.Update(r.Context(), id, updateDto)
	if err != nil {
		if apperrors.IsDomain(err) {
			mLogger.WarnContext(r.Context(), "Category update rejected", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, domainMessage(err))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating category", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update category with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Category updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a category without associated products.
func (h *CategoryHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if apperrors.IsDomain(err) {
			mLogger.WarnContext(r.Context(), "Category delete rejected", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, domainMessage(err))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting category", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete category with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Category deleted successfully", "ID", id)
	web.RespondMessage(w, mLogger, http.StatusOK, "Category deleted successfully")
}
