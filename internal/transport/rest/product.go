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

// ProductHandler serves the /api/products routes.
type ProductHandler struct {
	service  service.ProductService
	validate *validator.Validate
	logger   *slog.Logger
}

// NewProductHandler creates a new ProductHandler with the provided service.
func NewProductHandler(service service.ProductService, logger *slog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validator.New(),
		logger:   logger.With("component", "rest"),
	}
}

// RegisterRoutes registers the HTTP routes for products.
func (h *ProductHandler) RegisterRoutes(r *chi.Mux) {
	r.Route("/api/products", func(r chi.Router) {
		r.Get("/", h.FindAll)
		r.Post("/", h.Create)

		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", h.FindByID)
			r.Put("/", h.Update)
			r.Delete("/", h.DeleteByID)
		})
	})
}

// FindAll retrieves all products, optionally filtered by category via
// the category_id query parameter.
func (h *ProductHandler) FindAll(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	categoryID, ok := web.ParseOptionalQueryInt64(r, w, mLogger, "category_id")
	if !ok {
		return
	}

	var list []service.ProductDto
	var err error
	if categoryID != nil {
		list, err = h.service.FindByCategory(r.Context(), *categoryID)
	} else {
		list, err = h.service.FindAll(r.Context())
	}
	if err != nil {
		if apperrors.IsNotFound(err) {
			mLogger.WarnContext(r.Context(), "Category not found for product filter", "category_id", *categoryID)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Category with ID %d not found", *categoryID))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product list", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to fetch products")
		return
	}
	mLogger.DebugContext(r.Context(), "Successfully retrieved product list", "count", len(list))
	web.RespondJSON(w, mLogger, http.StatusOK, list)
}

// FindByID retrieves a product by its ID.
func (h *ProductHandler) FindByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	found, err := h.service.FindByID(r.Context(), id)
	if err != nil {
		if apperrors.IsNotFound(err) {
			mLogger.WarnContext(r.Context(), "Product not found", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error retrieving product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to retrieve product with ID %d", id))
		return
	}
	web.RespondJSON(w, mLogger, http.StatusOK, found)
}

// Create handles the creation of a new product. A missing category
// surfaces as 400 here: on the create path the not-found is a
// referential-integrity failure of the input, not of the product.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	var createDto service.ProductCreateDto
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
		if apperrors.IsDomain(err) {
			mLogger.WarnContext(r.Context(), "Product rejected", "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, domainMessage(err))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error creating product", "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, "Failed to create product")
		return
	}
	mLogger.InfoContext(r.Context(), "Product created successfully", "ID", created.ID, "Name", created.Name)
	web.RespondJSON(w, mLogger, http.StatusCreated, created)
}

// Update applies a partial update to a product. Domain failures on the
// update path all map to 400, matching the call-site error mapping.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}
	var updateDto service.ProductUpdateDto
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
			mLogger.WarnContext(r.Context(), "Product update rejected", "ID", id, "error", err)
			web.RespondError(w, mLogger, http.StatusBadRequest, domainMessage(err))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error updating product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to update product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product updated successfully", "ID", updated.ID, "Name", updated.Name)
	web.RespondJSON(w, mLogger, http.StatusOK, updated)
}

// DeleteByID deletes a product by its ID.
func (h *ProductHandler) DeleteByID(w http.ResponseWriter, r *http.Request) {
	mLogger := loggerWithReqID(h.logger, r)
	id, ok := web.ParseID(w, r, mLogger)
	if !ok {
		return
	}

	if err := h.service.DeleteByID(r.Context(), id); err != nil {
		if apperrors.IsNotFound(err) {
			mLogger.WarnContext(r.Context(), "Product not found for deletion", "ID", id)
			web.RespondError(w, mLogger, http.StatusNotFound, fmt.Sprintf("Product with ID %d not found", id))
			return
		}
		mLogger.ErrorContext(r.Context(), "Error deleting product", "ID", id, "error", err)
		web.RespondError(w, mLogger, http.StatusInternalServerError, fmt.Sprintf("Failed to delete product with ID %d", id))
		return
	}
	mLogger.InfoContext(r.Context(), "Product deleted successfully", "ID", id)
	web.RespondMessage(w, mLogger, http.StatusOK, "Product deleted successfully")
}
