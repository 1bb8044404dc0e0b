// Package rest provides the HTTP handlers for the inventory API.
package rest

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/go-playground/validator/v10"
	apperrors "github.com/rgavidia/go-inventory/internal/errors"
	"github.com/rgavidia/go-inventory/pkg/web"
)

// domainSentinels lists every domain error whose message may be surfaced
// to API clients.
var domainSentinels = []error{
	apperrors.ErrCategoryNotFound,
	apperrors.ErrCategoryNameRequired,
	apperrors.ErrCategoryNameTaken,
	apperrors.ErrCategoryHasProducts,
	apperrors.ErrProductNotFound,
	apperrors.ErrProductNameRequired,
	apperrors.ErrProductNameEmpty,
	apperrors.ErrProductPriceRequired,
	apperrors.ErrProductPriceNotNumeric,
	apperrors.ErrProductPriceNegative,
	apperrors.ErrProductStockRequired,
	apperrors.ErrProductStockNotInteger,
	apperrors.ErrProductStockNegative,
	apperrors.ErrProductCategoryRequired,
}

// domainMessage strips layer-wrapping from a domain error, returning the
// sentinel's own message for the response body.
func domainMessage(err error) string {
	for _, sentinel := range domainSentinels {
		if errors.Is(err, sentinel) {
			return sentinel.Error()
		}
	}
	return err.Error()
}

// respondValidationErrors maps validator field errors into a 400 response.
func respondValidationErrors(w http.ResponseWriter, logger *slog.Logger, err error) bool {
	var validationErrors validator.ValidationErrors
	if !errors.As(err, &validationErrors) {
		return false
	}
	errorResponse := make(map[string]string)
	for _, fieldErr := range validationErrors {
		errorResponse[fieldErr.Field()] = "failed on rule: " + fieldErr.Tag()
	}
	logger.Warn("Validation errors occurred", "errors", errorResponse)
	web.RespondJSON(w, logger, http.StatusBadRequest, map[string]any{"validation_errors": errorResponse})
	return true
}

// loggerWithReqID returns the handler logger bound to the request ID.
func loggerWithReqID(logger *slog.Logger, r *http.Request) *slog.Logger {
	reqID, _ := web.GetRequestID(r.Context())
	return logger.With("request_id", reqID)
}
