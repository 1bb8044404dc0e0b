// Package errors provides the domain errors for categories and products.
package errors

import "errors"

var ErrCategoryNotFound = errors.New("category not found")
var ErrCategoryNameRequired = errors.New("category name is required")
var ErrCategoryNameTaken = errors.New("a category with that name already exists")
var ErrCategoryHasProducts = errors.New("cannot delete a category with associated products")

var ErrProductNotFound = errors.New("product not found")
var ErrProductNameRequired = errors.New("product name is required")
var ErrProductNameEmpty = errors.New("product name cannot be empty")
var ErrProductPriceRequired = errors.New("product price is required")
var ErrProductPriceNotNumeric = errors.New("product price must be a numeric value")
var ErrProductPriceNegative = errors.New("product price must be a non-negative value")
var ErrProductStockRequired = errors.New("product stock is required")
var ErrProductStockNotInteger = errors.New("product stock must be an integer value")
var ErrProductStockNegative = errors.New("product stock must be a non-negative value")
var ErrProductCategoryRequired = errors.New("product category is required")

var validationErrors = []error{
	ErrCategoryNameRequired,
	ErrCategoryHasProducts,
	ErrProductNameRequired,
	ErrProductNameEmpty,
	ErrProductPriceRequired,
	ErrProductPriceNotNumeric,
	ErrProductPriceNegative,
	ErrProductStockRequired,
	ErrProductStockNotInteger,
	ErrProductStockNegative,
	ErrProductCategoryRequired,
}

// IsNotFound reports whether err signals a missing category or product.
func IsNotFound(err error) bool {
	return errors.Is(err, ErrCategoryNotFound) || errors.Is(err, ErrProductNotFound)
}

// IsConflict reports whether err signals a uniqueness violation.
func IsConflict(err error) bool {
	return errors.Is(err, ErrCategoryNameTaken)
}

// IsValidation reports whether err signals input that failed a domain rule.
func IsValidation(err error) bool {
	for _, e := range validationErrors {
		if errors.Is(err, e) {
			return true
		}
	}
	return false
}

// IsDomain reports whether err is any known domain error, as opposed to
// an unexpected storage or infrastructure failure.
func IsDomain(err error) bool {
	return IsNotFound(err) || IsConflict(err) || IsValidation(err)
}
