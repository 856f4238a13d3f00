package errors

import (
	"fmt"
	"net/http"
	"testing"

	"storefront/domain/catalog"
	"storefront/domain/order"
	"storefront/domain/shared"

	"github.com/stretchr/testify/assert"
)

func TestFromDomainError(t *testing.T) {
	tests := []struct {
		name   string
		err    error
		code   ErrorCode
		status int
		field  string
	}{
		{"order not found", order.NewOrderNotFoundError("ABCD1234"), CodeOrderNotFound, http.StatusNotFound, "code"},
		{"product not found", catalog.NewProductNotFoundError("p-9"), CodeProductNotFound, http.StatusNotFound, "product_id"},
		{"empty items", order.NewEmptyOrderItemsError(), CodeValidation, http.StatusBadRequest, "items"},
		{"bad quantity", order.NewInvalidQuantityError(1, 0), CodeValidation, http.StatusBadRequest, "items[1].quantity"},
		{"transition", order.NewInvalidTransitionError(order.StatusCompleted, order.StatusPending), CodeInvalidTransition, http.StatusBadRequest, "status"},
		{"forbidden", order.NewUpdateForbiddenError(), CodeForbidden, http.StatusForbidden, ""},
		{"unauthorized", shared.NewUnauthorizedError("missing token"), CodeUnauthorized, http.StatusUnauthorized, ""},
		{"conflict", order.NewConcurrentModificationError("o1"), CodeConflict, http.StatusConflict, ""},
		{"wrapped validation", fmt.Errorf("create: %w", shared.NewValidationError("order", "items", "bad")), CodeValidation, http.StatusBadRequest, "items"},
		{"unknown", fmt.Errorf("dial tcp: refused"), CodeInternal, http.StatusInternalServerError, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			appErr := FromDomainError(tt.err)
			assert.Equal(t, tt.code, appErr.Code)
			assert.Equal(t, tt.status, appErr.HTTPStatusCode())
			assert.Equal(t, tt.field, appErr.Field)
			assert.ErrorIs(t, appErr, tt.err)
		})
	}
}

func TestFromDomainErrorHidesInternalMessage(t *testing.T) {
	appErr := FromDomainError(fmt.Errorf("password=secret"))
	assert.Equal(t, "internal server error", appErr.Message)
}

func TestFromDomainErrorPassesAppErrorThrough(t *testing.T) {
	orig := Forbidden("nope")
	assert.Same(t, orig, FromDomainError(fmt.Errorf("wrapped: %w", orig)))
	assert.Nil(t, FromDomainError(nil))
}

func TestConstructorStatusCodes(t *testing.T) {
	tests := []struct {
		err    *AppError
		code   ErrorCode
		status int
	}{
		{NotFound("x"), CodeNotFound, http.StatusNotFound},
		{Internal("x"), CodeInternal, http.StatusInternalServerError},
		{Unauthorized("x"), CodeUnauthorized, http.StatusUnauthorized},
		{Forbidden("x"), CodeForbidden, http.StatusForbidden},
		{TooManyRequests("x"), CodeTooManyRequest, http.StatusTooManyRequests},
		{Validation("x"), CodeValidation, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			assert.Equal(t, tt.code, tt.err.Code)
			assert.Equal(t, tt.status, tt.err.HTTPStatusCode())
		})
	}
}
