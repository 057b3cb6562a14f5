package handler

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/osse101/posrelay/internal/catalog"
	"github.com/osse101/posrelay/internal/domain"
)

func TestMapServiceErrorToUserMessage(t *testing.T) {
	tests := []struct {
		err    error
		status int
		msg    string
	}{
		{&catalog.VersionConflictError{Expected: 1, Current: 2}, http.StatusConflict, ErrMsgVersionConflictError},
		{fmt.Errorf("save: %w", domain.ErrInvalidCatalog), http.StatusBadRequest, ErrMsgInvalidCatalogError},
		{domain.ErrInvalidTicket, http.StatusBadRequest, ErrMsgInvalidTicketError},
		{domain.ErrStoreNotFound, http.StatusNotFound, ErrMsgStoreNotFoundError},
		{domain.ErrInvalidCustomer, http.StatusBadRequest, ErrMsgInvalidCustomerError},
		{domain.ErrPasswordRequired, http.StatusBadRequest, ErrMsgPasswordRequired},
		{domain.ErrInvalidCredentials, http.StatusUnauthorized, ErrMsgWrongPassword},
		{domain.ErrTokenExpired, http.StatusUnauthorized, ErrMsgTokenExpiredError},
		{domain.ErrForbidden, http.StatusForbidden, ErrMsgForbiddenError},
		{domain.ErrDatabaseError, http.StatusInternalServerError, ErrMsgGenericServerError},
		{errors.New("disk on fire"), http.StatusInternalServerError, ErrMsgGenericServerError},
	}

	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			status, msg := mapServiceErrorToUserMessage(tt.err)
			assert.Equal(t, tt.status, status)
			assert.Equal(t, tt.msg, msg)
		})
	}
}

func TestFormatValidationError_NonValidatorError(t *testing.T) {
	fields := FormatValidationError(errors.New("x"))
	assert.Equal(t, "Invalid request format", fields["error"])
	assert.Nil(t, FormatValidationError(nil))
}

func TestValidateStoreID(t *testing.T) {
	InitValidator()
	type req struct {
		StoreID string `validate:"storeid"`
	}
	for id, ok := range map[string]bool{"": true, "main": true, "store_2-b": true, "a b": false, "a/b": false, "ñ": false} {
		err := GetValidator().ValidateStruct(req{StoreID: id})
		assert.Equal(t, ok, err == nil, "store id %q", id)
	}
}
