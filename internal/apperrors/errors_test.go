package apperrors_test

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"scholarsync/internal/apperrors"

	"github.com/stretchr/testify/assert"
)

func TestStatusCode(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want int
	}{
		{"validation", apperrors.NewValidationError("bad input", nil), http.StatusBadRequest},
		{"conflict", apperrors.NewConflictError("taken"), http.StatusBadRequest},
		{"not found", apperrors.NewNotFoundError("missing"), http.StatusNotFound},
		{"authentication", apperrors.NewAuthenticationError("wrong password"), http.StatusUnauthorized},
		{"unauthenticated", apperrors.NewUnauthenticatedError("no session"), http.StatusUnauthorized},
		{"forbidden", apperrors.NewForbiddenError("nope"), http.StatusForbidden},
		{"override", apperrors.NewNotFoundError("user gone").WithStatus(http.StatusBadRequest), http.StatusBadRequest},
		{"wrapped", fmt.Errorf("lookup: %w", apperrors.NewNotFoundError("missing")), http.StatusNotFound},
		{"internal", errors.New("driver exploded"), http.StatusInternalServerError},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, apperrors.StatusCode(tc.err))
		})
	}
}

func TestCustomErrorUnwrapAndFields(t *testing.T) {
	err := apperrors.NewValidationError("Validation failed", map[string]string{"grade": "grade is required"})

	assert.True(t, errors.Is(err, apperrors.ErrValidation))
	assert.False(t, errors.Is(err, apperrors.ErrConflict))
	assert.Equal(t, "Validation failed", err.Error())
	assert.Equal(t, "grade is required", apperrors.FieldErrors(err)["grade"])
	assert.True(t, apperrors.IsKnown(err))
	assert.False(t, apperrors.IsKnown(errors.New("boom")))
	assert.Nil(t, apperrors.FieldErrors(errors.New("boom")))
}
