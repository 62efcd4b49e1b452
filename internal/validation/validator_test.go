package validation_test

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	domainerrors "github.com/shelflifeapp/shelflife-server/internal/errors"
	"github.com/shelflifeapp/shelflife-server/internal/validation"
)

type TestRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=1024"`
	Name     string `json:"name" validate:"required"`
}

func TestValidator_ValidateSuccess(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Email:    "test@example.com",
		Password: "password123",
		Name:     "Test User",
	}

	err := v.Validate(req)
	assert.NoError(t, err)
}

func TestValidator_ValidateErrors(t *testing.T) {
	v := validation.New()

	tests := []struct {
		name      string
		req       TestRequest
		wantField string
	}{
		{
			name: "missing required field",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "password123",
				Name:     "", // Missing
			},
			wantField: "name",
		},
		{
			name: "invalid email",
			req: TestRequest{
				Email:    "not-an-email",
				Password: "password123",
				Name:     "Test",
			},
			wantField: "email",
		},
		{
			name: "password too short",
			req: TestRequest{
				Email:    "test@example.com",
				Password: "short",
				Name:     "Test",
			},
			wantField: "password",
		},
		{
			name: "password too long",
			req: TestRequest{
				Email:    "test@example.com",
				Password: string(make([]byte, 1025)),
				Name:     "Test",
			},
			wantField: "password",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := v.Validate(tt.req)
			assert.Error(t, err)

			var domainErr *domainerrors.Error
			require.True(t, errors.As(err, &domainErr))
			assert.Equal(t, domainerrors.CodeValidation, domainErr.Code)
			assert.Equal(t, http.StatusBadRequest, domainErr.HTTPStatus())

			fields, ok := domainErr.Details.(map[string]string)
			require.True(t, ok)
			assert.Contains(t, fields, tt.wantField)
		})
	}
}

func TestValidator_JSONFieldNames(t *testing.T) {
	v := validation.New()

	req := TestRequest{
		Email:    "",
		Password: "password123",
		Name:     "Test",
	}

	err := v.Validate(req)
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	// Should use JSON tag name "email", not struct field name "Email"
	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields, "email")
	assert.NotContains(t, fields, "Email")
}

func TestValidator_FriendlyMessages(t *testing.T) {
	v := validation.New()

	type ratedRequest struct {
		Rating int    `json:"rating" validate:"gte=1,lte=5"`
		Status string `json:"status" validate:"oneof=want_to_read currently_reading read"`
	}

	err := v.Validate(ratedRequest{Rating: 9, Status: "abandoned"})
	assert.Error(t, err)

	var domainErr *domainerrors.Error
	require.True(t, errors.As(err, &domainErr))

	fields, ok := domainErr.Details.(map[string]string)
	require.True(t, ok)
	assert.Contains(t, fields["rating"], "less than or equal to 5")
	assert.Contains(t, fields["status"], "must be one of")
}
