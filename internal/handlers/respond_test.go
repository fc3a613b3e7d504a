package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"jmlastro/internal/models"
	"jmlastro/internal/services"
)

var testLog = zap.NewNop().Sugar()

func TestWriteErrorStatuses(t *testing.T) {
	tests := []struct {
		err  error
		want int
	}{
		{models.ErrOrderNotFound, http.StatusNotFound},
		{fmt.Errorf("lookup: %w", models.ErrAstrologerNotFound), http.StatusNotFound},
		{models.ErrHoroscopeNotFound, http.StatusNotFound},
		{models.ErrInvalidTransition, http.StatusConflict},
		{models.ErrAlreadyPaid, http.StatusConflict},
		{models.ErrAlreadyReviewed, http.StatusConflict},
		{models.ErrDuplicateEmail, http.StatusConflict},
		{models.ErrInvalidCredentials, http.StatusUnauthorized},
		{models.ErrInvalidSignature, http.StatusUnauthorized},
		{models.ErrForbidden, http.StatusForbidden},
		{fmt.Errorf("%w: timeout", models.ErrGateway), http.StatusBadGateway},
		{services.ErrStorageDisabled, http.StatusServiceUnavailable},
		{errors.New("boom"), http.StatusInternalServerError},
	}
	for _, tt := range tests {
		t.Run(tt.err.Error(), func(t *testing.T) {
			rec := httptest.NewRecorder()
			writeError(rec, testLog, tt.err)
			assert.Equal(t, tt.want, rec.Code)

			var body map[string]interface{}
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.NotEmpty(t, body["message"])
		})
	}
}

func TestWriteErrorHidesInternalDetails(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, testLog, errors.New("dial tcp 10.0.0.3:3306: connection refused"))
	assert.NotContains(t, rec.Body.String(), "10.0.0.3")
}

func TestWriteErrorValidationBody(t *testing.T) {
	verr := models.NewValidationError("Required", "consultation", "astrologerId")
	rec := httptest.NewRecorder()
	writeError(rec, testLog, fmt.Errorf("place order: %w", verr))

	require.Equal(t, http.StatusBadRequest, rec.Code)
	var body struct {
		Message string              `json:"message"`
		Errors  []models.FieldError `json:"errors"`
	}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "Validation failed", body.Message)
	assert.Equal(t, []string{"consultation", "astrologerId"}, body.Errors[0].Path)
}

func TestDraftNotFoundCarriesRedirect(t *testing.T) {
	rec := httptest.NewRecorder()
	writeError(rec, testLog, models.ErrDraftNotFound)

	assert.Equal(t, http.StatusNotFound, rec.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "/astrologers", body["redirect"])
}
