package handlers

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"

	"jmlastro/internal/models"
	"jmlastro/internal/services"
)

const maxBodyBytes = 1 << 20

func writeJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

func writeValidation(w http.ResponseWriter, verr *models.ValidationError) {
	writeJSON(w, http.StatusBadRequest, map[string]interface{}{
		"message": "Validation failed",
		"errors":  verr.Fields,
	})
}

// decodeJSON reads a bounded JSON body into dst. A decode failure is answered
// with 400 and reported as false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err := dec.Decode(dst); err != nil {
		if errors.Is(err, io.EOF) {
			writeMessage(w, http.StatusBadRequest, "Request body is required")
			return false
		}
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// writeError maps domain errors onto HTTP statuses. Anything unrecognised is
// logged and answered with a generic 500.
func writeError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	var verr *models.ValidationError
	if errors.As(err, &verr) {
		writeValidation(w, verr)
		return
	}

	switch {
	case errors.Is(err, models.ErrAstrologerNotFound):
		writeMessage(w, http.StatusNotFound, "Astrologer not found")
	case errors.Is(err, models.ErrServiceNotFound):
		writeMessage(w, http.StatusNotFound, "Service not found")
	case errors.Is(err, models.ErrOrderNotFound):
		writeMessage(w, http.StatusNotFound, "Order not found")
	case errors.Is(err, models.ErrPaymentNotFound):
		writeMessage(w, http.StatusNotFound, "Payment not found")
	case errors.Is(err, models.ErrConsultationNotFound):
		writeMessage(w, http.StatusNotFound, "Consultation not found")
	case errors.Is(err, models.ErrBlogPostNotFound):
		writeMessage(w, http.StatusNotFound, "Blog post not found")
	case errors.Is(err, models.ErrHoroscopeNotFound):
		writeMessage(w, http.StatusNotFound, "Horoscope not found")
	case errors.Is(err, models.ErrUserNotFound):
		writeMessage(w, http.StatusNotFound, "User not found")
	case errors.Is(err, models.ErrDraftNotFound):
		writeJSON(w, http.StatusNotFound, map[string]string{
			"message":  "No booking in progress",
			"redirect": catalogPath,
		})
	case errors.Is(err, models.ErrNoRecord):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, models.ErrAlreadyPaid):
		writeMessage(w, http.StatusConflict, "Order already paid")
	case errors.Is(err, models.ErrInvalidTransition):
		writeMessage(w, http.StatusConflict, "Invalid status transition")
	case errors.Is(err, models.ErrAlreadyReviewed):
		writeMessage(w, http.StatusConflict, "You have already reviewed this")
	case errors.Is(err, models.ErrDuplicateEmail):
		writeMessage(w, http.StatusConflict, "Email already registered")
	case errors.Is(err, models.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, "Invalid email or password")
	case errors.Is(err, models.ErrInvalidSignature):
		writeMessage(w, http.StatusUnauthorized, "Invalid signature")
	case errors.Is(err, models.ErrUnauthorized):
		writeMessage(w, http.StatusUnauthorized, "Unauthorized")
	case errors.Is(err, models.ErrForbidden):
		writeMessage(w, http.StatusForbidden, "Forbidden")
	case errors.Is(err, models.ErrGateway):
		if log != nil {
			log.Warnw("payment gateway failure", "error", err)
		}
		writeMessage(w, http.StatusBadGateway, "Payment gateway unavailable")
	case errors.Is(err, services.ErrStorageDisabled):
		writeMessage(w, http.StatusServiceUnavailable, "Image storage is not configured")
	default:
		serverError(w, log, err)
	}
}

func serverError(w http.ResponseWriter, log *zap.SugaredLogger, err error) {
	if log != nil {
		log.Errorw("request failed", "error", err)
	}
	writeMessage(w, http.StatusInternalServerError, "Internal server error")
}
