package handlers

import (
	"encoding/json"
	"errors"
	"net/http"

	"chatspace/internal/auth"
	"chatspace/internal/database"
	"chatspace/internal/services"
	"chatspace/pkg/logger"

	"github.com/go-playground/validator/v10"
)

var validate = validator.New(validator.WithRequiredStructEnabled())

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		if err := json.NewEncoder(w).Encode(body); err != nil {
			logger.Error("Error encoding response: %v", err)
		}
	}
}

func writeMessage(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"message": message})
}

// decodeAndValidate parses the request body into dst and runs struct
// validation. It writes the error response itself and reports whether
// the handler should continue.
func decodeAndValidate(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	if err := validate.Struct(dst); err != nil {
		writeMessage(w, http.StatusBadRequest, err.Error())
		return false
	}
	return true
}

// writeServiceError maps service-layer errors to HTTP responses.
func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, database.ErrNotFound):
		writeMessage(w, http.StatusNotFound, "Not found")
	case errors.Is(err, services.ErrForbidden),
		errors.Is(err, services.ErrNotMember),
		errors.Is(err, services.ErrAdminLocked):
		writeMessage(w, http.StatusForbidden, err.Error())
	case errors.Is(err, services.ErrPastEventDate),
		errors.Is(err, services.ErrEmptyMessage),
		errors.Is(err, services.ErrInactiveGroup),
		errors.Is(err, services.ErrSelfContact),
		errors.Is(err, auth.ErrEmailTaken):
		writeMessage(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, auth.ErrInvalidCredentials):
		writeMessage(w, http.StatusUnauthorized, err.Error())
	default:
		logger.Error("Internal error: %v", err)
		writeMessage(w, http.StatusInternalServerError, "Internal server error")
	}
}
