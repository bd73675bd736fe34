package handlers

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"babydiary/internal/media"
	"babydiary/internal/security"
	"babydiary/internal/service"
	"babydiary/internal/validation"
)

// envelope is the shape of every JSON response
type envelope struct {
	Success bool     `json:"success"`
	Data    any      `json:"data,omitempty"`
	Message string   `json:"message,omitempty"`
	Error   string   `json:"error,omitempty"`
	Errors  []string `json:"errors,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		log.Printf("Error encoding response: %v", err)
	}
}

func respondWithData(w http.ResponseWriter, status int, data any, message string) {
	writeJSON(w, status, envelope{Success: true, Data: data, Message: message})
}

func respondWithMessage(w http.ResponseWriter, message string) {
	writeJSON(w, http.StatusOK, envelope{Success: true, Message: message})
}

func respondWithError(w http.ResponseWriter, status int, userMsg, logMsg string, err error) {
	if err != nil {
		if logMsg == "" {
			logMsg = userMsg
		}
		log.Printf("%s: %v", logMsg, err)
	}

	writeJSON(w, status, envelope{Success: false, Error: userMsg})
}

func respondWithValidation(w http.ResponseWriter, errs validation.Errors) {
	writeJSON(w, http.StatusBadRequest, envelope{
		Success: false,
		Error:   ErrValidationFailed,
		Errors:  errs.Messages(),
	})
}

// respondWithServiceError maps service errors to status codes. Anything
// unrecognised is logged under logMsg and reported as a 500.
func respondWithServiceError(w http.ResponseWriter, err error, logMsg string) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, service.ErrEmailTaken):
		status = http.StatusConflict
	case errors.Is(err, service.ErrInvalidCredentials),
		errors.Is(err, security.ErrInvalidToken):
		status = http.StatusUnauthorized
	case errors.Is(err, service.ErrNoFamily),
		errors.Is(err, service.ErrForbidden):
		status = http.StatusForbidden
	case errors.Is(err, service.ErrPostNotFound),
		errors.Is(err, service.ErrCommentNotFound),
		errors.Is(err, service.ErrFileNotFound),
		errors.Is(err, service.ErrUserNotFound):
		status = http.StatusNotFound
	case errors.Is(err, service.ErrInvalidInviteCode),
		errors.Is(err, service.ErrNoFiles),
		errors.Is(err, service.ErrTooManyFiles),
		errors.Is(err, service.ErrFileTooLarge),
		errors.Is(err, service.ErrUnsupportedFileType),
		errors.Is(err, service.ErrMissingFileRef),
		errors.Is(err, media.ErrUnsupportedImage):
		status = http.StatusBadRequest
	}

	if status == http.StatusInternalServerError {
		respondWithError(w, status, ErrInternalServerError, logMsg, err)
		return
	}
	respondWithError(w, status, err.Error(), "", nil)
}

// decodeJSON reads a JSON request body into v
func decodeJSON(r *http.Request, v any) error {
	defer r.Body.Close()
	return json.NewDecoder(r.Body).Decode(v)
}
