package httputil

import (
	"errors"
	"net/http"
	"strings"

	"github.com/redmonkez12/plantopia/internal/store"
)

// RespondStoreError maps the data-access error taxonomy onto HTTP responses.
// It reports whether err was a server-side failure worth logging at error level.
func RespondStoreError(w http.ResponseWriter, err error) bool {
	switch {
	case errors.Is(err, store.ErrNotAuthenticated):
		RespondErrorWithCode(w, "please log in again", CodeNotAuthenticated, http.StatusUnauthorized)
	case errors.Is(err, store.ErrInvalidInput):
		RespondErrorWithCode(w, validationMessage(err), CodeValidationFailed, http.StatusBadRequest)
	case errors.Is(err, store.ErrNotFound):
		RespondErrorWithCode(w, "not found", CodeNotFound, http.StatusNotFound)
	case errors.Is(err, store.ErrOperationFailed):
		RespondErrorWithCode(w, store.ErrOperationFailed.Error(), CodeOperationFailed, http.StatusServiceUnavailable)
		return true
	default:
		RespondErrorWithCode(w, "internal server error", CodeInternalError, http.StatusInternalServerError)
		return true
	}
	return false
}

// validationMessage strips the sentinel prefix so clients see only the field message
func validationMessage(err error) string {
	msg := err.Error()
	prefix := store.ErrInvalidInput.Error() + ": "
	if i := strings.Index(msg, prefix); i >= 0 {
		return msg[i+len(prefix):]
	}
	return msg
}
