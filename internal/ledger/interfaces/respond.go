package interfaces

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/sebuszqo/PocketLedger/internal/auth"
	ledgerErrors "github.com/sebuszqo/PocketLedger/internal/ledger/errors"
)

func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(payload)
}

func RespondError(w http.ResponseWriter, status int, message string, errors ...[]string) {
	payload := map[string]interface{}{
		"status":  "error",
		"message": message,
		"code":    status,
	}

	if len(errors) > 0 && len(errors[0]) > 0 {
		payload["errors"] = errors[0]
	}

	RespondJSON(w, status, payload)
}

// responder carries the response functions and logger shared by every handler.
type responder struct {
	respondJSON  func(w http.ResponseWriter, status int, payload interface{})
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string)
	logger       *slog.Logger
}

func newResponder(
	respondJSON func(w http.ResponseWriter, status int, payload interface{}),
	respondError func(w http.ResponseWriter, status int, message string, errors ...[]string),
	logger *slog.Logger,
) responder {
	if respondJSON == nil || respondError == nil {
		panic("Service and response functions must not be nil")
	}
	if logger == nil {
		logger = slog.Default()
	}
	return responder{respondJSON: respondJSON, respondError: respondError, logger: logger}
}

func (h responder) success(w http.ResponseWriter, status int, message string, data interface{}) {
	h.respondJSON(w, status, map[string]interface{}{
		"status":  "success",
		"message": message,
		"data":    data,
	})
}

func (h responder) decode(w http.ResponseWriter, r *http.Request, dst interface{}) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		h.respondError(w, http.StatusBadRequest, "Invalid request body")
		return false
	}
	return true
}

// serviceError maps a ledger error to its HTTP status. Anything outside the
// taxonomy is answered with failureMsg and logged.
func (h responder) serviceError(w http.ResponseWriter, r *http.Request, err error, failureMsg string) {
	var (
		validationErrs *ledgerErrors.ValidationErrors
		validationErr  *ledgerErrors.ValidationError
		violation      *ledgerErrors.InvariantViolation
		notFound       *ledgerErrors.NotFoundError
		block          *ledgerErrors.ReferentialBlock
	)

	switch {
	case errors.Is(err, ledgerErrors.ErrNotAuthenticated):
		h.respondError(w, http.StatusUnauthorized, "Unauthorized")
	case ledgerErrors.IsStoreFailure(err):
		h.logger.Error(failureMsg, "method", r.Method, "path", r.URL.Path, "error", err)
		h.respondError(w, http.StatusInternalServerError, failureMsg)
	case errors.As(err, &validationErrs):
		h.respondError(w, http.StatusBadRequest, "Validation failed", validationErrs.Messages())
	case errors.As(err, &validationErr):
		h.respondError(w, http.StatusBadRequest, validationErr.Msg)
	case errors.As(err, &violation):
		h.respondError(w, http.StatusBadRequest, capitalizeFirstLetter(violation.Reason))
	case errors.As(err, &notFound):
		h.respondError(w, http.StatusNotFound, capitalizeFirstLetter(notFound.Entity)+" not found")
	case errors.As(err, &block):
		h.respondError(w, http.StatusConflict, capitalizeFirstLetter(block.Error()))
	default:
		h.logger.Error(failureMsg, "method", r.Method, "path", r.URL.Path, "error", err)
		h.respondError(w, http.StatusInternalServerError, failureMsg)
	}
}

func callerID(r *http.Request) string {
	userID, _ := auth.UserIDFromContext(r.Context())
	return userID
}

func capitalizeFirstLetter(s string) string {
	if len(s) == 0 {
		return s
	}
	return strings.ToUpper(string(s[0])) + s[1:]
}
