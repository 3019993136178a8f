package httpx

import (
	"errors"
	"net/http"

	acctshared "github.com/odyssey-erp/odyssey-assets/internal/accounting/shared"
	"github.com/odyssey-erp/odyssey-assets/internal/shared"
)

// RespondError maps domain errors to HTTP responses using RFC7807.
func RespondError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, shared.ErrNotFound), errors.Is(err, acctshared.ErrJournalNotFound):
		Problem(w, http.StatusNotFound, "Not Found", err.Error())
	case shared.IsStateError(err), errors.Is(err, acctshared.ErrInvalidStatus):
		Problem(w, http.StatusConflict, "Invalid State", err.Error())
	case shared.IsConfigurationError(err):
		Problem(w, http.StatusUnprocessableEntity, "Configuration Missing", err.Error())
	case errors.Is(err, acctshared.ErrUnbalanced), errors.Is(err, acctshared.ErrTooFewLines):
		Problem(w, http.StatusUnprocessableEntity, "Posting Rejected", err.Error())
	default:
		Problem(w, http.StatusInternalServerError, "Internal Error", "")
	}
}
