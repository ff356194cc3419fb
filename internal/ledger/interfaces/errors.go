package interfaces

import (
	"net/http"

	ledgerErrors "github.com/syaswanth456/moneymanager/internal/ledger/errors"
)

// serviceErrorStatus translates the service error taxonomy into transport
// status codes. Unknown errors stay 500 and keep their detail out of the
// response body.
func serviceErrorStatus(err error) (int, string, bool) {
	switch {
	case ledgerErrors.IsValidationError(err):
		return http.StatusBadRequest, err.Error(), true
	case ledgerErrors.IsNotFoundError(err):
		return http.StatusNotFound, err.Error(), true
	case ledgerErrors.IsInsufficientFundsError(err):
		return http.StatusUnprocessableEntity, err.Error(), true
	case ledgerErrors.IsConflictError(err):
		return http.StatusConflict, err.Error(), true
	case ledgerErrors.IsStoreUnavailableError(err):
		return http.StatusServiceUnavailable, "Record store unavailable", true
	}
	return http.StatusInternalServerError, "", false
}
