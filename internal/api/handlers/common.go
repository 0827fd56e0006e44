package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/db/models"
	"github.com/pysugar/account-tabs/internal/importer"
)

// writeJSON encodes v with the given status code.
func writeJSON(w http.ResponseWriter, code int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	_ = json.NewEncoder(w).Encode(v)
}

// writeError writes {"error": msg}.
func writeError(w http.ResponseWriter, code int, msg string) {
	writeJSON(w, code, map[string]string{"error": msg})
}

// writeServiceError maps account and importer errors to status codes. Anything
// unrecognised becomes a 500 with fallback as the message.
func writeServiceError(w http.ResponseWriter, err error, fallback string) {
	switch {
	case errors.Is(err, account.ErrNotFound):
		writeError(w, http.StatusNotFound, "Account not found")
	case errors.Is(err, account.ErrInvalidAccountStatus):
		writeError(w, http.StatusUnprocessableEntity, err.Error())
	case errors.Is(err, account.ErrUnknownGroup),
		errors.Is(err, account.ErrIncompleteRecord),
		errors.Is(err, models.ErrInvalidField):
		writeError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, account.ErrNoValidRecords):
		writeError(w, http.StatusBadRequest, "No valid accounts found in file")
	case errors.Is(err, importer.ErrFetch):
		writeJSON(w, http.StatusBadGateway, map[string]string{
			"error":   "Failed to fetch file",
			"details": err.Error(),
		})
	default:
		writeJSON(w, http.StatusInternalServerError, map[string]string{
			"error":   fallback,
			"details": err.Error(),
		})
	}
}

// groupFromQuery returns the "tab" query parameter, DefaultGroup when absent.
func groupFromQuery(r *http.Request) models.Group {
	return groupOrDefault(r.URL.Query().Get("tab"))
}

func groupOrDefault(tab string) models.Group {
	if tab = strings.TrimSpace(tab); tab != "" {
		return models.Group(tab)
	}
	return models.DefaultGroup
}
