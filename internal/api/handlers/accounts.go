package handlers

import (
	"bytes"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/pysugar/account-tabs/internal/account"
	"github.com/pysugar/account-tabs/internal/db/models"
)

// AccountsHandler lists the accounts of a tab, newest first.
func AccountsHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.List(r.Context(), groupFromQuery(r))
		if err != nil {
			writeServiceError(w, err, "Failed to fetch accounts")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// SearchHandler filters a tab by username, full name or password.
func SearchHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		list, err := svc.Search(r.Context(), groupFromQuery(r), r.URL.Query().Get("q"))
		if err != nil {
			writeServiceError(w, err, "Failed to search accounts")
			return
		}
		writeJSON(w, http.StatusOK, list)
	}
}

// CreateAccountHandler adds one account. The body is the account plus "tab".
func CreateAccountHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var body bytes.Buffer
		if _, err := body.ReadFrom(r.Body); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var target struct {
			Tab string `json:"tab"`
		}
		var a models.Account
		if err := json.Unmarshal(body.Bytes(), &target); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if err := json.Unmarshal(body.Bytes(), &a); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		delete(a.Extra, "tab")

		created, err := svc.Create(r.Context(), groupOrDefault(target.Tab), a)
		if err != nil {
			writeServiceError(w, err, "Failed to create account")
			return
		}
		writeJSON(w, http.StatusCreated, created)
	}
}

// UpdateAccountHandler merges the body, minus "id" and "tab", into one account.
func UpdateAccountHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var patch models.Patch
		if err := json.NewDecoder(r.Body).Decode(&patch); err != nil || patch == nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}

		var id int
		if raw, ok := patch["id"]; !ok || json.Unmarshal(raw, &id) != nil {
			writeError(w, http.StatusBadRequest, "Invalid account ID")
			return
		}
		var tab string
		if raw, ok := patch["tab"]; ok {
			if err := json.Unmarshal(raw, &tab); err != nil {
				writeError(w, http.StatusBadRequest, "Invalid tab")
				return
			}
		}
		delete(patch, "id")
		delete(patch, "tab")

		updated, err := svc.Update(r.Context(), groupOrDefault(tab), id, patch)
		if err != nil {
			writeServiceError(w, err, "Failed to update account")
			return
		}
		writeJSON(w, http.StatusOK, updated)
	}
}

// DeleteAccountHandler removes the account named by the id and tab query parameters.
func DeleteAccountHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		id, err := strconv.Atoi(r.URL.Query().Get("id"))
		if err != nil {
			writeError(w, http.StatusBadRequest, "Invalid account ID")
			return
		}
		if err := svc.Delete(r.Context(), groupFromQuery(r), id); err != nil {
			writeServiceError(w, err, "Failed to delete account")
			return
		}
		writeJSON(w, http.StatusOK, map[string]bool{"success": true})
	}
}

// ClearAccountsHandler empties the tab named by the tab query parameter, or
// every tab when it is "all".
func ClearAccountsHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var (
			n   int
			err error
		)
		if r.URL.Query().Get("tab") == "all" {
			n, err = svc.ClearAll(r.Context())
		} else {
			n, err = svc.Clear(r.Context(), groupFromQuery(r))
		}
		if err != nil {
			writeServiceError(w, err, "Failed to clear accounts")
			return
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"success": true,
			"count":   n,
		})
	}
}

// StatsHandler summarizes a tab.
func StatsHandler(svc *account.Service) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		st, err := svc.Stats(r.Context(), groupFromQuery(r))
		if err != nil {
			writeServiceError(w, err, "Failed to compute stats")
			return
		}
		writeJSON(w, http.StatusOK, st)
	}
}

type tabView struct {
	ID    models.Group `json:"id"`
	Label string       `json:"label"`
	Count int          `json:"count"`
}

// TabsHandler lists the fixed tabs with their labels and account counts.
func TabsHandler(svc *account.Service, label func(models.Group) string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		counts, err := svc.Counts(r.Context())
		if err != nil {
			writeServiceError(w, err, "Failed to count accounts")
			return
		}
		views := make([]tabView, 0, len(models.Groups))
		for _, g := range models.Groups {
			l := g.DefaultLabel()
			if label != nil {
				l = label(g)
			}
			views = append(views, tabView{ID: g, Label: l, Count: counts[g]})
		}
		writeJSON(w, http.StatusOK, map[string]interface{}{
			"tabs":    views,
			"default": models.DefaultGroup,
		})
	}
}
