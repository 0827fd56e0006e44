package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"

	"github.com/pysugar/account-tabs/internal/importer"
)

func importResponse(res importer.Result) map[string]interface{} {
	return map[string]interface{}{
		"success":  true,
		"message":  fmt.Sprintf("Successfully imported %d accounts", res.Count),
		"count":    res.Count,
		"dropped":  res.Dropped,
		"metadata": res.Metadata,
	}
}

// UploadHandler imports a multipart "file" into the "tab" form field's group.
func UploadHandler(im *importer.Importer, maxBytes int64) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.ContentLength > maxBytes {
			writeError(w, http.StatusRequestEntityTooLarge, "File too large")
			return
		}
		r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
		if err := r.ParseMultipartForm(maxBytes); err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				writeError(w, http.StatusRequestEntityTooLarge, "File too large")
				return
			}
			writeError(w, http.StatusBadRequest, "No file provided")
			return
		}

		file, header, err := r.FormFile("file")
		if err != nil {
			writeError(w, http.StatusBadRequest, "No file provided")
			return
		}
		defer file.Close()

		res, err := im.ImportReader(r.Context(), groupOrDefault(r.FormValue("tab")), header.Filename, file)
		if err != nil {
			writeServiceError(w, err, "Failed to upload file")
			return
		}
		writeJSON(w, http.StatusOK, importResponse(res))
	}
}

// ImportURLHandler downloads a listing from {"url": ..., "tab": ...} and imports it.
func ImportURLHandler(im *importer.Importer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req struct {
			URL string `json:"url"`
			Tab string `json:"tab"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
			writeError(w, http.StatusBadRequest, "Invalid request body")
			return
		}
		if !importer.IsURL(req.URL) {
			writeError(w, http.StatusBadRequest, "url must be an http or https URL")
			return
		}

		res, err := im.ImportURL(r.Context(), groupOrDefault(req.Tab), req.URL)
		if err != nil {
			writeServiceError(w, err, "Failed to import file")
			return
		}
		resp := importResponse(res)
		resp["source"] = importer.SourceName(req.URL)
		writeJSON(w, http.StatusOK, resp)
	}
}
