package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"larder/internal/forms"
	applog "larder/internal/log"
	"larder/internal/store"
)

type errorResponse struct {
	Error  string            `json:"error"`
	Fields map[string]string `json:"fields,omitempty"`
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		applog.Error(context.Background(), "failed to encode json response", "error", err)
	}
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, errorResponse{Error: message})
}

// decodeJSON reads the request body into dst, rejecting unknown fields.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) error {
	decoder := json.NewDecoder(http.MaxBytesReader(w, r.Body, 1<<20))
	decoder.DisallowUnknownFields()
	return decoder.Decode(dst)
}

// writeStoreError maps validation and store errors onto HTTP responses.
// subject names the entity in log lines and generic messages.
func writeStoreError(w http.ResponseWriter, r *http.Request, err error, subject string) {
	var invalid *forms.ValidationError
	switch {
	case errors.As(err, &invalid):
		applog.Debug(r.Context(), "rejected invalid input", "subject", subject, "fields", invalid.Fields)
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid input", Fields: invalid.Fields})
	case errors.Is(err, store.ErrNotFound):
		applog.Debug(r.Context(), "entity not found", "subject", subject)
		writeJSONError(w, http.StatusNotFound, subject+" not found")
	case errors.Is(err, store.ErrInvalidReference):
		applog.Debug(r.Context(), "rejected unknown reference", "subject", subject, "error", err)
		writeJSONError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, store.ErrInUse):
		writeJSONError(w, http.StatusConflict, subject+" is used by recipes")
	case errors.Is(err, store.ErrConflict):
		applog.Debug(r.Context(), "write conflict", "subject", subject, "error", err)
		writeJSONError(w, http.StatusConflict, err.Error())
	default:
		applog.Error(r.Context(), "store operation failed", "subject", subject, "error", err)
		writeJSONError(w, http.StatusInternalServerError, "unable to process "+subject)
	}
}

// requestUser resolves the authenticated user, writing an error response
// when the user or the database is unavailable.
func requestUser(w http.ResponseWriter, r *http.Request) (uint, bool) {
	if database == nil {
		applog.Debug(r.Context(), "api request without database", "path", r.URL.Path)
		writeJSONError(w, http.StatusServiceUnavailable, "service unavailable")
		return 0, false
	}
	userID, ok := currentUserID(r)
	if !ok {
		applog.Debug(r.Context(), "api request missing authenticated user", "path", r.URL.Path)
		writeJSONError(w, http.StatusUnauthorized, "unauthorized")
		return 0, false
	}
	return userID, true
}

// pathID reads the numeric {id} route variable.
func pathID(w http.ResponseWriter, r *http.Request) (uint, bool) {
	raw := mux.Vars(r)["id"]
	value, err := strconv.ParseUint(raw, 10, 64)
	if err != nil || value == 0 {
		applog.Debug(r.Context(), "invalid identifier", "identifier", raw)
		writeJSONError(w, http.StatusNotFound, "not found")
		return 0, false
	}
	return uint(value), true
}

func decodeForm(w http.ResponseWriter, r *http.Request, form any) bool {
	if err := decodeJSON(w, r, form); err != nil {
		applog.Debug(r.Context(), "invalid request payload", "error", err)
		writeJSONError(w, http.StatusBadRequest, "invalid request payload")
		return false
	}
	if err := forms.Validate(form); err != nil {
		writeStoreError(w, r, err, "request")
		return false
	}
	return true
}
