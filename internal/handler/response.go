package handler

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"go-interview-client/internal/middleware"
	"go-interview-client/internal/model"
	"go-interview-client/internal/service"
	"go-interview-client/pkg/apierror"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(data)
}

// writeError renders every failure as {"detail": "..."}.
func writeError(w http.ResponseWriter, err error) {
	var apiErr *apierror.APIError
	switch {
	case errors.As(err, &apiErr) && apiErr.Status != 0:
		writeJSON(w, apiErr.Status, apierror.New(apiErr.Status, apiErr.Message))
	case errors.Is(err, model.ErrInvalidInput):
		writeJSON(w, http.StatusUnprocessableEntity, apierror.New(http.StatusUnprocessableEntity, err.Error()))
	case errors.Is(err, model.ErrNotFound):
		writeJSON(w, http.StatusNotFound, apierror.New(http.StatusNotFound, "Not found"))
	default:
		slog.Error("unhandled error in writeError", "error", err.Error())
		writeJSON(w, http.StatusInternalServerError, apierror.New(http.StatusInternalServerError, "Internal Server Error"))
	}
}

// decodeJSON reads an optional JSON body. An empty body leaves dst untouched.
func decodeJSON(r *http.Request, dst any) error {
	defer r.Body.Close()

	raw, err := io.ReadAll(r.Body)
	if err != nil {
		return apierror.New(http.StatusBadRequest, "could not read request body")
	}
	if strings.TrimSpace(string(raw)) == "" {
		return nil
	}
	if err := json.Unmarshal(raw, dst); err != nil {
		return apierror.New(http.StatusUnprocessableEntity, "invalid JSON body")
	}
	return nil
}

func pathID(r *http.Request, name string) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, name), 10, 64)
	if err != nil || id <= 0 {
		return 0, apierror.New(http.StatusUnprocessableEntity, name+" must be a positive integer")
	}
	return id, nil
}

func callerID(r *http.Request) (int64, error) {
	claims, _ := middleware.ClaimsFromContext(r.Context())
	return service.UserIDFromClaims(claims)
}
