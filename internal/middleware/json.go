package middleware

import (
	"encoding/json"
	"net/http"

	"go-interview-client/pkg/apierror"
)

// writeDetail renders the backend's {"detail": "..."} error shape.
func writeDetail(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apierror.New(status, message))
}
