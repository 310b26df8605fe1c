package handler

import (
	"net/http"

	"quotebuilder/internal/httputil"
	"quotebuilder/internal/storage"
)

// StorageModer reports which document store is in use
type StorageModer interface {
	Mode() storage.Mode
}

// HealthCheck reports liveness and the storage mode chosen at startup
// GET /health
func HealthCheck(store StorageModer) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		httputil.RespondJSON(w, http.StatusOK, map[string]string{
			"status":  "ok",
			"storage": string(store.Mode()),
		})
	}
}
