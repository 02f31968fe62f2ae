package handlers

import (
	"encoding/json"
	"net/http"
)

// Health reports liveness and the size of the loaded catalog.
func Health(catalogSize func() int) http.HandlerFunc {
	return func(w http.ResponseWriter, _ *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		_ = json.NewEncoder(w).Encode(map[string]any{
			"status":  "ok",
			"catalog": catalogSize(),
		})
	}
}
