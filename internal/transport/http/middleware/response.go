package middleware

import (
	"encoding/json"
	"net/http"
)

// rejection mirrors handler.Envelope for failures raised before a handler runs.
type rejection struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func reject(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(rejection{Message: msg})
}
