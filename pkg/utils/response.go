package utils

import (
	"encoding/json"
	"log"
	"net/http"
	"time"
)

// ServiceName identifies this service in response envelopes.
const ServiceName = "dashboard-service"

// RespondJSON writes payload as a JSON response.
func RespondJSON(w http.ResponseWriter, status int, payload interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		log.Printf("failed to encode response: %v", err)
	}
}

// RespondError writes an error envelope.
func RespondError(w http.ResponseWriter, status int, message string) {
	RespondJSON(w, status, map[string]interface{}{
		"status":  "error",
		"service": ServiceName,
		"error":   message,
	})
}

// RespondResults writes the standard success envelope used by the query
// endpoints: status, service, results, total and a server timestamp.
func RespondResults(w http.ResponseWriter, status int, results interface{}, total int) {
	RespondJSON(w, status, map[string]interface{}{
		"status":    "success",
		"service":   ServiceName,
		"results":   results,
		"total":     total,
		"timestamp": time.Now().UTC().Format(time.RFC3339),
	})
}
