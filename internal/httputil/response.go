package httputil

import (
	"encoding/json"
	"log"
	"net/http"
)

const (
	StatusSuccess = "success"
	StatusError   = "error"
)

// Response is the envelope shared by every JSON response:
// {"status": "success"|"error", ...}. Empty optional fields are omitted.
type Response struct {
	Status  string `json:"status"`
	Message string `json:"message,omitempty"`
	Token   string `json:"token,omitempty"`
	Data    any    `json:"data,omitempty"`
}

// RespondJSON sends a JSON response with the given status code.
// Logs encoding errors to avoid silent failures.
func RespondJSON(w http.ResponseWriter, data any, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		log.Printf("ERROR: failed to encode JSON response: %v", err)
	}
}

// RespondData sends a success envelope carrying data.
func RespondData(w http.ResponseWriter, data any, statusCode int) {
	RespondJSON(w, Response{Status: StatusSuccess, Data: data}, statusCode)
}

// RespondMessage sends a success envelope carrying only a message.
func RespondMessage(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, Response{Status: StatusSuccess, Message: message}, statusCode)
}

// RespondError sends an error envelope with a static message.
func RespondError(w http.ResponseWriter, message string, statusCode int) {
	RespondJSON(w, Response{Status: StatusError, Message: message}, statusCode)
}
