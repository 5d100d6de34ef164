// Package response writes the JSON envelope used by every AngoTech endpoint:
// {"status":…,"message":…,"data":…,"errors":…}.
package response

import (
	"encoding/json"
	"net/http"
)

type envelope struct {
	Status  int         `json:"status"`
	Message string      `json:"message,omitempty"`
	Data    interface{} `json:"data,omitempty"`
	Errors  interface{} `json:"errors,omitempty"`
}

// Pagination is the metadata block attached to paginated listings.
type Pagination struct {
	Page       int   `json:"page"`
	Limit      int   `json:"limit"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"total_pages"`
}

func write(w http.ResponseWriter, status int, body envelope) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(body) //nolint:errcheck
}

// Success sends a 200 JSON response with data.
func Success(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: data})
}

// Created sends a 201 JSON response with data.
func Created(w http.ResponseWriter, data interface{}) {
	write(w, http.StatusCreated, envelope{Status: http.StatusCreated, Data: data})
}

// Error sends a JSON error response.
func Error(w http.ResponseWriter, status int, message string) {
	write(w, status, envelope{Status: status, Message: message})
}

// ValidationError sends a 422 with field-level error map.
func ValidationError(w http.ResponseWriter, errs map[string]string) {
	write(w, http.StatusUnprocessableEntity, envelope{
		Status:  http.StatusUnprocessableEntity,
		Message: "Validation failed",
		Errors:  errs,
	})
}

// Paginated sends a 200 response with data and pagination metadata.
func Paginated(w http.ResponseWriter, data interface{}, pagination Pagination) {
	body := map[string]interface{}{
		"items":      data,
		"pagination": pagination,
	}
	write(w, http.StatusOK, envelope{Status: http.StatusOK, Data: body})
}

// Unauthorized sends a 401 with an optional custom message.
func Unauthorized(w http.ResponseWriter, message ...string) {
	Error(w, http.StatusUnauthorized, pick(message, "Unauthorized"))
}

// Forbidden sends a 403 with an optional custom message.
func Forbidden(w http.ResponseWriter, message ...string) {
	Error(w, http.StatusForbidden, pick(message, "Forbidden"))
}

// NotFound sends a 404 with an optional custom message.
func NotFound(w http.ResponseWriter, message ...string) {
	Error(w, http.StatusNotFound, pick(message, "Not found"))
}

func pick(message []string, def string) string {
	if len(message) > 0 && message[0] != "" {
		return message[0]
	}
	return def
}
