package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON marshals data and writes it with the given status code and an
// "application/json" Content-Type. Marshaling happens before WriteHeader so
// a failure can still answer 500 instead of a half-written body.
//
// It returns the number of body bytes written and a non-nil error when
// marshaling fails.
//
// Example usage:
//
//	WriteJSON(w, models.PushResponse{Acks: acks}, http.StatusOK)
//	WriteJSON(w, models.RefreshResponse{AccessToken: token}, http.StatusOK)
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "error writing data to JSON", http.StatusInternalServerError)
		return 0, fmt.Errorf("error writing data to JSON: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(jsonData)
}
