package httpx

import (
	"encoding/json"
	"net/http"
)

// JSON writes v with the given status. An encoding failure after the header
// is sent cannot be reported to the client and is dropped.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.Header().Set("X-Content-Type-Options", "nosniff")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// JSONError writes {"error": message}. Transport-level rejections (bad path
// parameters, missing session) use it; domain failures go through errhttp.
func JSONError(w http.ResponseWriter, status int, message string) {
	JSON(w, status, map[string]string{"error": message})
}
