package handlers

import (
	"encoding/json"
	"net/http"
)

// Every error response has the shape {"error":{"code":<int>,"message":<string>}}
// with the HTTP status equal to code.

type errorDetail struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

type errorBody struct {
	Error errorDetail `json:"error"`
}

// Canonical messages per status. Auth failures always use the 401 message,
// whatever the underlying cause, so the response never reveals which check failed.
var statusMessages = map[int]string{
	http.StatusBadRequest:            "Bad Request",
	http.StatusUnauthorized:          "Unauthenticated",
	http.StatusForbidden:             "Forbidden",
	http.StatusNotFound:              "Not Found",
	http.StatusMethodNotAllowed:      "Method Not Allowed",
	http.StatusNotAcceptable:         "Not Acceptable",
	http.StatusConflict:              "Conflict",
	http.StatusRequestEntityTooLarge: "Request Entity Too Large",
	http.StatusUnsupportedMediaType:  "Unsupported Media Type",
	http.StatusTooManyRequests:       "Too Many Requests",
	http.StatusInternalServerError:   "Internal Server Error",
}

// JSONError sends the uniform error body with a custom message.
func JSONError(w http.ResponseWriter, message string, status int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(errorBody{Error: errorDetail{Code: status, Message: message}})
}

// JSONStatusError sends the uniform error body with the canonical message
// for status. Internal details never reach the client this way.
func JSONStatusError(w http.ResponseWriter, status int) {
	msg, ok := statusMessages[status]
	if !ok {
		msg = http.StatusText(status)
	}
	JSONError(w, msg, status)
}

// NotFound and MethodNotAllowed are installed on the router so chi's default
// plain-text fallbacks also produce the uniform body.
func NotFound(w http.ResponseWriter, r *http.Request) {
	JSONStatusError(w, http.StatusNotFound)
}

func MethodNotAllowed(w http.ResponseWriter, r *http.Request) {
	JSONStatusError(w, http.StatusMethodNotAllowed)
}
