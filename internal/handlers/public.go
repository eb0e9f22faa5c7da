package handlers

import (
	"encoding/json"
	"net/http"
)

// publicItems is the static listing served without authentication.
var publicItems = []map[string]string{
	{"name": "getting-started", "description": "How to obtain a token and call the API"},
	{"name": "status", "description": "Service status page"},
	{"name": "contact", "description": "Where to report problems"},
}

// Home answers the root path.
func Home(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("Hello World"))
}

// PublicItems serves the unauthenticated static listing.
func PublicItems(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(map[string]interface{}{"items": publicItems})
}
