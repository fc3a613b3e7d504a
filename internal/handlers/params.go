package handlers

import (
	"net/http"
	"strings"
)

// getParam returns a route variable. pat exposes them as ":name" query
// values; requests routed by the standard mux fall back to PathValue.
func getParam(r *http.Request, name string) string {
	if v := r.URL.Query().Get(":" + name); v != "" {
		return strings.TrimSpace(v)
	}
	return strings.TrimSpace(r.PathValue(name))
}
