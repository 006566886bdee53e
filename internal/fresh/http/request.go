package http

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/thedevsir/fresh/pkg/freshsdk"
)

const (
	defaultPageLimit = 20
	maxPageLimit     = 100
)

// decodeJSON parses the request body into dst, answering the request itself
// on malformed input. Callers return immediately on false.
func decodeJSON(w http.ResponseWriter, r *http.Request, dst any) bool {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		freshsdk.ErrInvalidRequest.WriteError(w)
		return false
	}
	return true
}

// parsePage reads limit/offset query parameters with sane bounds.
func parsePage(r *http.Request) (limit, offset int) {
	limit = defaultPageLimit
	if v, err := strconv.Atoi(r.URL.Query().Get("limit")); err == nil && v > 0 {
		limit = min(v, maxPageLimit)
	}
	if v, err := strconv.Atoi(r.URL.Query().Get("offset")); err == nil && v > 0 {
		offset = v
	}
	return limit, offset
}
