package httputil

import (
	"encoding/json"
	"fmt"
	"net/http"
	"strconv"

	"quotebuilder/internal/domain"
)

// ParseJSON decodes JSON from the request body into the given destination.
// The body is limited to 1MB; documents are small.
func ParseJSON(w http.ResponseWriter, r *http.Request, dest interface{}) error {
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	decoder := json.NewDecoder(r.Body)
	decoder.DisallowUnknownFields()

	if err := decoder.Decode(dest); err != nil {
		return fmt.Errorf("%w: invalid JSON: %v", domain.ErrValidation, err)
	}

	return nil
}

// PathIndex reads a non-negative integer path parameter such as a row index
func PathIndex(r *http.Request, name string) (int, error) {
	raw := r.PathValue(name)
	n, err := strconv.Atoi(raw)
	if err != nil || n < 0 {
		return 0, domain.Invalid(fmt.Sprintf("%s must be a non-negative integer, got %q", name, raw))
	}
	return n, nil
}
