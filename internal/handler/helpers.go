package handler

import (
	"errors"
	"net/http"

	validation "github.com/go-ozzo/ozzo-validation/v4"

	"quotebuilder/internal/domain"
	"quotebuilder/internal/httputil"
)

// handleError converts domain errors to HTTP responses. Field validation
// failures also carry the per-field messages under "errors".
func handleError(w http.ResponseWriter, err error) {
	var fieldErrs validation.Errors
	switch {
	case errors.Is(err, domain.ErrValidation) && errors.As(err, &fieldErrs):
		httputil.RespondErrorWithExtras(w, http.StatusBadRequest, err.Error(), map[string]interface{}{
			"errors": fieldErrs,
		})
	case errors.Is(err, domain.ErrValidation):
		httputil.RespondError(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, domain.ErrNotFound):
		httputil.RespondError(w, http.StatusNotFound, err.Error())
	default:
		httputil.RespondError(w, http.StatusInternalServerError, "internal server error")
	}
}

// pathIndexes reads the named integer path parameters in order
func pathIndexes(r *http.Request, names ...string) ([]int, error) {
	out := make([]int, len(names))
	for i, name := range names {
		n, err := httputil.PathIndex(r, name)
		if err != nil {
			return nil, err
		}
		out[i] = n
	}
	return out, nil
}
