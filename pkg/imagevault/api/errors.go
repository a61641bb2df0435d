package api

import (
	"errors"
	"net/http"

	"github.com/go-chi/render"

	"github.com/imagevault/imagevault/pkg/imagevault"
)

// ErrorResponse is the JSON body returned for failed requests
type ErrorResponse struct {
	Error string `json:"error"`
}

// writeError maps domain errors to HTTP status codes: not-found to 404,
// validation and conflict to 400, everything else to 500.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	status := http.StatusInternalServerError
	switch {
	case errors.Is(err, imagevault.ErrImageNotFound):
		status = http.StatusNotFound
	case errors.Is(err, imagevault.ErrImageExists):
		status = http.StatusBadRequest
	}

	render.Status(r, status)
	render.JSON(w, r, ErrorResponse{Error: err.Error()})
}
