package handler

import (
	"encoding/json"
	"errors"
	"io"
	"net/http"

	apperrors "github.com/ucu-wifi/guest-portal-go/internal/errors"
	"github.com/ucu-wifi/guest-portal-go/internal/httputil"
)

func writeJSON(w http.ResponseWriter, status int, data any) {
	httputil.WriteJSON(w, status, data)
}

func writeSuccess(w http.ResponseWriter, status int, message string, data any) {
	httputil.WriteSuccess(w, status, message, data)
}

// decodeJSON reads a JSON request body into dst. Unknown fields are ignored
// so older dashboard builds keep working.
func decodeJSON(r *http.Request, dst any) error {
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		var maxErr *http.MaxBytesError
		switch {
		case errors.As(err, &maxErr):
			return apperrors.ValidationError("Request body too large")
		case errors.Is(err, io.EOF):
			return apperrors.ValidationError("Request body is required")
		default:
			return apperrors.ValidationError("Invalid JSON body").WithCause(err)
		}
	}
	return nil
}

// NotFoundAPI answers unknown /api routes with the JSON envelope.
func NotFoundAPI(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusNotFound, httputil.ErrorResponse{
		Message: "API endpoint not found",
		Code:    apperrors.ErrCodeNotFound,
	})
}
