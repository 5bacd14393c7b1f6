package middleware

import (
	"net/http"

	"github.com/ucu-wifi/guest-portal-go/internal/httputil"
)

// writeError never includes the underlying cause.
func writeError(w http.ResponseWriter, err error) {
	httputil.WriteError(w, err, false)
}
