package middleware

import (
	"io"
	"net/http"
)

// bodies larger than this are closed without reading them to the end,
// the connection is then not reused
const maxDrainBytes = 256 << 10

// DrainAndCloseRequest drains what is left of the request body, up to
// maxDrainBytes, and closes it after the handler is done.
func DrainAndCloseRequest() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r)
			if r.Body == nil || r.Body == http.NoBody {
				return
			}
			_, _ = io.Copy(io.Discard, io.LimitReader(r.Body, maxDrainBytes))
			_ = r.Body.Close()
		})
	}
}
