package middlewares

import (
	"fmt"
	"net/http"
)

// RequestSizeLimitMiddleware caps request bodies at limit bytes.
//
// A request that declares a larger body is answered 413 before the handler runs, and the
// connection is closed so the client stops sending. Other bodies are wrapped with
// http.MaxBytesReader, so handlers see *http.MaxBytesError when a chunked body overruns.
func RequestSizeLimitMiddleware(limit int64) func(http.Handler) http.Handler {
	message := fmt.Sprintf("request body exceeds %d bytes", limit)
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch {
			case r.Body == nil || r.Body == http.NoBody:
			case r.ContentLength > limit:
				w.Header().Set("Connection", "close")
				WriteJSONError(w, http.StatusRequestEntityTooLarge, message)
				return
			default:
				r.Body = http.MaxBytesReader(w, r.Body, limit)
			}
			next.ServeHTTP(w, r)
		})
	}
}
