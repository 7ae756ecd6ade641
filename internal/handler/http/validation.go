package http

import (
	"mime"
	"net/http"

	"contentflow/internal/handler/http/respond"
)

const maxURILength = 2048

// InputValidation rejects oversized URIs and request bodies that are not JSON.
// Requests without a body (GET, OPTIONS, empty POST) pass through.
func InputValidation() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if len(r.URL.RequestURI()) > maxURILength {
				respond.Failure(w, r, respond.NewAppError(http.StatusRequestURITooLong, "URI too long", nil))
				return
			}

			if r.ContentLength != 0 && hasBody(r.Method) {
				mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
				if err != nil || mediaType != "application/json" {
					respond.Failure(w, r, respond.NewAppError(http.StatusUnsupportedMediaType,
						"Content-Type must be application/json", nil))
					return
				}
			}

			next.ServeHTTP(w, r)
		})
	}
}

func hasBody(method string) bool {
	switch method {
	case http.MethodPost, http.MethodPut, http.MethodPatch:
		return true
	default:
		return false
	}
}
