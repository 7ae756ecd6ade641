// Package responsewriter records the status and size of a response for the
// logging and metrics middleware.
package responsewriter

import (
	"net/http"
)

// ResponseWriter wraps http.ResponseWriter and remembers what was written.
type ResponseWriter struct {
	http.ResponseWriter
	statusCode    int
	bytesWritten  int
	headerWritten bool
}

// Wrap returns w wrapped. The status defaults to 200 until WriteHeader is called.
func Wrap(w http.ResponseWriter) *ResponseWriter {
	if rw, ok := w.(*ResponseWriter); ok {
		return rw
	}
	return &ResponseWriter{ResponseWriter: w, statusCode: http.StatusOK}
}

// WriteHeader records the first status code; later calls are dropped like
// net/http does.
func (w *ResponseWriter) WriteHeader(statusCode int) {
	if w.headerWritten {
		return
	}
	w.statusCode = statusCode
	w.headerWritten = true
	w.ResponseWriter.WriteHeader(statusCode)
}

func (w *ResponseWriter) Write(b []byte) (int, error) {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	n, err := w.ResponseWriter.Write(b)
	w.bytesWritten += n
	return n, err
}

// Flush forwards to the underlying writer when it supports flushing.
func (w *ResponseWriter) Flush() {
	if !w.headerWritten {
		w.WriteHeader(http.StatusOK)
	}
	if f, ok := w.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

func (w *ResponseWriter) StatusCode() int { return w.statusCode }

func (w *ResponseWriter) BytesWritten() int { return w.bytesWritten }

// Unwrap lets http.ResponseController reach the original writer.
func (w *ResponseWriter) Unwrap() http.ResponseWriter {
	return w.ResponseWriter
}
