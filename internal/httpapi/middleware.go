package httpapi

import (
	"bytes"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"
)

const (
	requestIDHeader = "X-Request-ID"
	maxLogBodyBytes = 512
)

// statusRecorder keeps the status code and the first maxLogBytes of the body
// so failed requests can be logged with their error payload.
type statusRecorder struct {
	http.ResponseWriter
	statusCode   int
	bytesWritten int
	logBody      bytes.Buffer
	maxLogBytes  int
	truncated    bool
}

func (r *statusRecorder) WriteHeader(statusCode int) {
	r.statusCode = statusCode
	r.ResponseWriter.WriteHeader(statusCode)
}

func (r *statusRecorder) Write(payload []byte) (int, error) {
	if room := r.maxLogBytes - r.logBody.Len(); room > 0 {
		if len(payload) > room {
			r.logBody.Write(payload[:room])
			r.truncated = true
		} else {
			r.logBody.Write(payload)
		}
	} else if len(payload) > 0 {
		r.truncated = true
	}

	written, err := r.ResponseWriter.Write(payload)
	r.bytesWritten += written
	return written, err
}

func logRequests(logger *log.Logger, next http.Handler) http.Handler {
	if logger == nil {
		logger = log.New(io.Discard, "", 0)
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		requestID := strings.TrimSpace(r.Header.Get(requestIDHeader))
		if requestID == "" {
			requestID = uuid.NewString()
		}
		w.Header().Set(requestIDHeader, requestID)

		recorder := &statusRecorder{
			ResponseWriter: w,
			statusCode:     http.StatusOK,
			maxLogBytes:    maxLogBodyBytes,
		}
		start := time.Now()
		next.ServeHTTP(recorder, r)

		if recorder.statusCode >= http.StatusBadRequest {
			body := strings.TrimSpace(recorder.logBody.String())
			if recorder.truncated {
				body += "..."
			}
			logger.Printf("%s %s %s -> %d (%d bytes, %s) %s", requestID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, time.Since(start).Round(time.Millisecond), body)
			return
		}
		logger.Printf("%s %s %s -> %d (%d bytes, %s)", requestID, r.Method, r.URL.Path, recorder.statusCode, recorder.bytesWritten, time.Since(start).Round(time.Millisecond))
	})
}
