package middleware

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/Lixing-Zhang/kart-challenge/storefront/pkg/logger"
)

func TestLogger(t *testing.T) {
	tests := []struct {
		name       string
		handler    http.HandlerFunc
		wantStatus float64
		wantBytes  float64
	}{
		{
			name: "implicit 200",
			handler: func(w http.ResponseWriter, r *http.Request) {
				_, _ = w.Write([]byte("hello"))
			},
			wantStatus: http.StatusOK,
			wantBytes:  5,
		},
		{
			name: "explicit status",
			handler: func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusNotFound)
			},
			wantStatus: http.StatusNotFound,
			wantBytes:  0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var buf bytes.Buffer
			h := chimiddleware.RequestID(Logger(logger.NewWithWriter(&buf, "info"))(tt.handler))

			req := httptest.NewRequest(http.MethodGet, "/products", nil)
			w := httptest.NewRecorder()
			h.ServeHTTP(w, req)

			var entry map[string]interface{}
			if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
				t.Fatalf("failed to decode log entry: %v (%s)", err, buf.String())
			}

			if entry["msg"] != "http request" {
				t.Errorf("msg = %v, want http request", entry["msg"])
			}
			if entry["path"] != "/products" {
				t.Errorf("path = %v, want /products", entry["path"])
			}
			if entry["status"] != tt.wantStatus {
				t.Errorf("status = %v, want %v", entry["status"], tt.wantStatus)
			}
			if entry["bytes"] != tt.wantBytes {
				t.Errorf("bytes = %v, want %v", entry["bytes"], tt.wantBytes)
			}
			if id, _ := entry["request_id"].(string); id == "" {
				t.Error("expected a request id")
			}
		})
	}
}
