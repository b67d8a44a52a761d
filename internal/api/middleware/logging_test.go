package middleware

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestScrubQuery(t *testing.T) {
	long := strings.Repeat("a", maxLoggedQueryLen+40)

	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"empty", "", ""},
		{"plain resolve query", "q=jump+van+halen&debug=1", "q=jump+van+halen&debug=1"},
		{"credential redacted", "q=jump&api_key=hunter2", "q=jump&api_key=REDACTED"},
		{"long query clamped", "q=" + long, "q=" + long[:maxLoggedQueryLen] + "..."},
		{"valueless param untouched", "debug", "debug"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := scrubQuery(tt.raw); got != tt.want {
				t.Errorf("scrubQuery(%q) = %q, want %q", tt.raw, got, tt.want)
			}
		})
	}
}

func TestLoggingRecordsStatusAndSize(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	handler := Logging(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
		w.Write([]byte("short and stout")) //nolint:errcheck
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/resolve?q=jump", nil)
	handler.ServeHTTP(httptest.NewRecorder(), req)

	var entry struct {
		Status int    `json:"status"`
		Bytes  int    `json:"bytes"`
		Query  string `json:"query"`
	}
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("unparseable log line: %v", err)
	}
	if entry.Status != http.StatusTeapot {
		t.Errorf("status = %d, want %d", entry.Status, http.StatusTeapot)
	}
	if entry.Bytes != len("short and stout") {
		t.Errorf("bytes = %d, want %d", entry.Bytes, len("short and stout"))
	}
	if entry.Query != "q=jump" {
		t.Errorf("query = %q", entry.Query)
	}
}
