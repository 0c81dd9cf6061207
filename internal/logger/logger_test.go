package logger

import (
	"bytes"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestLogError_WritesJSON(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "json")

	LogError("store failed", errors.New("boom"), "course_id", 3)

	var entry map[string]any
	if err := json.Unmarshal(buf.Bytes(), &entry); err != nil {
		t.Fatalf("decode log line %q: %v", buf.String(), err)
	}
	if entry["msg"] != "store failed" || entry["error"] != "boom" {
		t.Fatalf("unexpected entry: %v", entry)
	}
	if entry["course_id"] != float64(3) {
		t.Fatalf("course_id = %v", entry["course_id"])
	}
}

func TestLevelFiltersDebug(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "warn", "text")

	LogDebug("hidden")
	LogInfo("hidden too")
	LogWarn("shown")

	out := buf.String()
	if strings.Contains(out, "hidden") || !strings.Contains(out, "shown") {
		t.Fatalf("unexpected output: %q", out)
	}
}

func TestRequestLogger_RecordsStatus(t *testing.T) {
	var buf bytes.Buffer
	InitWriter(&buf, "info", "json")

	h := RequestLogger(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	rec := httptest.NewRecorder()
	h.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/brew", nil))

	if !strings.Contains(buf.String(), `"status":418`) || !strings.Contains(buf.String(), `"path":"/brew"`) {
		t.Fatalf("request not logged: %q", buf.String())
	}
}
