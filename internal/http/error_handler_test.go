package handlers_test

import (
	"io"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

// Store failures surface as 503 without leaking driver detail.
func TestStorageFailureIsFriendly(t *testing.T) {
	app, store := newTestApp(t, "")
	_ = store.Close()

	var status int
	var s string
	entries := captureLogs(t, func() {
		resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/products", nil))
		if err != nil {
			t.Fatalf("test request failed: %v", err)
		}
		status = resp.StatusCode
		body, _ := io.ReadAll(resp.Body)
		s = string(body)
	})
	if status != fiber.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", status)
	}
	if !strings.Contains(s, "please retry") || !strings.Contains(s, `"kind":"storage"`) {
		t.Fatalf("friendly message missing; body=%s", s)
	}
	if strings.Contains(s, "database is closed") || strings.Contains(s, "sql:") {
		t.Fatalf("internal details leaked to user; body=%s", s)
	}

	e, ok := findLog(entries, "api.products.list.fail")
	if !ok {
		t.Fatal("storage failure not logged")
	}
	if e.Level != "error" || e.Kind != "storage" || e.Err == "" {
		t.Fatalf("error log incomplete: %+v", e)
	}
}

func TestHealthReportsDatabase(t *testing.T) {
	app, store := newTestApp(t, "")
	code, body := doJSON(t, app, "GET", "/health", nil, nil)
	if code != fiber.StatusOK || body["database"] != "healthy" {
		t.Fatalf("health: got %d %v", code, body)
	}

	_ = store.Close()
	captureLogs(t, func() {
		code, body = doJSON(t, app, "GET", "/health", nil, nil)
	})
	if body["database"] != "unhealthy" {
		t.Fatalf("health after close: got %d %v", code, body)
	}
}
