package handlers_test

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"os"
	"strings"
	"testing"
)

// Oversized bodies are rejected before reaching a handler.
func TestBodySizeLimit(t *testing.T) {
	app, _ := newTestApp(t, "")
	big := `{"product_name":"Big","quantity":1,"pad":"` + strings.Repeat("x", 2<<20) + `"}`
	req := httptest.NewRequest("POST", "/api/v1/products", bytes.NewBufferString(big))
	req.Header.Set("Content-Type", "application/json")
	resp, err := app.Test(req, -1)
	if err == nil && resp.StatusCode != http.StatusRequestEntityTooLarge {
		t.Fatalf("want 413 for oversized body, got %d", resp.StatusCode)
	}
	code, _ := doJSON(t, app, "GET", "/api/v1/products/by-name/Big", nil, nil)
	if code != http.StatusNotFound {
		t.Fatalf("oversized create must not land, got %d", code)
	}
}

func TestSearchRateLimited(t *testing.T) {
	app, _ := newTestApp(t, "")
	var limited bool
	entries := captureLogs(t, func() {
		for i := 0; i < 35; i++ {
			resp, err := app.Test(httptest.NewRequest("GET", "/api/v1/search?name=a", nil))
			if err != nil {
				t.Fatal(err)
			}
			if resp.StatusCode == http.StatusTooManyRequests {
				limited = true
				break
			}
		}
	})
	if !limited {
		t.Fatal("search was never rate limited")
	}
	if _, ok := findLog(entries, "rate.search.hit"); !ok {
		t.Fatal("rate.search.hit log not found")
	}
}

func TestBackupEndpoint(t *testing.T) {
	app, _ := newTestApp(t, "")
	doJSON(t, app, "POST", "/api/v1/products", map[string]any{"product_name": "Kept", "quantity": 1}, nil)

	code, body := doJSON(t, app, "POST", "/api/v1/backup", nil, nil)
	if code != http.StatusCreated || body["status"] != true {
		t.Fatalf("backup: got %d %v", code, body)
	}
	path, _ := body["backup_path"].(string)
	if !strings.Contains(path, "inventory_backup_") {
		t.Fatalf("unexpected backup path %q", path)
	}
	if _, err := os.Stat(path); err != nil {
		t.Fatalf("backup file missing: %v", err)
	}
}
