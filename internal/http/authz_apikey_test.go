package handlers_test

import (
	"net/http"
	"testing"

	"golang.org/x/crypto/bcrypt"

	"stockledger/internal/services"
)

func TestMutationsRequireAPIKey(t *testing.T) {
	hash, err := services.HashAPIKey("letmein", bcrypt.MinCost)
	if err != nil {
		t.Fatal(err)
	}
	app, _ := newTestApp(t, hash)
	create := map[string]any{"product_name": "Locked", "quantity": 1}

	var denied []logEntry
	entries := captureLogs(t, func() {
		code, body := doJSON(t, app, "POST", "/api/v1/products", create, nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("no key: want 401, got %d %v", code, body)
		}
		code, _ = doJSON(t, app, "POST", "/api/v1/products", create, map[string]string{"X-API-Key": "wrong"})
		if code != http.StatusUnauthorized {
			t.Fatalf("bad key: want 401, got %d", code)
		}
	})
	for _, e := range entries {
		if e.Action == "access.denied.apikey" {
			denied = append(denied, e)
		}
	}
	if len(denied) != 2 {
		t.Fatalf("want 2 access.denied.apikey logs, got %d", len(denied))
	}
	if denied[0].Level != "warn" || denied[0].ReqID == "" {
		t.Fatalf("denial log missing level/req_id: %+v", denied[0])
	}

	code, body := doJSON(t, app, "POST", "/api/v1/products", create, map[string]string{"X-API-Key": "letmein"})
	if code != http.StatusCreated {
		t.Fatalf("good key: want 201, got %d %v", code, body)
	}

	// reads stay open
	code, _ = doJSON(t, app, "GET", "/api/v1/products", nil, nil)
	if code != http.StatusOK {
		t.Fatalf("list without key: want 200, got %d", code)
	}
	for _, c := range []struct{ method, path string }{
		{"PUT", "/api/v1/products/1/quantity"},
		{"POST", "/api/v1/products/1/add"},
		{"POST", "/api/v1/products/1/order"},
		{"DELETE", "/api/v1/products/1"},
		{"POST", "/api/v1/products/bulk"},
		{"POST", "/api/v1/backup"},
	} {
		code, _ := doJSON(t, app, c.method, c.path, map[string]any{"quantity": 1}, nil)
		if code != http.StatusUnauthorized {
			t.Fatalf("%s %s without key: want 401, got %d", c.method, c.path, code)
		}
	}
}
