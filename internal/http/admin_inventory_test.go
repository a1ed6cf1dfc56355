package handlers_test

import (
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gofiber/fiber/v2"
)

func adminCSRF(t *testing.T, app *fiber.App) string {
	t.Helper()
	resp, err := app.Test(httptest.NewRequest("GET", "/admin/inventory", nil))
	if err != nil {
		t.Fatal(err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("dashboard: want 200, got %d", resp.StatusCode)
	}
	tok := extractCookie(resp, "csrf_")
	if tok == "" {
		t.Fatal("csrf token missing")
	}
	return tok
}

func TestAdminInventorySetsQuantity(t *testing.T) {
	app, _ := newTestApp(t, "")
	doJSON(t, app, "POST", "/api/v1/products", map[string]any{"product_name": "Shelf", "quantity": 1}, nil)
	tok := adminCSRF(t, app)

	entries := captureLogs(t, func() {
		form := strings.NewReader("csrf=" + tok + "&product_id=1&qty=9")
		req := httptest.NewRequest("POST", "/admin/inventory", form)
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusFound {
			t.Fatalf("save: want 302, got %d", resp.StatusCode)
		}
	})

	e, ok := findLog(entries, "admin.inventory.save")
	if !ok {
		t.Fatal("admin.inventory.save log not found")
	}
	for _, f := range []string{"product_id", "qty"} {
		if _, ok := e.Fields[f]; !ok {
			t.Fatalf("admin.inventory.save missing %s", f)
		}
	}
	if _, ok := findLog(entries, "ledger.set"); !ok {
		t.Fatal("dashboard edit did not go through the ledger")
	}

	_, body := doJSON(t, app, "GET", "/api/v1/products/1", nil, nil)
	if body["quantity"].(float64) != 9 {
		t.Fatalf("quantity not saved: %v", body)
	}

	resp, err := app.Test(httptest.NewRequest("GET", "/admin/inventory", nil))
	if err != nil {
		t.Fatal(err)
	}
	page, _ := io.ReadAll(resp.Body)
	if !strings.Contains(string(page), "Shelf") || !strings.Contains(string(page), "SET") {
		t.Fatalf("dashboard missing product or ledger entry:\n%s", page)
	}
}

func TestAdminInventoryRejectsMissingCSRF(t *testing.T) {
	app, _ := newTestApp(t, "")
	doJSON(t, app, "POST", "/api/v1/products", map[string]any{"product_name": "Shelf", "quantity": 1}, nil)

	req := httptest.NewRequest("POST", "/admin/inventory", strings.NewReader("product_id=1&qty=9"))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	var status int
	captureLogs(t, func() {
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		status = resp.StatusCode
	})
	if status != http.StatusForbidden {
		t.Fatalf("want 403 without csrf, got %d", status)
	}
}

func TestAdminInventoryBadForm(t *testing.T) {
	app, _ := newTestApp(t, "")
	tok := adminCSRF(t, app)
	for _, form := range []string{"product_id=x&qty=1", "product_id=1&qty=-3", "product_id=1"} {
		req := httptest.NewRequest("POST", "/admin/inventory", strings.NewReader("csrf="+tok+"&"+form))
		req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
		req.AddCookie(&http.Cookie{Name: "csrf_", Value: tok})
		resp, err := app.Test(req)
		if err != nil {
			t.Fatal(err)
		}
		if resp.StatusCode != http.StatusBadRequest {
			t.Fatalf("%s: want 400, got %d", form, resp.StatusCode)
		}
	}
}

// Templates auto-escape untrusted text.
func TestAdminTemplateAutoEscape(t *testing.T) {
	app, _ := newTestApp(t, "")
	resp, err := app.Test(httptest.NewRequest("GET", "/admin/inventory?err=%3Cscript%3Ealert(1)%3C/script%3E", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	if strings.Contains(s, "<script>alert(1)</script>") {
		t.Fatalf("found unescaped script tag in output")
	}
	if !strings.Contains(s, "&lt;script&gt;alert(1)&lt;/script&gt;") {
		t.Fatalf("escaped script not found; output=%s", s)
	}
}
