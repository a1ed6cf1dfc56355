package handlers_test

import (
	"fmt"
	"io"
	"net/http/httptest"
	"strings"
	"testing"
)

// Committed mutations leave both the API audit line and the ledger line.
func TestMutationAuditLogs(t *testing.T) {
	app, _ := newTestApp(t, "")

	entries := captureLogs(t, func() {
		_, body := doJSON(t, app, "POST", "/api/v1/products", map[string]any{"product_name": "Audited", "quantity": 4}, nil)
		id := int(productOf(t, body)["id"].(float64))
		doJSON(t, app, "POST", fmt.Sprintf("/api/v1/products/%d/order", id), map[string]any{"quantity": 1}, nil)
		doJSON(t, app, "POST", fmt.Sprintf("/api/v1/products/%d/order", id), map[string]any{"quantity": 10}, nil)
	})

	api, ok := findLog(entries, "api.products.create")
	if !ok {
		t.Fatal("api.products.create log not found")
	}
	if api.ReqID == "" {
		t.Fatal("api audit log missing req_id")
	}
	if _, ok := api.Fields["product_id"]; !ok {
		t.Fatal("api.products.create missing product_id")
	}

	ledger, ok := findLog(entries, "ledger.decrement")
	if !ok {
		t.Fatal("ledger.decrement log not found")
	}
	for _, f := range []string{"product_id", "old_quantity", "new_quantity", "change_amount", "reference"} {
		if _, ok := ledger.Fields[f]; !ok {
			t.Fatalf("ledger.decrement missing %s: %v", f, ledger.Fields)
		}
	}
	if ledger.Fields["change_amount"].(float64) != -1 {
		t.Fatalf("want change -1, got %v", ledger.Fields["change_amount"])
	}

	n := 0
	for _, e := range entries {
		if e.Action == "ledger.decrement" {
			n++
		}
	}
	if n != 1 {
		t.Fatalf("refused order must not be audited as a commit; got %d ledger.decrement lines", n)
	}
}

func TestMetricsExposeMutations(t *testing.T) {
	app, _ := newTestApp(t, "")
	doJSON(t, app, "POST", "/api/v1/products", map[string]any{"product_name": "Counted", "quantity": 2}, nil)
	doJSON(t, app, "POST", "/api/v1/products/1/order", map[string]any{"quantity": 9}, nil)

	resp, err := app.Test(httptest.NewRequest("GET", "/metrics", nil))
	if err != nil {
		t.Fatal(err)
	}
	body, _ := io.ReadAll(resp.Body)
	s := string(body)
	for _, want := range []string{
		`stockledger_mutations_total{outcome="ok",type="create"} 1`,
		`stockledger_mutations_total{outcome="insufficient_stock",type="decrement"} 1`,
		`stockledger_units_moved_total{type="create"} 2`,
	} {
		if !strings.Contains(s, want) {
			t.Fatalf("metrics missing %q:\n%s", want, s)
		}
	}
}
