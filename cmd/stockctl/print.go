package main

import (
	"fmt"
	"io"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/jedib0t/go-pretty/v6/text"

	"stockledger/internal/domain"
)

const timeLayout = "2006-01-02 15:04:05"

func newTable(w io.Writer) table.Writer {
	t := table.NewWriter()
	t.SetOutputMirror(w)
	t.SetStyle(table.StyleLight)
	return t
}

func printProducts(w io.Writer, list []domain.Product) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "Name", "Quantity", "Status", "Updated"})
	for _, p := range list {
		t.AppendRow(table.Row{p.ID, p.Name, p.Quantity, statusText(p.StockStatus), p.UpdatedAt.Format(timeLayout)})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%d products", len(list))})
	t.Render()
}

func statusText(s domain.StockStatus) string {
	switch s {
	case domain.OutOfStock:
		return text.FgRed.Sprint(s)
	case domain.LowStock:
		return text.FgYellow.Sprint(s)
	}
	return string(s)
}

func printTransactions(w io.Writer, list []domain.Transaction) {
	t := newTable(w)
	t.AppendHeader(table.Row{"ID", "When", "Product", "Type", "Old", "New", "Change", "Reference"})
	for _, e := range list {
		old := "-"
		if e.OldQuantity != nil {
			old = fmt.Sprint(*e.OldQuantity)
		}
		t.AppendRow(table.Row{
			e.ID, e.PerformedAt.Format(timeLayout), e.ProductName, e.Type,
			old, e.NewQuantity, fmt.Sprintf("%+d", e.ChangeAmount), e.Reference,
		})
	}
	t.Render()
}

func printStats(w io.Writer, st domain.Stats) {
	t := newTable(w)
	t.AppendRows([]table.Row{
		{"Products", st.ProductCount},
		{"Transactions", st.TransactionCount},
		{"Total stock", st.TotalStock},
		{"Out of stock", st.OutOfStockCount},
		{"Low stock", st.LowStockCount},
		{"Database", st.DatabasePath},
		{"Size (bytes)", st.DatabaseSize},
	})
	t.Render()
}

func printImport(w io.Writer, res domain.ImportResult) {
	fmt.Fprintf(w, "batch %s: %d created, %d failed\n", res.Reference, len(res.Created), len(res.Failed))
	if len(res.Created) > 0 {
		printProducts(w, res.Created)
	}
	if len(res.Failed) > 0 {
		t := newTable(w)
		t.AppendHeader(table.Row{"Name", "Kind", "Error"})
		for _, f := range res.Failed {
			t.AppendRow(table.Row{f.Name, f.Kind, f.Error})
		}
		t.Render()
	}
}
