package pricing

import (
	"encoding/json"
	"testing"
)

func sel(group string, addons ...SelectedAddon) Selection {
	return Selection{group: addons}
}

func TestAddonTotal(t *testing.T) {
	if got := AddonTotal(nil); got != 0 {
		t.Fatalf("nil selection should total 0, got %d", got)
	}
	if got := AddonTotal(Selection{}); got != 0 {
		t.Fatalf("empty selection should total 0, got %d", got)
	}
	s := Selection{
		"size":     {{AddonID: "a", Name: "Large", Price: 150}},
		"toppings": {{AddonID: "b", Name: "Cheese", Price: 50}, {AddonID: "c", Name: "Olives", Price: -25}},
	}
	if got := AddonTotal(s); got != 175 {
		t.Fatalf("expected 175, got %d", got)
	}
}

func TestLineTotal(t *testing.T) {
	addons := sel("size", SelectedAddon{AddonID: "a", Name: "Large", Price: 100})
	if got := LineTotal(500, 2, addons); got != 1200 {
		t.Fatalf("expected (500+100)*2 = 1200, got %d", got)
	}
	if got := LineTotal(500, 0, addons); got != 0 {
		t.Fatalf("zero quantity must price to 0, got %d", got)
	}
	if got := LineTotal(500, -1, addons); got != 0 {
		t.Fatalf("negative quantity must price to 0, got %d", got)
	}
	if got := LineTotal(350, 1, nil); got != 350 {
		t.Fatalf("expected 350, got %d", got)
	}
}

func TestCartTotal(t *testing.T) {
	if got := CartTotal(nil); got != 0 {
		t.Fatalf("empty cart should total 0, got %d", got)
	}
	lines := []Line{
		{ProductID: "p1", Qty: 2, UnitPrice: 500, Addons: sel("size", SelectedAddon{AddonID: "a", Price: 100}), ItemTotal: 1200},
		{ProductID: "p2", Qty: 1, UnitPrice: 350, ItemTotal: 350},
	}
	if got := CartTotal(lines); got != 1550 {
		t.Fatalf("expected 15.50 in minor units (1550), got %d", got)
	}
}

func TestValidateLines(t *testing.T) {
	good := Line{ProductID: "p1", Qty: 2, UnitPrice: 500, ItemTotal: 1000}
	if diffs := ValidateLines([]Line{good}); diffs != nil {
		t.Fatalf("consistent line should produce no diffs, got %v", diffs)
	}
	bad := Line{ProductID: "p2", Qty: 3, UnitPrice: 400, ItemTotal: 999}
	diffs := ValidateLines([]Line{good, bad})
	if len(diffs) != 1 {
		t.Fatalf("expected a single diff, got %v", diffs)
	}
	if diffs[0].ProductID != "p2" || diffs[0].Stored != 999 || diffs[0].Expected != 1200 {
		t.Fatalf("unexpected diff: %+v", diffs[0])
	}
}

func TestIdempotence(t *testing.T) {
	lines := []Line{
		{ProductID: "p1", Qty: 2, UnitPrice: 500, ItemTotal: 1000},
		{ProductID: "p2", Qty: 1, UnitPrice: 350, ItemTotal: 350},
	}
	first := CartTotal(lines)
	second := CartTotal(lines)
	if first != second {
		t.Fatalf("CartTotal not idempotent: %d vs %d", first, second)
	}
	s := sel("size", SelectedAddon{AddonID: "a", Name: "Large", Price: 150})
	if LineTotal(500, 2, s) != LineTotal(500, 2, s) {
		t.Fatal("LineTotal not idempotent")
	}
}

func TestCoerceMoney(t *testing.T) {
	cases := []struct {
		name string
		in   any
		want Money
	}{
		{"nil", nil, 0},
		{"int", 150, 150},
		{"int64", Money(42), 42},
		{"float round up", 1.5, 2},
		{"float round down", 1.4, 1},
		{"negative half", -2.5, -3},
		{"string int", "250", 250},
		{"string float", "2.5", 3},
		{"garbage string", "abc", 0},
		{"empty string", "", 0},
		{"json number", json.Number("99"), 99},
		{"unsupported type", struct{}{}, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := CoerceMoney(tc.in); got != tc.want {
				t.Fatalf("CoerceMoney(%v) = %d, want %d", tc.in, got, tc.want)
			}
		})
	}
}

func TestSelectedAddonTolerantDecode(t *testing.T) {
	cases := []struct {
		name string
		doc  string
		want Money
	}{
		{"numeric price", `{"addon_id":"a","name":"Large","price":150}`, 150},
		{"string price", `{"addon_id":"a","name":"Large","price":"150"}`, 150},
		{"null price", `{"addon_id":"a","name":"Large","price":null}`, 0},
		{"garbage price", `{"addon_id":"a","name":"Large","price":{"x":1}}`, 0},
		{"missing price", `{"addon_id":"a","name":"Large"}`, 0},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			var a SelectedAddon
			if err := json.Unmarshal([]byte(tc.doc), &a); err != nil {
				t.Fatalf("decode: %v", err)
			}
			if a.Price != tc.want {
				t.Fatalf("price = %d, want %d", a.Price, tc.want)
			}
			if a.AddonID != "a" || a.Name != "Large" {
				t.Fatalf("unexpected addon: %+v", a)
			}
		})
	}

	t.Run("legacy id field", func(t *testing.T) {
		var a SelectedAddon
		if err := json.Unmarshal([]byte(`{"id":"x","name":"Small","price":10}`), &a); err != nil {
			t.Fatalf("decode: %v", err)
		}
		if a.AddonID != "x" {
			t.Fatalf("expected id fallback, got %q", a.AddonID)
		}
	})
}

func TestParseSelection(t *testing.T) {
	if got := ParseSelection(nil); got == nil || len(got) != 0 {
		t.Fatalf("nil raw should yield empty selection, got %v", got)
	}
	if got := ParseSelection([]byte("not json")); len(got) != 0 {
		t.Fatalf("malformed raw should yield empty selection, got %v", got)
	}
	parsed := ParseSelection([]byte(`{"size":[{"addon_id":"a","name":"Large","price":"1e2"}]}`))
	if AddonTotal(parsed) != 100 {
		t.Fatalf("expected coerced total 100, got %d", AddonTotal(parsed))
	}
}

func TestFormatMoney(t *testing.T) {
	if got := FormatMoney(1250, "JD"); got != "12.50 JD" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMoney(-5, "JD"); got != "-0.05 JD" {
		t.Fatalf("got %q", got)
	}
	if got := FormatMoney(300, ""); got != "3.00" {
		t.Fatalf("got %q", got)
	}
}
