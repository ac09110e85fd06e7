package pricing

import "testing"

func TestSelectionKeyOrderIndependent(t *testing.T) {
	a := Selection{
		"size":     {{AddonID: "a", Name: "Large", Price: 150}},
		"toppings": {{AddonID: "b", Name: "Cheese", Price: 50}, {AddonID: "c", Name: "Olives", Price: 25}},
	}
	// Same content assembled in a different construction order.
	b := Selection{}
	b["toppings"] = []SelectedAddon{{AddonID: "c", Name: "Olives", Price: 25}, {AddonID: "b", Name: "Cheese", Price: 50}}
	b["size"] = []SelectedAddon{{AddonID: "a", Name: "Large", Price: 150}}

	if SelectionKey(a) != SelectionKey(b) {
		t.Fatalf("keys differ:\n%s\n%s", SelectionKey(a), SelectionKey(b))
	}
	if !SelectionsEqual(a, b) {
		t.Fatal("semantically identical selections must compare equal")
	}
}

func TestSelectionKeyDistinguishesContent(t *testing.T) {
	a := Selection{"size": {{AddonID: "a", Name: "Large", Price: 150}}}
	b := Selection{"size": {{AddonID: "a", Name: "Large", Price: 175}}}
	if SelectionKey(a) == SelectionKey(b) {
		t.Fatal("price change must produce a different key")
	}
}

func TestSelectionKeyEmptyGroups(t *testing.T) {
	empty := Selection{}
	withEmptyGroup := Selection{"size": {}}
	if SelectionKey(empty) != SelectionKey(withEmptyGroup) {
		t.Fatal("an empty group must not change the key")
	}
	if SelectionKey(nil) != "[]" {
		t.Fatalf("nil selection key = %q", SelectionKey(nil))
	}
}

func TestEncodeSelectionRoundTrip(t *testing.T) {
	sel := Selection{
		"Extras": {{AddonID: "a1", Name: "Garlic", Price: 50}, {AddonID: "a2", Name: "Cheese", Price: 75}},
		"Bread":  {{AddonID: "b1", Name: "Saj", Price: 0}},
		"empty":  {},
	}

	stored := EncodeSelection(sel)
	parsed := ParseSelection([]byte(stored))

	if !SelectionsEqual(sel, parsed) {
		t.Fatalf("stored document does not read back:\nstored: %s\nparsed: %s", stored, SelectionKey(parsed))
	}
	if got := AddonTotal(parsed); got != 125 {
		t.Fatalf("add-on prices lost in round trip: got %d, want 125", got)
	}
	if _, ok := parsed["empty"]; ok {
		t.Fatal("empty groups must be dropped on encode")
	}

	if EncodeSelection(nil) != "{}" {
		t.Fatalf("nil selection encodes as %q", EncodeSelection(nil))
	}
}

func TestParseSelectionGroupedArrayForm(t *testing.T) {
	sel := Selection{"Extras": {{AddonID: "a1", Name: "Garlic", Price: 50}}}

	parsed := ParseSelection([]byte(SelectionKey(sel)))

	if !SelectionsEqual(sel, parsed) {
		t.Fatalf("grouped array form does not parse back: %s", SelectionKey(parsed))
	}
	if got := AddonTotal(parsed); got != 50 {
		t.Fatalf("add-on total after parsing array form = %d, want 50", got)
	}
}

func TestMatchLine(t *testing.T) {
	large := Selection{"size": {{AddonID: "a", Name: "Large", Price: 150}}}
	small := Selection{"size": {{AddonID: "s", Name: "Small", Price: 0}}}
	lines := []Line{
		{ProductID: "p1", Qty: 1, UnitPrice: 500, Addons: large, ItemTotal: 650},
		{ProductID: "p1", Qty: 2, UnitPrice: 500, Addons: small, ItemTotal: 1000},
	}

	match, ok := MatchLine(lines, Selection{"size": {{AddonID: "s", Name: "Small", Price: 0}}})
	if !ok {
		t.Fatal("expected a match for the small selection")
	}
	if match.Qty != 2 {
		t.Fatalf("matched wrong line: %+v", match)
	}

	if _, ok := MatchLine(lines, Selection{"size": {{AddonID: "z", Name: "XL", Price: 300}}}); ok {
		t.Fatal("unexpected match for unknown selection")
	}
	if _, ok := MatchLine(nil, large); ok {
		t.Fatal("no lines should never match")
	}
}
