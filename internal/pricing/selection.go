package pricing

import (
	"encoding/json"
	"sort"
)

// canonicalGroup is the deterministic encoding unit for a selection: groups
// sorted by name, add-ons within a group sorted by id then name.
type canonicalGroup struct {
	Group  string          `json:"group"`
	Addons []SelectedAddon `json:"addons"`
}

// SelectionKey returns the canonical serialization of a selection. Two
// selections that contain the same groups and add-ons produce byte-equal
// keys regardless of the order they were assembled in. Empty groups are
// dropped so "no choice" and "group present but empty" compare equal.
func SelectionKey(sel Selection) string {
	groups := make([]canonicalGroup, 0, len(sel))
	for name, addons := range sel {
		if len(addons) == 0 {
			continue
		}
		groups = append(groups, canonicalGroup{Group: name, Addons: sortedAddons(addons)})
	}
	sort.Slice(groups, func(i, j int) bool { return groups[i].Group < groups[j].Group })
	if len(groups) == 0 {
		return "[]"
	}
	encoded, err := json.Marshal(groups)
	if err != nil {
		return "[]"
	}
	return string(encoded)
}

// EncodeSelection returns the JSON document to persist for a selection: the
// map form ParseSelection reads back, with empty groups dropped and add-ons
// in deterministic order. SelectionKey stays a comparison key only; it is
// never stored.
func EncodeSelection(sel Selection) string {
	normalized := make(Selection, len(sel))
	for name, addons := range sel {
		if len(addons) == 0 {
			continue
		}
		normalized[name] = sortedAddons(addons)
	}
	if len(normalized) == 0 {
		return "{}"
	}
	encoded, err := json.Marshal(normalized)
	if err != nil {
		return "{}"
	}
	return string(encoded)
}

func sortedAddons(addons []SelectedAddon) []SelectedAddon {
	sorted := make([]SelectedAddon, len(addons))
	copy(sorted, addons)
	sort.Slice(sorted, func(i, j int) bool {
		if sorted[i].AddonID != sorted[j].AddonID {
			return sorted[i].AddonID < sorted[j].AddonID
		}
		return sorted[i].Name < sorted[j].Name
	})
	return sorted
}

// SelectionsEqual reports whether two selections are identical for cart
// merge purposes.
func SelectionsEqual(a, b Selection) bool {
	return SelectionKey(a) == SelectionKey(b)
}

// MatchLine finds the first line whose add-on selection matches sel. It
// decides whether adding a product should increment an existing line or
// create a new one.
func MatchLine(lines []Line, sel Selection) (Line, bool) {
	key := SelectionKey(sel)
	for _, line := range lines {
		if SelectionKey(line.Addons) == key {
			return line, true
		}
	}
	return Line{}, false
}
