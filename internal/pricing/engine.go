// Package pricing contains the pure computation core for cart and order
// amounts: add-on composition, line totals, cart totals and aggregate
// statistics. Functions in this package perform no I/O and are safe to call
// concurrently; malformed numeric input is coerced to zero at the decoding
// boundary rather than surfaced as an error.
package pricing

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Money represents a monetary value stored in minor units.
type Money = int64

// SelectedAddon is a single add-on choice recorded on a cart or order line.
type SelectedAddon struct {
	AddonID string `json:"addon_id"`
	Name    string `json:"name"`
	Price   Money  `json:"price"`
}

// Selection maps an add-on group identifier to the choices made within it.
type Selection map[string][]SelectedAddon

// Line is a priced cart or order line. ItemTotal caches the computed total;
// ValidateLines detects drift between the cache and a fresh computation.
type Line struct {
	ProductID string
	Qty       int
	UnitPrice Money
	Addons    Selection
	ItemTotal Money
}

// AddonTotal flattens all groups of the selection and sums the add-on prices.
// An empty or nil selection totals zero.
func AddonTotal(sel Selection) Money {
	var total Money
	for _, addons := range sel {
		for _, addon := range addons {
			total += addon.Price
		}
	}
	return total
}

// LineTotal computes (unitPrice + add-on prices) * qty. A non-positive
// quantity prices to zero; callers treat that as line removal.
func LineTotal(unitPrice Money, qty int, sel Selection) Money {
	if qty <= 0 {
		return 0
	}
	return (unitPrice + AddonTotal(sel)) * Money(qty)
}

// CartTotal sums the cached per-line totals. It deliberately trusts the
// cache; use ValidateLines to cross-check.
func CartTotal(lines []Line) Money {
	var total Money
	for _, line := range lines {
		total += line.ItemTotal
	}
	return total
}

// LineDiff reports a cart line whose cached total diverges from the
// recomputed value.
type LineDiff struct {
	ProductID string
	Stored    Money
	Expected  Money
}

// ValidateLines recomputes every line total and returns the mismatches.
// A nil result means every cached total is consistent.
func ValidateLines(lines []Line) []LineDiff {
	var diffs []LineDiff
	for _, line := range lines {
		expected := LineTotal(line.UnitPrice, line.Qty, line.Addons)
		if expected != line.ItemTotal {
			diffs = append(diffs, LineDiff{ProductID: line.ProductID, Stored: line.ItemTotal, Expected: expected})
		}
	}
	return diffs
}

// CoerceMoney converts a loosely typed numeric value into Money, returning
// zero for anything that cannot be interpreted as a finite number. This is
// the single coerce-or-zero step for data crossing the ingestion boundary.
func CoerceMoney(v any) Money {
	switch value := v.(type) {
	case nil:
		return 0
	case Money:
		return value
	case int:
		return Money(value)
	case int32:
		return Money(value)
	case float64:
		return roundToMoney(value)
	case float32:
		return roundToMoney(float64(value))
	case json.Number:
		return coerceString(value.String())
	case string:
		return coerceString(value)
	default:
		return 0
	}
}

func coerceString(s string) Money {
	s = strings.TrimSpace(s)
	if s == "" {
		return 0
	}
	if i, err := strconv.ParseInt(s, 10, 64); err == nil {
		return i
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0
	}
	return roundToMoney(f)
}

// roundToMoney rounds half away from zero so the formatting boundary is the
// only place precision is lost.
func roundToMoney(f float64) Money {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	if f < 0 {
		return -Money(math.Floor(-f + 0.5))
	}
	return Money(math.Floor(f + 0.5))
}

// UnmarshalJSON decodes an add-on tolerating malformed price fields.
func (a *SelectedAddon) UnmarshalJSON(data []byte) error {
	var raw struct {
		AddonID string          `json:"addon_id"`
		ID      string          `json:"id"`
		Name    string          `json:"name"`
		Price   json.RawMessage `json:"price"`
	}
	if err := json.Unmarshal(data, &raw); err != nil {
		return err
	}
	a.AddonID = raw.AddonID
	if a.AddonID == "" {
		a.AddonID = raw.ID
	}
	a.Name = raw.Name
	a.Price = coerceRawPrice(raw.Price)
	return nil
}

func coerceRawPrice(raw json.RawMessage) Money {
	if len(raw) == 0 {
		return 0
	}
	var num json.Number
	if err := json.Unmarshal(raw, &num); err == nil {
		return CoerceMoney(num)
	}
	var s string
	if err := json.Unmarshal(raw, &s); err == nil {
		return coerceString(s)
	}
	return 0
}

// ParseSelection decodes a stored selection document: the map form
// EncodeSelection writes, or the grouped array form SelectionKey produces.
// A document that does not parse at all yields an empty selection so a
// single bad record cannot break an aggregate view.
func ParseSelection(raw []byte) Selection {
	if len(raw) == 0 {
		return Selection{}
	}
	var sel Selection
	if err := json.Unmarshal(raw, &sel); err == nil && sel != nil {
		return sel
	}
	var groups []canonicalGroup
	if err := json.Unmarshal(raw, &groups); err == nil {
		sel = Selection{}
		for _, g := range groups {
			if len(g.Addons) == 0 {
				continue
			}
			sel[g.Group] = g.Addons
		}
		return sel
	}
	return Selection{}
}

// FormatMoney renders a minor-unit amount with two decimal places and the
// currency code, e.g. "12.50 JD".
func FormatMoney(m Money, currency string) string {
	sign := ""
	if m < 0 {
		sign = "-"
		m = -m
	}
	if currency == "" {
		return fmt.Sprintf("%s%d.%02d", sign, m/100, m%100)
	}
	return fmt.Sprintf("%s%d.%02d %s", sign, m/100, m%100, currency)
}
