// Package cart manages the per-customer cart: adding customised lines,
// deduplicating identical customisations, and keeping cached line totals
// consistent with the menu.
package cart

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/resto-labs/backend-resto/internal/pricing"
	"github.com/resto-labs/backend-resto/internal/store"
)

// ErrNotFound indicates the requested cart line could not be located.
var ErrNotFound = errors.New("cart item not found")

// ErrInvalidInput is returned when the provided payload is invalid.
var ErrInvalidInput = errors.New("invalid input")

// ErrProductUnavailable is returned when the product cannot be ordered.
var ErrProductUnavailable = errors.New("product unavailable")

type queryProvider interface {
	GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error)
	ListAddonGroups(ctx context.Context, productID uuid.UUID) ([]store.AddonGroup, error)
	ListAddonsByIDs(ctx context.Context, ids []uuid.UUID) ([]store.Addon, error)
	ListCartItems(ctx context.Context, customerID uuid.UUID) ([]store.CartItem, error)
	FindCartItemsByProduct(ctx context.Context, customerID, productID uuid.UUID) ([]store.CartItem, error)
	GetCartItem(ctx context.Context, id, customerID uuid.UUID) (store.CartItem, error)
	CreateCartItem(ctx context.Context, arg store.CreateCartItemParams) (uuid.UUID, error)
	UpdateCartItemQty(ctx context.Context, arg store.UpdateCartItemQtyParams) error
	DeleteCartItem(ctx context.Context, id, customerID uuid.UUID) error
	ClearCart(ctx context.Context, customerID uuid.UUID) error
}

// Service encapsulates cart domain operations.
type Service struct {
	Q   queryProvider
	Now func() time.Time
}

func (s *Service) now() time.Time {
	if s != nil && s.Now != nil {
		return s.Now()
	}
	return time.Now()
}

// Line is one cart line in the view payload.
type Line struct {
	ID                  uuid.UUID         `json:"id"`
	ProductID           uuid.UUID         `json:"productId"`
	ProductName         string            `json:"productName"`
	UnitPrice           pricing.Money     `json:"unitPrice"`
	Qty                 int               `json:"qty"`
	Selection           pricing.Selection `json:"selection"`
	SpecialInstructions *string           `json:"specialInstructions,omitempty"`
	ItemTotal           pricing.Money     `json:"itemTotal"`
	ProductAvailable    bool              `json:"productAvailable"`
}

// View is the assembled cart payload. Breakdown splits the total into base
// product spend and per-add-on spend for the checkout review.
type View struct {
	Lines     []Line            `json:"lines"`
	Total     pricing.Money     `json:"total"`
	Breakdown pricing.Breakdown `json:"breakdown"`
}

// AddItemInput carries one add-to-cart request.
type AddItemInput struct {
	ProductID           uuid.UUID
	Qty                 int
	Selection           pricing.Selection
	SpecialInstructions *string
}

// View assembles the customer's cart. The total sums the cached line totals.
func (s *Service) View(ctx context.Context, customerID uuid.UUID) (View, error) {
	if s == nil || s.Q == nil {
		return View{}, errors.New("cart service not configured")
	}
	rows, err := s.Q.ListCartItems(ctx, customerID)
	if err != nil {
		return View{}, fmt.Errorf("list cart items: %w", err)
	}
	view := View{Lines: make([]Line, 0, len(rows))}
	lines := make([]pricing.Line, 0, len(rows))
	for _, row := range rows {
		sel := pricing.ParseSelection(row.SelectedAddons)
		view.Lines = append(view.Lines, Line{
			ID:                  row.ID,
			ProductID:           row.ProductID,
			ProductName:         row.ProductName,
			UnitPrice:           row.BasePrice,
			Qty:                 int(row.Qty),
			Selection:           sel,
			SpecialInstructions: row.SpecialInstructions,
			ItemTotal:           row.ItemTotal,
			ProductAvailable:    row.ProductAvailable,
		})
		lines = append(lines, pricing.Line{
			ProductID: row.ProductID.String(),
			Qty:       int(row.Qty),
			UnitPrice: row.BasePrice,
			Addons:    sel,
			ItemTotal: row.ItemTotal,
		})
	}
	view.Total = pricing.CartTotal(lines)
	view.Breakdown = pricing.CustomizationBreakdown(lines)
	return view, nil
}

// Validate recomputes every cached line total and reports mismatches without
// failing the request.
func (s *Service) Validate(ctx context.Context, customerID uuid.UUID) ([]pricing.LineDiff, error) {
	if s == nil || s.Q == nil {
		return nil, errors.New("cart service not configured")
	}
	rows, err := s.Q.ListCartItems(ctx, customerID)
	if err != nil {
		return nil, fmt.Errorf("list cart items: %w", err)
	}
	lines := make([]pricing.Line, 0, len(rows))
	for _, row := range rows {
		lines = append(lines, pricing.Line{
			ProductID: row.ID.String(),
			Qty:       int(row.Qty),
			UnitPrice: row.BasePrice,
			Addons:    pricing.ParseSelection(row.SelectedAddons),
			ItemTotal: row.ItemTotal,
		})
	}
	return pricing.ValidateLines(lines), nil
}

// AddItem inserts a cart line or increments the quantity of an existing line
// carrying the same customisation.
func (s *Service) AddItem(ctx context.Context, customerID uuid.UUID, input AddItemInput) (uuid.UUID, error) {
	if s == nil || s.Q == nil {
		return uuid.Nil, errors.New("cart service not configured")
	}
	if input.Qty <= 0 {
		return uuid.Nil, fmt.Errorf("qty must be positive: %w", ErrInvalidInput)
	}
	product, err := s.Q.GetProduct(ctx, input.ProductID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return uuid.Nil, fmt.Errorf("product %s: %w", input.ProductID, ErrNotFound)
		}
		return uuid.Nil, fmt.Errorf("get product: %w", err)
	}
	if !product.IsAvailable {
		return uuid.Nil, ErrProductUnavailable
	}

	selection, err := s.resolveSelection(ctx, product.ID, input.Selection)
	if err != nil {
		return uuid.Nil, err
	}

	existing, err := s.Q.FindCartItemsByProduct(ctx, customerID, product.ID)
	if err != nil {
		return uuid.Nil, fmt.Errorf("find cart items: %w", err)
	}
	candidates := make([]pricing.Line, 0, len(existing))
	for _, row := range existing {
		candidates = append(candidates, pricing.Line{
			ProductID: row.ID.String(),
			Qty:       int(row.Qty),
			Addons:    pricing.ParseSelection(row.SelectedAddons),
		})
	}
	if matched, ok := pricing.MatchLine(candidates, selection); ok {
		rowID, err := uuid.Parse(matched.ProductID)
		if err != nil {
			return uuid.Nil, fmt.Errorf("matched cart line id: %w", err)
		}
		qty := matched.Qty + input.Qty
		total := pricing.LineTotal(product.BasePrice, qty, selection)
		err = s.Q.UpdateCartItemQty(ctx, store.UpdateCartItemQtyParams{
			ID:         rowID,
			CustomerID: customerID,
			Qty:        int32(qty),
			ItemTotal:  total,
		})
		if err != nil {
			return uuid.Nil, fmt.Errorf("increment cart item: %w", err)
		}
		return rowID, nil
	}

	total := pricing.LineTotal(product.BasePrice, input.Qty, selection)
	id, err := s.Q.CreateCartItem(ctx, store.CreateCartItemParams{
		CustomerID:          customerID,
		ProductID:           product.ID,
		Qty:                 int32(input.Qty),
		SelectedAddons:      pricing.EncodeSelection(selection),
		SpecialInstructions: input.SpecialInstructions,
		ItemTotal:           total,
	})
	if err != nil {
		return uuid.Nil, fmt.Errorf("create cart item: %w", err)
	}
	return id, nil
}

// UpdateQty sets a line's quantity. Zero or negative removes the line.
func (s *Service) UpdateQty(ctx context.Context, customerID, itemID uuid.UUID, qty int) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if qty <= 0 {
		return s.RemoveItem(ctx, customerID, itemID)
	}
	row, err := s.Q.GetCartItem(ctx, itemID, customerID)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("get cart item: %w", err)
	}
	total := pricing.LineTotal(row.BasePrice, qty, pricing.ParseSelection(row.SelectedAddons))
	err = s.Q.UpdateCartItemQty(ctx, store.UpdateCartItemQtyParams{
		ID:         row.ID,
		CustomerID: customerID,
		Qty:        int32(qty),
		ItemTotal:  total,
	})
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("update cart item: %w", err)
	}
	return nil
}

// RemoveItem deletes one line from the cart.
func (s *Service) RemoveItem(ctx context.Context, customerID, itemID uuid.UUID) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if err := s.Q.DeleteCartItem(ctx, itemID, customerID); err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("delete cart item: %w", err)
	}
	return nil
}

// Clear empties the customer's cart.
func (s *Service) Clear(ctx context.Context, customerID uuid.UUID) error {
	if s == nil || s.Q == nil {
		return errors.New("cart service not configured")
	}
	if err := s.Q.ClearCart(ctx, customerID); err != nil {
		return fmt.Errorf("clear cart: %w", err)
	}
	return nil
}

// resolveSelection replaces client-supplied add-on prices with the menu's
// authoritative prices and enforces each group's selection rules.
func (s *Service) resolveSelection(ctx context.Context, productID uuid.UUID, sel pricing.Selection) (pricing.Selection, error) {
	if len(sel) == 0 {
		return s.checkGroupRules(ctx, productID, pricing.Selection{})
	}

	var ids []uuid.UUID
	for _, addons := range sel {
		for _, a := range addons {
			id, err := uuid.Parse(a.AddonID)
			if err != nil {
				return nil, fmt.Errorf("addon id %q: %w", a.AddonID, ErrInvalidInput)
			}
			ids = append(ids, id)
		}
	}
	rows, err := s.Q.ListAddonsByIDs(ctx, ids)
	if err != nil {
		return nil, fmt.Errorf("list addons: %w", err)
	}
	byID := make(map[string]store.Addon, len(rows))
	for _, a := range rows {
		byID[a.ID.String()] = a
	}

	resolved := make(pricing.Selection, len(sel))
	for group, addons := range sel {
		out := make([]pricing.SelectedAddon, 0, len(addons))
		for _, a := range addons {
			row, ok := byID[a.AddonID]
			if !ok {
				return nil, fmt.Errorf("unknown addon %q: %w", a.AddonID, ErrInvalidInput)
			}
			if !row.IsAvailable {
				return nil, fmt.Errorf("addon %q unavailable: %w", row.Name, ErrInvalidInput)
			}
			out = append(out, pricing.SelectedAddon{
				AddonID: row.ID.String(),
				Name:    row.Name,
				Price:   row.Price,
			})
		}
		resolved[group] = out
	}
	return s.checkGroupRules(ctx, productID, resolved)
}

func (s *Service) checkGroupRules(ctx context.Context, productID uuid.UUID, sel pricing.Selection) (pricing.Selection, error) {
	groups, err := s.Q.ListAddonGroups(ctx, productID)
	if err != nil {
		return nil, fmt.Errorf("list addon groups: %w", err)
	}
	known := make(map[string]store.AddonGroup, len(groups))
	for _, g := range groups {
		known[g.Name] = g
	}
	for name, addons := range sel {
		g, ok := known[name]
		if !ok {
			return nil, fmt.Errorf("unknown group %q: %w", name, ErrInvalidInput)
		}
		count := int32(len(addons))
		if g.Kind == "radio" && count > 1 {
			return nil, fmt.Errorf("group %q allows one choice: %w", name, ErrInvalidInput)
		}
		if g.MaxSelections > 0 && count > g.MaxSelections {
			return nil, fmt.Errorf("group %q allows at most %d choices: %w", name, g.MaxSelections, ErrInvalidInput)
		}
		if count < g.MinSelections {
			return nil, fmt.Errorf("group %q requires at least %d choices: %w", name, g.MinSelections, ErrInvalidInput)
		}
	}
	for _, g := range groups {
		if !g.IsRequired {
			continue
		}
		if len(sel[g.Name]) == 0 {
			return nil, fmt.Errorf("group %q is required: %w", g.Name, ErrInvalidInput)
		}
	}
	return sel, nil
}
