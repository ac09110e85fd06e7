// Package catalog serves the public menu: categories, products, and the
// add-on groups a product can be customised with.
package catalog

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"

	"github.com/resto-labs/backend-resto/internal/common"
	"github.com/resto-labs/backend-resto/internal/store"
)

type queryProvider interface {
	ListCategories(ctx context.Context) ([]store.Category, error)
	ListProducts(ctx context.Context, arg store.ListProductsParams) ([]store.Product, error)
	GetProduct(ctx context.Context, id uuid.UUID) (store.Product, error)
	ListAddonGroups(ctx context.Context, productID uuid.UUID) ([]store.AddonGroup, error)
	ListAddonsForProduct(ctx context.Context, productID uuid.UUID) ([]store.Addon, error)
}

// Service orchestrates menu queries, DTO assembly, and caching.
type Service struct {
	queries queryProvider
	cache   *Cache
}

// ServiceConfig groups Service dependencies.
type ServiceConfig struct {
	Queries queryProvider
	Cache   *Cache
}

// NewService constructs a Service instance.
func NewService(cfg ServiceConfig) (*Service, error) {
	if cfg.Queries == nil {
		return nil, errors.New("catalog: queries provider is required")
	}
	return &Service{queries: cfg.Queries, cache: cfg.Cache}, nil
}

// ListParams captures filters for product listing.
type ListParams struct {
	CategoryID    *uuid.UUID
	AvailableOnly bool
}

// ParseListParams normalises raw query values into strongly typed filters.
func (s *Service) ParseListParams(values url.Values) (ListParams, error) {
	var params ListParams
	if v := strings.TrimSpace(values.Get("category")); v != "" {
		id, err := uuid.Parse(v)
		if err != nil {
			return params, badRequest("category", "category must be a valid id", err)
		}
		params.CategoryID = &id
	}
	if v := strings.TrimSpace(values.Get("available")); v != "" {
		switch strings.ToLower(v) {
		case "1", "true":
			params.AvailableOnly = true
		case "0", "false":
			params.AvailableOnly = false
		default:
			return params, badRequest("available", "available must be true or false", nil)
		}
	}
	return params, nil
}

// AddonView is the public add-on payload.
type AddonView struct {
	ID          string `json:"id"`
	Name        string `json:"name"`
	Price       int64  `json:"price"`
	IsDefault   bool   `json:"isDefault"`
	IsAvailable bool   `json:"isAvailable"`
}

// AddonGroupView is a group with its add-ons attached.
type AddonGroupView struct {
	ID            string      `json:"id"`
	Name          string      `json:"name"`
	Kind          string      `json:"kind"`
	IsRequired    bool        `json:"isRequired"`
	MinSelections int32       `json:"minSelections"`
	MaxSelections int32       `json:"maxSelections"`
	Addons        []AddonView `json:"addons"`
}

// ProductDetail aggregates a product with its customisation groups.
type ProductDetail struct {
	Product store.Product    `json:"product"`
	Groups  []AddonGroupView `json:"groups"`
}

// ListCategories returns active categories in display order.
func (s *Service) ListCategories(ctx context.Context) ([]store.Category, error) {
	const key = "catalog:categories"
	if s.cache != nil {
		var cached []store.Category
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListCategories(ctx)
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}
	if rows == nil {
		rows = []store.Category{}
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	return rows, nil
}

// ListProducts returns the filtered product list.
func (s *Service) ListProducts(ctx context.Context, params ListParams) ([]store.Product, error) {
	key := listCacheKey(params)
	if s.cache != nil {
		var cached []store.Product
		if ok, err := s.cache.GetJSON(ctx, key, &cached); err == nil && ok {
			return cached, nil
		}
	}
	rows, err := s.queries.ListProducts(ctx, store.ListProductsParams{
		CategoryID:    params.CategoryID,
		AvailableOnly: params.AvailableOnly,
	})
	if err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	if rows == nil {
		rows = []store.Product{}
	}
	if s.cache != nil {
		_ = s.cache.SetJSON(ctx, key, rows)
	}
	return rows, nil
}

// GetProductDetail returns one product with its add-on groups resolved.
func (s *Service) GetProductDetail(ctx context.Context, rawID string) (ProductDetail, error) {
	id, err := uuid.Parse(strings.TrimSpace(rawID))
	if err != nil {
		return ProductDetail{}, badRequest("id", "product id must be a valid id", err)
	}
	product, err := s.queries.GetProduct(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			return ProductDetail{}, common.NewAppError("NOT_FOUND", "product not found", http.StatusNotFound, err)
		}
		return ProductDetail{}, fmt.Errorf("get product: %w", err)
	}
	groups, err := s.queries.ListAddonGroups(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("list addon groups: %w", err)
	}
	addons, err := s.queries.ListAddonsForProduct(ctx, id)
	if err != nil {
		return ProductDetail{}, fmt.Errorf("list addons: %w", err)
	}

	byGroup := make(map[uuid.UUID][]AddonView, len(groups))
	for _, a := range addons {
		byGroup[a.GroupID] = append(byGroup[a.GroupID], AddonView{
			ID:          a.ID.String(),
			Name:        a.Name,
			Price:       a.Price,
			IsDefault:   a.IsDefault,
			IsAvailable: a.IsAvailable,
		})
	}
	views := make([]AddonGroupView, 0, len(groups))
	for _, g := range groups {
		view := AddonGroupView{
			ID:            g.ID.String(),
			Name:          g.Name,
			Kind:          g.Kind,
			IsRequired:    g.IsRequired,
			MinSelections: g.MinSelections,
			MaxSelections: g.MaxSelections,
			Addons:        byGroup[g.ID],
		}
		if view.Addons == nil {
			view.Addons = []AddonView{}
		}
		views = append(views, view)
	}
	return ProductDetail{Product: product, Groups: views}, nil
}

func listCacheKey(params ListParams) string {
	category := "all"
	if params.CategoryID != nil {
		category = params.CategoryID.String()
	}
	return fmt.Sprintf("catalog:products:%s:%t", category, params.AvailableOnly)
}

func badRequest(field, message string, err error) error {
	appErr := common.NewAppError("BAD_REQUEST", message, http.StatusBadRequest, err)
	appErr.Details = map[string]any{"field": field}
	return appErr
}
