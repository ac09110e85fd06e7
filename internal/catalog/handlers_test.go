package catalog

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/resto-labs/backend-resto/internal/store"
)

type fakeQueries struct {
	categories []store.Category
	products   []store.Product
	groups     []store.AddonGroup
	addons     []store.Addon

	listProductCalls int
}

func (f *fakeQueries) ListCategories(context.Context) ([]store.Category, error) {
	return f.categories, nil
}

func (f *fakeQueries) ListProducts(_ context.Context, arg store.ListProductsParams) ([]store.Product, error) {
	f.listProductCalls++
	var out []store.Product
	for _, p := range f.products {
		if arg.CategoryID != nil && p.CategoryID != *arg.CategoryID {
			continue
		}
		if arg.AvailableOnly && !p.IsAvailable {
			continue
		}
		out = append(out, p)
	}
	return out, nil
}

func (f *fakeQueries) GetProduct(_ context.Context, id uuid.UUID) (store.Product, error) {
	for _, p := range f.products {
		if p.ID == id {
			return p, nil
		}
	}
	return store.Product{}, store.ErrNotFound
}

func (f *fakeQueries) ListAddonGroups(_ context.Context, productID uuid.UUID) ([]store.AddonGroup, error) {
	var out []store.AddonGroup
	for _, g := range f.groups {
		if g.ProductID == productID {
			out = append(out, g)
		}
	}
	return out, nil
}

func (f *fakeQueries) ListAddonsForProduct(context.Context, uuid.UUID) ([]store.Addon, error) {
	return f.addons, nil
}

func newTestHandler(t *testing.T, queries *fakeQueries, cache *Cache) *Handler {
	t.Helper()
	service, err := NewService(ServiceConfig{Queries: queries, Cache: cache})
	if err != nil {
		t.Fatalf("new service: %v", err)
	}
	return NewHandler(service)
}

func newTestRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()
	r.Get("/api/v1/categories", h.Categories)
	r.Get("/api/v1/products", h.Products)
	r.Get("/api/v1/products/{id}", h.ProductDetail)
	return r
}

func TestProductsFilterByAvailability(t *testing.T) {
	catID := uuid.New()
	queries := &fakeQueries{products: []store.Product{
		{ID: uuid.New(), CategoryID: catID, Name: "Falafel Wrap", BasePrice: 250, IsAvailable: true},
		{ID: uuid.New(), CategoryID: catID, Name: "Mansaf", BasePrice: 900, IsAvailable: false},
	}}
	router := newTestRouter(newTestHandler(t, queries, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?available=true", nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data []store.Product `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data) != 1 || body.Data[0].Name != "Falafel Wrap" {
		t.Fatalf("unexpected products: %+v", body.Data)
	}
}

func TestProductsBadCategoryParam(t *testing.T) {
	router := newTestRouter(newTestHandler(t, &fakeQueries{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products?category=not-a-uuid", nil))
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProductDetailGroupsAddons(t *testing.T) {
	productID := uuid.New()
	groupID := uuid.New()
	queries := &fakeQueries{
		products: []store.Product{{ID: productID, Name: "Shawarma", BasePrice: 400, IsAvailable: true}},
		groups: []store.AddonGroup{{
			ID: groupID, ProductID: productID, Name: "Extras", Kind: "checkbox", MaxSelections: 3, IsActive: true,
		}},
		addons: []store.Addon{
			{ID: uuid.New(), GroupID: groupID, Name: "Extra Garlic", Price: 50, IsAvailable: true},
			{ID: uuid.New(), GroupID: groupID, Name: "Pickles", Price: 25, IsAvailable: true},
		},
	}
	router := newTestRouter(newTestHandler(t, queries, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+productID.String(), nil))
	if rec.Code != http.StatusOK {
		t.Fatalf("status = %d", rec.Code)
	}
	var body struct {
		Data ProductDetail `json:"data"`
	}
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if len(body.Data.Groups) != 1 {
		t.Fatalf("groups = %+v", body.Data.Groups)
	}
	if len(body.Data.Groups[0].Addons) != 2 {
		t.Fatalf("addons = %+v", body.Data.Groups[0].Addons)
	}
}

func TestProductDetailNotFound(t *testing.T) {
	router := newTestRouter(newTestHandler(t, &fakeQueries{}, nil))

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products/"+uuid.NewString(), nil))
	if rec.Code != http.StatusNotFound {
		t.Fatalf("status = %d", rec.Code)
	}
}

func TestProductsCacheAside(t *testing.T) {
	srv := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: srv.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	queries := &fakeQueries{products: []store.Product{
		{ID: uuid.New(), Name: "Hummus", BasePrice: 150, IsAvailable: true},
	}}
	router := newTestRouter(newTestHandler(t, queries, NewCache(client, time.Minute)))

	for i := 0; i < 2; i++ {
		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/api/v1/products", nil))
		if rec.Code != http.StatusOK {
			t.Fatalf("status = %d", rec.Code)
		}
	}
	if queries.listProductCalls != 1 {
		t.Fatalf("expected one db hit, got %d", queries.listProductCalls)
	}
}
