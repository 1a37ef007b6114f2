package shopapi

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

func TestListCategories(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/api/products/categories/" {
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
		json.NewEncoder(w).Encode([]Category{{ID: "c1", Name: "Dive", Slug: "dive", ProductCount: 4}})
	}))

	categories, err := client.ListCategories(context.Background())
	if err != nil {
		t.Fatalf("list categories: %v", err)
	}
	if len(categories) != 1 || categories[0].Slug != "dive" {
		t.Fatalf("unexpected categories %+v", categories)
	}
}

func TestListProductsEncodesFilters(t *testing.T) {
	featured := true
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		if q.Get("category") != "dive" || q.Get("search") != "field" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		if q.Get("is_featured") != "true" || q.Get("ordering") != "price" || q.Get("page") != "2" {
			t.Fatalf("unexpected query %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(ProductPage{Count: 0, Results: []ProductListItem{}})
	}))

	_, err := client.ListProducts(context.Background(), ProductFilters{
		Category:   "dive",
		Search:     "field",
		IsFeatured: &featured,
		Ordering:   "price",
		Page:       2,
	})
	if err != nil {
		t.Fatalf("list products: %v", err)
	}
}

func TestListProductsOmitsZeroFilters(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.RawQuery != "" {
			t.Fatalf("expected empty query, got %s", r.URL.RawQuery)
		}
		json.NewEncoder(w).Encode(ProductPage{})
	}))

	if _, err := client.ListProducts(context.Background(), ProductFilters{}); err != nil {
		t.Fatalf("list products: %v", err)
	}
}

func TestGetProductPaths(t *testing.T) {
	client, _ := newTestClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch r.URL.Path {
		case "/api/products/watch-1/":
			json.NewEncoder(w).Encode(ProductDetail{ID: "watch-1", Name: "Field Watch"})
		case "/api/products/by-slug/field-watch/":
			json.NewEncoder(w).Encode(ProductDetail{ID: "watch-1", Slug: "field-watch"})
		default:
			t.Fatalf("unexpected path %s", r.URL.Path)
		}
	}))

	ctx := context.Background()
	detail, err := client.GetProduct(ctx, "watch-1")
	if err != nil || detail.Name != "Field Watch" {
		t.Fatalf("get product: %v %+v", err, detail)
	}

	bySlug, err := client.GetProductBySlug(ctx, "field-watch")
	if err != nil || bySlug.Slug != "field-watch" {
		t.Fatalf("get product by slug: %v %+v", err, bySlug)
	}
}
