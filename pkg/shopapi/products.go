package shopapi

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
)

// ListCategories fetches every product category.
func (c *Client) ListCategories(ctx context.Context) ([]Category, error) {
	var categories []Category
	if err := c.do(ctx, "list_categories", apiRequest{
		method: http.MethodGet,
		path:   "/api/products/categories/",
		out:    &categories,
	}); err != nil {
		return nil, err
	}
	return categories, nil
}

// ListProducts fetches one page of products matching the filters.
func (c *Client) ListProducts(ctx context.Context, filters ProductFilters) (*ProductPage, error) {
	query := url.Values{}
	if filters.Category != "" {
		query.Set("category", filters.Category)
	}
	if filters.Search != "" {
		query.Set("search", filters.Search)
	}
	if filters.IsFeatured != nil {
		query.Set("is_featured", strconv.FormatBool(*filters.IsFeatured))
	}
	if filters.Ordering != "" {
		query.Set("ordering", filters.Ordering)
	}
	if filters.Page > 0 {
		query.Set("page", strconv.Itoa(filters.Page))
	}

	var page ProductPage
	if err := c.do(ctx, "list_products", apiRequest{
		method: http.MethodGet,
		path:   "/api/products/",
		query:  query,
		out:    &page,
	}); err != nil {
		return nil, err
	}
	return &page, nil
}

// GetProduct fetches a single product by id.
func (c *Client) GetProduct(ctx context.Context, id string) (*ProductDetail, error) {
	if id == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var detail ProductDetail
	if err := c.do(ctx, "get_product", apiRequest{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/products/%s/", id),
		out:    &detail,
	}); err != nil {
		return nil, err
	}
	return &detail, nil
}

// GetProductBySlug fetches a single product by its URL slug.
func (c *Client) GetProductBySlug(ctx context.Context, slug string) (*ProductDetail, error) {
	if slug == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product slug is required")
	}

	var detail ProductDetail
	if err := c.do(ctx, "get_product_by_slug", apiRequest{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/products/by-slug/%s/", slug),
		out:    &detail,
	}); err != nil {
		return nil, err
	}
	return &detail, nil
}
