package catalog

import (
	"context"
	"fmt"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
	"github.com/chronoshop/storefront-client/pkg/logger"
	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

// ProductAPI is the slice of the shop client the catalog reads through.
type ProductAPI interface {
	ListCategories(ctx context.Context) ([]shopapi.Category, error)
	ListProducts(ctx context.Context, filters shopapi.ProductFilters) (*shopapi.ProductPage, error)
	GetProduct(ctx context.Context, id string) (*shopapi.ProductDetail, error)
	GetProductBySlug(ctx context.Context, slug string) (*shopapi.ProductDetail, error)
}

// Service exposes typed catalog reads. It holds no state of its own; every
// call goes straight to the shop API.
type Service struct {
	api    ProductAPI
	logger *logger.Logger
}

func New(api ProductAPI, logg *logger.Logger) (*Service, error) {
	if api == nil {
		return nil, fmt.Errorf("product api required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &Service{api: api, logger: logg}, nil
}

// Categories lists every product category.
func (s *Service) Categories(ctx context.Context) ([]shopapi.Category, error) {
	categories, err := s.api.ListCategories(ctx)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailed, err, "load categories")
	}
	return categories, nil
}

// Products fetches a single page of products matching the filters.
func (s *Service) Products(ctx context.Context, filters shopapi.ProductFilters) (*shopapi.ProductPage, error) {
	page, err := s.api.ListProducts(ctx, filters)
	if err != nil {
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailed, err, "load products")
	}
	return page, nil
}

// AllProducts walks every result page until the server reports no next page
// and returns the accumulated items.
func (s *Service) AllProducts(ctx context.Context, filters shopapi.ProductFilters) ([]shopapi.ProductListItem, error) {
	var all []shopapi.ProductListItem

	filters.Page = 1
	for {
		page, err := s.api.ListProducts(ctx, filters)
		if err != nil {
			return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailed, err, "load all products")
		}
		all = append(all, page.Results...)
		if page.Next == nil {
			break
		}
		filters.Page++
	}

	s.logger.Debug(ctx, fmt.Sprintf("fetched %d products across pages", len(all)))
	return all, nil
}

// Product fetches one product by id.
func (s *Service) Product(ctx context.Context, id string) (*shopapi.ProductDetail, error) {
	detail, err := s.api.GetProduct(ctx, id)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeValidation {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailed, err, "load product")
	}
	return detail, nil
}

// ProductBySlug fetches one product by its URL slug.
func (s *Service) ProductBySlug(ctx context.Context, slug string) (*shopapi.ProductDetail, error) {
	detail, err := s.api.GetProductBySlug(ctx, slug)
	if err != nil {
		if pkgerrors.CodeOf(err) == pkgerrors.CodeValidation {
			return nil, err
		}
		return nil, pkgerrors.Wrap(pkgerrors.CodeLoadFailed, err, "load product")
	}
	return detail, nil
}
