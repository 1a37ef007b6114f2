package shopapi

import (
	"context"
	"fmt"
	"net/http"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
)

// GetCart fetches the current cart contents for this session.
func (c *Client) GetCart(ctx context.Context) (*Cart, error) {
	var cart Cart
	if err := c.do(ctx, "get_cart", apiRequest{
		method: http.MethodGet,
		path:   "/api/cart/",
		out:    &cart,
	}); err != nil {
		return nil, err
	}
	if cart.Items == nil {
		cart.Items = []CartItem{}
	}
	return &cart, nil
}

type addItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int    `json:"quantity"`
}

type updateItemRequest struct {
	Quantity int `json:"quantity"`
}

// AddItem adds quantity units of a product to the session cart.
func (c *Client) AddItem(ctx context.Context, productID string, quantity int) (*CartMutation, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var ack CartMutation
	if err := c.do(ctx, "add_item", apiRequest{
		method: http.MethodPost,
		path:   "/api/cart/items/",
		body:   addItemRequest{ProductID: productID, Quantity: quantity},
		out:    &ack,
	}); err != nil {
		return nil, err
	}
	return &ack, nil
}

// UpdateItem sets the quantity of a product already in the cart.
func (c *Client) UpdateItem(ctx context.Context, productID string, quantity int) (*CartMutation, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}
	if quantity < 1 {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "quantity must be at least 1")
	}

	var ack CartMutation
	if err := c.do(ctx, "update_item", apiRequest{
		method: http.MethodPut,
		path:   fmt.Sprintf("/api/cart/items/%s/", productID),
		body:   updateItemRequest{Quantity: quantity},
		out:    &ack,
	}); err != nil {
		return nil, err
	}
	return &ack, nil
}

// RemoveItem deletes a product from the cart. Removing an absent product is
// a server-side no-op and succeeds.
func (c *Client) RemoveItem(ctx context.Context, productID string) (*CartMutation, error) {
	if productID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "product id is required")
	}

	var ack CartMutation
	if err := c.do(ctx, "remove_item", apiRequest{
		method: http.MethodDelete,
		path:   fmt.Sprintf("/api/cart/items/%s/", productID),
		out:    &ack,
	}); err != nil {
		return nil, err
	}
	return &ack, nil
}

// ClearCart removes every item from the session cart.
func (c *Client) ClearCart(ctx context.Context) (*CartMutation, error) {
	var ack CartMutation
	if err := c.do(ctx, "clear_cart", apiRequest{
		method: http.MethodDelete,
		path:   "/api/cart/clear/",
		out:    &ack,
	}); err != nil {
		return nil, err
	}
	return &ack, nil
}
