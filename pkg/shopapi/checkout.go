package shopapi

import (
	"context"
	"fmt"
	"net/http"
	"strings"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
)

// IdempotencyHeader carries the client-generated submission token so a
// retried checkout POST cannot create two orders.
const IdempotencyHeader = "Idempotency-Key"

// SubmitCheckout posts the accumulated checkout data and returns the created
// order. The server consumes the session cart as part of the submission.
func (c *Client) SubmitCheckout(ctx context.Context, data CheckoutData, idempotencyKey string) (*Order, error) {
	header := http.Header{}
	if key := strings.TrimSpace(idempotencyKey); key != "" {
		header.Set(IdempotencyHeader, key)
	}

	var order Order
	if err := c.do(ctx, "submit_checkout", apiRequest{
		method: http.MethodPost,
		path:   "/api/checkout/",
		header: header,
		body:   data,
		out:    &order,
	}); err != nil {
		return nil, err
	}
	return &order, nil
}

// GetOrder fetches a completed order by id.
func (c *Client) GetOrder(ctx context.Context, orderID string) (*Order, error) {
	if orderID == "" {
		return nil, pkgerrors.New(pkgerrors.CodeValidation, "order id is required")
	}

	var order Order
	if err := c.do(ctx, "get_order", apiRequest{
		method: http.MethodGet,
		path:   fmt.Sprintf("/api/orders/%s/", orderID),
		out:    &order,
	}); err != nil {
		return nil, err
	}
	return &order, nil
}
