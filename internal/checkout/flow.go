package checkout

import (
	"context"
	"fmt"
	"strings"
	"sync"

	"github.com/google/uuid"

	pkgerrors "github.com/chronoshop/storefront-client/pkg/errors"
	"github.com/chronoshop/storefront-client/pkg/logger"
	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

// Stage identifies one phase of the checkout session.
type Stage string

const (
	// StageEmptyCart is the terminal display state entered when checkout
	// begins with nothing in the cart. The only action is navigating away.
	StageEmptyCart        Stage = "empty_cart"
	StageShipping         Stage = "shipping"
	StagePayment          Stage = "payment"
	StageSubmitting       Stage = "submitting"
	StageComplete         Stage = "complete"
	StageSubmissionFailed Stage = "submission_failed"
)

// SubmitErrorMessage is the generic message published on submission failure.
// The controller does not distinguish server error subtypes.
const SubmitErrorMessage = "Failed to process your order. Please try again."

const defaultCountry = "United States"

// CheckoutSubmitter is the slice of the storefront client the flow needs.
type CheckoutSubmitter interface {
	SubmitCheckout(ctx context.Context, data shopapi.CheckoutData, idempotencyKey string) (*shopapi.Order, error)
}

// FlowParams configures a checkout flow.
type FlowParams struct {
	Cart           *shopapi.Cart
	Submitter      CheckoutSubmitter
	Logger         *logger.Logger
	DefaultCountry string
}

// Flow sequences shipping, payment, and submission for one checkout
// session. Checkout data accumulates across stages and is discarded with
// the flow; it is never persisted.
type Flow struct {
	submitter CheckoutSubmitter
	logger    *logger.Logger

	mu             sync.Mutex
	stage          Stage
	data           shopapi.CheckoutData
	fieldErrors    FieldErrors
	order          *shopapi.Order
	submitErr      string
	submitting     bool
	idempotencyKey string
}

// NewFlow starts a checkout session. An empty cart gates entry entirely:
// the flow starts in StageEmptyCart and accepts no transitions.
func NewFlow(params FlowParams) (*Flow, error) {
	if params.Submitter == nil {
		return nil, fmt.Errorf("checkout submitter required")
	}
	if params.Logger == nil {
		return nil, fmt.Errorf("logger required")
	}

	country := strings.TrimSpace(params.DefaultCountry)
	if country == "" {
		country = defaultCountry
	}

	f := &Flow{
		submitter:   params.Submitter,
		logger:      params.Logger,
		stage:       StageShipping,
		data:        shopapi.CheckoutData{ShippingCountry: country},
		fieldErrors: FieldErrors{},
	}
	if params.Cart == nil || len(params.Cart.Items) == 0 {
		f.stage = StageEmptyCart
	}
	return f, nil
}

// Set records one checkout field and clears any published error for it.
// Editing after a failed submission returns control to the payment stage.
func (f *Flow) Set(field, value string) {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.stage {
	case StageShipping, StagePayment, StageSubmissionFailed:
	default:
		return
	}

	if !setField(&f.data, field, value) {
		return
	}
	delete(f.fieldErrors, field)
	if f.stage == StageSubmissionFailed {
		f.stage = StagePayment
	}
}

func setField(data *shopapi.CheckoutData, field, value string) bool {
	switch field {
	case "customer_email":
		data.CustomerEmail = value
	case "customer_first_name":
		data.CustomerFirstName = value
	case "customer_last_name":
		data.CustomerLastName = value
	case "customer_phone":
		data.CustomerPhone = value
	case "shipping_address_line1":
		data.ShippingAddressLine1 = value
	case "shipping_address_line2":
		data.ShippingAddressLine2 = value
	case "shipping_city":
		data.ShippingCity = value
	case "shipping_state":
		data.ShippingState = value
	case "shipping_postal_code":
		data.ShippingPostalCode = value
	case "shipping_country":
		data.ShippingCountry = value
	case "card_number":
		data.CardNumber = value
	case "card_expiry":
		data.CardExpiry = value
	case "card_cvc":
		data.CardCvc = value
	default:
		return false
	}
	return true
}

// ContinueToPayment advances past the shipping stage when its validator
// passes. On failure the flow stays in StageShipping and publishes exactly
// the failing fields.
func (f *Flow) ContinueToPayment() bool {
	f.mu.Lock()
	defer f.mu.Unlock()

	if f.stage != StageShipping {
		return false
	}

	errs := ValidateShipping(f.data)
	if len(errs) > 0 {
		f.fieldErrors = errs
		return false
	}
	f.fieldErrors = FieldErrors{}
	f.stage = StagePayment
	return true
}

// BackToShipping returns to the shipping stage unconditionally, preserving
// everything already entered.
func (f *Flow) BackToShipping() {
	f.mu.Lock()
	defer f.mu.Unlock()

	switch f.stage {
	case StagePayment, StageSubmissionFailed:
		f.stage = StageShipping
	}
}

// Submit validates the payment stage and posts the checkout. While a
// submission is in flight, further calls return immediately with no effect;
// the guard is the internal busy flag, not a view-layer convention. On
// server or network failure the flow lands in StageSubmissionFailed with a
// generic message and the entered data intact, ready for retry.
func (f *Flow) Submit(ctx context.Context) error {
	f.mu.Lock()
	if f.submitting {
		f.mu.Unlock()
		return nil
	}
	if f.stage != StagePayment && f.stage != StageSubmissionFailed {
		f.mu.Unlock()
		return nil
	}

	if errs := ValidatePayment(f.data); len(errs) > 0 {
		// Payment errors merge into any shipping errors still held rather
		// than replacing them.
		f.fieldErrors = f.fieldErrors.Merge(errs)
		f.stage = StagePayment
		f.mu.Unlock()
		return pkgerrors.New(pkgerrors.CodeValidation, "payment details are invalid")
	}

	f.submitting = true
	f.stage = StageSubmitting
	f.submitErr = ""
	// One idempotency key per submission attempt set: minted when the first
	// attempt starts, reused on retry, rotated only after success.
	if f.idempotencyKey == "" {
		f.idempotencyKey = uuid.NewString()
	}
	data := f.data
	key := f.idempotencyKey
	f.mu.Unlock()

	order, err := f.submitter.SubmitCheckout(ctx, data, key)

	f.mu.Lock()
	defer f.mu.Unlock()
	f.submitting = false

	if err != nil {
		f.logger.Error(ctx, "checkout submission failed", err)
		f.stage = StageSubmissionFailed
		f.submitErr = SubmitErrorMessage
		return pkgerrors.Wrap(pkgerrors.CodeSubmissionFailed, err, "submit checkout")
	}

	f.order = order
	f.stage = StageComplete
	f.idempotencyKey = ""
	f.logger.Info(f.logger.WithOrderID(ctx, order.ID), "checkout complete")
	return nil
}

// Stage reports the current phase.
func (f *Flow) Stage() Stage {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.stage
}

// Data returns a copy of the accumulated checkout fields.
func (f *Flow) Data() shopapi.CheckoutData {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.data
}

// Errors returns a copy of the published field errors.
func (f *Flow) Errors() FieldErrors {
	f.mu.Lock()
	defer f.mu.Unlock()
	out := make(FieldErrors, len(f.fieldErrors))
	for k, v := range f.fieldErrors {
		out[k] = v
	}
	return out
}

// Order returns the created order once the flow is complete.
func (f *Flow) Order() *shopapi.Order {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.order
}

// SubmitError returns the published submission error message, if any.
func (f *Flow) SubmitError() string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.submitErr
}
