package shopapi

// Wire types for the storefront REST API. Monetary values cross the boundary
// as decimal-formatted strings, never as floats.

type Category struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Description  string `json:"description"`
	ProductCount int    `json:"product_count"`
}

type ProductListItem struct {
	ID           string `json:"id"`
	Name         string `json:"name"`
	Slug         string `json:"slug"`
	Price        string `json:"price"`
	Image        string `json:"image"`
	Brand        string `json:"brand"`
	CategoryName string `json:"category_name"`
	IsFeatured   bool   `json:"is_featured"`
}

type ProductDetail struct {
	ID             string   `json:"id"`
	Name           string   `json:"name"`
	Slug           string   `json:"slug"`
	Description    string   `json:"description"`
	Price          string   `json:"price"`
	FormattedPrice string   `json:"formatted_price"`
	Image          string   `json:"image"`
	Brand          string   `json:"brand"`
	SKU            string   `json:"sku"`
	StockQuantity  int      `json:"stock_quantity"`
	IsInStock      bool     `json:"is_in_stock"`
	IsActive       bool     `json:"is_active"`
	IsFeatured     bool     `json:"is_featured"`
	Category       Category `json:"category"`
	CreatedAt      string   `json:"created_at"`
	UpdatedAt      string   `json:"updated_at"`
}

// ProductPage is one page of a paginated product listing.
type ProductPage struct {
	Count    int               `json:"count"`
	Next     *string           `json:"next"`
	Previous *string           `json:"previous"`
	Results  []ProductListItem `json:"results"`
}

// ProductFilters narrows a product listing. Zero values are omitted from the
// query string.
type ProductFilters struct {
	Category   string
	Search     string
	IsFeatured *bool
	Ordering   string
	Page       int
}

type CartItem struct {
	ProductID string          `json:"product_id"`
	Product   ProductListItem `json:"product"`
	Quantity  int             `json:"quantity"`
	LineTotal string          `json:"line_total"`
}

// Cart is the server-authoritative cart snapshot. item_count is the sum of
// item quantities and subtotal the sum of line totals, both server-computed.
type Cart struct {
	Items     []CartItem `json:"items"`
	Subtotal  string     `json:"subtotal"`
	ItemCount int        `json:"item_count"`
}

// CartMutation is the acknowledgement returned by every cart write. It
// carries aggregates only; callers refetch the cart for the full state.
type CartMutation struct {
	Message   string `json:"message"`
	ItemCount int    `json:"item_count"`
	Subtotal  string `json:"subtotal"`
}

// CheckoutData accumulates across the two checkout stages. Validation rules
// live on the struct tags; internal/checkout evaluates them per stage.
type CheckoutData struct {
	CustomerEmail        string `json:"customer_email" validate:"notblank,simple_email"`
	CustomerFirstName    string `json:"customer_first_name" validate:"notblank"`
	CustomerLastName     string `json:"customer_last_name" validate:"notblank"`
	CustomerPhone        string `json:"customer_phone,omitempty"`
	ShippingAddressLine1 string `json:"shipping_address_line1" validate:"notblank"`
	ShippingAddressLine2 string `json:"shipping_address_line2,omitempty"`
	ShippingCity         string `json:"shipping_city" validate:"notblank"`
	ShippingState        string `json:"shipping_state" validate:"notblank"`
	ShippingPostalCode   string `json:"shipping_postal_code" validate:"notblank"`
	ShippingCountry      string `json:"shipping_country"`
	CardNumber           string `json:"card_number" validate:"notblank,card_number"`
	CardExpiry           string `json:"card_expiry" validate:"notblank,card_expiry"`
	CardCvc              string `json:"card_cvc" validate:"notblank,card_cvc"`
}

type PaymentStatus string

const (
	PaymentPending    PaymentStatus = "pending"
	PaymentProcessing PaymentStatus = "processing"
	PaymentCompleted  PaymentStatus = "completed"
	PaymentFailed     PaymentStatus = "failed"
	PaymentRefunded   PaymentStatus = "refunded"
)

type OrderStatus string

const (
	OrderPending    OrderStatus = "pending"
	OrderConfirmed  OrderStatus = "confirmed"
	OrderProcessing OrderStatus = "processing"
	OrderShipped    OrderStatus = "shipped"
	OrderDelivered  OrderStatus = "delivered"
	OrderCancelled  OrderStatus = "cancelled"
)

type OrderItem struct {
	ID           string `json:"id"`
	Product      string `json:"product"`
	ProductName  string `json:"product_name"`
	ProductPrice string `json:"product_price"`
	Quantity     int    `json:"quantity"`
	LineTotal    string `json:"line_total"`
}

// Order is the immutable result of a successful checkout. Subtotal, tax,
// shipping, and total are server-computed.
type Order struct {
	ID                   string        `json:"id"`
	CustomerEmail        string        `json:"customer_email"`
	CustomerFirstName    string        `json:"customer_first_name"`
	CustomerLastName     string        `json:"customer_last_name"`
	CustomerPhone        string        `json:"customer_phone"`
	CustomerFullName     string        `json:"customer_full_name"`
	ShippingAddressLine1 string        `json:"shipping_address_line1"`
	ShippingAddressLine2 string        `json:"shipping_address_line2"`
	ShippingCity         string        `json:"shipping_city"`
	ShippingState        string        `json:"shipping_state"`
	ShippingPostalCode   string        `json:"shipping_postal_code"`
	ShippingCountry      string        `json:"shipping_country"`
	ShippingAddress      string        `json:"shipping_address"`
	Subtotal             string        `json:"subtotal"`
	ShippingCost         string        `json:"shipping_cost"`
	Tax                  string        `json:"tax"`
	Total                string        `json:"total"`
	PaymentStatus        PaymentStatus `json:"payment_status"`
	OrderStatus          OrderStatus   `json:"order_status"`
	Items                []OrderItem   `json:"items"`
	CreatedAt            string        `json:"created_at"`
	UpdatedAt            string        `json:"updated_at"`
}

// EmptyCart is the unambiguous empty value a cleared cart collapses to.
func EmptyCart() *Cart {
	return &Cart{Items: []CartItem{}, Subtotal: "0.00", ItemCount: 0}
}
