package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"sort"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/chronoshop/storefront-client/internal/cart"
	"github.com/chronoshop/storefront-client/internal/catalog"
	"github.com/chronoshop/storefront-client/internal/checkout"
	"github.com/chronoshop/storefront-client/pkg/config"
	"github.com/chronoshop/storefront-client/pkg/logger"
	"github.com/chronoshop/storefront-client/pkg/money"
	"github.com/chronoshop/storefront-client/pkg/shopapi"
)

const usage = `usage: storefront <command> [args]

  categories                      list product categories
  products [flags]                list products (one page)
  product <id>                    show one product
  product-by-slug <slug>          show one product by slug
  cart                            show the current cart
  add <product-id> [qty]          add an item to the cart
  update <product-id> <qty>       set an item quantity
  remove <product-id>             remove an item
  clear                           empty the cart
  checkout [flags]                submit a checkout
  order <id>                      show an order
`

type app struct {
	cfg     *config.Config
	logg    *logger.Logger
	client  *shopapi.Client
	catalog *catalog.Service
	cart    *cart.Store
}

func main() {
	logg := logger.New(logger.Options{ServiceName: "storefront"})

	if err := godotenv.Load(); err != nil {
		logg.Warn(context.Background(), ".env file not found, relying on environment")
	}

	cfg, err := config.Load()
	if err != nil {
		logg.Error(context.Background(), "failed to load config", err)
		os.Exit(1)
	}

	logg = logger.New(logger.Options{
		ServiceName: "storefront",
		Level:       logger.ParseLevel(cfg.App.LogLevel),
		WarnStack:   cfg.App.LogWarnStack,
	})

	client, err := shopapi.New(cfg.API, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create shop client", err)
		os.Exit(1)
	}

	catalogSvc, err := catalog.New(client, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create catalog service", err)
		os.Exit(1)
	}

	cartStore, err := cart.New(client, logg)
	if err != nil {
		logg.Error(context.Background(), "failed to create cart store", err)
		os.Exit(1)
	}

	a := &app{cfg: cfg, logg: logg, client: client, catalog: catalogSvc, cart: cartStore}

	if len(os.Args) < 2 {
		fmt.Fprint(os.Stderr, usage)
		os.Exit(2)
	}

	ctx := logg.WithOperation(context.Background(), os.Args[1])
	if err := a.run(ctx, os.Args[1], os.Args[2:]); err != nil {
		logg.Error(ctx, "command failed", err)
		fmt.Fprintln(os.Stderr, "error:", err)
		os.Exit(1)
	}
}

func (a *app) run(ctx context.Context, command string, args []string) error {
	switch command {
	case "categories":
		return a.runCategories(ctx)
	case "products":
		return a.runProducts(ctx, args)
	case "product":
		if len(args) != 1 {
			return fmt.Errorf("usage: storefront product <id>")
		}
		return a.showProduct(a.catalog.Product(ctx, args[0]))
	case "product-by-slug":
		if len(args) != 1 {
			return fmt.Errorf("usage: storefront product-by-slug <slug>")
		}
		return a.showProduct(a.catalog.ProductBySlug(ctx, args[0]))
	case "cart":
		return a.runCart(ctx)
	case "add":
		return a.runAdd(ctx, args)
	case "update":
		return a.runUpdate(ctx, args)
	case "remove":
		if len(args) != 1 {
			return fmt.Errorf("usage: storefront remove <product-id>")
		}
		if err := a.cart.RemoveItem(ctx, args[0]); err != nil {
			return err
		}
		return a.printCart()
	case "clear":
		if err := a.cart.ClearCart(ctx); err != nil {
			return err
		}
		fmt.Println("cart cleared")
		return nil
	case "checkout":
		return a.runCheckout(ctx, args)
	case "order":
		if len(args) != 1 {
			return fmt.Errorf("usage: storefront order <id>")
		}
		order, err := a.client.GetOrder(ctx, args[0])
		if err != nil {
			return err
		}
		printOrder(order)
		return nil
	default:
		fmt.Fprint(os.Stderr, usage)
		return fmt.Errorf("unknown command %q", command)
	}
}

func (a *app) runCategories(ctx context.Context) error {
	categories, err := a.catalog.Categories(ctx)
	if err != nil {
		return err
	}
	for _, c := range categories {
		fmt.Printf("%-24s %s (%d products)\n", c.Slug, c.Name, c.ProductCount)
	}
	return nil
}

func (a *app) runProducts(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("products", flag.ContinueOnError)
	category := fs.String("category", "", "filter by category slug")
	search := fs.String("search", "", "search term")
	featured := fs.Bool("featured", false, "featured products only")
	ordering := fs.String("ordering", "", "sort order")
	all := fs.Bool("all", false, "fetch every page")
	page := fs.Int("page", 0, "page number")
	if err := fs.Parse(args); err != nil {
		return err
	}

	filters := shopapi.ProductFilters{
		Category: *category,
		Search:   *search,
		Ordering: *ordering,
		Page:     *page,
	}
	if *featured {
		filters.IsFeatured = featured
	}

	var items []shopapi.ProductListItem
	if *all {
		var err error
		items, err = a.catalog.AllProducts(ctx, filters)
		if err != nil {
			return err
		}
	} else {
		result, err := a.catalog.Products(ctx, filters)
		if err != nil {
			return err
		}
		items = result.Results
		fmt.Printf("%d total\n", result.Count)
	}

	for _, p := range items {
		price, err := money.FormatAmount(p.Price)
		if err != nil {
			price = p.Price
		}
		fmt.Printf("%-12s %-32s %10s  %s\n", p.ID, p.Name, price, p.CategoryName)
	}
	return nil
}

func (a *app) showProduct(detail *shopapi.ProductDetail, err error) error {
	if err != nil {
		return err
	}
	price, perr := money.FormatAmount(detail.Price)
	if perr != nil {
		price = detail.Price
	}
	fmt.Printf("%s\n%s\n\n%s\n\nprice: %s  brand: %s  sku: %s  in stock: %t (%d)\n",
		detail.Name, detail.Slug, detail.Description,
		price, detail.Brand, detail.SKU, detail.IsInStock, detail.StockQuantity)
	return nil
}

func (a *app) runCart(ctx context.Context) error {
	if err := a.cart.Refresh(ctx); err != nil {
		return err
	}
	return a.printCart()
}

func (a *app) runAdd(ctx context.Context, args []string) error {
	if len(args) < 1 || len(args) > 2 {
		return fmt.Errorf("usage: storefront add <product-id> [qty]")
	}
	quantity := 1
	if len(args) == 2 {
		parsed, err := strconv.Atoi(args[1])
		if err != nil {
			return fmt.Errorf("quantity must be a number: %w", err)
		}
		quantity = parsed
	}
	if err := a.cart.AddItem(ctx, args[0], quantity); err != nil {
		return err
	}
	return a.printCart()
}

func (a *app) runUpdate(ctx context.Context, args []string) error {
	if len(args) != 2 {
		return fmt.Errorf("usage: storefront update <product-id> <qty>")
	}
	quantity, err := strconv.Atoi(args[1])
	if err != nil {
		return fmt.Errorf("quantity must be a number: %w", err)
	}
	if err := a.cart.UpdateItem(ctx, args[0], quantity); err != nil {
		return err
	}
	return a.printCart()
}

func (a *app) printCart() error {
	snapshot := a.cart.Snapshot()
	if snapshot == nil || len(snapshot.Items) == 0 {
		fmt.Println("cart is empty")
		return nil
	}
	for _, item := range snapshot.Items {
		line, err := money.FormatAmount(item.LineTotal)
		if err != nil {
			line = item.LineTotal
		}
		fmt.Printf("%-12s %-32s x%-3d %10s\n", item.ProductID, item.Product.Name, item.Quantity, line)
	}
	subtotal, err := money.FormatAmount(snapshot.Subtotal)
	if err != nil {
		subtotal = snapshot.Subtotal
	}
	fmt.Printf("\n%d items, subtotal %s\n", snapshot.ItemCount, subtotal)
	return nil
}

func (a *app) runCheckout(ctx context.Context, args []string) error {
	fs := flag.NewFlagSet("checkout", flag.ContinueOnError)
	fields := map[string]*string{}
	for name, help := range map[string]string{
		"customer_email":         "customer email",
		"customer_first_name":    "first name",
		"customer_last_name":     "last name",
		"customer_phone":         "phone (optional)",
		"shipping_address_line1": "address line 1",
		"shipping_address_line2": "address line 2 (optional)",
		"shipping_city":          "city",
		"shipping_state":         "state",
		"shipping_postal_code":   "postal code",
		"shipping_country":       "country",
		"card_number":            "card number",
		"card_expiry":            "card expiry (MM/YYYY)",
		"card_cvc":               "card cvc",
	} {
		fields[name] = fs.String(name, "", help)
	}
	if err := fs.Parse(args); err != nil {
		return err
	}

	if err := a.cart.Refresh(ctx); err != nil {
		return err
	}

	flow, err := checkout.NewFlow(checkout.FlowParams{
		Cart:           a.cart.Snapshot(),
		Submitter:      a.client,
		Logger:         a.logg,
		DefaultCountry: a.cfg.Checkout.DefaultCountry,
	})
	if err != nil {
		return err
	}
	if flow.Stage() == checkout.StageEmptyCart {
		return fmt.Errorf("cart is empty")
	}

	for name, value := range fields {
		if *value != "" {
			flow.Set(name, *value)
		}
	}

	if !flow.ContinueToPayment() {
		printFieldErrors(flow.Errors())
		return fmt.Errorf("shipping details are incomplete")
	}
	if err := flow.Submit(ctx); err != nil {
		printFieldErrors(flow.Errors())
		if msg := flow.SubmitError(); msg != "" {
			fmt.Fprintln(os.Stderr, msg)
		}
		return err
	}

	printOrder(flow.Order())
	return nil
}

func printFieldErrors(errs checkout.FieldErrors) {
	names := make([]string, 0, len(errs))
	for name := range errs {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(os.Stderr, "  %s: %s\n", name, errs[name])
	}
}

func printOrder(order *shopapi.Order) {
	total, err := money.FormatAmount(order.Total)
	if err != nil {
		total = order.Total
	}
	fmt.Printf("order %s  status: %s  payment: %s\n", order.ID, order.OrderStatus, order.PaymentStatus)
	for _, item := range order.Items {
		line, err := money.FormatAmount(item.LineTotal)
		if err != nil {
			line = item.LineTotal
		}
		fmt.Printf("  %-32s x%-3d %10s\n", item.ProductName, item.Quantity, line)
	}
	fmt.Printf("ships to: %s\ntotal: %s\n", order.ShippingAddress, total)
}
