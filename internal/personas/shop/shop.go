// Package shop is a voice commerce assistant: browse the catalog, build a
// cart and check out.
package shop

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/logging"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
	"github.com/Pratyush-06/Barista-Agent/internal/textmatch"
	"github.com/Pratyush-06/Barista-Agent/internal/tools"
	"github.com/Pratyush-06/Barista-Agent/internal/voice"
)

// Name is the persona key.
const Name = "shop"

// OrdersFile holds placed orders.
const OrdersFile = "shop_orders.json"

// Limits.
const (
	MaxQuantity = 20
	maxListed   = 8
)

// CartLine is one product in the cart.
type CartLine struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	UnitPrice int64  `json:"unit_price"`
	Quantity  int    `json:"quantity"`
}

// Total is unit price times quantity.
func (l CartLine) Total() int64 { return l.UnitPrice * int64(l.Quantity) }

// State is the shopping session.
type State struct {
	Cart       []CartLine `json:"cart"`
	LastListed []string   `json:"last_listed"`
}

// CartTotal sums the line totals.
func (s State) CartTotal() int64 {
	var total int64
	for _, l := range s.Cart {
		total += l.Total()
	}
	return total
}

// OrderLine is a cart line frozen at checkout.
type OrderLine struct {
	CartLine
	LineTotal int64 `json:"line_total"`
}

// Order is a persisted checkout.
type Order struct {
	ID        string      `json:"id"`
	PlacedAt  time.Time   `json:"placed_at"`
	BuyerName string      `json:"buyer_name"`
	Lines     []OrderLine `json:"lines"`
	Total     int64       `json:"total"`
	Currency  string      `json:"currency"`
}

type session struct {
	state    State
	catalog  Catalog
	currency string
	orders   *store.JSONFile[Order]
	now      func() time.Time
	newID    func() string
}

// New builds a shop agent. The catalog is read (or created) in DataDir.
func New(deps agent.Deps) (*agent.Agent, error) {
	deps = deps.WithDefaults()
	catalog, err := LoadCatalog(deps.DataPath(CatalogFile))
	if err != nil {
		return nil, err
	}
	if len(catalog.Products) == 0 {
		return nil, errors.New("catalog has no products")
	}
	s := &session{
		catalog:  catalog,
		currency: catalog.Products[0].Currency,
		orders:   store.NewJSONFile[Order](deps.DataPath(OrdersFile)),
		now:      deps.Now,
		newID:    deps.NewID,
	}
	logging.PersonaDebug("Shop catalog loaded with %d products", len(catalog.Products))

	return &agent.Agent{
		Name:         Name,
		Title:        "Shopping Assistant",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company, catalog.Categories()),
		Greeting:     fmt.Sprintf("Hi, welcome to %s! What can I help you find today?", deps.Company),
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-IN-isha", Style: "Conversational", TextPacing: true},
		Snapshot:     func() any { return s.state },
	}, nil
}

func (s *session) registry() *tools.Registry {
	index := tools.Property{Type: "integer", Description: "1-based position"}
	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{
		Name:        "list_products",
		Description: "Search the catalog. All filters are optional. Results are numbered for add_to_cart.",
		Execute:     s.listProducts,
		Schema: tools.ToolSchema{Properties: map[string]tools.Property{
			"category":  {Type: "string", Description: "category such as dairy or snacks"},
			"query":     {Type: "string", Description: "product name, may be partial"},
			"max_price": {Type: "number", Description: "maximum unit price in rupees"},
		}},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "add_to_cart",
		Description: "Add a product by id or by its position in the last listing.",
		Execute:     s.addToCart,
		Schema: tools.ToolSchema{Properties: map[string]tools.Property{
			"product_id": {Type: "string"},
			"index":      {Type: "integer", Description: "1-based position in the last listing"},
			"quantity":   {Type: "integer", Description: "defaults to 1"},
		}},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "remove_from_cart",
		Description: "Remove a cart line by its 1-based position.",
		Execute:     s.removeFromCart,
		Schema:      tools.ToolSchema{Required: []string{"index"}, Properties: map[string]tools.Property{"index": index}},
	})
	reg.MustRegister(&tools.Tool{
		Name:        "update_quantity",
		Description: "Change the quantity of a cart line. Zero removes it.",
		Execute:     s.updateQuantity,
		Schema: tools.ToolSchema{
			Required:   []string{"index", "quantity"},
			Properties: map[string]tools.Property{"index": index, "quantity": {Type: "integer"}},
		},
	})
	reg.MustRegister(&tools.Tool{Name: "view_cart", Description: "Read back the cart and total.", Execute: s.viewCart})
	reg.MustRegister(&tools.Tool{
		Name:        "checkout",
		Description: "Place the order for everything in the cart.",
		Execute:     s.checkout,
		Schema: tools.ToolSchema{
			Required:   []string{"buyer_name"},
			Properties: map[string]tools.Property{"buyer_name": {Type: "string"}},
		},
	})
	reg.MustRegister(&tools.Tool{Name: "get_last_order", Description: "Describe the most recent order.", Execute: s.getLastOrder})
	return reg
}

func (s *session) money(minor int64) string { return store.FormatMoney(minor, s.currency) }

func (s *session) listProducts(_ context.Context, args map[string]any) (string, error) {
	category := tools.String(args, "category")
	var filtered []Product
	for _, p := range s.catalog.Products {
		if category != "" && !strings.EqualFold(p.Category, category) {
			continue
		}
		if maxPrice, ok := tools.Float(args, "max_price"); ok && float64(p.Price) > math.Round(maxPrice*100) {
			continue
		}
		filtered = append(filtered, p)
	}

	names := make([]string, len(filtered))
	for i, p := range filtered {
		names[i] = p.Name
	}
	hits := textmatch.Search(tools.String(args, "query"), names)
	if len(hits) == 0 {
		return "", tools.Rejectf("No products matched. Categories are: %s.", strings.Join(s.catalog.Categories(), ", "))
	}
	if len(hits) > maxListed {
		hits = hits[:maxListed]
	}

	listed := make([]string, len(hits))
	parts := make([]string, len(hits))
	for i, h := range hits {
		p := filtered[h]
		listed[i] = p.ID
		parts[i] = fmt.Sprintf("%d. %s%s, %s", i+1, p.Name, describeAttrs(p.Attributes), p.FormatPrice())
	}
	s.state.LastListed = listed
	return "Found: " + strings.Join(parts, "; ") + ".", nil
}

func describeAttrs(attrs map[string]string) string {
	for _, key := range []string{"size", "pack", "capacity"} {
		if v, ok := attrs[key]; ok {
			if key == "pack" {
				return fmt.Sprintf(" (pack of %s)", v)
			}
			return fmt.Sprintf(" (%s)", v)
		}
	}
	return ""
}

func (s *session) resolveProduct(args map[string]any) (Product, error) {
	if id := tools.String(args, "product_id"); id != "" {
		p, ok := s.catalog.Product(id)
		if !ok {
			return Product{}, tools.Rejectf("There is no product with id %q.", id)
		}
		return p, nil
	}
	if v, ok := args["index"]; !ok || v == nil {
		return Product{}, tools.Rejectf("Tell me which product, by id or by its number in the list.")
	}
	idx, err := tools.Int(args, "index")
	if err != nil {
		return Product{}, err
	}
	n := len(s.state.LastListed)
	if n == 0 {
		return Product{}, tools.Rejectf("Nothing has been listed yet. Search the catalog first.")
	}
	if idx < 1 || idx > n {
		return Product{}, tools.Rejectf("Item %d is not in the list. Choose between 1 and %d.", idx, n)
	}
	p, _ := s.catalog.Product(s.state.LastListed[idx-1])
	return p, nil
}

func (s *session) addToCart(_ context.Context, args map[string]any) (string, error) {
	p, err := s.resolveProduct(args)
	if err != nil {
		return "", err
	}
	qty, err := tools.OptionalInt(args, "quantity", 1)
	if err != nil {
		return "", err
	}
	if qty < 1 {
		return "", tools.Rejectf("Quantity must be at least 1.")
	}

	for i := range s.state.Cart {
		line := &s.state.Cart[i]
		if line.ProductID != p.ID {
			continue
		}
		if line.Quantity+qty > MaxQuantity {
			return "", tools.Rejectf("You can have at most %d of %s. The cart already has %d.", MaxQuantity, p.Name, line.Quantity)
		}
		line.Quantity += qty
		return fmt.Sprintf("Added %d more %s. You now have %d. Cart total %s.", qty, p.Name, line.Quantity, s.money(s.state.CartTotal())), nil
	}

	if qty > MaxQuantity {
		return "", tools.Rejectf("You can have at most %d of %s.", MaxQuantity, p.Name)
	}
	s.state.Cart = append(s.state.Cart, CartLine{ProductID: p.ID, Name: p.Name, UnitPrice: p.Price, Quantity: qty})
	return fmt.Sprintf("Added %d x %s. Cart total %s.", qty, p.Name, s.money(s.state.CartTotal())), nil
}

func (s *session) cartIndex(args map[string]any) (int, error) {
	idx, err := tools.Int(args, "index")
	if err != nil {
		return 0, err
	}
	n := len(s.state.Cart)
	if n == 0 {
		return 0, tools.Rejectf("Your cart is empty.")
	}
	if idx < 1 || idx > n {
		return 0, tools.Rejectf("Cart line %d does not exist. Choose between 1 and %d.", idx, n)
	}
	return idx - 1, nil
}

func (s *session) removeLine(i int) CartLine {
	line := s.state.Cart[i]
	s.state.Cart = append(s.state.Cart[:i:i], s.state.Cart[i+1:]...)
	return line
}

func (s *session) removeFromCart(_ context.Context, args map[string]any) (string, error) {
	i, err := s.cartIndex(args)
	if err != nil {
		return "", err
	}
	line := s.removeLine(i)
	return fmt.Sprintf("Removed %s. Cart total %s.", line.Name, s.money(s.state.CartTotal())), nil
}

func (s *session) updateQuantity(_ context.Context, args map[string]any) (string, error) {
	i, err := s.cartIndex(args)
	if err != nil {
		return "", err
	}
	qty, err := tools.Int(args, "quantity")
	if err != nil {
		return "", err
	}
	switch {
	case qty < 0:
		return "", tools.Rejectf("Quantity can't be negative.")
	case qty > MaxQuantity:
		return "", tools.Rejectf("You can have at most %d of one product.", MaxQuantity)
	case qty == 0:
		line := s.removeLine(i)
		return fmt.Sprintf("Removed %s. Cart total %s.", line.Name, s.money(s.state.CartTotal())), nil
	}
	s.state.Cart[i].Quantity = qty
	return fmt.Sprintf("%s quantity set to %d. Cart total %s.", s.state.Cart[i].Name, qty, s.money(s.state.CartTotal())), nil
}

func (s *session) viewCart(_ context.Context, _ map[string]any) (string, error) {
	if len(s.state.Cart) == 0 {
		return "Your cart is empty.", nil
	}
	parts := make([]string, len(s.state.Cart))
	for i, l := range s.state.Cart {
		parts[i] = fmt.Sprintf("%d. %d x %s, %s", i+1, l.Quantity, l.Name, s.money(l.Total()))
	}
	return fmt.Sprintf("Your cart: %s. Total %s.", strings.Join(parts, "; "), s.money(s.state.CartTotal())), nil
}

func (s *session) checkout(_ context.Context, args map[string]any) (string, error) {
	buyer := tools.String(args, "buyer_name")
	if buyer == "" {
		return "", tools.Rejectf("I need a name for the order.")
	}
	if len(s.state.Cart) == 0 {
		return "", tools.Rejectf("Your cart is empty. Add something before checking out.")
	}

	order := Order{
		ID:        s.newID(),
		PlacedAt:  s.now().UTC(),
		BuyerName: buyer,
		Currency:  s.currency,
		Lines:     make([]OrderLine, len(s.state.Cart)),
	}
	for i, l := range s.state.Cart {
		order.Lines[i] = OrderLine{CartLine: l, LineTotal: l.Total()}
		order.Total += order.Lines[i].LineTotal
	}
	if err := s.orders.Append(order); err != nil {
		return "", fmt.Errorf("failed to save shop order: %w", err)
	}
	logging.Persona("Shop order %s placed for %s: %d lines, %s", order.ID, buyer, len(order.Lines), s.money(order.Total))

	s.state.Cart = nil
	return fmt.Sprintf("Thanks %s! Order %s is placed: %d items for %s.", buyer, shortID(order.ID), order.itemCount(), s.money(order.Total)), nil
}

func (o Order) itemCount() int {
	n := 0
	for _, l := range o.Lines {
		n += l.Quantity
	}
	return n
}

func (s *session) getLastOrder(_ context.Context, _ map[string]any) (string, error) {
	order, ok, err := s.orders.Last()
	if err != nil {
		return "", fmt.Errorf("failed to read shop orders: %w", err)
	}
	if !ok {
		return "There are no previous orders.", nil
	}
	parts := make([]string, len(order.Lines))
	for i, l := range order.Lines {
		parts[i] = fmt.Sprintf("%d x %s", l.Quantity, l.Name)
	}
	return fmt.Sprintf("Your last order %s on %s was %s, total %s.",
		shortID(order.ID), order.PlacedAt.Format("Jan 2"), strings.Join(parts, ", "),
		store.FormatMoney(order.Total, order.Currency)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
