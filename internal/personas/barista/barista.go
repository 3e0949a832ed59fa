// Package barista takes a single coffee order by voice.
package barista

import (
	"context"
	"fmt"
	"slices"
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
const Name = "barista"

// OrdersFile holds placed orders.
const OrdersFile = "orders.json"

// Order is the drink being put together.
type Order struct {
	Drink  string   `json:"drink"`
	Size   string   `json:"size"`
	Milk   string   `json:"milk"`
	Extras []string `json:"extras"`
	Name   string   `json:"name"`
}

// Missing lists the fields still needed before the order can be placed.
func (o Order) Missing() []string {
	var missing []string
	if o.Drink == "" {
		missing = append(missing, "drink")
	}
	if o.Size == "" {
		missing = append(missing, "size")
	}
	if o.Milk == "" {
		missing = append(missing, "milk")
	}
	if o.Name == "" {
		missing = append(missing, "name")
	}
	return missing
}

// Describe renders the order as one sentence.
func (o Order) Describe() string {
	if o.Drink == "" {
		return "no drink chosen yet"
	}
	var b strings.Builder
	if o.Size != "" {
		b.WriteString(o.Size + " ")
	}
	b.WriteString(o.Drink)
	if o.Milk != "" && o.Milk != "none" {
		fmt.Fprintf(&b, " with %s milk", o.Milk)
	}
	if len(o.Extras) > 0 {
		fmt.Fprintf(&b, " plus %s", strings.Join(o.Extras, ", "))
	}
	if o.Name != "" {
		fmt.Fprintf(&b, " for %s", o.Name)
	}
	return b.String()
}

// PlacedOrder is a persisted order.
type PlacedOrder struct {
	ID       string    `json:"id"`
	PlacedAt time.Time `json:"placed_at"`
	Order
}

type session struct {
	order  Order
	orders *store.JSONFile[PlacedOrder]
	now    func() time.Time
	newID  func() string
}

// New builds a barista agent.
func New(deps agent.Deps) (*agent.Agent, error) {
	deps = deps.WithDefaults()
	s := &session{
		orders: store.NewJSONFile[PlacedOrder](deps.DataPath(OrdersFile)),
		now:    deps.Now,
		newID:  deps.NewID,
	}
	return &agent.Agent{
		Name:         Name,
		Title:        "Barista",
		Company:      deps.Company,
		Instructions: Instructions(deps.Company),
		Greeting:     fmt.Sprintf("Welcome to %s! What can I get started for you today?", deps.Company),
		Tools:        s.registry(),
		Voice:        voice.Options{Voice: "en-US-natalie", Style: "Conversational", TextPacing: true},
		Snapshot:     func() any { return s.order },
	}, nil
}

func stringArg(name, desc string) tools.ToolSchema {
	return tools.ToolSchema{
		Required:   []string{name},
		Properties: map[string]tools.Property{name: {Type: "string", Description: desc}},
	}
}

func enumArg(name, desc string, values []string) tools.ToolSchema {
	enum := make([]any, len(values))
	for i, v := range values {
		enum[i] = v
	}
	return tools.ToolSchema{
		Required:   []string{name},
		Properties: map[string]tools.Property{name: {Type: "string", Description: desc, Enum: enum}},
	}
}

func (s *session) registry() *tools.Registry {
	reg := tools.NewRegistry(Name)
	reg.MustRegister(&tools.Tool{Name: "set_drink", Description: "Set the drink from the menu.", Execute: s.setDrink, Schema: stringArg("drink", "drink name as the customer said it")})
	reg.MustRegister(&tools.Tool{Name: "set_size", Description: "Set the drink size.", Execute: s.setSize, Schema: enumArg("size", "cup size", Sizes)})
	reg.MustRegister(&tools.Tool{Name: "set_milk", Description: "Set the milk. Use none for black drinks.", Execute: s.setMilk, Schema: enumArg("milk", "milk type", Milks)})
	reg.MustRegister(&tools.Tool{Name: "add_extra", Description: "Add an extra such as a syrup or an extra shot.", Execute: s.addExtra, Schema: stringArg("extra", "extra as the customer said it")})
	reg.MustRegister(&tools.Tool{
		Name:        "remove_extra",
		Description: "Remove an extra by its 1-based position in the extras list.",
		Execute:     s.removeExtra,
		Schema: tools.ToolSchema{
			Required:   []string{"index"},
			Properties: map[string]tools.Property{"index": {Type: "integer", Description: "1-based position"}},
		},
	})
	reg.MustRegister(&tools.Tool{Name: "set_name", Description: "Set the customer's name for the cup.", Execute: s.setName, Schema: stringArg("name", "customer name")})
	reg.MustRegister(&tools.Tool{Name: "get_order_status", Description: "Describe the order so far and what is still missing.", Execute: s.getOrderStatus})
	reg.MustRegister(&tools.Tool{Name: "place_order", Description: "Place the order once drink, size, milk and name are set.", Execute: s.placeOrder})
	return reg
}

func (s *session) setDrink(_ context.Context, args map[string]any) (string, error) {
	m, ok := textmatch.BestMatch(tools.String(args, "drink"), Drinks, matchThreshold)
	if !ok {
		return "", tools.Rejectf("Sorry, we don't serve %q. Our drinks are: %s.", tools.String(args, "drink"), strings.Join(Drinks, ", "))
	}
	s.order.Drink = m.Value
	return fmt.Sprintf("Drink set to %s.", m.Value), nil
}

func (s *session) setSize(_ context.Context, args map[string]any) (string, error) {
	size := strings.ToLower(tools.String(args, "size"))
	if !slices.Contains(Sizes, size) {
		return "", tools.Rejectf("Size must be one of: %s.", strings.Join(Sizes, ", "))
	}
	s.order.Size = size
	return fmt.Sprintf("Size set to %s.", size), nil
}

func (s *session) setMilk(_ context.Context, args map[string]any) (string, error) {
	milk := strings.ToLower(tools.String(args, "milk"))
	milk = strings.TrimSuffix(milk, " milk")
	if milk == "no" || milk == "no milk" {
		milk = "none"
	}
	if !slices.Contains(Milks, milk) {
		return "", tools.Rejectf("Milk must be one of: %s.", strings.Join(Milks, ", "))
	}
	s.order.Milk = milk
	if milk == "none" {
		return "No milk, got it.", nil
	}
	return fmt.Sprintf("Milk set to %s.", milk), nil
}

func (s *session) addExtra(_ context.Context, args map[string]any) (string, error) {
	m, ok := textmatch.BestMatch(tools.String(args, "extra"), Extras, matchThreshold)
	if !ok {
		return "", tools.Rejectf("Sorry, %q isn't an extra we offer. Extras: %s.", tools.String(args, "extra"), strings.Join(Extras, ", "))
	}
	if slices.Contains(s.order.Extras, m.Value) {
		return "", tools.Rejectf("%s is already on the order.", m.Value)
	}
	if len(s.order.Extras) >= MaxExtras {
		return "", tools.Rejectf("That's the maximum of %d extras. Remove one first.", MaxExtras)
	}
	s.order.Extras = append(s.order.Extras, m.Value)
	return fmt.Sprintf("Added %s. Extras now: %s.", m.Value, strings.Join(s.order.Extras, ", ")), nil
}

func (s *session) removeExtra(_ context.Context, args map[string]any) (string, error) {
	idx, err := tools.Int(args, "index")
	if err != nil {
		return "", err
	}
	if len(s.order.Extras) == 0 {
		return "", tools.Rejectf("There are no extras to remove.")
	}
	if idx < 1 || idx > len(s.order.Extras) {
		return "", tools.Rejectf("Extra %d does not exist. Choose between 1 and %d.", idx, len(s.order.Extras))
	}
	removed := s.order.Extras[idx-1]
	s.order.Extras = append(s.order.Extras[:idx-1:idx-1], s.order.Extras[idx:]...)
	return fmt.Sprintf("Removed %s.", removed), nil
}

func (s *session) setName(_ context.Context, args map[string]any) (string, error) {
	name := tools.String(args, "name")
	if name == "" {
		return "", tools.Rejectf("I didn't catch a name.")
	}
	s.order.Name = name
	return fmt.Sprintf("Name set to %s.", name), nil
}

func (s *session) getOrderStatus(_ context.Context, _ map[string]any) (string, error) {
	status := "Current order: " + s.order.Describe() + "."
	if missing := s.order.Missing(); len(missing) > 0 {
		status += " Still needed: " + strings.Join(missing, ", ") + "."
	} else {
		status += " Ready to place."
	}
	return status, nil
}

func (s *session) placeOrder(_ context.Context, _ map[string]any) (string, error) {
	if missing := s.order.Missing(); len(missing) > 0 {
		return "", tools.Rejectf("The order isn't complete yet. Still needed: %s.", strings.Join(missing, ", "))
	}
	placed := PlacedOrder{ID: s.newID(), PlacedAt: s.now().UTC(), Order: s.order}
	if err := s.orders.Append(placed); err != nil {
		return "", fmt.Errorf("failed to save order: %w", err)
	}
	logging.Persona("Barista order %s placed for %s", placed.ID, placed.Name)

	s.order = Order{}
	return fmt.Sprintf("Order placed: %s. Your order number is %s.", placed.Describe(), shortID(placed.ID)), nil
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

