package barista

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
)

func newBarista(t *testing.T) (*agent.Agent, string) {
	t.Helper()
	dir := t.TempDir()
	fixed := time.Date(2025, 11, 24, 9, 30, 0, 0, time.UTC)
	a, err := New(agent.Deps{
		DataDir: dir,
		Company: "Brewtopia Coffee",
		Now:     func() time.Time { return fixed },
		NewID:   func() string { return "order-0001-abcdef" },
	})
	require.NoError(t, err)
	return a, dir
}

func call(a *agent.Agent, tool string, args map[string]any) string {
	return a.Tools.Invoke(context.Background(), tool, args)
}

func order(a *agent.Agent) Order { return a.Snapshot().(Order) }

func TestSetDrink(t *testing.T) {
	a, _ := newBarista(t)

	assert.Equal(t, "Drink set to cappuccino.", call(a, "set_drink", map[string]any{"drink": "Capuccino"}))
	assert.Equal(t, "Drink set to chai latte.", call(a, "set_drink", map[string]any{"drink": "chai"}))
	assert.Contains(t, call(a, "set_drink", map[string]any{"drink": "green smoothie"}), "we don't serve")
	assert.Equal(t, "chai latte", order(a).Drink)
}

func TestSetSizeAndMilk(t *testing.T) {
	a, _ := newBarista(t)

	assert.Equal(t, "Size set to large.", call(a, "set_size", map[string]any{"size": "LARGE"}))
	assert.Equal(t, "Size must be one of: small, medium, large.", call(a, "set_size", map[string]any{"size": "venti"}))
	assert.Equal(t, "large", order(a).Size)

	assert.Equal(t, "Milk set to oat.", call(a, "set_milk", map[string]any{"milk": "oat milk"}))
	assert.Equal(t, "No milk, got it.", call(a, "set_milk", map[string]any{"milk": "no milk"}))
	assert.Contains(t, call(a, "set_milk", map[string]any{"milk": "camel"}), "Milk must be one of")
	assert.Equal(t, "none", order(a).Milk)
}

func TestExtras(t *testing.T) {
	a, _ := newBarista(t)

	assert.Equal(t, "Added vanilla syrup. Extras now: vanilla syrup.", call(a, "add_extra", map[string]any{"extra": "vanilla"}))
	call(a, "add_extra", map[string]any{"extra": "extra shot"})
	assert.Equal(t, "vanilla syrup is already on the order.", call(a, "add_extra", map[string]any{"extra": "vanilla syrup"}))
	assert.Contains(t, call(a, "add_extra", map[string]any{"extra": "gold flakes"}), "isn't an extra we offer")

	t.Run("index bounds", func(t *testing.T) {
		for _, idx := range []any{0, 3, -1, float64(9)} {
			got := call(a, "remove_extra", map[string]any{"index": idx})
			assert.Contains(t, got, "does not exist. Choose between 1 and 2.", "index %v", idx)
		}
		assert.Len(t, order(a).Extras, 2)
	})

	assert.Contains(t, call(a, "remove_extra", map[string]any{"index": "two"}), "Sorry, I couldn't run remove_extra")
	assert.Equal(t, "Removed vanilla syrup.", call(a, "remove_extra", map[string]any{"index": float64(1)}))
	assert.Equal(t, []string{"extra shot"}, order(a).Extras)
	call(a, "remove_extra", map[string]any{"index": 1})
	assert.Equal(t, "There are no extras to remove.", call(a, "remove_extra", map[string]any{"index": 1}))
}

func TestMaxExtras(t *testing.T) {
	a, _ := newBarista(t)
	for _, e := range Extras[:MaxExtras] {
		call(a, "add_extra", map[string]any{"extra": e})
	}
	assert.Contains(t, call(a, "add_extra", map[string]any{"extra": Extras[MaxExtras]}), "maximum of 5 extras")
	assert.Len(t, order(a).Extras, MaxExtras)
}

func TestPlaceOrder(t *testing.T) {
	a, dir := newBarista(t)

	assert.Equal(t, "The order isn't complete yet. Still needed: drink, size, milk, name.", call(a, "place_order", nil))
	assert.Equal(t, "Current order: no drink chosen yet. Still needed: drink, size, milk, name.", call(a, "get_order_status", nil))

	call(a, "set_drink", map[string]any{"drink": "latte"})
	call(a, "set_size", map[string]any{"size": "medium"})
	call(a, "set_milk", map[string]any{"milk": "almond"})
	call(a, "add_extra", map[string]any{"extra": "caramel"})
	assert.Equal(t, "Current order: medium latte with almond milk plus caramel syrup. Still needed: name.", call(a, "get_order_status", nil))
	assert.Equal(t, "I didn't catch a name.", call(a, "set_name", map[string]any{"name": "  "}))
	call(a, "set_name", map[string]any{"name": "Asha"})
	assert.Contains(t, call(a, "get_order_status", nil), "Ready to place.")

	assert.Equal(t, "Order placed: medium latte with almond milk plus caramel syrup for Asha. Your order number is order-00.",
		call(a, "place_order", nil))
	assert.Equal(t, Order{}, order(a), "order resets after placing")

	orders, err := store.NewJSONFile[PlacedOrder](filepath.Join(dir, OrdersFile)).Load()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	assert.Equal(t, "order-0001-abcdef", orders[0].ID)
	assert.Equal(t, "Asha", orders[0].Name)
	assert.Equal(t, []string{"caramel syrup"}, orders[0].Extras)
	assert.Equal(t, 2025, orders[0].PlacedAt.Year())
}

func TestInstructionsListMenu(t *testing.T) {
	a, _ := newBarista(t)
	assert.Contains(t, a.Instructions, "Brewtopia Coffee")
	assert.Contains(t, a.Instructions, "flat white")
	assert.Contains(t, a.Greeting, "Brewtopia Coffee")
}
