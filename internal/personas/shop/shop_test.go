package shop

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Pratyush-06/Barista-Agent/internal/agent"
	"github.com/Pratyush-06/Barista-Agent/internal/store"
)

var fixedNow = time.Date(2025, 11, 24, 18, 30, 0, 0, time.UTC)

func newShop(t *testing.T, dir string) *agent.Agent {
	t.Helper()
	a, err := New(agent.Deps{
		DataDir: dir,
		Company: "Zepto",
		Now:     func() time.Time { return fixedNow },
		NewID:   func() string { return "zp-20251124-0001" },
	})
	require.NoError(t, err)
	return a
}

func call(a *agent.Agent, tool string, args map[string]any) string {
	return a.Tools.Invoke(context.Background(), tool, args)
}

func state(a *agent.Agent) State { return a.Snapshot().(State) }

func TestNew_WritesDefaultCatalog(t *testing.T) {
	dir := t.TempDir()
	a := newShop(t, dir)
	assert.Contains(t, a.Instructions, "dairy, bakery, fruits")

	loaded, err := LoadCatalog(filepath.Join(dir, CatalogFile))
	require.NoError(t, err)
	if diff := cmp.Diff(DefaultCatalog(), loaded); diff != "" {
		t.Errorf("catalog on disk differs (-want +got):\n%s", diff)
	}
}

func TestNew_UsesCatalogOnDisk(t *testing.T) {
	dir := t.TempDir()
	custom := Catalog{Products: []Product{{ID: "tea-250", Name: "Assam Tea", Category: "beverages", Price: 18000, Currency: "INR"}}}
	data, err := json.Marshal(custom)
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, CatalogFile), data, 0644))

	a := newShop(t, dir)
	assert.Equal(t, "Found: 1. Assam Tea, 180.00 INR.", call(a, "list_products", nil))
}

func TestListProducts(t *testing.T) {
	a := newShop(t, t.TempDir())

	assert.Equal(t,
		"Found: 1. Amul Taaza Toned Milk (500 ml), 29.00 INR; 2. Mother Dairy Classic Curd (400 g), 45.00 INR; "+
			"3. Fresh Malai Paneer (200 g), 90.00 INR; 4. Farm Fresh Eggs (pack of 6), 60.00 INR.",
		call(a, "list_products", map[string]any{"category": "Dairy"}))
	assert.Equal(t, []string{"milk-500", "curd-400", "paneer-200", "eggs-6"}, state(a).LastListed)

	assert.Equal(t, "Found: 1. Amul Taaza Toned Milk (500 ml), 29.00 INR.", call(a, "list_products", map[string]any{"query": "milk"}))
	assert.Equal(t, []string{"milk-500"}, state(a).LastListed)

	call(a, "list_products", map[string]any{"max_price": 30.0})
	assert.Equal(t, []string{"milk-500", "tomato-500", "chips-52"}, state(a).LastListed)

	all := call(a, "list_products", nil)
	assert.Contains(t, all, "5. Farm Fresh Eggs (pack of 6), 60.00 INR; 6. Robusta Banana")
	assert.Contains(t, all, "8. Onion (1 kg), 39.00 INR.")
	assert.Len(t, state(a).LastListed, maxListed)

	assert.Contains(t, call(a, "list_products", map[string]any{"category": "furniture"}), "No products matched. Categories are: dairy")
}

func TestAddToCartAggregatesQuantity(t *testing.T) {
	a := newShop(t, t.TempDir())
	call(a, "list_products", map[string]any{"category": "dairy"})

	assert.Equal(t, "Added 2 x Amul Taaza Toned Milk. Cart total 58.00 INR.", call(a, "add_to_cart", map[string]any{"index": 1, "quantity": 2}))
	assert.Equal(t, "Added 1 more Amul Taaza Toned Milk. You now have 3. Cart total 87.00 INR.", call(a, "add_to_cart", map[string]any{"product_id": "milk-500"}))
	assert.Equal(t, []CartLine{{ProductID: "milk-500", Name: "Amul Taaza Toned Milk", UnitPrice: 2900, Quantity: 3}}, state(a).Cart)

	call(a, "add_to_cart", map[string]any{"product_id": "PANEER-200", "quantity": "1"})
	assert.Len(t, state(a).Cart, 2)
	assert.Equal(t, int64(8700+9000), state(a).CartTotal())

	assert.Contains(t, call(a, "add_to_cart", map[string]any{"index": 1, "quantity": MaxQuantity}), "at most 20")
	assert.Equal(t, 3, state(a).Cart[0].Quantity)
}

func TestAddToCartRejections(t *testing.T) {
	a := newShop(t, t.TempDir())

	assert.Equal(t, "Nothing has been listed yet. Search the catalog first.", call(a, "add_to_cart", map[string]any{"index": 1}))
	assert.Equal(t, "Tell me which product, by id or by its number in the list.", call(a, "add_to_cart", map[string]any{"quantity": 2}))
	assert.Equal(t, `There is no product with id "caviar".`, call(a, "add_to_cart", map[string]any{"product_id": "caviar"}))

	call(a, "list_products", map[string]any{"category": "dairy"})
	assert.Equal(t, "Item 5 is not in the list. Choose between 1 and 4.", call(a, "add_to_cart", map[string]any{"index": 5}))
	assert.Equal(t, "Item 0 is not in the list. Choose between 1 and 4.", call(a, "add_to_cart", map[string]any{"index": 0}))
	assert.Equal(t, "Quantity must be at least 1.", call(a, "add_to_cart", map[string]any{"index": 1, "quantity": 0}))
	assert.Empty(t, state(a).Cart)
}

func TestRemoveAndUpdate(t *testing.T) {
	a := newShop(t, t.TempDir())
	assert.Equal(t, "Your cart is empty.", call(a, "remove_from_cart", map[string]any{"index": 1}))

	call(a, "add_to_cart", map[string]any{"product_id": "milk-500"})
	call(a, "add_to_cart", map[string]any{"product_id": "bread-400"})
	call(a, "add_to_cart", map[string]any{"product_id": "banana-6"})

	assert.Equal(t, "Cart line 4 does not exist. Choose between 1 and 3.", call(a, "remove_from_cart", map[string]any{"index": 4}))
	assert.Equal(t, "Removed Harvest Gold Brown Bread. Cart total 71.00 INR.", call(a, "remove_from_cart", map[string]any{"index": 2}))

	assert.Equal(t, "Robusta Banana quantity set to 3. Cart total 155.00 INR.", call(a, "update_quantity", map[string]any{"index": 2, "quantity": 3}))
	assert.Equal(t, "Quantity can't be negative.", call(a, "update_quantity", map[string]any{"index": 2, "quantity": -1}))
	assert.Equal(t, "Removed Amul Taaza Toned Milk. Cart total 126.00 INR.", call(a, "update_quantity", map[string]any{"index": 1, "quantity": 0}))
	assert.Equal(t, []CartLine{{ProductID: "banana-6", Name: "Robusta Banana", UnitPrice: 4200, Quantity: 3}}, state(a).Cart)

	assert.Equal(t, "Your cart: 1. 3 x Robusta Banana, 126.00 INR. Total 126.00 INR.", call(a, "view_cart", nil))
}

func TestCheckout(t *testing.T) {
	dir := t.TempDir()
	a := newShop(t, dir)

	assert.Equal(t, "Your cart is empty. Add something before checking out.", call(a, "checkout", map[string]any{"buyer_name": "Meera"}))
	assert.Equal(t, "There are no previous orders.", call(a, "get_last_order", nil))

	call(a, "add_to_cart", map[string]any{"product_id": "milk-500", "quantity": 3})
	call(a, "add_to_cart", map[string]any{"product_id": "hoodie-m"})
	call(a, "add_to_cart", map[string]any{"product_id": "chips-52", "quantity": 4})

	assert.Equal(t, "I need a name for the order.", call(a, "checkout", map[string]any{"buyer_name": "  "}))
	assert.Equal(t, "Thanks Meera! Order zp-20251 is placed: 8 items for 1,666.00 INR.", call(a, "checkout", map[string]any{"buyer_name": "Meera"}))
	assert.Empty(t, state(a).Cart)
	assert.Equal(t, "Your cart is empty.", call(a, "view_cart", nil))

	orders, err := store.NewJSONFile[Order](filepath.Join(dir, OrdersFile)).Load()
	require.NoError(t, err)
	require.Len(t, orders, 1)
	order := orders[0]
	var sum int64
	for _, l := range order.Lines {
		assert.Equal(t, l.UnitPrice*int64(l.Quantity), l.LineTotal)
		sum += l.LineTotal
	}
	assert.Equal(t, order.Total, sum)
	assert.Equal(t, int64(166600), order.Total)
	assert.Equal(t, "Meera", order.BuyerName)
	assert.True(t, order.PlacedAt.Equal(fixedNow))

	assert.Equal(t, "Your last order zp-20251 on Nov 24 was 3 x Amul Taaza Toned Milk, 1 x Zepto Cotton Hoodie, 4 x Lay's Classic Salted Chips, total 1,666.00 INR.",
		call(a, "get_last_order", nil))
}

func TestCatalogHelpers(t *testing.T) {
	c := DefaultCatalog()
	p, ok := c.Product(" COFFEE-100 ")
	require.True(t, ok)
	assert.Equal(t, "325.00 INR", p.FormatPrice())

	_, ok = c.Product("nope")
	assert.False(t, ok)
	assert.Equal(t, []string{"dairy", "bakery", "fruits", "vegetables", "snacks", "beverages", "apparel", "home"}, c.Categories())
}
