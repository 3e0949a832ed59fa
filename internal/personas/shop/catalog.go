package shop

import (
	"fmt"
	"strings"

	"github.com/Pratyush-06/Barista-Agent/internal/store"
)

// CatalogFile holds the product catalog, created with defaults on first use.
const CatalogFile = "catalog.json"

// Product is one catalog entry. Price is in minor units.
type Product struct {
	ID         string            `json:"id"`
	Name       string            `json:"name"`
	Category   string            `json:"category"`
	Price      int64             `json:"price"`
	Currency   string            `json:"currency"`
	Attributes map[string]string `json:"attributes,omitempty"`
}

// FormatPrice renders the unit price.
func (p Product) FormatPrice() string { return store.FormatMoney(p.Price, p.Currency) }

// Catalog is the on-disk catalog document.
type Catalog struct {
	Products []Product `json:"products"`
}

// DefaultCatalog returns the built-in quick-commerce catalog.
func DefaultCatalog() Catalog {
	p := func(id, name, category string, price int64, attrs map[string]string) Product {
		return Product{ID: id, Name: name, Category: category, Price: price, Currency: "INR", Attributes: attrs}
	}
	return Catalog{Products: []Product{
		p("milk-500", "Amul Taaza Toned Milk", "dairy", 2900, map[string]string{"size": "500 ml"}),
		p("curd-400", "Mother Dairy Classic Curd", "dairy", 4500, map[string]string{"size": "400 g"}),
		p("paneer-200", "Fresh Malai Paneer", "dairy", 9000, map[string]string{"size": "200 g"}),
		p("bread-400", "Harvest Gold Brown Bread", "bakery", 5500, map[string]string{"size": "400 g"}),
		p("eggs-6", "Farm Fresh Eggs", "dairy", 6000, map[string]string{"pack": "6"}),
		p("banana-6", "Robusta Banana", "fruits", 4200, map[string]string{"pack": "6"}),
		p("apple-4", "Shimla Apple", "fruits", 12000, map[string]string{"pack": "4"}),
		p("onion-1kg", "Onion", "vegetables", 3900, map[string]string{"size": "1 kg"}),
		p("tomato-500", "Tomato Hybrid", "vegetables", 2500, map[string]string{"size": "500 g"}),
		p("chips-52", "Lay's Classic Salted Chips", "snacks", 2000, map[string]string{"size": "52 g"}),
		p("coke-750", "Coca-Cola Soft Drink", "beverages", 4000, map[string]string{"size": "750 ml"}),
		p("coffee-100", "Nescafe Classic Instant Coffee", "beverages", 32500, map[string]string{"size": "100 g"}),
		p("hoodie-m", "Zepto Cotton Hoodie", "apparel", 149900, map[string]string{"color": "black", "size": "M"}),
		p("mug-350", "Ceramic Coffee Mug", "home", 34900, map[string]string{"color": "white", "capacity": "350 ml"}),
	}}
}

// LoadCatalog reads the catalog, writing the default one if the file is
// missing.
func LoadCatalog(path string) (Catalog, error) {
	c, err := store.LoadDocument(path, DefaultCatalog())
	if err != nil {
		return Catalog{}, fmt.Errorf("failed to load catalog: %w", err)
	}
	return c, nil
}

// Product looks a product up by id, ignoring case.
func (c Catalog) Product(id string) (Product, bool) {
	id = strings.TrimSpace(id)
	for _, p := range c.Products {
		if strings.EqualFold(p.ID, id) {
			return p, true
		}
	}
	return Product{}, false
}

// Categories lists the distinct categories in catalog order.
func (c Catalog) Categories() []string {
	seen := make(map[string]bool)
	var out []string
	for _, p := range c.Products {
		if !seen[p.Category] {
			seen[p.Category] = true
			out = append(out, p.Category)
		}
	}
	return out
}
