package barista

// Menu is fixed; the model is told about it in the instructions.
var (
	Drinks = []string{"latte", "cappuccino", "americano", "espresso", "mocha", "flat white", "cold brew", "chai latte", "hot chocolate"}
	Sizes  = []string{"small", "medium", "large"}
	Milks  = []string{"whole", "skim", "oat", "almond", "soy", "none"}
	Extras = []string{"extra shot", "vanilla syrup", "caramel syrup", "hazelnut syrup", "whipped cream", "cinnamon", "extra ice", "decaf"}
)

// MaxExtras caps the extras of one drink.
const MaxExtras = 5

// matchThreshold is the minimum similarity for a spoken menu item.
const matchThreshold = 0.6
