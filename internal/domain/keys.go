package domain

// Composite map keys for the multi-dimensional engine output tables.
// Monthly totals use the bare month string directly.

// MonthMarket keys (month, market) series such as addressable demand.
type MonthMarket struct {
	Month  string
	Market string
}

// MonthProduct keys (month, product) series such as per-product revenue.
type MonthProduct struct {
	Month   string
	Product string
}

// MonthProductMarket keys the detailed (month, product, market) tables:
// units, net prices, revenue.
type MonthProductMarket struct {
	Month   string
	Product string
	Market  string
}

// MonthProductInput keys BOM consumption and variable COGS detail.
type MonthProductInput struct {
	Month   string
	Product string
	Input   string
}

// MonthInput keys the resolved input price grid.
type MonthInput struct {
	Month string
	Input string
}

// MonthCategory keys fixed OpEx by cost category.
type MonthCategory struct {
	Month    string
	Category string
}

// MonthDriver keys variable OpEx by activity driver.
type MonthDriver struct {
	Month  string
	Driver string
}
