package domain

// Product is a catalog entry for a sellable product. Volumes are physical
// kilograms regardless of the configured display unit.
type Product struct {
	ProductID   string `yaml:"product_id"`
	ProductName string `yaml:"product_name"`
	Unit        string `yaml:"unit"`
}

// Market is a catalog entry for a geographic market. ActivationMonth marks
// when the market's demand ramp begins; demand is zero before it.
type Market struct {
	MarketID        string `yaml:"market_id"`
	Geo             string `yaml:"geo"`
	ActivationMonth string `yaml:"activation_month"`
}
