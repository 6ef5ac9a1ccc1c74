package domain

// BOMInput is a single input line in a product's bill of materials:
// qty_per_kg kilograms of the input are consumed per kilogram of finished
// output.
type BOMInput struct {
	InputID   string  `yaml:"input_id"`
	InputName string  `yaml:"input_name"`
	QtyPerKg  float64 `yaml:"qty_per_kg"`
	InputType string  `yaml:"input_type"` // raw_material | additive | energy | packaging | labor
}

// ProductBOM is the complete bill of materials for one product.
// Total input quantity must be >= 1.0; the excess above 1.0 models
// yield loss.
type ProductBOM struct {
	ProductID string
	Inputs    []BOMInput
}

// TotalInputQty sums qty_per_kg across all inputs.
func (b ProductBOM) TotalInputQty() float64 {
	total := 0.0
	for _, in := range b.Inputs {
		total += in.QtyPerKg
	}
	return total
}

// Input returns the input line with the given ID, if present.
func (b ProductBOM) Input(inputID string) (BOMInput, bool) {
	for _, in := range b.Inputs {
		if in.InputID == inputID {
			return in, true
		}
	}
	return BOMInput{}, false
}
