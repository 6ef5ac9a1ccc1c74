package cogs

import (
	"fmt"
	"sort"

	"epm-engine/internal/assumptions"
	"epm-engine/internal/domain"
)

// LoadBOM converts the configured bill-of-materials tree into per-product
// BOM structures.
func LoadBOM(cfg assumptions.BOMConfig) map[string]domain.ProductBOM {
	result := make(map[string]domain.ProductBOM, len(cfg.ByProduct))
	for productID, product := range cfg.ByProduct {
		result[productID] = domain.ProductBOM{
			ProductID: productID,
			Inputs:    product.Inputs,
		}
	}
	return result
}

// ValidateBOM checks BOM completeness: every product has at least one
// input, quantities are non-negative, and total qty_per_kg covers at
// least one kilogram of output (the yield-loss constraint).
func ValidateBOM(bom map[string]domain.ProductBOM) []string {
	var errs []string

	for _, productID := range sortedKeys(bom) {
		productBOM := bom[productID]
		if len(productBOM.Inputs) == 0 {
			errs = append(errs, fmt.Sprintf("product %s has no inputs in BOM", productID))
			continue
		}

		for _, in := range productBOM.Inputs {
			if in.QtyPerKg < 0 {
				errs = append(errs, fmt.Sprintf(
					"negative qty_per_kg for %s/%s: %v", productID, in.InputID, in.QtyPerKg))
			}
		}

		if total := productBOM.TotalInputQty(); total < 1.0 {
			errs = append(errs, fmt.Sprintf(
				"BOM for %s has total qty %.4f < 1.0 (violates yield loss constraint)",
				productID, total))
		}
	}

	return errs
}

// AllInputIDs returns the sorted unique input IDs across all product BOMs.
func AllInputIDs(bom map[string]domain.ProductBOM) []string {
	seen := map[string]bool{}
	for _, productBOM := range bom {
		for _, in := range productBOM.Inputs {
			seen[in.InputID] = true
		}
	}
	ids := make([]string, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
