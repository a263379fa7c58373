package services

import "fmt"

// InventoryPolicy decides how stock is tracked between visit recording and the admin report
type InventoryPolicy string

const (
	// PolicyRecompute leaves Product.Quantity untouched; available = Quantity - sold
	PolicyRecompute InventoryPolicy = "recompute"
	// PolicyDecrement lowers Product.Quantity on every visit; available = Quantity
	PolicyDecrement InventoryPolicy = "decrement"
	// PolicyLegacy decrements on visit and also subtracts sold, counting each item twice
	PolicyLegacy InventoryPolicy = "legacy"
)

func ParseInventoryPolicy(s string) (InventoryPolicy, error) {
	switch p := InventoryPolicy(s); p {
	case PolicyRecompute, PolicyDecrement, PolicyLegacy:
		return p, nil
	case "":
		return PolicyRecompute, nil
	default:
		return "", fmt.Errorf("unknown inventory policy %q", s)
	}
}

// DecrementsOnVisit reports whether recording a visit writes Product.Quantity
func (p InventoryPolicy) DecrementsOnVisit() bool {
	return p == PolicyDecrement || p == PolicyLegacy
}

// SubtractsSold reports whether the report derives availability from recorded visits
func (p InventoryPolicy) SubtractsSold() bool {
	return p == PolicyRecompute || p == PolicyLegacy
}
