package models

// Product is a distributable item with a unit price and remaining stock
type Product struct {
	Name     string  `json:"name"`
	Price    float64 `json:"price"`
	Quantity int     `json:"quantity"` // Remaining stock, may go negative
	// StockUnknown marks a blank or unreadable Quantity cell.
	// The product still prices visits but has no stock figure.
	StockUnknown bool `json:"stock_unknown,omitempty"`
}

// ProductColumns is the fixed, ordered set of item names.
// Each one is also a quantity column on the Visits table.
var ProductColumns = []string{
	"كراسة",
	"كشكول",
	"قلم رصاص",
	"استيكة",
	"مسطرة",
	"قلم جاف",
	"براية",
	"ارنب",
	"بطة",
	"كلب",
}

// IsProductColumn reports whether name is one of ProductColumns
func IsProductColumn(name string) bool {
	for _, col := range ProductColumns {
		if col == name {
			return true
		}
	}
	return false
}

// ProductAvailability is one row of the admin stock report
type ProductAvailability struct {
	Name      string `json:"name"`
	Stock     int    `json:"stock"`
	Sold      int    `json:"sold"`
	Available int    `json:"available"`
}
