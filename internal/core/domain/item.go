package domain

import "time"

// ItemStatus is the stock level label shown on the dashboard.
type ItemStatus string

const (
	StatusInStock    ItemStatus = "In Stock"
	StatusLowStock   ItemStatus = "Low Stock"
	StatusOutOfStock ItemStatus = "Out of Stock"
)

// Upper bounds of the stored columns (INTEGER and NUMERIC(10,2)).
const (
	MaxItemQuantity = 2147483647
	MaxItemPrice    = 99999999.99
)

// Valid reports whether s is one of the known stock statuses.
func (s ItemStatus) Valid() bool {
	switch s {
	case StatusInStock, StatusLowStock, StatusOutOfStock:
		return true
	}
	return false
}

// Item is a stock record. OwnerID references the Account that created it and
// scopes every read and write.
type Item struct {
	ID        string     `json:"id" bson:"_id"`
	OwnerID   string     `json:"owner_id" bson:"owner_id"`
	Name      string     `json:"name" bson:"name"`
	Category  string     `json:"category" bson:"category"`
	Quantity  int        `json:"quantity" bson:"quantity"`
	Price     float64    `json:"price" bson:"price"`
	Status    ItemStatus `json:"status" bson:"status"`
	CreatedAt time.Time  `json:"created_at" bson:"created_at"`
	UpdatedAt time.Time  `json:"updated_at" bson:"updated_at"`
}

// ItemSummary aggregates an owner's inventory.
type ItemSummary struct {
	TotalItems    int     `json:"total_items"`
	TotalQuantity int     `json:"total_quantity"`
	TotalValue    float64 `json:"total_value"`
	LowStock      int     `json:"low_stock"`
	OutOfStock    int     `json:"out_of_stock"`
}
