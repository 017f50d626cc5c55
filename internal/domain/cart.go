package domain

import "time"

// LineItem is one product entry in a cart, uniquely keyed by ProductID.
type LineItem struct {
	ProductID  string  `bson:"product_id" json:"product_id"`
	Name       string  `bson:"name" json:"name"`
	UnitPrice  float64 `bson:"unit_price" json:"unit_price"`
	Quantity   int     `bson:"quantity" json:"quantity"`
	UnitWeight float64 `bson:"unit_weight" json:"unit_weight"` // grams
	ImageURL   string  `bson:"image_url,omitempty" json:"image_url,omitempty"`
}

// Cart is the persisted mirror of a session's cart state.
type Cart struct {
	ID        string     `bson:"_id,omitempty" json:"id,omitempty"`
	UserID    string     `bson:"user_id" json:"user_id"`
	Items     []LineItem `bson:"items" json:"items"`
	CreatedAt time.Time  `bson:"created_at" json:"created_at"`
	UpdatedAt time.Time  `bson:"updated_at" json:"updated_at"`
}

// CartSnapshot is the cart state plus derived totals. The totals are never
// stored; they are recomputed from the item sequence on every read.
type CartSnapshot struct {
	Items       []LineItem `json:"items"`
	ItemCount   int        `json:"item_count"`
	Subtotal    float64    `json:"subtotal"`
	TotalWeight float64    `json:"total_weight"` // grams
}
