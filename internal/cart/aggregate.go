package cart

import "github.com/swap841/my-store/internal/domain"

// Aggregate holds a session's line items keyed by product id, in insertion
// order. No two items with the same product id may coexist; Add merges into
// the existing line instead. The aggregate is not safe for concurrent use;
// a single logical session owns it.
type Aggregate struct {
	items []domain.LineItem
}

// New builds an aggregate from a previously mirrored item sequence.
// Items that share a product id are merged, preserving first position.
func New(items []domain.LineItem) *Aggregate {
	a := &Aggregate{}
	for _, item := range items {
		if item.Quantity < 1 {
			continue
		}
		a.Add(domain.Product{
			ID:          item.ProductID,
			Name:        item.Name,
			Price:       item.UnitPrice,
			WeightGrams: item.UnitWeight,
			ImageURL:    item.ImageURL,
		}, item.Quantity)
	}
	return a
}

// Add merges quantity into an existing line for the product, or appends a
// new line at the end. Quantities below 1 are treated as 1.
func (a *Aggregate) Add(product domain.Product, quantity int) {
	if quantity < 1 {
		quantity = 1
	}

	for i := range a.items {
		if a.items[i].ProductID == product.ID {
			a.items[i].Quantity += quantity
			return
		}
	}

	a.items = append(a.items, domain.LineItem{
		ProductID:  product.ID,
		Name:       product.Name,
		UnitPrice:  product.Price,
		Quantity:   quantity,
		UnitWeight: product.WeightGrams,
		ImageURL:   product.ImageURL,
	})
}

// UpdateQuantity sets the quantity for a product. A quantity below 1
// removes the line entirely; a zero-quantity line must never survive.
func (a *Aggregate) UpdateQuantity(productID string, quantity int) {
	if quantity < 1 {
		a.Remove(productID)
		return
	}

	for i := range a.items {
		if a.items[i].ProductID == productID {
			a.items[i].Quantity = quantity
			return
		}
	}
}

// Remove drops the line for a product. Removing an absent product is a
// no-op; remaining items keep their relative order.
func (a *Aggregate) Remove(productID string) {
	for i, item := range a.items {
		if item.ProductID == productID {
			a.items = append(a.items[:i], a.items[i+1:]...)
			return
		}
	}
}

// Clear empties the aggregate.
func (a *Aggregate) Clear() {
	a.items = nil
}

// Items returns a copy of the line items in insertion order, for mirroring
// to the persistence layer.
func (a *Aggregate) Items() []domain.LineItem {
	items := make([]domain.LineItem, len(a.items))
	copy(items, a.items)
	return items
}

// Snapshot recomputes the derived totals from the item sequence. Totals are
// never cached; drift between items and totals is impossible.
func (a *Aggregate) Snapshot() domain.CartSnapshot {
	return Snapshot(a.items)
}

// Snapshot derives totals for an arbitrary item sequence.
func Snapshot(items []domain.LineItem) domain.CartSnapshot {
	snap := domain.CartSnapshot{
		Items: make([]domain.LineItem, len(items)),
	}
	copy(snap.Items, items)

	for _, item := range items {
		snap.ItemCount += item.Quantity
		snap.Subtotal += item.UnitPrice * float64(item.Quantity)
		snap.TotalWeight += item.UnitWeight * float64(item.Quantity)
	}
	return snap
}
