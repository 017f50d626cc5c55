package pricing

import "github.com/swap841/my-store/internal/domain"

// TierConfig enumerates the charge policy. The zero value is not usable;
// deployments start from DefaultTierConfig and override via configuration.
type TierConfig struct {
	FreeDeliveryThreshold float64
	BaseDeliveryFee       float64
	HandlingFee           float64
	SmallCartFee          float64
}

// DefaultTierConfig matches the storefront's production fee schedule.
func DefaultTierConfig() TierConfig {
	return TierConfig{
		FreeDeliveryThreshold: 100,
		BaseDeliveryFee:       25,
		HandlingFee:           2,
		SmallCartFee:          20,
	}
}

// ForPickup returns a config with delivery and small-cart fees zeroed.
// Pickup orders pay subtotal and handling only; routing this through the
// same Price call keeps all charge arithmetic in one place.
func (c TierConfig) ForPickup() TierConfig {
	c.BaseDeliveryFee = 0
	c.SmallCartFee = 0
	return c
}

// Breakdown is the priced view of a cart snapshot.
type Breakdown struct {
	Subtotal        float64 `json:"subtotal"`
	ItemCount       int     `json:"item_count"`
	TotalWeight     float64 `json:"total_weight"`
	DeliveryCharge  float64 `json:"delivery_charge"`
	HandlingCharge  float64 `json:"handling_charge"`
	SmallCartCharge float64 `json:"small_cart_charge"`
	GrandTotal      float64 `json:"grand_total"`
}

// Price derives the charge breakdown from a snapshot. Pure function: the
// same snapshot and config always produce the same breakdown.
//
// An empty cart prices to all zeros; handling and small-cart fees never
// apply to a cart with no items. Threshold comparisons are inclusive.
func Price(snap domain.CartSnapshot, cfg TierConfig) Breakdown {
	b := Breakdown{
		Subtotal:    snap.Subtotal,
		ItemCount:   snap.ItemCount,
		TotalWeight: snap.TotalWeight,
	}

	if snap.ItemCount == 0 {
		return b
	}

	if snap.Subtotal < cfg.FreeDeliveryThreshold {
		b.DeliveryCharge = cfg.BaseDeliveryFee
		b.SmallCartCharge = cfg.SmallCartFee
	}
	b.HandlingCharge = cfg.HandlingFee

	b.GrandTotal = b.Subtotal + b.DeliveryCharge + b.HandlingCharge + b.SmallCartCharge
	return b
}
