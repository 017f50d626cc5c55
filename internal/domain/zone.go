package domain

// Zone is a named circular delivery-service area. The zone table is fixed
// reference data; resolution order follows table order.
type Zone struct {
	Code     string     `json:"code"`
	Name     string     `json:"name"`
	Center   Coordinate `json:"center"`
	RadiusKm float64    `json:"radius_km"`
}

const (
	// ZoneOutOfService is returned by the strict fallback when a point lies
	// outside every named zone.
	ZoneOutOfService = "OUT_OF_SERVICE"

	// ZonePickup marks orders that skip zone resolution entirely.
	ZonePickup = "PICKUP"
)
