package geo

import (
	"errors"
	"fmt"
	"math"

	"github.com/swap841/my-store/internal/domain"
)

var ErrInvalidCoordinate = errors.New("coordinate is not a finite number")

// FallbackPolicy decides what Resolve returns for points outside every
// named zone. A deployment must pick exactly one policy; mixing them makes
// delivery eligibility inconsistent across sessions for the same point.
type FallbackPolicy string

const (
	// FallbackStrict refuses delivery outside known zones.
	FallbackStrict FallbackPolicy = "strict"

	// FallbackGrid synthesizes a stable code from a fixed-size grid, so
	// repeated queries from the same small area always get the same code.
	FallbackGrid FallbackPolicy = "grid"
)

func ParseFallbackPolicy(s string) (FallbackPolicy, error) {
	switch FallbackPolicy(s) {
	case FallbackStrict, FallbackGrid:
		return FallbackPolicy(s), nil
	}
	return "", fmt.Errorf("unknown zone fallback policy %q", s)
}

// gridSizeDeg is the grid cell edge, roughly 2.5 km at the equator.
const gridSizeDeg = 0.0225

type Resolver struct {
	zones    []domain.Zone
	fallback FallbackPolicy
}

func NewResolver(zones []domain.Zone, fallback FallbackPolicy) *Resolver {
	return &Resolver{
		zones:    zones,
		fallback: fallback,
	}
}

// Resolve maps a point to a delivery-zone code. The first zone in table
// order whose center is within radius wins; ties between overlapping zones
// are deliberately broken by table order, not by nearest center.
func (r *Resolver) Resolve(point domain.Coordinate) (string, error) {
	if !point.IsFinite() {
		return "", ErrInvalidCoordinate
	}

	for _, zone := range r.zones {
		if DistanceKm(point, zone.Center) <= zone.RadiusKm {
			return zone.Code, nil
		}
	}

	if r.fallback == FallbackGrid {
		return GridCode(point), nil
	}
	return domain.ZoneOutOfService, nil
}

// GridCode discretizes a point into a fixed-size cell and formats a
// synthetic zone code. Points whose floored grid indices coincide always
// receive the identical code.
func GridCode(point domain.Coordinate) string {
	gridX := int(math.Floor(point.Lat / gridSizeDeg))
	gridY := int(math.Floor(point.Lng / gridSizeDeg))
	return fmt.Sprintf("AREA_%d_%d", gridX, gridY)
}
