package geo

import "github.com/swap841/my-store/internal/domain"

// sataraZones is the service area around Satara town. Table order matters:
// when zones overlap, the first containing zone wins.
var sataraZones = []domain.Zone{
	{
		Code:     "ST-CENTRAL",
		Name:     "Satara Central",
		Center:   domain.Coordinate{Lat: 17.688, Lng: 74.006},
		RadiusKm: 2.5,
	},
	{
		Code:     "ST-KARANJE",
		Name:     "Karanje",
		Center:   domain.Coordinate{Lat: 17.6915, Lng: 74.0005},
		RadiusKm: 2.5,
	},
	{
		Code:     "ST-SADAR",
		Name:     "Sadar Bazar",
		Center:   domain.Coordinate{Lat: 17.6862, Lng: 74.0123},
		RadiusKm: 2.5,
	},
	{
		Code:     "ST-RADHIKA",
		Name:     "Radhika Road",
		Center:   domain.Coordinate{Lat: 17.6819, Lng: 74.0201},
		RadiusKm: 2.5,
	},
	{
		Code:     "ST-PANCHGANI-RD",
		Name:     "Panchgani Road",
		Center:   domain.Coordinate{Lat: 17.6748, Lng: 74.027},
		RadiusKm: 2.5,
	},
}

// DefaultZones returns a copy of the built-in zone table so callers cannot
// mutate the shared reference data.
func DefaultZones() []domain.Zone {
	zones := make([]domain.Zone, len(sataraZones))
	copy(zones, sataraZones)
	return zones
}
