package service

import (
	"context"

	"lessonradar/internal/domain/entity"
	"lessonradar/internal/errors"
)

var (
	// ErrNoResults is returned by map collaborators when a lookup matched nothing.
	ErrNoResults = errors.New("no results")
	// ErrUnavailable is returned when a map collaborator could not be reached or answered with an error.
	ErrUnavailable = errors.New("map service unavailable")
)

// Geocoder turns free text into coordinates and back.
type Geocoder interface {
	// SearchAddress geocodes free text. Returns ErrNoResults when nothing matched.
	SearchAddress(ctx context.Context, query string) (*entity.ResolvedAddress, error)

	// ReverseGeocode resolves a coordinate to the addresses at that point.
	// Returns ErrNoResults when the point has no address.
	ReverseGeocode(ctx context.Context, coord entity.Coordinate) (*entity.ResolvedAddress, error)
}

// RegionResolver names the administrative region that contains a coordinate.
type RegionResolver interface {
	// RegionOf returns the second-level region name (e.g. a district).
	RegionOf(ctx context.Context, coord entity.Coordinate) (string, error)
}

// PlacesQuery is a keyword search around a point.
type PlacesQuery struct {
	Keyword      string
	Center       entity.Coordinate
	RadiusMeters int
}

// PlacesSearcher runs keyword searches for places.
type PlacesSearcher interface {
	// SearchKeyword returns matching places as lesson records carrying the
	// place's own fields (id, place_name, x, y, addresses, phone, url).
	SearchKeyword(ctx context.Context, query PlacesQuery) ([]entity.Lesson, error)
}
