package entity

import "github.com/paulmach/orb"

// Region is a named administrative boundary from the static region dataset.
type Region struct {
	Name     string
	Geometry orb.Geometry // Polygon or MultiPolygon.
}
