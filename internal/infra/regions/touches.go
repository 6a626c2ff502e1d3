package regions

import (
	"github.com/paulmach/orb"
	"github.com/paulmach/orb/planar"
)

// Tolerances for coordinates in degrees. Boundaries shared in the source data
// agree to far better than epsilon, so they meet; genuine gaps do not.
const (
	epsilon      = 1e-9
	crossEpsilon = 1e-14
)

type segment struct {
	a, b orb.Point
}

// Touches reports whether the boundaries of a and b meet while their interiors
// stay disjoint. Only Polygon and MultiPolygon geometries take part; anything
// else never touches.
func Touches(a, b orb.Geometry) bool {
	pa, pb := polygonsOf(a), polygonsOf(b)
	if len(pa) == 0 || len(pb) == 0 {
		return false
	}
	if !a.Bound().Pad(epsilon).Intersects(b.Bound()) {
		return false
	}

	sa, sb := segmentsOf(pa), segmentsOf(pb)
	if interiorsIntersect(pa, pb, sa, sb) {
		return false
	}

	for _, s := range sa {
		for _, t := range sb {
			if segmentsMeet(s, t) {
				return true
			}
		}
	}

	return false
}

func polygonsOf(g orb.Geometry) []orb.Polygon {
	switch geom := g.(type) {
	case orb.Polygon:
		return []orb.Polygon{geom}
	case orb.MultiPolygon:
		return geom
	default:
		return nil
	}
}

func segmentsOf(polygons []orb.Polygon) []segment {
	var segments []segment
	for _, polygon := range polygons {
		for _, ring := range polygon {
			n := len(ring)
			if n < 2 {
				continue
			}
			for i := 0; i < n-1; i++ {
				segments = append(segments, segment{ring[i], ring[i+1]})
			}
			if !ring.Closed() {
				segments = append(segments, segment{ring[n-1], ring[0]})
			}
		}
	}

	return segments
}

func interiorsIntersect(pa, pb []orb.Polygon, sa, sb []segment) bool {
	for _, s := range sa {
		for _, t := range sb {
			if properlyCross(s, t) {
				return true
			}
		}
	}

	return samplesInside(sa, pa, pb, sb) || samplesInside(sb, pb, pa, sa)
}

// samplesInside checks the vertices, edge midpoints and centroids of one side
// against the interior of the other.
func samplesInside(own []segment, ownPolygons, other []orb.Polygon, otherSegments []segment) bool {
	inside := func(p orb.Point) bool {
		return strictlyInside(p, other, otherSegments)
	}

	for _, s := range own {
		if inside(s.a) || inside(midpoint(s)) {
			return true
		}
	}
	for _, polygon := range ownPolygons {
		if len(polygon) == 0 || len(polygon[0]) < 3 {
			continue
		}
		centroid, _ := planar.CentroidArea(polygon)
		if planar.PolygonContains(polygon, centroid) && inside(centroid) {
			return true
		}
	}

	return false
}

func strictlyInside(p orb.Point, polygons []orb.Polygon, boundary []segment) bool {
	for _, s := range boundary {
		if onSegment(s, p) {
			return false
		}
	}

	return planar.MultiPolygonContains(orb.MultiPolygon(polygons), p)
}

func midpoint(s segment) orb.Point {
	return orb.Point{(s.a[0] + s.b[0]) / 2, (s.a[1] + s.b[1]) / 2}
}

func orientation(o, a, b orb.Point) int {
	v := (a[0]-o[0])*(b[1]-o[1]) - (a[1]-o[1])*(b[0]-o[0])
	switch {
	case v > crossEpsilon:
		return 1
	case v < -crossEpsilon:
		return -1
	default:
		return 0
	}
}

// properlyCross is true when the segments cross at a single point interior to both.
func properlyCross(s, t segment) bool {
	d1 := orientation(t.a, t.b, s.a)
	d2 := orientation(t.a, t.b, s.b)
	d3 := orientation(s.a, s.b, t.a)
	d4 := orientation(s.a, s.b, t.b)

	return d1*d2 < 0 && d3*d4 < 0
}

func segmentsMeet(s, t segment) bool {
	return properlyCross(s, t) ||
		onSegment(t, s.a) || onSegment(t, s.b) ||
		onSegment(s, t.a) || onSegment(s, t.b)
}

func onSegment(s segment, p orb.Point) bool {
	if orientation(s.a, s.b, p) != 0 {
		return false
	}

	return p[0] >= min(s.a[0], s.b[0])-epsilon && p[0] <= max(s.a[0], s.b[0])+epsilon &&
		p[1] >= min(s.a[1], s.b[1])-epsilon && p[1] <= max(s.a[1], s.b[1])+epsilon
}
