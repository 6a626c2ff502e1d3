// Package regions loads the static region boundary dataset and answers
// adjacency questions over it.
package regions

import (
	"slices"
	"strings"
	"sync"

	"lessonradar/internal/domain/entity"
	"lessonradar/internal/errors"

	"github.com/paulmach/orb/geojson"
)

// NameProperty is the feature property holding the region name.
const NameProperty = "name"

// Dataset is an immutable list of regions in file order. It implements service.RegionIndex.
type Dataset struct {
	regions []entity.Region
	byName  map[string]int

	mu        sync.Mutex
	neighbors map[string][]string
}

// ParseDataset decodes a GeoJSON FeatureCollection. Features without a name
// or without a polygonal geometry are skipped.
func ParseDataset(data []byte) (*Dataset, error) {
	fc, err := geojson.UnmarshalFeatureCollection(data)
	if err != nil {
		return nil, errors.Wrap(err, "decode region feature collection")
	}

	regions := make([]entity.Region, 0, len(fc.Features))
	for _, feature := range fc.Features {
		name := strings.TrimSpace(feature.Properties.MustString(NameProperty, ""))
		if name == "" || len(polygonsOf(feature.Geometry)) == 0 {
			continue
		}
		regions = append(regions, entity.Region{Name: name, Geometry: feature.Geometry})
	}
	if len(regions) == 0 {
		return nil, errors.New("region feature collection has no named polygons")
	}

	return NewDataset(regions), nil
}

// NewDataset indexes regions by name. The first region wins on duplicate names.
func NewDataset(regions []entity.Region) *Dataset {
	byName := make(map[string]int, len(regions))
	for i, region := range regions {
		if _, ok := byName[region.Name]; !ok {
			byName[region.Name] = i
		}
	}

	return &Dataset{
		regions:   regions,
		byName:    byName,
		neighbors: make(map[string][]string),
	}
}

// Len is the number of regions.
func (d *Dataset) Len() int {
	return len(d.regions)
}

// Adjacent returns up to limit regions touching the named one, in file order.
// A limit of zero or less returns every neighbour.
func (d *Dataset) Adjacent(name string, limit int) ([]string, bool) {
	idx, ok := d.byName[name]
	if !ok {
		return nil, false
	}

	d.mu.Lock()
	all, cached := d.neighbors[name]
	d.mu.Unlock()

	if !cached {
		all = d.touching(idx)

		d.mu.Lock()
		d.neighbors[name] = all
		d.mu.Unlock()
	}

	if limit > 0 && len(all) > limit {
		all = all[:limit]
	}

	return slices.Clone(all), true
}

func (d *Dataset) touching(idx int) []string {
	current := d.regions[idx]
	names := []string{}
	for _, other := range d.regions {
		if other.Name == current.Name || slices.Contains(names, other.Name) {
			continue
		}
		if Touches(current.Geometry, other.Geometry) {
			names = append(names, other.Name)
		}
	}

	return names
}
