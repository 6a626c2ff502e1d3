package service

import "context"

// RegionIndex answers adjacency questions over a loaded region dataset.
type RegionIndex interface {
	// Adjacent returns up to limit regions whose boundary touches the named
	// region, in dataset order. ok is false when the name is not in the dataset.
	Adjacent(name string, limit int) (names []string, ok bool)

	// Len is the number of regions in the dataset.
	Len() int
}

// RegionSource loads the static region dataset.
type RegionSource interface {
	// Load returns the dataset, loading it on first use.
	Load(ctx context.Context) (RegionIndex, error)
}
