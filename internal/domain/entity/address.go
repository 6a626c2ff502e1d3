// Package entity contains the core business objects of the project.
package entity

const (
	// UnknownAddressMarker is stored when an address search resolves without
	// a road or lot-number address name.
	UnknownAddressMarker = "unknown address"
	// UnknownLocationMarker is stored when reverse geocoding the current
	// position yields neither a road nor a lot-number address name.
	UnknownLocationMarker = "unknown location"
)

// ResolvedAddress is the result of geocoding free text or reverse geocoding a coordinate.
type ResolvedAddress struct {
	Coordinate  Coordinate // Where the address resolved to.
	RoadAddress string     // Road-name address, preferred for display.
	LotAddress  string     // Lot-number (jibun) address, used when no road address exists.
}

// Canonical returns the road address, else the lot-number address, else marker.
func (a ResolvedAddress) Canonical(marker string) string {
	if a.RoadAddress != "" {
		return a.RoadAddress
	}
	if a.LotAddress != "" {
		return a.LotAddress
	}

	return marker
}

// AddressBook is the persisted view of a user's saved addresses.
type AddressBook struct {
	Addresses []string `json:"addresses"`          // Saved addresses in insertion order.
	Selected  string   `json:"selected,omitempty"` // Currently active address, may no longer be in Addresses.
	EditMode  bool     `json:"edit_mode"`          // Selection is suppressed while true.
}
