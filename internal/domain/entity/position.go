package entity

// PositionStatus mirrors the outcome of a client-side geolocation request.
type PositionStatus string

const (
	PositionGranted     PositionStatus = "granted"
	PositionDenied      PositionStatus = "permission_denied"
	PositionUnavailable PositionStatus = "unavailable"
	PositionTimeout     PositionStatus = "timeout"
	PositionUnsupported PositionStatus = "unsupported"
)

// IsValid checks if the status is a known value.
func (s PositionStatus) IsValid() bool {
	switch s {
	case PositionGranted, PositionDenied, PositionUnavailable, PositionTimeout, PositionUnsupported:
		return true
	default:
		return false
	}
}

// PositionReport is what the client's geolocation API produced.
// Coordinate is only meaningful when Status is PositionGranted.
type PositionReport struct {
	Status     PositionStatus `json:"status"`
	Coordinate Coordinate     `json:"coordinate"`
}
