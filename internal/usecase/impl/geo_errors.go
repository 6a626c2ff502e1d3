package impl

import (
	"lessonradar/internal/domain/entity"
	domainerrors "lessonradar/internal/domain/errors"
	"lessonradar/internal/domain/service"
	"lessonradar/internal/errors"
)

// geocodeError maps a map collaborator failure onto the domain taxonomy.
func geocodeError(err error) error {
	if errors.Is(err, service.ErrNoResults) {
		return errors.WithStack(domainerrors.ErrAddressNotFound)
	}

	return errors.Wrap(domainerrors.ErrCollaboratorUnavailable.WithDetails(err.Error()), "map collaborator")
}

// positionError checks a client geolocation report and returns the matching
// domain error when it carries no usable coordinate.
func positionError(report entity.PositionReport) error {
	switch report.Status {
	case entity.PositionGranted:
		if !report.Coordinate.Valid() {
			return domainerrors.ErrValidationFailed.WithDetails("coordinate out of range")
		}

		return nil
	case entity.PositionDenied:
		return domainerrors.ErrLocationPermissionDenied
	case entity.PositionUnavailable, entity.PositionTimeout, entity.PositionUnsupported:
		return domainerrors.ErrLocationUnavailable.WithDetails(string(report.Status))
	default:
		return domainerrors.ErrValidationFailed.WithDetails("unknown position status " + string(report.Status))
	}
}
