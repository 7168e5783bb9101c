package location

import "context"

// Position is a device fix in decimal degrees.
type Position struct {
	Latitude  float64
	Longitude float64
}

// Permission is the device-reported state of the location permission.
type Permission string

const (
	PermissionGranted       Permission = "granted"
	PermissionDenied        Permission = "denied"
	PermissionDeniedForever Permission = "denied_forever"
)

// Gate yields the current device position. Implementations must not cache:
// every call reflects a fresh fix, so callers can re-measure immediately
// before acting on it.
type Gate interface {
	CurrentPosition(ctx context.Context) (Position, error)
}

// Report is the fix a client submits alongside an attendance action,
// together with the state of its location subsystem. It implements Gate so
// the server-side engine evaluates the reported fix under the same contract
// a live platform gate would have.
type Report struct {
	Latitude       float64    `json:"latitude"`
	Longitude      float64    `json:"longitude"`
	ServiceEnabled bool       `json:"service_enabled"`
	Permission     Permission `json:"permission"`
}

// CurrentPosition implements Gate.
func (r Report) CurrentPosition(ctx context.Context) (Position, error) {
	if !r.ServiceEnabled {
		return Position{}, ErrLocationUnavailable
	}

	switch r.Permission {
	case PermissionGranted:
	case PermissionDeniedForever:
		return Position{}, ErrPermissionDeniedForever
	default:
		return Position{}, ErrPermissionDenied
	}

	return Position{Latitude: r.Latitude, Longitude: r.Longitude}, nil
}
