package location

import "errors"

// Geolocation gate errors
var (
	ErrLocationUnavailable = errors.New("location services are disabled on this device")
	ErrPermissionDenied    = errors.New("location permission was denied")
	// Permanent denial: the app cannot prompt again, the user has to change
	// the permission in system settings.
	ErrPermissionDeniedForever = errors.New("location permission is permanently denied, enable it in system settings")
)
