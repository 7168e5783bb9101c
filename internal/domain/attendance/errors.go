package attendance

import (
	"errors"
	"fmt"
)

// Attendance domain errors
var (
	// Ledger state machine
	ErrAlreadyCheckedIn  = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut = errors.New("you have already checked out today")
	ErrNoCheckInFound    = errors.New("no check-in found for today")
	ErrNotCheckedInYet   = errors.New("you have not checked in yet")

	// General errors
	ErrAttendanceNotFound = errors.New("attendance record not found")
)

// OutsideGeofenceError rejects an action attempted beyond the branch radius.
type OutsideGeofenceError struct {
	DistanceMeters float64
	RadiusMeters   float64
	BranchName     string
}

func (e *OutsideGeofenceError) Error() string {
	return fmt.Sprintf("you are %.0f m away from %s, the allowed radius is %.0f m",
		e.DistanceMeters, e.BranchName, e.RadiusMeters)
}
