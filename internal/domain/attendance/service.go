package attendance

import "context"

// AttendanceService is the attendance engine: it gates on the device
// position, evaluates the geofence against the user's assigned branch, and
// applies the guarded ledger write.
type AttendanceService interface {
	// CheckIn opens the authenticated user's record for today.
	CheckIn(ctx context.Context, req CheckInRequest) (AttendanceResponse, error)

	// CheckOut closes the authenticated user's record for today.
	CheckOut(ctx context.Context, req CheckOutRequest) (AttendanceResponse, error)

	// GetToday reports the authenticated user's state for the current day.
	GetToday(ctx context.Context) (TodayResponse, error)

	// GetMyAttendance retrieves attendance history for the authenticated user.
	GetMyAttendance(ctx context.Context, filter HistoryFilter) (ListAttendanceResponse, error)

	// ListAttendance retrieves attendance records with filters (manager/admin).
	ListAttendance(ctx context.Context, filter ListFilter) (ListAttendanceResponse, error)

	// GetAttendance retrieves a single attendance record by ID (manager/admin).
	GetAttendance(ctx context.Context, id string) (AttendanceResponse, error)
}
