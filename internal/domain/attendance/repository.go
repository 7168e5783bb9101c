package attendance

import "context"

// AttendanceRepository is the attendance ledger. CheckIn and CheckOut are
// atomic read-check-write operations: under concurrent attempts for the
// same (user, date) key, the backing transaction serializes them so exactly
// one succeeds and the rest fail with the matching state-machine error.
type AttendanceRepository interface {
	// CheckIn creates the day's record with a storage-assigned check-in
	// timestamp and the branch snapshot. Fails with ErrAlreadyCheckedIn when
	// a record with a check-in already exists for (userID, date); nothing is
	// written in that case.
	CheckIn(ctx context.Context, userID, date string, snapshot BranchSnapshot) (Attendance, error)

	// CheckOut closes the day's record with a storage-assigned check-out
	// timestamp and a checkout-time branch snapshot. Fails with
	// ErrNoCheckInFound, ErrNotCheckedInYet, or ErrAlreadyCheckedOut without
	// writing.
	CheckOut(ctx context.Context, userID, date string, snapshot BranchSnapshot) (Attendance, error)

	// GetByUserAndDate returns nil when no record exists for the key.
	GetByUserAndDate(ctx context.Context, userID, date string) (*Attendance, error)

	GetByID(ctx context.Context, id string) (Attendance, error)

	// ListByUser retrieves a user's attendance history, newest first.
	ListByUser(ctx context.Context, userID string, filter HistoryFilter) ([]Attendance, int64, error)

	// List retrieves attendance records across users for the admin dashboard.
	List(ctx context.Context, filter ListFilter) ([]Attendance, int64, error)
}
