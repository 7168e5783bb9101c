package attendance

import "time"

// State of a user's attendance for one calendar day.
type State string

const (
	StateNoRecord   State = "no_record"
	StateCheckedIn  State = "checked_in"
	StateCheckedOut State = "checked_out" // Terminal for the day
)

// BranchSnapshot is the branch as it was at the moment of a check-in or
// check-out, denormalized onto the record so later branch edits do not
// rewrite history.
type BranchSnapshot struct {
	BranchID       string
	BranchName     string
	Latitude       float64
	Longitude      float64
	DistanceMeters float64
}

// Attendance is the per-user, per-day ledger record. The (UserID, Date)
// pair is the natural key: at most one record exists per user per day.
type Attendance struct {
	ID               string
	UserID           string
	Date             string // YYYY-MM-DD in the branch's local timezone
	CheckIn          *time.Time
	CheckOut         *time.Time
	CheckInSnapshot  *BranchSnapshot
	CheckOutSnapshot *BranchSnapshot
	CreatedAt        time.Time
	UpdatedAt        time.Time

	// DTO / Join
	UserName *string
}

// State derives the day's position in the check-in/check-out state machine.
func (a *Attendance) State() State {
	if a == nil || a.CheckIn == nil {
		return StateNoRecord
	}
	if a.CheckOut == nil {
		return StateCheckedIn
	}
	return StateCheckedOut
}

// DateKey formats t in loc as the YYYY-MM-DD ledger key. The key always
// comes from the wall clock at the moment of action, never from user input.
func DateKey(t time.Time, loc *time.Location) string {
	return t.In(loc).Format("2006-01-02")
}
