package attendance

import (
	"time"

	"github.com/dor-app/dor-backend-go/internal/domain/location"
	"github.com/dor-app/dor-backend-go/internal/pkg/validator"
)

// CheckInRequest carries the device's location gate for a check-in. The
// handler fills Gate from the client's reported fix; the engine queries it
// immediately before the ledger transaction.
type CheckInRequest struct {
	Gate location.Gate `json:"-"`
}

func (r *CheckInRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Gate == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// CheckOutRequest mirrors CheckInRequest for the closing action.
type CheckOutRequest struct {
	Gate location.Gate `json:"-"`
}

func (r *CheckOutRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Gate == nil {
		errs = append(errs, validator.ValidationError{
			Field:   "location",
			Message: "location is required",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// HistoryFilter pages a single user's history, optionally bounded by dates.
type HistoryFilter struct {
	Page     int
	Limit    int
	DateFrom *string // YYYY-MM-DD inclusive
	DateTo   *string // YYYY-MM-DD inclusive
}

func (f *HistoryFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *HistoryFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be formatted as YYYY-MM-DD",
			})
		}
	}
	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be formatted as YYYY-MM-DD",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// ListFilter pages records across users for managers and admins.
type ListFilter struct {
	Page     int
	Limit    int
	UserID   *string
	BranchID *string
	DateFrom *string
	DateTo   *string
}

func (f *ListFilter) Normalize() {
	if f.Page < 1 {
		f.Page = 1
	}
	if f.Limit < 1 || f.Limit > 100 {
		f.Limit = 20
	}
}

func (f *ListFilter) Validate() error {
	var errs validator.ValidationErrors

	if f.DateFrom != nil {
		if _, ok := validator.IsValidDate(*f.DateFrom); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_from",
				Message: "date_from must be formatted as YYYY-MM-DD",
			})
		}
	}
	if f.DateTo != nil {
		if _, ok := validator.IsValidDate(*f.DateTo); !ok {
			errs = append(errs, validator.ValidationError{
				Field:   "date_to",
				Message: "date_to must be formatted as YYYY-MM-DD",
			})
		}
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// BranchSnapshotResponse is the per-event branch snapshot as returned to
// clients.
type BranchSnapshotResponse struct {
	BranchID       string  `json:"branch_id"`
	BranchName     string  `json:"branch_name"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
	DistanceMeters float64 `json:"distance_meters"`
}

type AttendanceResponse struct {
	ID             string                  `json:"id"`
	UserID         string                  `json:"user_id"`
	UserName       *string                 `json:"user_name,omitempty"`
	Date           string                  `json:"date"`
	State          State                   `json:"state"`
	CheckInTime    *string                 `json:"check_in_time,omitempty"`
	CheckOutTime   *string                 `json:"check_out_time,omitempty"`
	CheckInBranch  *BranchSnapshotResponse `json:"check_in_branch,omitempty"`
	CheckOutBranch *BranchSnapshotResponse `json:"check_out_branch,omitempty"`
}

// TodayResponse reports the state of the current day, with the record when
// one exists.
type TodayResponse struct {
	Date   string              `json:"date"`
	State  State               `json:"state"`
	Record *AttendanceResponse `json:"record,omitempty"`
}

type ListAttendanceResponse struct {
	TotalCount  int64                `json:"total_count"`
	Page        int                  `json:"page"`
	Limit       int                  `json:"limit"`
	TotalPages  int                  `json:"total_pages"`
	Attendances []AttendanceResponse `json:"attendances"`
}

// timePtrToString safely converts a *time.Time to a string.
func timePtrToString(t *time.Time) *string {
	if t == nil {
		return nil
	}
	format := t.UTC().Format("2006-01-02 15:04:05")
	return &format
}

func snapshotToResponse(s *BranchSnapshot) *BranchSnapshotResponse {
	if s == nil {
		return nil
	}
	return &BranchSnapshotResponse{
		BranchID:       s.BranchID,
		BranchName:     s.BranchName,
		Latitude:       s.Latitude,
		Longitude:      s.Longitude,
		DistanceMeters: s.DistanceMeters,
	}
}

// ToResponse converts an Attendance entity to AttendanceResponse.
func ToResponse(a Attendance) AttendanceResponse {
	return AttendanceResponse{
		ID:             a.ID,
		UserID:         a.UserID,
		UserName:       a.UserName,
		Date:           a.Date,
		State:          a.State(),
		CheckInTime:    timePtrToString(a.CheckIn),
		CheckOutTime:   timePtrToString(a.CheckOut),
		CheckInBranch:  snapshotToResponse(a.CheckInSnapshot),
		CheckOutBranch: snapshotToResponse(a.CheckOutSnapshot),
	}
}
