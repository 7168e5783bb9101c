package attendance

import (
	"context"
	"fmt"
	"math"
	"time"

	"github.com/dor-app/dor-backend-go/internal/domain/attendance"
	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/domain/location"
	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/pkg/branchcache"
	"github.com/dor-app/dor-backend-go/internal/pkg/geo"
	"github.com/go-chi/jwtauth/v5"
)

type AttendanceServiceImpl struct {
	attendance.AttendanceRepository
	user.UserRepository
	branch.BranchRepository
	branchCache *branchcache.Cache
}

func NewAttendanceService(
	attendanceRepo attendance.AttendanceRepository,
	userRepo user.UserRepository,
	branchRepo branch.BranchRepository,
	branchCache *branchcache.Cache,
) attendance.AttendanceService {
	return &AttendanceServiceImpl{
		AttendanceRepository: attendanceRepo,
		UserRepository:       userRepo,
		BranchRepository:     branchRepo,
		branchCache:          branchCache,
	}
}

func userIDFromContext(ctx context.Context) (string, error) {
	_, claims, err := jwtauth.FromContext(ctx)
	if err != nil {
		return "", fmt.Errorf("failed to extract claims from context: %w", err)
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return "", fmt.Errorf("user_id claim is missing or invalid")
	}
	return userID, nil
}

// loadBranch reads through the branch cache. Entries are invalidated by the
// branch service on update/delete, so a hit is always current.
func (a *AttendanceServiceImpl) loadBranch(ctx context.Context, id string) (branch.Branch, error) {
	if a.branchCache != nil {
		if b, ok := a.branchCache.Get(id); ok {
			return b, nil
		}
	}

	b, err := a.BranchRepository.GetByID(ctx, id)
	if err != nil {
		return branch.Branch{}, err
	}

	if a.branchCache != nil {
		a.branchCache.Set(b)
	}
	return b, nil
}

// CheckIn implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckIn(ctx context.Context, req attendance.CheckInRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	snapshot, date, err := a.evaluateGeofence(ctx, userID, req.Gate)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	// The caller may abandon the request mid-flight; the ledger write still
	// runs to completion so storage never holds a half-applied day.
	record, err := a.AttendanceRepository.CheckIn(context.WithoutCancel(ctx), userID, date, snapshot)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(record), nil
}

// CheckOut implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) CheckOut(ctx context.Context, req attendance.CheckOutRequest) (attendance.AttendanceResponse, error) {
	if err := req.Validate(); err != nil {
		return attendance.AttendanceResponse{}, err
	}

	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	snapshot, date, err := a.evaluateGeofence(ctx, userID, req.Gate)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	record, err := a.AttendanceRepository.CheckOut(context.WithoutCancel(ctx), userID, date, snapshot)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(record), nil
}

// evaluateGeofence runs the gate and the distance check for the caller's
// assigned branch, strictly before any write is attempted. The position is
// measured here, immediately before the ledger transaction; a distance
// computed earlier in the interaction is never reused. It returns the
// branch snapshot to denormalize onto the record and the day's ledger key.
func (a *AttendanceServiceImpl) evaluateGeofence(ctx context.Context, userID string, gate location.Gate) (attendance.BranchSnapshot, string, error) {
	profile, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.BranchSnapshot{}, "", fmt.Errorf("failed to get user profile: %w", err)
	}

	if !profile.HasBranch() {
		return attendance.BranchSnapshot{}, "", branch.ErrBranchNotAssigned
	}

	b, err := a.loadBranch(ctx, *profile.BranchID)
	if err != nil {
		return attendance.BranchSnapshot{}, "", err
	}

	position, err := gate.CurrentPosition(ctx)
	if err != nil {
		return attendance.BranchSnapshot{}, "", err
	}

	distance := geo.Distance(position.Latitude, position.Longitude, b.Latitude, b.Longitude)
	radius := b.EffectiveRadiusMeters()
	if distance > radius {
		return attendance.BranchSnapshot{}, "", &attendance.OutsideGeofenceError{
			DistanceMeters: distance,
			RadiusMeters:   radius,
			BranchName:     b.Name,
		}
	}

	snapshot := attendance.BranchSnapshot{
		BranchID:       b.ID,
		BranchName:     b.Name,
		Latitude:       b.Latitude,
		Longitude:      b.Longitude,
		DistanceMeters: distance,
	}
	date := attendance.DateKey(time.Now(), b.Location())

	return snapshot, date, nil
}

// GetToday implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetToday(ctx context.Context) (attendance.TodayResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.TodayResponse{}, err
	}

	// Resolve the day in the assigned branch's timezone; fall back to UTC
	// for unassigned users so the dashboard still renders.
	loc := time.UTC
	profile, err := a.UserRepository.GetByID(ctx, userID)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get user profile: %w", err)
	}
	if profile.HasBranch() {
		if b, err := a.loadBranch(ctx, *profile.BranchID); err == nil {
			loc = b.Location()
		}
	}

	date := attendance.DateKey(time.Now(), loc)

	record, err := a.AttendanceRepository.GetByUserAndDate(ctx, userID, date)
	if err != nil {
		return attendance.TodayResponse{}, fmt.Errorf("failed to get today's attendance: %w", err)
	}

	resp := attendance.TodayResponse{
		Date:  date,
		State: record.State(),
	}
	if record != nil {
		r := attendance.ToResponse(*record)
		resp.Record = &r
	}
	return resp, nil
}

// GetMyAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetMyAttendance(ctx context.Context, filter attendance.HistoryFilter) (attendance.ListAttendanceResponse, error) {
	userID, err := userIDFromContext(ctx)
	if err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.ListByUser(ctx, userID, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to get my attendance: %w", err)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// ListAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) ListAttendance(ctx context.Context, filter attendance.ListFilter) (attendance.ListAttendanceResponse, error) {
	filter.Normalize()
	if err := filter.Validate(); err != nil {
		return attendance.ListAttendanceResponse{}, err
	}

	records, total, err := a.AttendanceRepository.List(ctx, filter)
	if err != nil {
		return attendance.ListAttendanceResponse{}, fmt.Errorf("failed to list attendances: %w", err)
	}

	return buildListResponse(records, total, filter.Page, filter.Limit), nil
}

// GetAttendance implements attendance.AttendanceService.
func (a *AttendanceServiceImpl) GetAttendance(ctx context.Context, id string) (attendance.AttendanceResponse, error) {
	record, err := a.AttendanceRepository.GetByID(ctx, id)
	if err != nil {
		return attendance.AttendanceResponse{}, err
	}

	return attendance.ToResponse(record), nil
}

func buildListResponse(records []attendance.Attendance, total int64, page, limit int) attendance.ListAttendanceResponse {
	responses := make([]attendance.AttendanceResponse, 0, len(records))
	for _, record := range records {
		responses = append(responses, attendance.ToResponse(record))
	}

	return attendance.ListAttendanceResponse{
		TotalCount:  total,
		Page:        page,
		Limit:       limit,
		TotalPages:  int(math.Ceil(float64(total) / float64(limit))),
		Attendances: responses,
	}
}
