package attendance

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/dor-app/dor-backend-go/internal/domain/attendance"
	"github.com/dor-app/dor-backend-go/internal/domain/branch"
	"github.com/dor-app/dor-backend-go/internal/domain/location"
	"github.com/dor-app/dor-backend-go/internal/domain/user"
	"github.com/dor-app/dor-backend-go/internal/pkg/branchcache"
	"github.com/go-chi/jwtauth/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const testJWTSecret = "test-secret-key-for-jwt"

// memoryLedger mirrors the transactional semantics of the PostgreSQL ledger
// under a single mutex: at most one record per (user, date), check-in and
// check-out verified and applied atomically.
type memoryLedger struct {
	mu      sync.Mutex
	records map[string]*attendance.Attendance
	seq     int
}

func newMemoryLedger() *memoryLedger {
	return &memoryLedger{records: map[string]*attendance.Attendance{}}
}

func ledgerKey(userID, date string) string {
	return userID + "|" + date
}

func (m *memoryLedger) CheckIn(ctx context.Context, userID, date string, snapshot attendance.BranchSnapshot) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.records[ledgerKey(userID, date)]; ok && existing.CheckIn != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedIn
	}

	m.seq++
	now := time.Now()
	record := &attendance.Attendance{
		ID:              fmt.Sprintf("att-%d", m.seq),
		UserID:          userID,
		Date:            date,
		CheckIn:         &now,
		CheckInSnapshot: &snapshot,
		CreatedAt:       now,
		UpdatedAt:       now,
	}
	m.records[ledgerKey(userID, date)] = record
	return *record, nil
}

func (m *memoryLedger) CheckOut(ctx context.Context, userID, date string, snapshot attendance.BranchSnapshot) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[ledgerKey(userID, date)]
	if !ok {
		return attendance.Attendance{}, attendance.ErrNoCheckInFound
	}
	if record.CheckIn == nil {
		return attendance.Attendance{}, attendance.ErrNotCheckedInYet
	}
	if record.CheckOut != nil {
		return attendance.Attendance{}, attendance.ErrAlreadyCheckedOut
	}

	now := time.Now()
	record.CheckOut = &now
	record.CheckOutSnapshot = &snapshot
	record.UpdatedAt = now
	return *record, nil
}

func (m *memoryLedger) GetByUserAndDate(ctx context.Context, userID, date string) (*attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	record, ok := m.records[ledgerKey(userID, date)]
	if !ok {
		return nil, nil
	}
	copied := *record
	return &copied, nil
}

func (m *memoryLedger) GetByID(ctx context.Context, id string) (attendance.Attendance, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, record := range m.records {
		if record.ID == id {
			return *record, nil
		}
	}
	return attendance.Attendance{}, attendance.ErrAttendanceNotFound
}

func (m *memoryLedger) ListByUser(ctx context.Context, userID string, filter attendance.HistoryFilter) ([]attendance.Attendance, int64, error) {
	return m.List(ctx, attendance.ListFilter{
		Page:     filter.Page,
		Limit:    filter.Limit,
		UserID:   &userID,
		DateFrom: filter.DateFrom,
		DateTo:   filter.DateTo,
	})
}

func (m *memoryLedger) List(ctx context.Context, filter attendance.ListFilter) ([]attendance.Attendance, int64, error) {
	m.mu.Lock()
	defer m.mu.Unlock()

	var matched []attendance.Attendance
	for _, record := range m.records {
		if filter.UserID != nil && record.UserID != *filter.UserID {
			continue
		}
		if filter.BranchID != nil && (record.CheckInSnapshot == nil || record.CheckInSnapshot.BranchID != *filter.BranchID) {
			continue
		}
		if filter.DateFrom != nil && record.Date < *filter.DateFrom {
			continue
		}
		if filter.DateTo != nil && record.Date > *filter.DateTo {
			continue
		}
		matched = append(matched, *record)
	}
	sort.Slice(matched, func(i, j int) bool { return matched[i].Date > matched[j].Date })

	total := int64(len(matched))
	offset := (filter.Page - 1) * filter.Limit
	if offset >= len(matched) {
		return []attendance.Attendance{}, total, nil
	}
	end := offset + filter.Limit
	if end > len(matched) {
		end = len(matched)
	}
	return matched[offset:end], total, nil
}

type memoryUserRepo struct {
	users map[string]user.User
}

func (m *memoryUserRepo) Create(ctx context.Context, u user.User) (user.User, error) {
	return u, nil
}

func (m *memoryUserRepo) GetByID(ctx context.Context, id string) (user.User, error) {
	u, ok := m.users[id]
	if !ok {
		return user.User{}, user.ErrUserNotFound
	}
	return u, nil
}

func (m *memoryUserRepo) GetByEmail(ctx context.Context, email string) (user.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			return u, nil
		}
	}
	return user.User{}, user.ErrUserNotFound
}

func (m *memoryUserRepo) List(ctx context.Context) ([]user.User, error) {
	var users []user.User
	for _, u := range m.users {
		users = append(users, u)
	}
	return users, nil
}

func (m *memoryUserRepo) AssignBranch(ctx context.Context, userID string, branchID *string) error {
	u, ok := m.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.BranchID = branchID
	m.users[userID] = u
	return nil
}

func (m *memoryUserRepo) UpdateRole(ctx context.Context, userID string, role user.Role) error {
	u, ok := m.users[userID]
	if !ok {
		return user.ErrUserNotFound
	}
	u.Role = role
	m.users[userID] = u
	return nil
}

type memoryBranchRepo struct {
	branches map[string]branch.Branch
}

func (m *memoryBranchRepo) Create(ctx context.Context, b branch.Branch) (branch.Branch, error) {
	m.branches[b.ID] = b
	return b, nil
}

func (m *memoryBranchRepo) GetByID(ctx context.Context, id string) (branch.Branch, error) {
	b, ok := m.branches[id]
	if !ok {
		return branch.Branch{}, branch.ErrBranchNotFound
	}
	return b, nil
}

func (m *memoryBranchRepo) List(ctx context.Context) ([]branch.Branch, error) {
	var branches []branch.Branch
	for _, b := range m.branches {
		branches = append(branches, b)
	}
	return branches, nil
}

func (m *memoryBranchRepo) Update(ctx context.Context, req branch.UpdateBranchRequest) error {
	return nil
}

func (m *memoryBranchRepo) Delete(ctx context.Context, id string) error {
	delete(m.branches, id)
	return nil
}

// Test fixture: a branch at the origin with the default 1000 m radius.
// insideGate reports a fix ~56 m east, outsideGate ~1330 m east.
func testBranch() branch.Branch {
	return branch.Branch{
		ID:        "branch-1",
		Name:      "Central Office",
		Latitude:  0,
		Longitude: 0,
		Timezone:  "Asia/Jakarta",
	}
}

func insideGate() location.Report {
	return location.Report{
		Latitude:       0,
		Longitude:      0.0005,
		ServiceEnabled: true,
		Permission:     location.PermissionGranted,
	}
}

func outsideGate() location.Report {
	return location.Report{
		Latitude:       0,
		Longitude:      0.012,
		ServiceEnabled: true,
		Permission:     location.PermissionGranted,
	}
}

func newTestService(t *testing.T, ledger *memoryLedger) attendance.AttendanceService {
	t.Helper()

	branchID := "branch-1"
	userRepo := &memoryUserRepo{users: map[string]user.User{
		"user-1": {ID: "user-1", Email: "staff@example.com", Name: "Staff One", Role: user.RoleStaff, BranchID: &branchID},
		"user-2": {ID: "user-2", Email: "unassigned@example.com", Name: "No Branch", Role: user.RoleStaff},
	}}
	branchRepo := &memoryBranchRepo{branches: map[string]branch.Branch{
		"branch-1": testBranch(),
	}}

	cache, err := branchcache.New()
	require.NoError(t, err)
	t.Cleanup(cache.Close)

	return NewAttendanceService(ledger, userRepo, branchRepo, cache)
}

func authedContext(t *testing.T, userID string) context.Context {
	t.Helper()

	tokenAuth := jwtauth.New("HS256", []byte(testJWTSecret), nil)
	token, _, err := tokenAuth.Encode(map[string]interface{}{"user_id": userID})
	require.NoError(t, err)
	return jwtauth.NewContext(context.Background(), token, nil)
}

func TestAttendanceService_CheckIn_Success(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	response, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})

	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, response.State)
	assert.Equal(t, "user-1", response.UserID)
	assert.NotNil(t, response.CheckInTime)
	assert.Nil(t, response.CheckOutTime)

	require.NotNil(t, response.CheckInBranch)
	assert.Equal(t, "branch-1", response.CheckInBranch.BranchID)
	assert.Equal(t, "Central Office", response.CheckInBranch.BranchName)
	assert.InDelta(t, 55.6, response.CheckInBranch.DistanceMeters, 1.0)

	// The ledger key is the current day in the branch's timezone.
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	assert.Equal(t, attendance.DateKey(time.Now(), jakarta), response.Date)
}

func TestAttendanceService_CheckIn_AlreadyCheckedIn(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	require.NoError(t, err)

	_, err = service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedIn)
}

func TestAttendanceService_CheckIn_Concurrent(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	const attempts = 16
	results := make(chan error, attempts)
	var wg sync.WaitGroup
	for i := 0; i < attempts; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var succeeded, alreadyCheckedIn int
	for err := range results {
		switch {
		case err == nil:
			succeeded++
		case errors.Is(err, attendance.ErrAlreadyCheckedIn):
			alreadyCheckedIn++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, succeeded)
	assert.Equal(t, attempts-1, alreadyCheckedIn)
}

func TestAttendanceService_CheckIn_OutsideGeofence(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: outsideGate()})

	var geofenceErr *attendance.OutsideGeofenceError
	require.ErrorAs(t, err, &geofenceErr)
	assert.Equal(t, "Central Office", geofenceErr.BranchName)
	assert.Equal(t, branch.DefaultRadiusMeters, geofenceErr.RadiusMeters)
	assert.Greater(t, geofenceErr.DistanceMeters, geofenceErr.RadiusMeters)

	// Nothing was written.
	record, err := ledger.GetByUserAndDate(context.Background(), "user-1", responseDate(t))
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestAttendanceService_CheckIn_NoBranchAssigned(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-2")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	assert.ErrorIs(t, err, branch.ErrBranchNotAssigned)
}

func TestAttendanceService_CheckIn_LocationServiceDisabled(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	gate := insideGate()
	gate.ServiceEnabled = false
	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: gate})
	assert.ErrorIs(t, err, location.ErrLocationUnavailable)

	record, err := ledger.GetByUserAndDate(context.Background(), "user-1", responseDate(t))
	require.NoError(t, err)
	assert.Nil(t, record)
}

func TestAttendanceService_CheckIn_PermissionDenied(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	gate := insideGate()
	gate.Permission = location.PermissionDenied
	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: gate})
	assert.ErrorIs(t, err, location.ErrPermissionDenied)

	gate.Permission = location.PermissionDeniedForever
	_, err = service.CheckIn(ctx, attendance.CheckInRequest{Gate: gate})
	assert.ErrorIs(t, err, location.ErrPermissionDeniedForever)
}

func TestAttendanceService_CheckIn_MissingLocation(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{})
	assert.Error(t, err)
}

func TestAttendanceService_CheckOut_Success(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	require.NoError(t, err)

	response, err := service.CheckOut(ctx, attendance.CheckOutRequest{Gate: insideGate()})

	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedOut, response.State)
	assert.NotNil(t, response.CheckInTime)
	assert.NotNil(t, response.CheckOutTime)
	require.NotNil(t, response.CheckOutBranch)
	assert.Equal(t, "branch-1", response.CheckOutBranch.BranchID)
}

func TestAttendanceService_CheckOut_NoCheckIn(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckOut(ctx, attendance.CheckOutRequest{Gate: insideGate()})
	assert.ErrorIs(t, err, attendance.ErrNoCheckInFound)
}

func TestAttendanceService_CheckOut_AlreadyCheckedOut(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	require.NoError(t, err)
	first, err := service.CheckOut(ctx, attendance.CheckOutRequest{Gate: insideGate()})
	require.NoError(t, err)

	_, err = service.CheckOut(ctx, attendance.CheckOutRequest{Gate: insideGate()})
	assert.ErrorIs(t, err, attendance.ErrAlreadyCheckedOut)

	// The closed record kept its original check-out.
	record, err := ledger.GetByUserAndDate(context.Background(), "user-1", first.Date)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, *first.CheckOutTime, *attendance.ToResponse(*record).CheckOutTime)
}

func TestAttendanceService_CheckOut_OutsideGeofence(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	checkedIn, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	require.NoError(t, err)

	_, err = service.CheckOut(ctx, attendance.CheckOutRequest{Gate: outsideGate()})
	var geofenceErr *attendance.OutsideGeofenceError
	require.ErrorAs(t, err, &geofenceErr)

	// The open record is untouched: still checked in, no check-out written.
	record, err := ledger.GetByUserAndDate(context.Background(), "user-1", checkedIn.Date)
	require.NoError(t, err)
	require.NotNil(t, record)
	assert.Equal(t, attendance.StateCheckedIn, record.State())
	assert.Nil(t, record.CheckOut)
}

func TestAttendanceService_GetToday_NoRecord(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	response, err := service.GetToday(ctx)

	require.NoError(t, err)
	assert.Equal(t, attendance.StateNoRecord, response.State)
	assert.Nil(t, response.Record)
	assert.Equal(t, responseDate(t), response.Date)
}

func TestAttendanceService_GetToday_CheckedIn(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.CheckIn(ctx, attendance.CheckInRequest{Gate: insideGate()})
	require.NoError(t, err)

	response, err := service.GetToday(ctx)

	require.NoError(t, err)
	assert.Equal(t, attendance.StateCheckedIn, response.State)
	require.NotNil(t, response.Record)
	assert.Equal(t, "user-1", response.Record.UserID)
}

func TestAttendanceService_GetMyAttendance_Paged(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	for _, date := range []string{"2026-08-25", "2026-08-26", "2026-08-27"} {
		_, err := ledger.CheckIn(context.Background(), "user-1", date, attendance.BranchSnapshot{BranchID: "branch-1"})
		require.NoError(t, err)
	}
	// Another user's day must not surface in this history.
	_, err := ledger.CheckIn(context.Background(), "user-2", "2026-08-26", attendance.BranchSnapshot{BranchID: "branch-1"})
	require.NoError(t, err)

	response, err := service.GetMyAttendance(ctx, attendance.HistoryFilter{Page: 1, Limit: 2})

	require.NoError(t, err)
	assert.Equal(t, int64(3), response.TotalCount)
	assert.Equal(t, 2, response.TotalPages)
	require.Len(t, response.Attendances, 2)
	assert.Equal(t, "2026-08-27", response.Attendances[0].Date)
	assert.Equal(t, "2026-08-26", response.Attendances[1].Date)
}

func TestAttendanceService_GetMyAttendance_DateRange(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	for _, date := range []string{"2026-08-20", "2026-08-25", "2026-08-27"} {
		_, err := ledger.CheckIn(context.Background(), "user-1", date, attendance.BranchSnapshot{BranchID: "branch-1"})
		require.NoError(t, err)
	}

	from, to := "2026-08-24", "2026-08-26"
	response, err := service.GetMyAttendance(ctx, attendance.HistoryFilter{DateFrom: &from, DateTo: &to})

	require.NoError(t, err)
	require.Len(t, response.Attendances, 1)
	assert.Equal(t, "2026-08-25", response.Attendances[0].Date)
}

func TestAttendanceService_ListAttendance_FilterByUser(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := ledger.CheckIn(context.Background(), "user-1", "2026-08-27", attendance.BranchSnapshot{BranchID: "branch-1"})
	require.NoError(t, err)
	_, err = ledger.CheckIn(context.Background(), "user-2", "2026-08-27", attendance.BranchSnapshot{BranchID: "branch-1"})
	require.NoError(t, err)

	userID := "user-2"
	response, err := service.ListAttendance(ctx, attendance.ListFilter{UserID: &userID})

	require.NoError(t, err)
	assert.Equal(t, int64(1), response.TotalCount)
	require.Len(t, response.Attendances, 1)
	assert.Equal(t, "user-2", response.Attendances[0].UserID)
}

func TestAttendanceService_GetAttendance_NotFound(t *testing.T) {
	ledger := newMemoryLedger()
	service := newTestService(t, ledger)
	ctx := authedContext(t, "user-1")

	_, err := service.GetAttendance(ctx, "missing")
	assert.ErrorIs(t, err, attendance.ErrAttendanceNotFound)
}

// responseDate is today's ledger key in the test branch's timezone.
func responseDate(t *testing.T) string {
	t.Helper()
	jakarta, err := time.LoadLocation("Asia/Jakarta")
	require.NoError(t, err)
	return attendance.DateKey(time.Now(), jakarta)
}
