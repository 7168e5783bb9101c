package attendance

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAttendance_State(t *testing.T) {
	now := time.Now()
	later := now.Add(8 * time.Hour)

	var missing *Attendance
	assert.Equal(t, StateNoRecord, missing.State())

	empty := &Attendance{}
	assert.Equal(t, StateNoRecord, empty.State())

	onShift := &Attendance{CheckIn: &now}
	assert.Equal(t, StateCheckedIn, onShift.State())

	done := &Attendance{CheckIn: &now, CheckOut: &later}
	assert.Equal(t, StateCheckedOut, done.State())
}

func TestDateKey(t *testing.T) {
	// 2025-06-01 20:30 UTC is already June 2nd in Kolkata (+05:30).
	instant := time.Date(2025, 6, 1, 20, 30, 0, 0, time.UTC)

	assert.Equal(t, "2025-06-01", DateKey(instant, time.UTC))

	kolkata, err := time.LoadLocation("Asia/Kolkata")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-02", DateKey(instant, kolkata))

	// And still June 1st further west.
	la, err := time.LoadLocation("America/Los_Angeles")
	require.NoError(t, err)
	assert.Equal(t, "2025-06-01", DateKey(instant, la))
}
