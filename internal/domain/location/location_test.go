package location

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReport_CurrentPosition_Granted(t *testing.T) {
	r := Report{
		Latitude:       12.9716,
		Longitude:      77.5946,
		ServiceEnabled: true,
		Permission:     PermissionGranted,
	}

	pos, err := r.CurrentPosition(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 12.9716, pos.Latitude)
	assert.Equal(t, 77.5946, pos.Longitude)
}

func TestReport_CurrentPosition_ServiceDisabled(t *testing.T) {
	r := Report{ServiceEnabled: false, Permission: PermissionGranted}

	_, err := r.CurrentPosition(context.Background())
	assert.ErrorIs(t, err, ErrLocationUnavailable)
}

func TestReport_CurrentPosition_PermissionStates(t *testing.T) {
	tests := []struct {
		name       string
		permission Permission
		wantErr    error
	}{
		{"denied", PermissionDenied, ErrPermissionDenied},
		{"denied forever", PermissionDeniedForever, ErrPermissionDeniedForever},
		{"unknown treated as denied", Permission("whatever"), ErrPermissionDenied},
		{"empty treated as denied", Permission(""), ErrPermissionDenied},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			r := Report{ServiceEnabled: true, Permission: tt.permission}
			_, err := r.CurrentPosition(context.Background())
			assert.ErrorIs(t, err, tt.wantErr)
		})
	}
}
