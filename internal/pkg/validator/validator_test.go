package validator

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsEmpty(t *testing.T) {
	assert.True(t, IsEmpty(""))
	assert.True(t, IsEmpty("   "))
	assert.True(t, IsEmpty("\t\n"))
	assert.False(t, IsEmpty("x"))
	assert.False(t, IsEmpty(" x "))
}

func TestIsValidEmail(t *testing.T) {
	valid := []string{"a@b.co", "first.last@example.com", "user+tag@mail.example.org"}
	invalid := []string{"", "plain", "@example.com", "user@", "user@host"}

	for _, e := range valid {
		assert.True(t, IsValidEmail(e), e)
	}
	for _, e := range invalid {
		assert.False(t, IsValidEmail(e), e)
	}
}

func TestIsValidDate(t *testing.T) {
	_, ok := IsValidDate("2025-01-31")
	assert.True(t, ok)

	for _, s := range []string{"", "31-01-2025", "2025-13-01", "2025-01-32", "not-a-date"} {
		_, ok := IsValidDate(s)
		assert.False(t, ok, s)
	}
}

func TestCoordinateRanges(t *testing.T) {
	assert.True(t, IsValidLatitude(0))
	assert.True(t, IsValidLatitude(-90))
	assert.True(t, IsValidLatitude(90))
	assert.False(t, IsValidLatitude(90.0001))
	assert.False(t, IsValidLatitude(-91))

	assert.True(t, IsValidLongitude(180))
	assert.True(t, IsValidLongitude(-180))
	assert.False(t, IsValidLongitude(180.0001))
}

func TestIsValidTimezone(t *testing.T) {
	assert.True(t, IsValidTimezone("Asia/Kolkata"))
	assert.True(t, IsValidTimezone("UTC"))
	assert.False(t, IsValidTimezone(""))
	assert.False(t, IsValidTimezone("Not/AZone"))
}

func TestValidationErrors(t *testing.T) {
	errs := ValidationErrors{
		{Field: "latitude", Message: "latitude must be between -90 and 90"},
		{Field: "name", Message: "name is required"},
	}
	assert.Equal(t, "latitude: latitude must be between -90 and 90; name: name is required", errs.Error())
	assert.Equal(t, map[string]string{
		"latitude": "latitude must be between -90 and 90",
		"name":     "name is required",
	}, errs.ToMap())
}
