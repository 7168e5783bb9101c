package branch

import "time"

// DefaultRadiusMeters is the allowed check-in radius applied when a branch
// record does not carry its own.
const DefaultRadiusMeters = 1000.0

type Branch struct {
	ID           string
	Name         string
	Address      *string
	Latitude     float64
	Longitude    float64
	RadiusMeters *float64
	Timezone     string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// EffectiveRadiusMeters returns the branch radius, falling back to the
// system-wide default when the record omits it.
func (b *Branch) EffectiveRadiusMeters() float64 {
	if b.RadiusMeters == nil || *b.RadiusMeters <= 0 {
		return DefaultRadiusMeters
	}
	return *b.RadiusMeters
}

// Location returns the branch timezone, falling back to UTC when the stored
// name does not resolve.
func (b *Branch) Location() *time.Location {
	loc, err := time.LoadLocation(b.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
