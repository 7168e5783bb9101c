package branch

import (
	"github.com/dor-app/dor-backend-go/internal/pkg/validator"
)

// BranchResponse represents the response structure for a branch.
type BranchResponse struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Address      *string  `json:"address,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters,omitempty"`
	Timezone     string   `json:"timezone"`
}

// CreateBranchRequest represents the request structure for creating a branch.
type CreateBranchRequest struct {
	Name         string   `json:"name"`
	Address      *string  `json:"address,omitempty"`
	Latitude     float64  `json:"latitude"`
	Longitude    float64  `json:"longitude"`
	RadiusMeters *float64 `json:"radius_meters,omitempty"`
	Timezone     string   `json:"timezone"`
}

func (r *CreateBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.Name) {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name is required",
		})
	}
	if len(r.Name) > 100 {
		errs = append(errs, validator.ValidationError{
			Field:   "name",
			Message: "name must not exceed 100 characters",
		})
	}

	if !validator.IsValidLatitude(r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if !validator.IsValidLongitude(r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if !validator.IsValidTimezone(r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA timezone name",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

// UpdateBranchRequest represents the request structure for updating a branch.
type UpdateBranchRequest struct {
	ID           string   `json:"-"` // From URL
	Name         *string  `json:"name,omitempty"`
	Address      *string  `json:"address,omitempty"`
	Latitude     *float64 `json:"latitude,omitempty"`
	Longitude    *float64 `json:"longitude,omitempty"`
	RadiusMeters *float64 `json:"radius_meters,omitempty"`
	Timezone     *string  `json:"timezone,omitempty"`
}

func (r *UpdateBranchRequest) Validate() error {
	var errs validator.ValidationErrors

	if validator.IsEmpty(r.ID) {
		errs = append(errs, validator.ValidationError{
			Field:   "id",
			Message: "id is required",
		})
	}

	if r.Name != nil {
		if validator.IsEmpty(*r.Name) {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not be empty",
			})
		}
		if len(*r.Name) > 100 {
			errs = append(errs, validator.ValidationError{
				Field:   "name",
				Message: "name must not exceed 100 characters",
			})
		}
	}

	if r.Latitude != nil && !validator.IsValidLatitude(*r.Latitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "latitude",
			Message: "latitude must be between -90 and 90",
		})
	}
	if r.Longitude != nil && !validator.IsValidLongitude(*r.Longitude) {
		errs = append(errs, validator.ValidationError{
			Field:   "longitude",
			Message: "longitude must be between -180 and 180",
		})
	}

	if r.RadiusMeters != nil && *r.RadiusMeters <= 0 {
		errs = append(errs, validator.ValidationError{
			Field:   "radius_meters",
			Message: "radius_meters must be greater than zero",
		})
	}

	if r.Timezone != nil && !validator.IsValidTimezone(*r.Timezone) {
		errs = append(errs, validator.ValidationError{
			Field:   "timezone",
			Message: "timezone must be a valid IANA timezone name",
		})
	}

	if len(errs) > 0 {
		return errs
	}

	return nil
}

func ToResponse(b Branch) BranchResponse {
	return BranchResponse{
		ID:           b.ID,
		Name:         b.Name,
		Address:      b.Address,
		Latitude:     b.Latitude,
		Longitude:    b.Longitude,
		RadiusMeters: b.RadiusMeters,
		Timezone:     b.Timezone,
	}
}
