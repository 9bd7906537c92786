package service

import (
	"context"
	"fmt"
	"regexp"
	"time"

	"stayops/core/errors"
	"stayops/core/logger"
	"stayops/modules/reservation/dto"
	"stayops/modules/reservation/entity"
	propertyEntity "stayops/modules/property/entity"
	scheduleDto "stayops/modules/schedule/dto"

	"github.com/google/uuid"
)

// Stable rejection reasons surfaced to requesters and operators.
const (
	ReasonInvalidContact   = "invalid contact format"
	ReasonOccupancy        = "occupancy must be positive"
	ReasonAmount           = "amount must be positive"
	ReasonDateOrder        = "check-out must be after check-in"
	ReasonPastDate         = "check-in date is in the past"
	ReasonPropertyNotFound = "property not found"
	ReasonCapacity         = "capacity exceeded"
	ReasonMinStay          = "stay shorter than minimum"
	ReasonBookingConflict  = "conflicts with existing confirmed booking"
	ReasonEventConflict    = "conflicts with scheduled calendar events"
	ReasonTooFarAhead      = "too far in advance"
	ReasonSystemError      = "validation system error"
)

var emailPattern = regexp.MustCompile(`^[^@\s]+@[^@\s]+\.[^@\s]+$`)

// PropertyReader resolves the property a request points at.
type PropertyReader interface {
	GetByID(ctx context.Context, id uuid.UUID) (*propertyEntity.Property, *errors.AppError)
}

// AvailabilityChecker runs the conflict engine over a property's blocks.
type AvailabilityChecker interface {
	CheckAvailability(ctx context.Context, propertyID uuid.UUID, start, end time.Time) (*scheduleDto.AvailabilityResult, *errors.AppError)
}

// Validator runs the ordered rule set over one reservation. Checks run in a
// fixed order and short-circuit on the first failure so rejection reasons are
// deterministic. The validator never panics past its boundary.
type Validator struct {
	properties     PropertyReader
	availability   AvailabilityChecker
	now            func() time.Time
	maxAdvanceDays int
}

func NewValidator(properties PropertyReader, availability AvailabilityChecker, maxAdvanceDays int) *Validator {
	return &Validator{
		properties:     properties,
		availability:   availability,
		now:            time.Now,
		maxAdvanceDays: maxAdvanceDays,
	}
}

// WithClock overrides the evaluation clock. Used by tests.
func (v *Validator) WithClock(now func() time.Time) *Validator {
	v.now = now
	return v
}

// Validate always returns a result; internal faults become a
// "validation system error" result instead of escaping.
func (v *Validator) Validate(ctx context.Context, r *entity.Reservation) (result *dto.ValidationResult) {
	defer func() {
		if rec := recover(); rec != nil {
			logger.Error("Validator:Validate:Panic", "reservation_id", r.ID, "panic", rec)
			result = invalid(ReasonSystemError, map[string]any{"panic": fmt.Sprint(rec)})
		}
	}()

	// 1. Required fields and contact format.
	if reason, ok := v.checkRequired(r); !ok {
		return invalid(reason, nil)
	}

	// 2. Positivity.
	if r.Guests <= 0 {
		return invalid(ReasonOccupancy, nil)
	}
	if r.TotalAmount <= 0 {
		return invalid(ReasonAmount, nil)
	}

	// 3. Date sanity.
	if !r.CheckOut.After(r.CheckIn) {
		return invalid(ReasonDateOrder, nil)
	}
	now := v.now()
	if r.CheckIn.Before(now) {
		return invalid(ReasonPastDate, nil)
	}

	// 4. Resource existence and capacity.
	property, appErr := v.properties.GetByID(ctx, r.PropertyID)
	if appErr != nil {
		if appErr.Code == errors.ErrNotFound {
			return invalid(ReasonPropertyNotFound, nil)
		}
		return invalid(ReasonSystemError, map[string]any{"error": appErr.Message})
	}
	if r.Guests > property.MaxOccupancy {
		return invalid(ReasonCapacity, map[string]any{
			"guests":        r.Guests,
			"max_occupancy": property.MaxOccupancy,
		})
	}
	if r.Nights() < property.MinStayDays {
		return invalid(ReasonMinStay, map[string]any{
			"nights":   r.Nights(),
			"min_stay": property.MinStayDays,
		})
	}

	// 5. Conflict check against active, non-buffer blocks.
	availability, appErr := v.availability.CheckAvailability(ctx, r.PropertyID, r.CheckIn, r.CheckOut)
	if appErr != nil {
		return invalid(ReasonSystemError, map[string]any{"error": appErr.Message})
	}
	if !availability.Available {
		reason := ReasonEventConflict
		for _, c := range availability.Conflicts {
			if c.IsBookingConflict() {
				reason = ReasonBookingConflict
				break
			}
		}
		res := invalid(reason, map[string]any{"conflict_count": len(availability.Conflicts)})
		res.Conflicts = availability.Conflicts
		return res
	}

	// 6. Advance-window check.
	if r.CheckIn.Sub(now) > time.Duration(v.maxAdvanceDays)*24*time.Hour {
		return invalid(ReasonTooFarAhead, map[string]any{"max_advance_days": v.maxAdvanceDays})
	}

	return &dto.ValidationResult{Valid: true}
}

func (v *Validator) checkRequired(r *entity.Reservation) (string, bool) {
	if r.GuestName == "" {
		return missingField("guest_name"), false
	}
	if r.GuestEmail == "" {
		return missingField("guest_email"), false
	}
	if r.PropertyID == uuid.Nil {
		return missingField("property_id"), false
	}
	if r.CheckIn.IsZero() {
		return missingField("check_in"), false
	}
	if r.CheckOut.IsZero() {
		return missingField("check_out"), false
	}
	if !emailPattern.MatchString(r.GuestEmail) {
		return ReasonInvalidContact, false
	}
	return "", true
}

func missingField(field string) string {
	return "missing required field: " + field
}

func invalid(reason string, details map[string]any) *dto.ValidationResult {
	return &dto.ValidationResult{Valid: false, Reason: reason, Details: details}
}
