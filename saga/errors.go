package saga

import (
	"fmt"
	"strings"

	"github.com/samber/lo"
)

// Leg identifies one of the three remote bookings of a travel package.
type Leg string

const (
	LegFlight Leg = "flight"
	LegTaxi   Leg = "taxi"
	LegHotel  Leg = "hotel"
)

// CompensationError reports compensating deletes that failed, leaving
// bookings orphaned in remote services. It is more severe than a plain
// rejection: the system did not return to its pre-saga state and needs
// operator attention. It must never be downgraded to a bad-request error.
type CompensationError struct {
	// Orphaned maps each leg whose delete failed to the remote booking id
	// left behind.
	Orphaned map[Leg]string
	Errs     []error
}

func (e *CompensationError) Error() string {
	legs := lo.Keys(e.Orphaned)
	names := lo.Map(legs, func(l Leg, _ int) string { return string(l) })

	return fmt.Sprintf("compensation failed, orphaned bookings in: %s", strings.Join(names, ", "))
}

func (e *CompensationError) Unwrap() []error {
	return e.Errs
}

// OrphanedBookingIDs returns the remote booking ids that could not be
// deleted during compensation.
func (e *CompensationError) OrphanedBookingIDs() []string {
	return lo.Values(e.Orphaned)
}

// BookingRejectedError is returned when one leg's booking was rejected by
// its service. Compensation is nil when the rollback fully restored the
// pre-saga state (or there was nothing to undo).
type BookingRejectedError struct {
	Leg          Leg
	Cause        error
	Compensation *CompensationError
}

func (e *BookingRejectedError) Error() string {
	if e.Compensation != nil {
		return fmt.Sprintf("%s booking rejected (%s): %s", e.Leg, e.Compensation.Error(), e.Cause)
	}

	return fmt.Sprintf("%s booking rejected: %s", e.Leg, e.Cause)
}

func (e *BookingRejectedError) Unwrap() error {
	return e.Cause
}

// CommitError is returned when all three remote bookings were created but
// the composite record could not be persisted.
type CommitError struct {
	Cause        error
	Compensation *CompensationError
}

func (e *CommitError) Error() string {
	if e.Compensation != nil {
		return fmt.Sprintf("could not persist travel booking (%s): %s", e.Compensation.Error(), e.Cause)
	}

	return fmt.Sprintf("could not persist travel booking, all legs rolled back: %s", e.Cause)
}

func (e *CommitError) Unwrap() error {
	return e.Cause
}

// InconsistentDeleteError names the legs whose remote delete failed during a
// travel booking teardown. The composite record is intentionally left in
// place so an operator can reconcile; no automatic repair is attempted.
type InconsistentDeleteError struct {
	TravelBookingID string
	FailedLegs      []Leg
	Errs            []error
}

func (e *InconsistentDeleteError) Error() string {
	names := lo.Map(e.FailedLegs, func(l Leg, _ int) string { return string(l) })

	return fmt.Sprintf(
		"could not delete travel booking %s, bookings left in: %s",
		e.TravelBookingID,
		strings.Join(names, ", "),
	)
}

func (e *InconsistentDeleteError) Unwrap() []error {
	return e.Errs
}
