package saga

import (
	"context"
	"errors"

	"github.com/ThreeDotsLabs/go-event-driven/common/log"

	"travelagent/entity"
)

// EnsureRegistered makes sure the travel-agent identity exists as a customer
// in the given booking service. Best effort: the identity is shared
// infrastructure, so a failed or lost-race registration is logged and
// swallowed. Calling it any number of times converges to the same state.
func EnsureRegistered(ctx context.Context, service BookingClient, identity entity.Customer) {
	logger := log.FromContext(ctx).WithField("identity_email", identity.Email)

	_, err := service.FindCustomerByEmail(ctx, identity.Email)
	if err == nil {
		return
	}
	if !errors.Is(err, entity.ErrNotFound) {
		logger.WithError(err).Warn("could not look up travel agent identity")
		return
	}

	_, err = service.CreateCustomer(ctx, identity)
	if err != nil && !errors.Is(err, entity.ErrConflict) {
		logger.WithError(err).Warn("could not register travel agent identity")
	}
}
