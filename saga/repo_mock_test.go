package saga_test

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"travelagent/entity"
)

type travelBookingRepoMock struct {
	lock sync.Mutex

	travelBookings map[string]entity.TravelBooking

	FailCreate error
	FailDelete error
}

func (r *travelBookingRepoMock) Create(_ context.Context, travelBooking entity.TravelBooking) (entity.TravelBooking, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.FailCreate != nil {
		return entity.TravelBooking{}, r.FailCreate
	}

	if r.travelBookings == nil {
		r.travelBookings = make(map[string]entity.TravelBooking)
	}

	travelBooking.TravelBookingID = uuid.NewString()
	r.travelBookings[travelBooking.TravelBookingID] = travelBooking

	return travelBooking, nil
}

func (r *travelBookingRepoMock) FindByID(_ context.Context, travelBookingID string) (entity.TravelBooking, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	travelBooking, ok := r.travelBookings[travelBookingID]
	if !ok {
		return entity.TravelBooking{}, entity.ErrNotFound
	}

	return travelBooking, nil
}

func (r *travelBookingRepoMock) FindAll(_ context.Context) ([]entity.TravelBooking, error) {
	r.lock.Lock()
	defer r.lock.Unlock()

	all := make([]entity.TravelBooking, 0, len(r.travelBookings))
	for _, travelBooking := range r.travelBookings {
		all = append(all, travelBooking)
	}

	return all, nil
}

func (r *travelBookingRepoMock) Delete(_ context.Context, travelBookingID string) error {
	r.lock.Lock()
	defer r.lock.Unlock()

	if r.FailDelete != nil {
		return r.FailDelete
	}

	if _, ok := r.travelBookings[travelBookingID]; !ok {
		return entity.ErrNotFound
	}

	delete(r.travelBookings, travelBookingID)

	return nil
}
