package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// ActiveTripService resolves the per-session active-trip pointer into a
// concrete trip. The pointer is plain session state, not a capability:
// access is re-checked against live ownership and share rows on every
// resolution, so a revoked share stops working on the next request.
type ActiveTripService struct {
	trips  repo.TripRepo
	access *AccessService
}

// NewActiveTripService constructs an ActiveTripService.
func NewActiveTripService(trips repo.TripRepo, access *AccessService) *ActiveTripService {
	return &ActiveTripService{trips: trips, access: access}
}

// Resolve maps the caller's pointer to a trip. A valid, still-accessible
// pointer wins; otherwise the user's most recently created accessible trip
// is the fallback. Returns domain.ErrNoActiveTrip when neither exists —
// callers must not fall through to an arbitrary trip.
func (s *ActiveTripService) Resolve(ctx context.Context, userID uuid.UUID, pointer *uuid.UUID) (domain.Trip, domain.Role, error) {
	if pointer != nil {
		trip, err := s.trips.GetByID(ctx, *pointer)
		switch {
		case err == nil:
			role, rerr := s.access.RoleForTrip(ctx, userID, trip)
			if rerr != nil {
				return domain.Trip{}, domain.RoleNone, rerr
			}
			if role.CanRead() {
				return trip, role, nil
			}
			// Access revoked since the pointer was set; fall back.
		case !errors.Is(err, domain.ErrNotFound):
			return domain.Trip{}, domain.RoleNone, fmt.Errorf("service.ActiveTripService.Resolve: %w", err)
		}
	}

	trip, err := s.trips.MostRecentFor(ctx, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, domain.RoleNone, domain.ErrNoActiveTrip
		}
		return domain.Trip{}, domain.RoleNone, fmt.Errorf("service.ActiveTripService.Resolve: %w", err)
	}

	role, err := s.access.RoleForTrip(ctx, userID, trip)
	if err != nil {
		return domain.Trip{}, domain.RoleNone, err
	}
	return trip, role, nil
}

// Set validates that the caller may read the trip before the handler moves
// the pointer. It never creates or mutates a trip; missing trips and missing
// access both surface as domain.ErrForbidden.
func (s *ActiveTripService) Set(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanRead)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Trip{}, domain.ErrForbidden
		}
		return domain.Trip{}, fmt.Errorf("service.ActiveTripService.Set: %w", err)
	}
	return trip, nil
}
