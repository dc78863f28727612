package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// TripService implements business logic for Trip operations.
type TripService struct {
	trips  repo.TripRepo
	access *AccessService
}

// NewTripService constructs a TripService.
func NewTripService(trips repo.TripRepo, access *AccessService) *TripService {
	return &TripService{trips: trips, access: access}
}

// Save creates a trip when trip.ID is zero, or updates an existing one.
// Updates are owner-only; shared editors edit days and items, not the trip
// itself. The caller becomes the owner of a created trip.
func (s *TripService) Save(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error) {
	trip.Name = strings.TrimSpace(trip.Name)
	trip.StartDate = domain.NormalizeDate(trip.StartDate)
	trip.EndDate = domain.NormalizeDate(trip.EndDate)
	if err := validateTrip(trip); err != nil {
		return domain.Trip{}, err
	}

	if trip.ID == uuid.Nil {
		trip.OwnerID = userID
		result, err := s.trips.Create(ctx, trip)
		if err != nil {
			return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w", err)
		}
		return result, nil
	}

	if _, _, err := s.access.RequireTrip(ctx, userID, trip.ID, domain.Role.CanDelete); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Trip{}, domain.ErrForbidden
		}
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w", err)
	}

	result, err := s.trips.Update(ctx, trip)
	if err != nil {
		return domain.Trip{}, fmt.Errorf("service.TripService.Save: %w", err)
	}
	return result, nil
}

// Get returns a trip the caller can read.
func (s *TripService) Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanRead)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Trip{}, domain.ErrForbidden
		}
		return domain.Trip{}, fmt.Errorf("service.TripService.Get: %w", err)
	}
	return trip, nil
}

// Delete removes a trip and everything under it. Owner only; the database
// cascades the delete to shares, days, items, and attachments in one
// transaction, so there is no partially-deleted state.
func (s *TripService) Delete(ctx context.Context, userID, tripID uuid.UUID) error {
	if _, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanDelete); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}

	if err := s.trips.Delete(ctx, tripID); err != nil {
		return fmt.Errorf("service.TripService.Delete: %w", err)
	}
	return nil
}

// validateTrip enforces the trip field rules shared by create and update.
func validateTrip(trip domain.Trip) error {
	if trip.Name == "" {
		return fmt.Errorf("%w: name is required", domain.ErrValidation)
	}
	if len(trip.Name) > domain.MaxTripNameLen {
		return fmt.Errorf("%w: name exceeds %d characters", domain.ErrValidation, domain.MaxTripNameLen)
	}
	if trip.StartDate.IsZero() || trip.EndDate.IsZero() {
		return fmt.Errorf("%w: start_date and end_date are required", domain.ErrValidation)
	}
	if trip.EndDate.Before(trip.StartDate) {
		return fmt.Errorf("%w: end_date must not be before start_date", domain.ErrValidation)
	}
	if len(trip.Destinations) > domain.MaxTripDestinationsLen {
		return fmt.Errorf("%w: destinations exceeds %d characters", domain.ErrValidation, domain.MaxTripDestinationsLen)
	}
	if len(trip.Notes) > domain.MaxTripNotesLen {
		return fmt.Errorf("%w: notes exceeds %d characters", domain.ErrValidation, domain.MaxTripNotesLen)
	}
	return nil
}
