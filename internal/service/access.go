// Package service contains the business logic for the Tripbook API.
// Services validate inputs, enforce access control, and orchestrate repo
// calls. No SQL lives here — services depend on repo interfaces, not
// implementations.
package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// AccessService decides what role a user holds on a trip. Every mutating
// service calls it before touching the store; the role is recomputed from
// live ownership and share state on each call, never cached.
type AccessService struct {
	trips  repo.TripRepo
	shares repo.ShareRepo
}

// NewAccessService constructs an AccessService backed by the provided repos.
func NewAccessService(trips repo.TripRepo, shares repo.ShareRepo) *AccessService {
	return &AccessService{trips: trips, shares: shares}
}

// ResolveRole returns the role userID holds on tripID: OWNER for the trip's
// owner, the granted role for shared users, NONE otherwise. A trip that does
// not exist also resolves to NONE, so callers cannot distinguish "missing"
// from "not yours".
func (s *AccessService) ResolveRole(ctx context.Context, userID, tripID uuid.UUID) (domain.Role, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, fmt.Errorf("service.AccessService.ResolveRole: %w", err)
	}
	return s.RoleForTrip(ctx, userID, trip)
}

// RoleForTrip resolves the role against an already-loaded trip, saving the
// extra lookup when the caller holds the row.
func (s *AccessService) RoleForTrip(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Role, error) {
	if trip.OwnerID == userID {
		return domain.RoleOwner, nil
	}
	role, err := s.shares.GetRole(ctx, trip.ID, userID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.RoleNone, nil
		}
		return domain.RoleNone, fmt.Errorf("service.AccessService.RoleForTrip: %w", err)
	}
	return role, nil
}

// RequireTrip loads the trip and enforces the given capability in one step.
// Missing trips and missing access both come back as domain.ErrForbidden.
func (s *AccessService) RequireTrip(ctx context.Context, userID, tripID uuid.UUID, need func(domain.Role) bool) (domain.Trip, domain.Role, error) {
	trip, err := s.trips.GetByID(ctx, tripID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.Trip{}, domain.RoleNone, domain.ErrForbidden
		}
		return domain.Trip{}, domain.RoleNone, fmt.Errorf("service.AccessService.RequireTrip: %w", err)
	}

	role, err := s.RoleForTrip(ctx, userID, trip)
	if err != nil {
		return domain.Trip{}, domain.RoleNone, err
	}
	if !need(role) {
		return domain.Trip{}, domain.RoleNone, domain.ErrForbidden
	}
	return trip, role, nil
}
