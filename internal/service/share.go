package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// DefaultShareRole is the role granted when a share request names none.
// EDITOR: the share endpoint exists to invite collaborators; viewers are
// requested explicitly.
const DefaultShareRole = domain.RoleEditor

// ShareService implements business logic for trip sharing.
type ShareService struct {
	shares repo.ShareRepo
	users  repo.UserRepo
	access *AccessService
}

// NewShareService constructs a ShareService.
func NewShareService(shares repo.ShareRepo, users repo.UserRepo, access *AccessService) *ShareService {
	return &ShareService{shares: shares, users: users, access: access}
}

// Share grants role on tripID to the user behind email. Owner only.
// Sharing with an already-shared user updates their role in place; sharing
// with yourself is rejected. An unknown email is a validation failure — the
// identity collaborator knows no such user.
func (s *ShareService) Share(ctx context.Context, callerID, tripID uuid.UUID, email string, role domain.Role) (domain.TripShare, error) {
	if _, _, err := s.access.RequireTrip(ctx, callerID, tripID, domain.Role.CanManageSharing); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.TripShare{}, domain.ErrForbidden
		}
		return domain.TripShare{}, fmt.Errorf("service.ShareService.Share: %w", err)
	}

	user, err := s.users.GetByEmail(ctx, email)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return domain.TripShare{}, fmt.Errorf("%w: no user with email %q", domain.ErrValidation, email)
		}
		return domain.TripShare{}, fmt.Errorf("service.ShareService.Share: %w", err)
	}
	if user.ID == callerID {
		return domain.TripShare{}, fmt.Errorf("%w: cannot share a trip with yourself", domain.ErrValidation)
	}

	share, err := s.shares.Upsert(ctx, tripID, user.ID, role)
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("service.ShareService.Share: %w", err)
	}
	return share, nil
}

// Unshare revokes the grant for userID on tripID. Owner only.
// Returns domain.ErrNotFound when no such grant exists.
func (s *ShareService) Unshare(ctx context.Context, callerID, tripID, userID uuid.UUID) error {
	if _, _, err := s.access.RequireTrip(ctx, callerID, tripID, domain.Role.CanManageSharing); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.ErrForbidden
		}
		return fmt.Errorf("service.ShareService.Unshare: %w", err)
	}

	if err := s.shares.Delete(ctx, tripID, userID); err != nil {
		return fmt.Errorf("service.ShareService.Unshare: %w", err)
	}
	return nil
}

// List returns the trip together with its current grants. Requires read
// access; the trip row carries the owner, the grants carry everyone else.
func (s *ShareService) List(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, []domain.TripShare, error) {
	trip, _, err := s.access.RequireTrip(ctx, callerID, tripID, domain.Role.CanRead)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Trip{}, nil, domain.ErrForbidden
		}
		return domain.Trip{}, nil, fmt.Errorf("service.ShareService.List: %w", err)
	}

	shares, err := s.shares.ListByTrip(ctx, tripID)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.ShareService.List: %w", err)
	}
	return trip, shares, nil
}
