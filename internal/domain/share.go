package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Role is the access level a user holds on a trip.
// OWNER is implied by trip ownership and never stored in a share row;
// EDITOR and VIEWER are granted through TripShare records.
type Role string

const (
	RoleOwner  Role = "OWNER"
	RoleEditor Role = "EDITOR"
	RoleViewer Role = "VIEWER"
	RoleNone   Role = "NONE"
)

// ParseRole validates a role string for share grants.
// Only EDITOR and VIEWER are grantable; OWNER exists solely through
// trip ownership and NONE is the absence of access.
func ParseRole(s string) (Role, error) {
	switch Role(s) {
	case RoleEditor, RoleViewer:
		return Role(s), nil
	}
	return RoleNone, fmt.Errorf("%w: invalid role %q", ErrValidation, s)
}

// CanRead reports whether the role grants read access to a trip.
func (r Role) CanRead() bool { return r != RoleNone }

// CanWrite reports whether the role grants itinerary mutation access
// (day upserts, item and attachment creation).
func (r Role) CanWrite() bool { return r == RoleOwner || r == RoleEditor }

// CanManageSharing reports whether the role may grant or revoke shares.
func (r Role) CanManageSharing() bool { return r == RoleOwner }

// CanDelete reports whether the role may delete the trip.
func (r Role) CanDelete() bool { return r == RoleOwner }

// TripShare is a grant of access to a non-owner user for one trip.
// (TripID, UserID) is unique — re-sharing with the same user updates the
// role in place rather than adding a second grant.
type TripShare struct {
	ID        uuid.UUID `json:"id"`
	TripID    uuid.UUID `json:"trip_id"`
	UserID    uuid.UUID `json:"user_id"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
