// Package domain contains the core data types for the Tripbook application.
// This package has no store or transport dependencies and is imported by
// every other internal package (repo, service, handler).
package domain

import (
	"time"

	"github.com/google/uuid"
)

// Field length limits enforced on trip text fields.
const (
	MaxTripNameLen         = 100
	MaxTripDestinationsLen = 500
	MaxTripNotesLen        = 1000
)

// Trip represents a single planned trip over an inclusive date range.
// A trip is the top-level aggregate; days belong to a trip, and items and
// attachments belong to days. OwnerID is the creating user and never changes.
type Trip struct {
	ID           uuid.UUID `json:"id"`
	OwnerID      uuid.UUID `json:"owner_id"`
	Name         string    `json:"name"`
	StartDate    time.Time `json:"start_date"`
	EndDate      time.Time `json:"end_date"` // always >= StartDate
	Destinations string    `json:"destinations,omitempty"`
	Notes        string    `json:"notes,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// User is the identity record the share endpoint resolves emails against.
// Authentication itself happens outside this package; tokens arrive already
// carrying the user's UUID.
type User struct {
	ID        uuid.UUID `json:"id"`
	Email     string    `json:"email"`
	Name      string    `json:"name"`
	CreatedAt time.Time `json:"created_at"`
}
