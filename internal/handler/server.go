// Package handler implements the HTTP handlers for the Tripbook API.
// All handlers are methods on Server. Methods are split into domain-specific
// files (trip.go, day.go, etc.) but all share the same Server struct so they
// can access its dependencies.
package handler

import (
	"context"
	"io"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// The interfaces below define the business operations the handlers depend
// on. Defining them here (in the consumer package) follows the Go
// convention: "accept interfaces, return concrete types". It lets handler
// tests inject mocks without touching the database or service layer.

// TripServicer is the trip lifecycle surface.
type TripServicer interface {
	Save(ctx context.Context, userID uuid.UUID, trip domain.Trip) (domain.Trip, error)
	Get(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
	Delete(ctx context.Context, userID, tripID uuid.UUID) error
}

// ActiveTripResolver maps the session pointer to a concrete trip.
type ActiveTripResolver interface {
	Resolve(ctx context.Context, userID uuid.UUID, pointer *uuid.UUID) (domain.Trip, domain.Role, error)
	Set(ctx context.Context, userID, tripID uuid.UUID) (domain.Trip, error)
}

// ShareServicer is the sharing surface.
type ShareServicer interface {
	Share(ctx context.Context, callerID, tripID uuid.UUID, email string, role domain.Role) (domain.TripShare, error)
	Unshare(ctx context.Context, callerID, tripID, userID uuid.UUID) error
	List(ctx context.Context, callerID, tripID uuid.UUID) (domain.Trip, []domain.TripShare, error)
}

// DayServicer is the day upsert/query surface.
type DayServicer interface {
	Upsert(ctx context.Context, userID, tripID uuid.UUID, date string, fields repo.DayFields) (domain.Day, error)
	ListRange(ctx context.Context, userID, tripID uuid.UUID, from, to string) (domain.Trip, []domain.Day, error)
}

// ItemServicer is the item mutation surface.
type ItemServicer interface {
	Create(ctx context.Context, userID, tripID uuid.UUID, date, block, itemType, title, description string) (domain.Item, error)
	Update(ctx context.Context, userID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error)
	Delete(ctx context.Context, userID, itemID uuid.UUID) (domain.Item, error)
}

// AttachmentServicer is the upload surface.
type AttachmentServicer interface {
	Create(ctx context.Context, userID, tripID uuid.UUID, date, fileName, mimeType string, file io.Reader) (domain.Attachment, error)
}

// ExportServicer builds the printable trip book.
type ExportServicer interface {
	Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.BookRow, error)
}

// Server implements all API endpoints.
type Server struct {
	trips       TripServicer
	active      ActiveTripResolver
	shares      ShareServicer
	days        DayServicer
	items       ItemServicer
	attachments AttachmentServicer
	export      ExportServicer
}

// NewServer constructs the Server with all its dependencies.
func NewServer(trips TripServicer, active ActiveTripResolver, shares ShareServicer, days DayServicer, items ItemServicer, attachments AttachmentServicer, export ExportServicer) *Server {
	return &Server{
		trips:       trips,
		active:      active,
		shares:      shares,
		days:        days,
		items:       items,
		attachments: attachments,
		export:      export,
	}
}

// Routes registers every authenticated endpoint on r.
// Health and the OpenAPI document are mounted separately in main, outside
// the auth middleware.
func (s *Server) Routes(r chi.Router) {
	r.Post("/trips", s.SaveTrip)
	r.Get("/trips/active", s.GetActiveTrip)
	r.Post("/trips/active", s.SetActiveTrip)
	r.Get("/trips/{id}", s.GetTrip)
	r.Delete("/trips/{id}", s.DeleteTrip)

	r.Post("/trips/{id}/shares", s.ShareTrip)
	r.Get("/trips/{id}/shares", s.ListShares)
	r.Delete("/trips/{id}/shares", s.UnshareTrip)

	r.Get("/days", s.ListDays)
	r.Post("/days", s.UpsertDay)
	r.Get("/calendar", s.GetCalendar)

	r.Post("/items", s.CreateItem)
	r.Patch("/items/{id}", s.UpdateItem)
	r.Delete("/items/{id}", s.DeleteItem)

	r.Post("/attachments", s.CreateAttachment)

	r.Get("/trips/{id}/export", s.ExportTrip)
}
