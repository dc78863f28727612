package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// DayService implements business logic for Day operations.
type DayService struct {
	days   repo.DayRepo
	access *AccessService
}

// NewDayService constructs a DayService.
func NewDayService(days repo.DayRepo, access *AccessService) *DayService {
	return &DayService{days: days, access: access}
}

// Upsert creates or merges the day for (tripID, date). Write access required.
// Each field of fields is independent: nil leaves the stored value alone, a
// value that trims to empty clears it. The date must be a real calendar date
// inside the trip's range.
func (s *DayService) Upsert(ctx context.Context, userID, tripID uuid.UUID, date string, fields repo.DayFields) (domain.Day, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanWrite)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Day{}, domain.ErrForbidden
		}
		return domain.Day{}, fmt.Errorf("service.DayService.Upsert: %w", err)
	}

	d, err := parseTripDate(trip, date)
	if err != nil {
		return domain.Day{}, err
	}

	trimField(fields.City)
	trimField(fields.Summary)
	trimField(fields.Journal)

	day, err := s.days.Upsert(ctx, tripID, d, fields)
	if err != nil {
		return domain.Day{}, fmt.Errorf("service.DayService.Upsert: %w", err)
	}
	return day, nil
}

// ListRange returns the trip's stored days with items for dates in
// [from, to] inclusive. Read access required. Viewing never creates rows —
// gap-filling for rendering is the calendar projector's job, not the store's.
func (s *DayService) ListRange(ctx context.Context, userID, tripID uuid.UUID, from, to string) (domain.Trip, []domain.Day, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanRead)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Trip{}, nil, domain.ErrForbidden
		}
		return domain.Trip{}, nil, fmt.Errorf("service.DayService.ListRange: %w", err)
	}

	fromDate, err := domain.ParseDate(from)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	toDate, err := domain.ParseDate(to)
	if err != nil {
		return domain.Trip{}, nil, err
	}
	if toDate.Before(fromDate) {
		return domain.Trip{}, nil, fmt.Errorf("%w: to must not be before from", domain.ErrValidation)
	}

	days, err := s.days.ListRange(ctx, tripID, fromDate, toDate)
	if err != nil {
		return domain.Trip{}, nil, fmt.Errorf("service.DayService.ListRange: %w", err)
	}
	return trip, days, nil
}

// parseTripDate parses a wire date and checks it falls within the trip's
// inclusive date range.
func parseTripDate(trip domain.Trip, date string) (time.Time, error) {
	d, err := domain.ParseDate(date)
	if err != nil {
		return time.Time{}, err
	}
	if d.Before(trip.StartDate) || d.After(trip.EndDate) {
		return time.Time{}, fmt.Errorf("%w: date %s is outside the trip's range", domain.ErrValidation, date)
	}
	return d, nil
}

// trimField trims a day field in place. Whitespace-only input becomes the
// empty string, which the repo layer stores as an explicit clear.
func trimField(f *string) {
	if f != nil {
		*f = strings.TrimSpace(*f)
	}
}
