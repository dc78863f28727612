package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// ExportService assembles the printable trip book: one flat row per item
// across the trip's full calendar range, with empty rows for dates that
// hold nothing yet.
type ExportService struct {
	days        repo.DayRepo
	attachments repo.AttachmentRepo
	access      *AccessService
}

// NewExportService constructs an ExportService.
func NewExportService(days repo.DayRepo, attachments repo.AttachmentRepo, access *AccessService) *ExportService {
	return &ExportService{days: days, attachments: attachments, access: access}
}

// Export builds the book rows for a whole trip. Read access required.
// The dense date sequence comes from the calendar projector, so every date
// from start to end appears at least once even when no day row exists.
func (s *ExportService) Export(ctx context.Context, userID, tripID uuid.UUID) ([]domain.BookRow, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanRead)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return nil, domain.ErrForbidden
		}
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	days, err := s.days.ListRange(ctx, tripID, trip.StartDate, trip.EndDate)
	if err != nil {
		return nil, fmt.Errorf("service.ExportService.Export: %w", err)
	}

	rows := []domain.BookRow{}
	for _, cell := range domain.ProjectDays(trip, days) {
		base := domain.BookRow{
			TripID:   trip.ID.String(),
			TripName: trip.Name,
			Date:     cell.Date.Format(domain.DateFormat),
		}

		if cell.Day == nil {
			rows = append(rows, base)
			continue
		}

		base.City = cell.Day.City
		base.Summary = cell.Day.Summary
		base.Journal = cell.Day.Journal

		names, err := s.attachmentNames(ctx, cell.Day.ID)
		if err != nil {
			return nil, fmt.Errorf("service.ExportService.Export: %w", err)
		}
		base.Attachments = names

		if len(cell.Day.Items) == 0 {
			rows = append(rows, base)
			continue
		}
		for _, item := range cell.Day.Items {
			row := base
			row.Block = string(item.Block)
			row.ItemType = string(item.Type)
			row.Title = item.Title
			row.Description = item.Description
			rows = append(rows, row)
		}
	}
	return rows, nil
}

// attachmentNames returns the file names stored against a day.
func (s *ExportService) attachmentNames(ctx context.Context, dayID uuid.UUID) ([]string, error) {
	attachments, err := s.attachments.ListByDay(ctx, dayID)
	if err != nil {
		return nil, err
	}
	if len(attachments) == 0 {
		return nil, nil
	}
	names := make([]string, len(attachments))
	for i, a := range attachments {
		names[i] = a.FileName
	}
	return names, nil
}
