package service_test

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/service"
)

// TestExportService_Export_DenseRows builds the end-to-end book scenario:
// a 3-day trip where day 1 holds two items and an attachment, day 2 holds a
// stored but empty day row, and day 3 was never touched. Every date must
// appear, items fan out into one row each, and empty dates emit one blank row.
func TestExportService_Export_DenseRows(t *testing.T) {
	owner := uuid.New()
	trip := validTrip(owner)
	trip.Name = "Tuscany by Rail"
	trip.StartDate = time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC)
	trip.EndDate = time.Date(2025, 6, 3, 0, 0, 0, 0, time.UTC)

	day1 := domain.Day{
		ID:      uuid.New(),
		TripID:  trip.ID,
		Date:    trip.StartDate,
		City:    "Florence",
		Summary: "arrival day",
		Items: []domain.Item{
			{DayID: uuid.Nil, Block: domain.BlockMorning, Type: domain.ItemFlight, Title: "AZ 1670 to FLR"},
			{DayID: uuid.Nil, Block: domain.BlockEvening, Type: domain.ItemFood, Title: "Trattoria Mario", Description: "no reservations"},
		},
	}
	day2 := domain.Day{
		ID:     uuid.New(),
		TripID: trip.ID,
		Date:   trip.StartDate.AddDate(0, 0, 1),
		City:   "Siena",
	}

	days := &mockDayRepo{
		listRange: func(_ context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Day, error) {
			assert.Equal(t, trip.StartDate, from)
			assert.Equal(t, trip.EndDate, to)
			return []domain.Day{day1, day2}, nil
		},
	}
	attachments := &mockAttachmentRepo{
		listByDay: func(_ context.Context, dayID uuid.UUID) ([]domain.Attachment, error) {
			if dayID == day1.ID {
				return []domain.Attachment{{FileName: "boarding-pass.pdf"}}, nil
			}
			return nil, nil
		},
	}
	svc := service.NewExportService(days, attachments, newAccess(tripStore(trip), nil))

	rows, err := svc.Export(context.Background(), owner, trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 4) // 2 items + 1 empty stored day + 1 untouched date

	// Day 1: one row per item, both carrying the day fields and attachments.
	assert.Equal(t, "2025-06-01", rows[0].Date)
	assert.Equal(t, "Florence", rows[0].City)
	assert.Equal(t, "MORNING", rows[0].Block)
	assert.Equal(t, "FLIGHT", rows[0].ItemType)
	assert.Equal(t, "AZ 1670 to FLR", rows[0].Title)
	assert.Equal(t, []string{"boarding-pass.pdf"}, rows[0].Attachments)

	assert.Equal(t, "2025-06-01", rows[1].Date)
	assert.Equal(t, "EVENING", rows[1].Block)
	assert.Equal(t, "Trattoria Mario", rows[1].Title)
	assert.Equal(t, "no reservations", rows[1].Description)

	// Day 2: stored but itemless, one row with day fields only.
	assert.Equal(t, "2025-06-02", rows[2].Date)
	assert.Equal(t, "Siena", rows[2].City)
	assert.Empty(t, rows[2].Block)
	assert.Empty(t, rows[2].Title)

	// Day 3: no stored row at all, still present in the book.
	assert.Equal(t, "2025-06-03", rows[3].Date)
	assert.Empty(t, rows[3].City)
	assert.Empty(t, rows[3].Title)

	for _, row := range rows {
		assert.Equal(t, trip.ID.String(), row.TripID)
		assert.Equal(t, "Tuscany by Rail", row.TripName)
	}
}

func TestExportService_Export_ViewerAllowed(t *testing.T) {
	viewer := uuid.New()
	trip := validTrip(uuid.New())
	trip.EndDate = trip.StartDate // single day, no stored rows

	days := &mockDayRepo{
		listRange: func(_ context.Context, _ uuid.UUID, _, _ time.Time) ([]domain.Day, error) {
			return nil, nil
		},
	}
	svc := service.NewExportService(days, &mockAttachmentRepo{}, newAccess(tripStore(trip), &mockShareRepo{
		getRole: func(_ context.Context, _, _ uuid.UUID) (domain.Role, error) {
			return domain.RoleViewer, nil
		},
	}))

	rows, err := svc.Export(context.Background(), viewer, trip.ID)

	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, trip.StartDate.Format(domain.DateFormat), rows[0].Date)
}

func TestExportService_Export_StrangerForbidden(t *testing.T) {
	trip := validTrip(uuid.New())
	svc := service.NewExportService(&mockDayRepo{}, &mockAttachmentRepo{}, newAccess(tripStore(trip), nil))

	_, err := svc.Export(context.Background(), uuid.New(), trip.ID)

	assert.ErrorIs(t, err, domain.ErrForbidden)
}
