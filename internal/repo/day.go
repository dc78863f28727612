package repo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripbook/internal/domain"
)

// DayFields carries the optional free-text fields of a day upsert.
// Nil means "leave unchanged"; a non-nil empty string clears the field.
type DayFields struct {
	City    *string
	Summary *string
	Journal *string
}

// DayRepo defines the persistence operations for Days.
type DayRepo interface {
	// Upsert creates the (tripID, date) row or merges the provided fields
	// into the existing one. Atomic: two concurrent upserts for the same
	// date resolve through the (trip_id, date) unique constraint, never
	// through a read-then-write, so duplicate rows cannot occur.
	Upsert(ctx context.Context, tripID uuid.UUID, date time.Time, fields DayFields) (domain.Day, error)

	// Ensure lazily creates the (tripID, date) row with empty fields,
	// returning the existing row untouched when one is already there.
	// Shared by item and attachment creation.
	Ensure(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Day, error)

	// GetByID retrieves a day by primary key.
	// Returns domain.ErrNotFound if no day with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Day, error)

	// ListRange returns the trip's days with date in [from, to] inclusive,
	// ordered by date, with each day's items eager-loaded in block order.
	ListRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Day, error)

	// WithTx returns a DayRepo bound to tx, so this repo's statements can
	// be grouped with others in one transaction.
	WithTx(tx pgx.Tx) DayRepo
}

// pgDayRepo is the Postgres implementation of DayRepo.
type pgDayRepo struct {
	db db
}

// NewDayRepo constructs a DayRepo backed by the provided db connection.
func NewDayRepo(db db) DayRepo {
	return &pgDayRepo{db: db}
}

func (r *pgDayRepo) WithTx(tx pgx.Tx) DayRepo {
	return &pgDayRepo{db: tx}
}

// Upsert merges per-field: a NULL argument keeps the stored value via
// COALESCE, a non-NULL argument (including '') overwrites it. The DO UPDATE
// branch is taken even when nothing changes so RETURNING always yields the row.
func (r *pgDayRepo) Upsert(ctx context.Context, tripID uuid.UUID, date time.Time, fields DayFields) (domain.Day, error) {
	const q = `
		INSERT INTO days (trip_id, date, city, summary, journal)
		VALUES (@trip_id, @date, COALESCE(@city, ''), COALESCE(@summary, ''), COALESCE(@journal, ''))
		ON CONFLICT (trip_id, date) DO UPDATE SET
			city       = COALESCE(@city, days.city),
			summary    = COALESCE(@summary, days.summary),
			journal    = COALESCE(@journal, days.journal),
			updated_at = now()
		RETURNING id, trip_id, date, city, summary, journal, created_at, updated_at`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"date":    domain.NormalizeDate(date),
		"city":    fields.City, // nil becomes NULL
		"summary": fields.Summary,
		"journal": fields.Journal,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanDay(row)
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgDayRepo) Ensure(ctx context.Context, tripID uuid.UUID, date time.Time) (domain.Day, error) {
	day, err := r.Upsert(ctx, tripID, date, DayFields{})
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.Ensure: %w", err)
	}
	return day, nil
}

func (r *pgDayRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Day, error) {
	const q = `
		SELECT id, trip_id, date, city, summary, journal, created_at, updated_at
		FROM days
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanDay(row)
	if err != nil {
		return domain.Day{}, fmt.Errorf("repo.DayRepo.GetByID: %w", err)
	}
	return result, nil
}

// ListRange loads the day rows first, then all their items in one query,
// and stitches the items onto their days in memory. Two round trips total
// regardless of range length.
func (r *pgDayRepo) ListRange(ctx context.Context, tripID uuid.UUID, from, to time.Time) ([]domain.Day, error) {
	const q = `
		SELECT id, trip_id, date, city, summary, journal, created_at, updated_at
		FROM days
		WHERE trip_id = @trip_id AND date BETWEEN @from AND @to
		ORDER BY date`

	args := pgx.NamedArgs{
		"trip_id": tripID,
		"from":    domain.NormalizeDate(from),
		"to":      domain.NormalizeDate(to),
	}

	rows, err := r.db.Query(ctx, q, args)
	if err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListRange: %w", err)
	}
	defer rows.Close()

	days := []domain.Day{}
	for rows.Next() {
		d, err := scanDay(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.DayRepo.ListRange: scan: %w", err)
		}
		days = append(days, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListRange: rows: %w", err)
	}
	if len(days) == 0 {
		return days, nil
	}

	if err := r.loadItems(ctx, days); err != nil {
		return nil, fmt.Errorf("repo.DayRepo.ListRange: %w", err)
	}
	return days, nil
}

// loadItems fetches the items for all given days in one query and attaches
// them, ordered by block in day order (ALL_DAY, MORNING, AFTERNOON, EVENING)
// then order_index.
func (r *pgDayRepo) loadItems(ctx context.Context, days []domain.Day) error {
	const q = `
		SELECT id, day_id, block, type, title, description, order_index, created_at, updated_at
		FROM items
		WHERE day_id = ANY(@day_ids)
		ORDER BY day_id, array_position(ARRAY['ALL_DAY', 'MORNING', 'AFTERNOON', 'EVENING'], block), order_index`

	ids := make([]uuid.UUID, len(days))
	index := make(map[uuid.UUID]*domain.Day, len(days))
	for i := range days {
		ids[i] = days[i].ID
		index[days[i].ID] = &days[i]
	}

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_ids": ids})
	if err != nil {
		return err
	}
	defer rows.Close()

	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return fmt.Errorf("scan: %w", err)
		}
		if d, ok := index[item.DayID]; ok {
			d.Items = append(d.Items, item)
		}
	}
	return rows.Err()
}

// scanDay maps a single database row into a domain.Day.
func scanDay(s scanner) (domain.Day, error) {
	var (
		d      domain.Day
		id     pgtype.UUID
		tripID pgtype.UUID
		date   pgtype.Date
	)

	err := s.Scan(&id, &tripID, &date, &d.City, &d.Summary, &d.Journal, &d.CreatedAt, &d.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Day{}, domain.ErrNotFound
		}
		return domain.Day{}, err
	}

	d.ID = uuid.UUID(id.Bytes)
	d.TripID = uuid.UUID(tripID.Bytes)
	d.Date = domain.NormalizeDate(date.Time)
	return d, nil
}
