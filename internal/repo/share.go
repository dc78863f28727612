package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripbook/internal/domain"
)

// ShareRepo defines the persistence operations for trip share grants.
type ShareRepo interface {
	// Upsert inserts a grant for (tripID, userID), or updates the role of
	// the existing grant. The (trip_id, user_id) unique constraint makes
	// repeated shares idempotent — one row per user per trip, latest role wins.
	Upsert(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.TripShare, error)

	// Delete removes the grant for (tripID, userID).
	// Returns domain.ErrNotFound if no such grant exists.
	Delete(ctx context.Context, tripID, userID uuid.UUID) error

	// ListByTrip returns all grants for a trip ordered by creation time.
	ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripShare, error)

	// GetRole returns the granted role for (tripID, userID).
	// Returns domain.ErrNotFound when the user holds no grant on the trip.
	GetRole(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error)
}

// pgShareRepo is the Postgres implementation of ShareRepo.
type pgShareRepo struct {
	db db
}

// NewShareRepo constructs a ShareRepo backed by the provided db connection.
func NewShareRepo(db db) ShareRepo {
	return &pgShareRepo{db: db}
}

// Upsert inserts or updates a grant in one atomic statement, so two
// concurrent shares for the same user can never produce duplicate rows.
func (r *pgShareRepo) Upsert(ctx context.Context, tripID, userID uuid.UUID, role domain.Role) (domain.TripShare, error) {
	const q = `
		INSERT INTO trip_shares (trip_id, user_id, role)
		VALUES (@trip_id, @user_id, @role)
		ON CONFLICT (trip_id, user_id) DO UPDATE SET
			role       = EXCLUDED.role,
			updated_at = now()
		RETURNING id, trip_id, user_id, role, created_at, updated_at`

	args := pgx.NamedArgs{"trip_id": tripID, "user_id": userID, "role": string(role)}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanShare(row)
	if err != nil {
		return domain.TripShare{}, fmt.Errorf("repo.ShareRepo.Upsert: %w", err)
	}
	return result, nil
}

func (r *pgShareRepo) Delete(ctx context.Context, tripID, userID uuid.UUID) error {
	const q = `DELETE FROM trip_shares WHERE trip_id = @trip_id AND user_id = @user_id`

	tag, err := r.db.Exec(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID})
	if err != nil {
		return fmt.Errorf("repo.ShareRepo.Delete: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("repo.ShareRepo.Delete: %w", domain.ErrNotFound)
	}
	return nil
}

func (r *pgShareRepo) ListByTrip(ctx context.Context, tripID uuid.UUID) ([]domain.TripShare, error) {
	const q = `
		SELECT id, trip_id, user_id, role, created_at, updated_at
		FROM trip_shares
		WHERE trip_id = @trip_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"trip_id": tripID})
	if err != nil {
		return nil, fmt.Errorf("repo.ShareRepo.ListByTrip: %w", err)
	}
	defer rows.Close()

	shares := []domain.TripShare{}
	for rows.Next() {
		s, err := scanShare(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ShareRepo.ListByTrip: scan: %w", err)
		}
		shares = append(shares, s)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ShareRepo.ListByTrip: rows: %w", err)
	}
	return shares, nil
}

func (r *pgShareRepo) GetRole(ctx context.Context, tripID, userID uuid.UUID) (domain.Role, error) {
	const q = `
		SELECT role
		FROM trip_shares
		WHERE trip_id = @trip_id AND user_id = @user_id`

	var role string
	err := r.db.QueryRow(ctx, q, pgx.NamedArgs{"trip_id": tripID, "user_id": userID}).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.RoleNone, domain.ErrNotFound
		}
		return domain.RoleNone, fmt.Errorf("repo.ShareRepo.GetRole: %w", err)
	}
	return domain.Role(role), nil
}

// scanShare maps a single database row into a domain.TripShare.
func scanShare(s scanner) (domain.TripShare, error) {
	var (
		share  domain.TripShare
		id     pgtype.UUID
		tripID pgtype.UUID
		userID pgtype.UUID
		role   string
	)

	err := s.Scan(&id, &tripID, &userID, &role, &share.CreatedAt, &share.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.TripShare{}, domain.ErrNotFound
		}
		return domain.TripShare{}, err
	}

	share.ID = uuid.UUID(id.Bytes)
	share.TripID = uuid.UUID(tripID.Bytes)
	share.UserID = uuid.UUID(userID.Bytes)
	share.Role = domain.Role(role)
	return share, nil
}
