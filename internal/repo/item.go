package repo

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgtype"

	"github.com/pkordes/tripbook/internal/domain"
)

// uniqueViolation is the Postgres error code for a unique constraint breach.
const uniqueViolation = "23505"

// createItemAttempts bounds the retry loop when concurrent inserts or block
// moves into the same (day_id, block) collide on order_index.
const createItemAttempts = 3

// ItemRepo defines the persistence operations for Items.
type ItemRepo interface {
	// Create inserts an item at the end of its (day_id, block) sequence:
	// order_index is computed as max+1 (0 for an empty block) inside the
	// INSERT itself. When two concurrent creates pick the same index, the
	// unique (day_id, block, order_index) constraint rejects the loser,
	// which simply retries and takes the next free index — callers never
	// see the collision.
	Create(ctx context.Context, item domain.Item) (domain.Item, error)

	// GetByID retrieves an item by primary key.
	// Returns domain.ErrNotFound if no item with that ID exists.
	GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error)

	// Update overwrites block/type/title/description of an item. Within
	// its block order_index never changes; moving the item to a different
	// block appends it at the end of the target block (max+1, 0 when
	// empty) so the unique (day_id, block, order_index) constraint holds,
	// and the old block keeps a permanent gap at the vacated index.
	// Returns domain.ErrNotFound if no item with that ID exists.
	Update(ctx context.Context, item domain.Item) (domain.Item, error)

	// Delete removes an item and returns the deleted row for confirmation.
	// Returns domain.ErrNotFound if no item with that ID exists.
	Delete(ctx context.Context, id uuid.UUID) (domain.Item, error)

	// ListByDay returns a day's items ordered by block then order_index.
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Item, error)

	// WithTx returns an ItemRepo bound to tx, so this repo's statements
	// can be grouped with others in one transaction.
	WithTx(tx pgx.Tx) ItemRepo
}

// pgItemRepo is the Postgres implementation of ItemRepo.
type pgItemRepo struct {
	db db
}

// NewItemRepo constructs an ItemRepo backed by the provided db connection.
func NewItemRepo(db db) ItemRepo {
	return &pgItemRepo{db: db}
}

func (r *pgItemRepo) WithTx(tx pgx.Tx) ItemRepo {
	return &pgItemRepo{db: tx}
}

func (r *pgItemRepo) Create(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		INSERT INTO items (day_id, block, type, title, description, order_index)
		SELECT @day_id, @block, @type, @title, @description,
		       COALESCE(MAX(order_index) + 1, 0)
		FROM items
		WHERE day_id = @day_id AND block = @block
		RETURNING id, day_id, block, type, title, description, order_index, created_at, updated_at`

	args := pgx.NamedArgs{
		"day_id":      item.DayID,
		"block":       string(item.Block),
		"type":        string(item.Type),
		"title":       item.Title,
		"description": item.Description,
	}

	var lastErr error
	for attempt := 0; attempt < createItemAttempts; attempt++ {
		row := r.db.QueryRow(ctx, q, args)
		result, err := scanItem(row)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			break
		}
		// Lost an ordering race; re-run to take the next free index.
	}
	return domain.Item{}, fmt.Errorf("repo.ItemRepo.Create: %w", lastErr)
}

func (r *pgItemRepo) GetByID(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	const q = `
		SELECT id, day_id, block, type, title, description, order_index, created_at, updated_at
		FROM items
		WHERE id = @id`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanItem(row)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.GetByID: %w", err)
	}
	return result, nil
}

// Update recomputes order_index in the statement itself when the block
// changes: the target block's max+1, so the moved item lands at the end and
// never collides with an occupant of its old index. Concurrent moves into
// the same block can still race on the unique constraint; the loser retries
// and takes the next free index, like Create.
func (r *pgItemRepo) Update(ctx context.Context, item domain.Item) (domain.Item, error) {
	const q = `
		UPDATE items
		SET block       = @block,
		    type        = @type,
		    title       = @title,
		    description = @description,
		    order_index = CASE
		        WHEN items.block = @block THEN items.order_index
		        ELSE (SELECT COALESCE(MAX(i.order_index) + 1, 0)
		              FROM items i
		              WHERE i.day_id = items.day_id AND i.block = @block)
		    END,
		    updated_at  = now()
		WHERE id = @id
		RETURNING id, day_id, block, type, title, description, order_index, created_at, updated_at`

	args := pgx.NamedArgs{
		"id":          item.ID,
		"block":       string(item.Block),
		"type":        string(item.Type),
		"title":       item.Title,
		"description": item.Description,
	}

	var lastErr error
	for attempt := 0; attempt < createItemAttempts; attempt++ {
		row := r.db.QueryRow(ctx, q, args)
		result, err := scanItem(row)
		if err == nil {
			return result, nil
		}
		lastErr = err

		var pgErr *pgconn.PgError
		if !errors.As(err, &pgErr) || pgErr.Code != uniqueViolation {
			break
		}
		// Lost an ordering race; re-run to take the next free index.
	}
	return domain.Item{}, fmt.Errorf("repo.ItemRepo.Update: %w", lastErr)
}

func (r *pgItemRepo) Delete(ctx context.Context, id uuid.UUID) (domain.Item, error) {
	const q = `
		DELETE FROM items
		WHERE id = @id
		RETURNING id, day_id, block, type, title, description, order_index, created_at, updated_at`

	row := r.db.QueryRow(ctx, q, pgx.NamedArgs{"id": id})
	result, err := scanItem(row)
	if err != nil {
		return domain.Item{}, fmt.Errorf("repo.ItemRepo.Delete: %w", err)
	}
	return result, nil
}

func (r *pgItemRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Item, error) {
	const q = `
		SELECT id, day_id, block, type, title, description, order_index, created_at, updated_at
		FROM items
		WHERE day_id = @day_id
		ORDER BY array_position(ARRAY['ALL_DAY', 'MORNING', 'AFTERNOON', 'EVENING'], block), order_index`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByDay: %w", err)
	}
	defer rows.Close()

	items := []domain.Item{}
	for rows.Next() {
		item, err := scanItem(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.ItemRepo.ListByDay: scan: %w", err)
		}
		items = append(items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.ItemRepo.ListByDay: rows: %w", err)
	}
	return items, nil
}

// scanItem maps a single database row into a domain.Item.
func scanItem(s scanner) (domain.Item, error) {
	var (
		item  domain.Item
		id    pgtype.UUID
		dayID pgtype.UUID
		block string
		typ   string
	)

	err := s.Scan(&id, &dayID, &block, &typ, &item.Title, &item.Description, &item.OrderIndex, &item.CreatedAt, &item.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Item{}, domain.ErrNotFound
		}
		return domain.Item{}, err
	}

	item.ID = uuid.UUID(id.Bytes)
	item.DayID = uuid.UUID(dayID.Bytes)
	item.Block = domain.Block(block)
	item.Type = domain.ItemType(typ)
	return item, nil
}
