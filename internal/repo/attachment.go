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

// AttachmentRepo defines the persistence operations for Attachments.
// Attachments are immutable: there is no update, and no standalone delete —
// rows disappear only through cascading day/trip deletion.
type AttachmentRepo interface {
	// Create inserts a new attachment record and returns the persisted row.
	// The file bytes must already be in the blob store; Path is their locator.
	Create(ctx context.Context, a domain.Attachment) (domain.Attachment, error)

	// ListByDay returns a day's attachments ordered by creation time.
	ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Attachment, error)

	// WithTx returns an AttachmentRepo bound to tx, so this repo's
	// statements can be grouped with others in one transaction.
	WithTx(tx pgx.Tx) AttachmentRepo
}

// pgAttachmentRepo is the Postgres implementation of AttachmentRepo.
type pgAttachmentRepo struct {
	db db
}

// NewAttachmentRepo constructs an AttachmentRepo backed by the provided db connection.
func NewAttachmentRepo(db db) AttachmentRepo {
	return &pgAttachmentRepo{db: db}
}

func (r *pgAttachmentRepo) WithTx(tx pgx.Tx) AttachmentRepo {
	return &pgAttachmentRepo{db: tx}
}

func (r *pgAttachmentRepo) Create(ctx context.Context, a domain.Attachment) (domain.Attachment, error) {
	const q = `
		INSERT INTO attachments (day_id, file_name, mime_type, size_bytes, path)
		VALUES (@day_id, @file_name, @mime_type, @size_bytes, @path)
		RETURNING id, day_id, file_name, mime_type, size_bytes, path, created_at`

	args := pgx.NamedArgs{
		"day_id":     a.DayID,
		"file_name":  a.FileName,
		"mime_type":  a.MimeType,
		"size_bytes": a.SizeBytes,
		"path":       a.Path,
	}

	row := r.db.QueryRow(ctx, q, args)
	result, err := scanAttachment(row)
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("repo.AttachmentRepo.Create: %w", err)
	}
	return result, nil
}

func (r *pgAttachmentRepo) ListByDay(ctx context.Context, dayID uuid.UUID) ([]domain.Attachment, error) {
	const q = `
		SELECT id, day_id, file_name, mime_type, size_bytes, path, created_at
		FROM attachments
		WHERE day_id = @day_id
		ORDER BY created_at`

	rows, err := r.db.Query(ctx, q, pgx.NamedArgs{"day_id": dayID})
	if err != nil {
		return nil, fmt.Errorf("repo.AttachmentRepo.ListByDay: %w", err)
	}
	defer rows.Close()

	attachments := []domain.Attachment{}
	for rows.Next() {
		a, err := scanAttachment(rows)
		if err != nil {
			return nil, fmt.Errorf("repo.AttachmentRepo.ListByDay: scan: %w", err)
		}
		attachments = append(attachments, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("repo.AttachmentRepo.ListByDay: rows: %w", err)
	}
	return attachments, nil
}

// scanAttachment maps a single database row into a domain.Attachment.
func scanAttachment(s scanner) (domain.Attachment, error) {
	var (
		a     domain.Attachment
		id    pgtype.UUID
		dayID pgtype.UUID
	)

	err := s.Scan(&id, &dayID, &a.FileName, &a.MimeType, &a.SizeBytes, &a.Path, &a.CreatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return domain.Attachment{}, domain.ErrNotFound
		}
		return domain.Attachment{}, err
	}

	a.ID = uuid.UUID(id.Bytes)
	a.DayID = uuid.UUID(dayID.Bytes)
	return a, nil
}
