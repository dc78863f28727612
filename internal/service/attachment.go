package service

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
	"github.com/pkordes/tripbook/internal/storage"
)

// AttachmentService implements business logic for file attachments.
type AttachmentService struct {
	days        repo.DayRepo
	attachments repo.AttachmentRepo
	blobs       storage.BlobStore
	access      *AccessService
	tx          repo.TxRunner
}

// NewAttachmentService constructs an AttachmentService.
func NewAttachmentService(days repo.DayRepo, attachments repo.AttachmentRepo, blobs storage.BlobStore, access *AccessService, tx repo.TxRunner) *AttachmentService {
	return &AttachmentService{days: days, attachments: attachments, blobs: blobs, access: access, tx: tx}
}

// Create stores a file against (tripID, date). Write access required; the
// MIME type must be on the fixed allow-list. The owning day is lazily
// created like item creation does. Bytes go to the blob store before the
// row is inserted, so a failed upload leaves no attachment row pointing at
// nothing.
func (s *AttachmentService) Create(ctx context.Context, userID, tripID uuid.UUID, date, fileName, mimeType string, file io.Reader) (domain.Attachment, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanWrite)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Attachment{}, domain.ErrForbidden
		}
		return domain.Attachment{}, fmt.Errorf("service.AttachmentService.Create: %w", err)
	}

	ext, err := domain.ExtensionForMIME(mimeType)
	if err != nil {
		return domain.Attachment{}, err
	}
	fileName = strings.TrimSpace(fileName)
	if fileName == "" {
		return domain.Attachment{}, fmt.Errorf("%w: file name is required", domain.ErrValidation)
	}
	d, err := parseTripDate(trip, date)
	if err != nil {
		return domain.Attachment{}, err
	}

	// Day and attachment row commit together, with the blob write in
	// between: a failed or cancelled upload rolls both back, so neither an
	// empty day nor a row pointing at missing bytes survives. An orphaned
	// blob can remain; nothing ever references it.
	var attachment domain.Attachment
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		day, err := s.days.WithTx(tx).Ensure(ctx, tripID, d)
		if err != nil {
			return err
		}

		key := fmt.Sprintf("attachments/%s/%s%s", day.ID, uuid.New(), ext)
		size, err := s.blobs.Put(ctx, key, mimeType, file)
		if err != nil {
			return fmt.Errorf("store bytes: %w", err)
		}

		attachment, err = s.attachments.WithTx(tx).Create(ctx, domain.Attachment{
			DayID:     day.ID,
			FileName:  fileName,
			MimeType:  mimeType,
			SizeBytes: size,
			Path:      key,
		})
		return err
	})
	if err != nil {
		return domain.Attachment{}, fmt.Errorf("service.AttachmentService.Create: %w", err)
	}
	return attachment, nil
}
