package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/pkordes/tripbook/internal/domain"
	"github.com/pkordes/tripbook/internal/repo"
)

// ItemService implements business logic for Item operations.
// It holds the day repo as well because item creation lazily creates the
// owning day, and item-id operations walk item → day → trip for the
// access check.
type ItemService struct {
	days   repo.DayRepo
	items  repo.ItemRepo
	access *AccessService
	tx     repo.TxRunner
}

// NewItemService constructs an ItemService.
func NewItemService(days repo.DayRepo, items repo.ItemRepo, access *AccessService, tx repo.TxRunner) *ItemService {
	return &ItemService{days: days, items: items, access: access, tx: tx}
}

// Create appends an item to (date, block) of the trip. Write access required.
// All input is validated before the day row is touched, so an invalid block,
// type, title, or date never leaves a freshly created empty day behind.
func (s *ItemService) Create(ctx context.Context, userID, tripID uuid.UUID, date, block, itemType, title, description string) (domain.Item, error) {
	trip, _, err := s.access.RequireTrip(ctx, userID, tripID, domain.Role.CanWrite)
	if err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Item{}, domain.ErrForbidden
		}
		return domain.Item{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}

	b, err := domain.ParseBlock(block)
	if err != nil {
		return domain.Item{}, err
	}
	t, err := domain.ParseItemType(itemType)
	if err != nil {
		return domain.Item{}, err
	}
	title = strings.TrimSpace(title)
	if title == "" {
		return domain.Item{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
	}
	d, err := parseTripDate(trip, date)
	if err != nil {
		return domain.Item{}, err
	}

	// Day and item commit together: a request that dies between the two
	// statements must not leave an empty day behind.
	var item domain.Item
	err = s.tx.InTx(ctx, func(tx pgx.Tx) error {
		day, err := s.days.WithTx(tx).Ensure(ctx, tripID, d)
		if err != nil {
			return err
		}
		item, err = s.items.WithTx(tx).Create(ctx, domain.Item{
			DayID:       day.ID,
			Block:       b,
			Type:        t,
			Title:       title,
			Description: strings.TrimSpace(description),
		})
		return err
	})
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Create: %w", err)
	}
	return item, nil
}

// Update applies a partial patch to an item. Write access on the owning trip
// required. OrderIndex is not patchable: within its block the item keeps its
// index, and a block move appends it at the end of the target block.
// Returns domain.ErrNotFound for an unknown item id; a bare item id carries
// no existence-leak concern.
func (s *ItemService) Update(ctx context.Context, userID, itemID uuid.UUID, patch domain.ItemPatch) (domain.Item, error) {
	item, err := s.authorizeItem(ctx, userID, itemID)
	if err != nil {
		return domain.Item{}, err
	}

	if patch.Block != nil {
		if item.Block, err = domain.ParseBlock(string(*patch.Block)); err != nil {
			return domain.Item{}, err
		}
	}
	if patch.Type != nil {
		if item.Type, err = domain.ParseItemType(string(*patch.Type)); err != nil {
			return domain.Item{}, err
		}
	}
	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return domain.Item{}, fmt.Errorf("%w: title is required", domain.ErrValidation)
		}
		item.Title = title
	}
	if patch.Description != nil {
		item.Description = strings.TrimSpace(*patch.Description)
	}

	updated, err := s.items.Update(ctx, item)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Update: %w", err)
	}
	return updated, nil
}

// Delete removes an item and returns the deleted row so callers can confirm
// or offer undo. Write access on the owning trip required.
func (s *ItemService) Delete(ctx context.Context, userID, itemID uuid.UUID) (domain.Item, error) {
	if _, err := s.authorizeItem(ctx, userID, itemID); err != nil {
		return domain.Item{}, err
	}

	deleted, err := s.items.Delete(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService.Delete: %w", err)
	}
	return deleted, nil
}

// authorizeItem loads the item and checks write access on its trip,
// walking item → day → trip.
func (s *ItemService) authorizeItem(ctx context.Context, userID, itemID uuid.UUID) (domain.Item, error) {
	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService: %w", err)
	}

	day, err := s.days.GetByID(ctx, item.DayID)
	if err != nil {
		return domain.Item{}, fmt.Errorf("service.ItemService: %w", err)
	}

	if _, _, err := s.access.RequireTrip(ctx, userID, day.TripID, domain.Role.CanWrite); err != nil {
		if errors.Is(err, domain.ErrForbidden) {
			return domain.Item{}, domain.ErrForbidden
		}
		return domain.Item{}, fmt.Errorf("service.ItemService: %w", err)
	}
	return item, nil
}
