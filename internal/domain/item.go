package domain

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// Block is one of the four fixed time-of-day buckets grouping items
// within a day.
type Block string

const (
	BlockAllDay    Block = "ALL_DAY"
	BlockMorning   Block = "MORNING"
	BlockAfternoon Block = "AFTERNOON"
	BlockEvening   Block = "EVENING"
)

// ParseBlock validates a block string against the closed set.
func ParseBlock(s string) (Block, error) {
	switch Block(s) {
	case BlockAllDay, BlockMorning, BlockAfternoon, BlockEvening:
		return Block(s), nil
	}
	return "", fmt.Errorf("%w: invalid block %q", ErrValidation, s)
}

// ItemType classifies a scheduled item.
type ItemType string

const (
	ItemHotel      ItemType = "HOTEL"
	ItemFlight     ItemType = "FLIGHT"
	ItemAttraction ItemType = "ATTRACTION"
	ItemFood       ItemType = "FOOD"
	ItemTransfer   ItemType = "TRANSFER"
	ItemNote       ItemType = "NOTE"
)

// ParseItemType validates an item type string against the closed set.
func ParseItemType(s string) (ItemType, error) {
	switch ItemType(s) {
	case ItemHotel, ItemFlight, ItemAttraction, ItemFood, ItemTransfer, ItemNote:
		return ItemType(s), nil
	}
	return "", fmt.Errorf("%w: invalid item type %q", ErrValidation, s)
}

// Item is a single scheduled entry within a day's block.
// OrderIndex positions the item inside its (DayID, Block) pair: new items
// append at max+1 (0 when the block is empty) and indexes are unique within
// the pair. Deleting or moving an item leaves a gap — gaps are never
// compacted, which keeps the append path free of read-modify-write races.
type Item struct {
	ID          uuid.UUID `json:"id"`
	DayID       uuid.UUID `json:"day_id"`
	Block       Block     `json:"block"`
	Type        ItemType  `json:"type"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	OrderIndex  int       `json:"order_index"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// ItemPatch carries a partial item update. Nil fields are left unchanged.
// OrderIndex is deliberately absent: ordering only changes through
// creation-time appends, never through patching.
type ItemPatch struct {
	Block       *Block
	Type        *ItemType
	Title       *string
	Description *string
}
