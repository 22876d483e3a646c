package card

import (
	"errors"
	"fmt"
)

// ErrOutOfRange is returned when an archetype index exceeds its enumeration.
var ErrOutOfRange = errors.New("card: index out of range")

// NoSlot marks a card that has not been placed on a board yet.
const NoSlot = -1

// Card is one placed instance of an archetype.
//
// The archetype never changes after construction. Slot is the card's index in the
// owning board's arena and is its identity for matching purposes; Row and Col are
// derived from Slot when the card is placed.
type Card struct {
	archetype Archetype

	Active bool
	Slot   int
	Row    int
	Col    int
}

// New returns an active, unplaced card of archetype a.
func New(a Archetype) *Card {
	return &Card{archetype: a, Active: true, Slot: NoSlot}
}

// FromIndex builds a card from zero-based indices into the value and type
// enumerations (valueIdx 0 is One, typeIdx 0 is Air).
func FromIndex(valueIdx, typeIdx int) (*Card, error) {
	if valueIdx < 0 || valueIdx >= ValueCount {
		return nil, fmt.Errorf("value index %d: %w", valueIdx, ErrOutOfRange)
	}
	if typeIdx < 0 || typeIdx >= TypeCount {
		return nil, fmt.Errorf("type index %d: %w", typeIdx, ErrOutOfRange)
	}
	return New(Archetype{Value: Value(valueIdx + 1), Type: Type(typeIdx)}), nil
}

func (c *Card) Archetype() Archetype { return c.archetype }
func (c *Card) Value() Value         { return c.archetype.Value }
func (c *Card) Type() Type           { return c.archetype.Type }

// Place records the card's arena slot and grid position.
func (c *Card) Place(slot, row, col int) {
	c.Slot, c.Row, c.Col = slot, row, col
}

// Placed reports whether the card sits on a board.
func (c *Card) Placed() bool { return c.Slot != NoSlot }

// String is a display/debug label: "Three of Fire".
func (c *Card) String() string { return c.archetype.String() }

// Key is a display handle label: "cardThreeOfFire".
func (c *Card) Key() string { return c.archetype.Key() }

// Matches reports whether a and b form a pair: two distinct placed slots holding
// the same value and type. A card never matches itself.
func Matches(a, b *Card) bool {
	if a == nil || b == nil {
		return false
	}
	if a == b || (a.Placed() && a.Slot == b.Slot) {
		return false
	}
	return a.archetype == b.archetype
}
