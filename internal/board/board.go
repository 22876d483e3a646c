// internal/board/board.go
//
// Board storage: a flat, append-only arena of cards with a declared column count.
//
// Notes:
//   - A card's slot is its index in the arena; row/column are derived by
//     slot / columns and slot % columns.
//   - Rows are derived by ceiling division, so a partial last row is allowed.
//   - A nil cell is an empty cell.

package board

import (
	"errors"

	"github.com/rhysstever/CardMatchGame/internal/card"
)

// MaxCells bounds the cells a board may be dealt with.
const MaxCells = 1 << 16

var (
	ErrInvalidSize  = errors.New("board: rows and columns must be positive and at most MaxCells cells")
	ErrSizeMismatch = errors.New("board: source larger than destination")
	ErrEmptyDeck    = errors.New("board: deck is empty")
	ErrOddCells     = errors.New("board: paired fill needs an even cell count")
)

// Board exclusively owns its cards.
type Board struct {
	columns      int
	cells        []*card.Card
	TimesDoubled int
}

// New returns an empty board with the given column count.
func New(columns int) (*Board, error) {
	if columns <= 0 || columns > MaxCells {
		return nil, ErrInvalidSize
	}
	return &Board{columns: columns}, nil
}

// NewGrid returns a board of rows*columns empty cells.
func NewGrid(rows, columns int) (*Board, error) {
	// divide rather than multiply: rows*columns may overflow
	if rows <= 0 || columns <= 0 || rows > MaxCells/columns {
		return nil, ErrInvalidSize
	}
	return &Board{columns: columns, cells: make([]*card.Card, rows*columns)}, nil
}

func (b *Board) Columns() int { return b.columns }

// Len is the number of cells, empty or not.
func (b *Board) Len() int { return len(b.cells) }

// Rows is ceil(Len / Columns).
func (b *Board) Rows() int { return (len(b.cells) + b.columns - 1) / b.columns }

// Card returns the card at slot, or nil for an empty or out-of-range slot.
func (b *Board) Card(slot int) *card.Card {
	if slot < 0 || slot >= len(b.cells) {
		return nil
	}
	return b.cells[slot]
}

// Cell returns the card at (row, col), or nil.
func (b *Board) Cell(row, col int) *card.Card {
	if row < 0 || col < 0 || col >= b.columns {
		return nil
	}
	return b.Card(row*b.columns + col)
}

// Cards returns the arena in slot order. The slice is a copy; the cards are not.
func (b *Board) Cards() []*card.Card {
	out := make([]*card.Card, len(b.cells))
	copy(out, b.cells)
	return out
}

// Grid returns the arena as row-major rows. The last row may be short.
func (b *Board) Grid() [][]*card.Card {
	rows := make([][]*card.Card, 0, b.Rows())
	for start := 0; start < len(b.cells); start += b.columns {
		end := min(start+b.columns, len(b.cells))
		row := make([]*card.Card, end-start)
		copy(row, b.cells[start:end])
		rows = append(rows, row)
	}
	return rows
}

// ActiveCount counts cards still in play.
func (b *Board) ActiveCount() int {
	n := 0
	for _, c := range b.cells {
		if c != nil && c.Active {
			n++
		}
	}
	return n
}

// Cleared reports whether no active card remains. An empty board is cleared.
func (b *Board) Cleared() bool { return b.ActiveCount() == 0 }

// set places c at slot, which must be within the arena.
func (b *Board) set(slot int, c *card.Card) {
	if c != nil {
		c.Place(slot, slot/b.columns, slot%b.columns)
	}
	b.cells[slot] = c
}

// add appends c as a new cell.
func (b *Board) add(c *card.Card) {
	b.cells = append(b.cells, nil)
	b.set(len(b.cells)-1, c)
}
