// internal/board/builder.go
//
// Board builders and growth.
// Responsibilities:
//   - BuildRandom:     one independent uniform sample per cell (no pairing guarantee).
//   - BuildPaired:     every sampled archetype dealt twice, then shuffled.
//   - BuildSequential: row-major cyclic fill from a deck offset.
//   - Populate:        copy a 2D source into a same-shaped or larger board.
//   - Double:          append a fresh copy of every active card.

package board

import (
	"math/rand/v2"

	"github.com/rhysstever/CardMatchGame/internal/card"
	"github.com/rhysstever/CardMatchGame/internal/deck"
)

// BuildRandom fills every cell with an archetype sampled uniformly from d.
// Duplicates are expected; nothing forces every archetype to appear an even
// number of times, so a board may end with unmatchable singletons.
func BuildRandom(rows, columns int, d deck.Deck, rng *rand.Rand) (*Board, error) {
	b, err := NewGrid(rows, columns)
	if err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, ErrEmptyDeck
	}
	for slot := range b.cells {
		b.set(slot, card.New(d.Sample(rng)))
	}
	return b, nil
}

// BuildPaired samples rows*columns/2 archetypes, deals each twice and shuffles
// the result, so every board it returns is solvable.
func BuildPaired(rows, columns int, d deck.Deck, rng *rand.Rand) (*Board, error) {
	b, err := NewGrid(rows, columns)
	if err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, ErrEmptyDeck
	}
	if len(b.cells)%2 != 0 {
		return nil, ErrOddCells
	}
	dealt := make([]card.Archetype, 0, len(b.cells))
	for range len(b.cells) / 2 {
		a := d.Sample(rng)
		dealt = append(dealt, a, a)
	}
	rng.Shuffle(len(dealt), func(i, j int) { dealt[i], dealt[j] = dealt[j], dealt[i] })
	for slot, a := range dealt {
		b.set(slot, card.New(a))
	}
	return b, nil
}

// BuildSequential fills cells in row-major order with d cycled from
// offset mod len(d).
func BuildSequential(rows, columns int, d deck.Deck, offset int) (*Board, error) {
	b, err := NewGrid(rows, columns)
	if err != nil {
		return nil, err
	}
	if len(d) == 0 {
		return nil, ErrEmptyDeck
	}
	for slot := range b.cells {
		b.set(slot, card.New(d.At(offset+slot)))
	}
	return b, nil
}

// Populate copies src into dst cell by cell. Each placed card is a new instance
// owned by dst that keeps the source's archetype and activity; nil source cells
// leave the destination cell untouched.
//
// It fails with ErrSizeMismatch, leaving dst unmodified, when src has more rows
// than dst or any source row is longer than dst's column count.
func Populate(dst *Board, src [][]*card.Card) error {
	if len(src) > dst.Rows() {
		return ErrSizeMismatch
	}
	for _, row := range src {
		if len(row) > dst.columns {
			return ErrSizeMismatch
		}
	}
	for r, row := range src {
		for c, from := range row {
			if from == nil {
				continue
			}
			slot := r*dst.columns + c
			if slot >= len(dst.cells) {
				// Short final destination row.
				return ErrSizeMismatch
			}
		}
	}
	for r, row := range src {
		for c, from := range row {
			if from == nil {
				continue
			}
			placed := card.New(from.Archetype())
			placed.Active = from.Active
			dst.set(r*dst.columns+c, placed)
		}
	}
	return nil
}

// Double appends a new active copy of every currently active card. Inactive
// cards keep their cells, so the board grows from n to n+active and existing
// positions do not move. It returns the appended cards.
func Double(b *Board) []*card.Card {
	var sources []card.Archetype
	for _, c := range b.cells {
		if c != nil && c.Active {
			sources = append(sources, c.Archetype())
		}
	}
	added := make([]*card.Card, 0, len(sources))
	for _, a := range sources {
		c := card.New(a)
		b.add(c)
		added = append(added, c)
	}
	b.TimesDoubled++
	return added
}
