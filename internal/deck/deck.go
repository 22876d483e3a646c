// internal/deck/deck.go
//
// Deck catalog management for board population.
//
// Responsibilities:
//   - Provide the standard catalog (10 values × 4 types = 40 archetypes).
//   - Build custom catalogs from value/type lists or explicit "<value> of <type>" entries.
//   - Supply Sample (uniform random draw) and At (cyclic indexed draw).
//
// Ordering:
//   Catalogs are type-major: every value of the first type, then the next type.
//   Sequential fills depend on this order being stable.

package deck

import (
	"errors"
	"fmt"
	"math/rand/v2"
	"strings"

	"github.com/rhysstever/CardMatchGame/internal/card"
)

// ErrEmpty is returned when a catalog would contain no archetypes.
var ErrEmpty = errors.New("deck: empty")

// Deck is an ordered catalog of distinct card archetypes.
type Deck []card.Archetype

// Standard returns the full 40-archetype catalog.
func Standard() Deck {
	d, _ := Product(allValues(), allTypes())
	return d
}

// Product builds the type-major cross product of values and types.
func Product(values []card.Value, types []card.Type) (Deck, error) {
	d := make(Deck, 0, len(values)*len(types))
	seen := make(map[card.Archetype]struct{}, cap(d))
	for _, t := range types {
		for _, v := range values {
			a := card.Archetype{Value: v, Type: t}
			if !a.Valid() {
				return nil, fmt.Errorf("deck: invalid archetype %d/%d", v, t)
			}
			if _, dup := seen[a]; dup {
				continue
			}
			seen[a] = struct{}{}
			d = append(d, a)
		}
	}
	if len(d) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// Parse builds a catalog from entries like "Three of Fire" or "3 of fire".
// Entry order is kept; duplicates are rejected.
func Parse(entries []string) (Deck, error) {
	d := make(Deck, 0, len(entries))
	seen := make(map[card.Archetype]struct{}, len(entries))
	for _, e := range entries {
		a, err := ParseEntry(e)
		if err != nil {
			return nil, err
		}
		if _, dup := seen[a]; dup {
			return nil, fmt.Errorf("deck: duplicate entry %q", e)
		}
		seen[a] = struct{}{}
		d = append(d, a)
	}
	if len(d) == 0 {
		return nil, ErrEmpty
	}
	return d, nil
}

// ParseEntry parses a single "<value> of <type>" entry.
func ParseEntry(s string) (card.Archetype, error) {
	parts := strings.Fields(s)
	if len(parts) != 3 || !strings.EqualFold(parts[1], "of") {
		return card.Archetype{}, fmt.Errorf("deck: malformed entry %q", s)
	}
	v, ok := card.ParseValue(parts[0])
	if !ok {
		return card.Archetype{}, fmt.Errorf("deck: unknown value in %q", s)
	}
	t, ok := card.ParseType(parts[2])
	if !ok {
		return card.Archetype{}, fmt.Errorf("deck: unknown type in %q", s)
	}
	return card.Archetype{Value: v, Type: t}, nil
}

// Sample draws one archetype uniformly at random.
func (d Deck) Sample(rng *rand.Rand) card.Archetype {
	return d[rng.IntN(len(d))]
}

// At returns the archetype at i, wrapping around the catalog in both directions.
func (d Deck) At(i int) card.Archetype {
	n := len(d)
	return d[((i%n)+n)%n]
}

// Strings renders the catalog as "<value> of <type>" entries.
func (d Deck) Strings() []string {
	out := make([]string, len(d))
	for i, a := range d {
		out[i] = a.String()
	}
	return out
}

func allValues() []card.Value {
	out := make([]card.Value, 0, card.ValueCount)
	for v := card.One; v <= card.Ten; v++ {
		out = append(out, v)
	}
	return out
}

func allTypes() []card.Type {
	return []card.Type{card.Air, card.Water, card.Earth, card.Fire}
}
