package deck

import (
	"math/rand/v2"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhysstever/CardMatchGame/internal/card"
)

func TestStandard(t *testing.T) {
	d := Standard()
	require.Len(t, d, card.ValueCount*card.TypeCount)

	assert.Equal(t, card.Archetype{Value: card.One, Type: card.Air}, d[0])
	assert.Equal(t, card.Archetype{Value: card.Ten, Type: card.Air}, d[9])
	assert.Equal(t, card.Archetype{Value: card.One, Type: card.Water}, d[10])
	assert.Equal(t, card.Archetype{Value: card.Ten, Type: card.Fire}, d[39])

	seen := map[card.Archetype]bool{}
	for _, a := range d {
		assert.False(t, seen[a], "duplicate %s", a)
		seen[a] = true
	}
}

func TestProduct(t *testing.T) {
	d, err := Product([]card.Value{card.One, card.Two}, []card.Type{card.Fire})
	require.NoError(t, err)
	assert.Equal(t, []string{"One of Fire", "Two of Fire"}, d.Strings())

	_, err = Product(nil, []card.Type{card.Fire})
	assert.ErrorIs(t, err, ErrEmpty)

	_, err = Product([]card.Value{11}, []card.Type{card.Fire})
	assert.Error(t, err)
}

func TestParse(t *testing.T) {
	d, err := Parse([]string{"Three of Fire", "1 of air", "ten OF water"})
	require.NoError(t, err)
	assert.Equal(t, Deck{
		{Value: card.Three, Type: card.Fire},
		{Value: card.One, Type: card.Air},
		{Value: card.Ten, Type: card.Water},
	}, d)

	for _, bad := range []string{"Three Fire", "Eleven of Fire", "Three of Metal", ""} {
		_, err := Parse([]string{bad})
		assert.Error(t, err, "entry %q", bad)
	}

	_, err = Parse([]string{"One of Air", "1 of Air"})
	assert.Error(t, err)
}

func TestAtWraps(t *testing.T) {
	d := Standard()
	assert.Equal(t, d[0], d.At(40))
	assert.Equal(t, d[5], d.At(85))
	assert.Equal(t, d[39], d.At(-1))
}

func TestSampleStaysInCatalog(t *testing.T) {
	d, err := Parse([]string{"One of Air", "Two of Air"})
	require.NoError(t, err)
	rng := rand.New(rand.NewPCG(1, 2))
	for i := 0; i < 100; i++ {
		a := d.Sample(rng)
		assert.Contains(t, d, a)
	}
}
