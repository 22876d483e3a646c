package layout

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/deck"
)

func TestPosition(t *testing.T) {
	cfg := Config{RowGap: 0.5, ColumnGap: 0.25, CardWidth: 1, CardHeight: 2}

	assert.Equal(t, Point{X: 0.5, Y: -1}, cfg.Position(0, 0))
	assert.Equal(t, Point{X: 2.5 + 0.5, Y: -1}, cfg.Position(0, 2))
	assert.Equal(t, Point{X: 0.5, Y: -(1 + 0.5 + 1)}, cfg.Position(1, 0))
}

func TestFrame(t *testing.T) {
	cfg := Config{RowGap: 0, ColumnGap: 0, CardWidth: 1, CardHeight: 1}
	f := cfg.Frame(2, 4)
	assert.Equal(t, Point{X: 2, Y: -1}, f.Center)
	assert.Equal(t, 5.0, f.Width)
	assert.Equal(t, 3.0, f.Height)

	assert.Equal(t, Frame{}, cfg.Frame(0, 4))
}

func TestTrackerMapping(t *testing.T) {
	b, err := board.BuildSequential(2, 2, deck.Standard(), 0)
	require.NoError(t, err)

	var changes []Change
	tr := NewTracker(Default, b)
	tr.Listener = func(c Change) { changes = append(changes, c) }

	for slot := 0; slot < b.Len(); slot++ {
		h, ok := tr.Handle(slot)
		require.True(t, ok)
		back, ok := tr.Slot(h)
		require.True(t, ok)
		assert.Equal(t, slot, back)
	}
	_, ok := tr.Handle(9)
	assert.False(t, ok)
	_, ok = tr.Slot("cardOneOfAir")
	assert.False(t, ok, "handles are never inferred from labels")

	tr.CardDeactivated(b.Card(1))
	require.Len(t, changes, 1)
	assert.Equal(t, ChangeDeactivated, changes[0].Kind)
	assert.Equal(t, "cardBoard0/1", changes[0].Handle)

	board.Double(b)
	tr.BoardRebuilt(b)
	assert.Equal(t, 1, tr.Generation())
	h, ok := tr.Handle(6)
	require.True(t, ok)
	assert.Equal(t, "cardBoard1/6", h)
	_, ok = tr.Slot("cardBoard0/1")
	assert.False(t, ok, "old generation handles are dropped")
	assert.Equal(t, ChangeRebuilt, changes[1].Kind)
}
