package layout

import (
	"fmt"

	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/card"
)

// ChangeKind names a display change.
type ChangeKind string

const (
	ChangeDeactivated ChangeKind = "deactivated"
	ChangeRebuilt     ChangeKind = "rebuilt"
)

// Change is forwarded to the tracker's listener after the board changes.
type Change struct {
	Kind   ChangeKind
	Slot   int
	Handle string
	Board  *board.Board
}

// Tracker is the display collaborator of a match engine. It keeps an explicit
// slot ↔ handle mapping for the current generation of visuals; a rebuild starts a
// new generation ("cardBoard<n>") with fresh handles.
type Tracker struct {
	Config   Config
	Listener func(Change)

	generation int
	handles    []string
	slots      map[string]int
}

// NewTracker maps every cell of b in generation zero.
func NewTracker(cfg Config, b *board.Board) *Tracker {
	t := &Tracker{Config: cfg}
	t.remap(b)
	return t
}

// Handle returns the display handle of slot.
func (t *Tracker) Handle(slot int) (string, bool) {
	if slot < 0 || slot >= len(t.handles) || t.handles[slot] == "" {
		return "", false
	}
	return t.handles[slot], true
}

// Slot resolves a display handle back to its board slot.
func (t *Tracker) Slot(handle string) (int, bool) {
	s, ok := t.slots[handle]
	return s, ok
}

// Generation is the number of rebuilds seen.
func (t *Tracker) Generation() int { return t.generation }

// CardDeactivated implements match.Display.
func (t *Tracker) CardDeactivated(c *card.Card) {
	h, _ := t.Handle(c.Slot)
	t.emit(Change{Kind: ChangeDeactivated, Slot: c.Slot, Handle: h})
}

// BoardRebuilt implements match.Display.
func (t *Tracker) BoardRebuilt(b *board.Board) {
	t.generation++
	t.remap(b)
	t.emit(Change{Kind: ChangeRebuilt, Slot: -1, Board: b})
}

func (t *Tracker) remap(b *board.Board) {
	t.handles = make([]string, b.Len())
	t.slots = make(map[string]int, b.Len())
	for slot, c := range b.Cards() {
		if c == nil {
			continue
		}
		h := fmt.Sprintf("cardBoard%d/%d", t.generation, slot)
		t.handles[slot] = h
		t.slots[h] = slot
	}
}

func (t *Tracker) emit(ch Change) {
	if t.Listener != nil {
		t.Listener(ch)
	}
}
