// internal/game/types.go
//
// Core type definitions for a concentration game session.
// Defines:
//   - Status: coarse game state (menu/playing/paused/ended).
//   - Fill:   board population policy.
//   - Options: everything needed to deal a board.
//   - Event: notifications pushed to observers (remote displays, publishers).
//   - View: JSON snapshot of a session.

package game

import (
	"errors"
	"time"

	"github.com/rhysstever/CardMatchGame/internal/deck"
	"github.com/rhysstever/CardMatchGame/internal/layout"
	"github.com/rhysstever/CardMatchGame/internal/match"
)

var (
	ErrNotPlaying  = errors.New("game not playing")
	ErrNotPaused   = errors.New("game not paused")
	ErrEnded       = errors.New("game ended")
	ErrUnknownFill = errors.New("unknown fill mode")
)

// Status is assigned directly; there is no transition table beyond the
// guards in Pause and Resume.
type Status string

const (
	StatusMenu    Status = "menu"
	StatusPlaying Status = "playing"
	StatusPaused  Status = "paused"
	StatusEnded   Status = "ended"
)

// Fill selects how a new board is populated.
type Fill string

const (
	FillRandom     Fill = "random"     // independent uniform samples, may be unsolvable
	FillSequential Fill = "sequential" // deck order cycled from Offset
	FillPaired     Fill = "paired"     // every sampled archetype dealt twice
)

// ParseFill maps a config or request string to a Fill. Empty means random.
func ParseFill(s string) (Fill, error) {
	switch f := Fill(s); f {
	case "":
		return FillRandom, nil
	case FillRandom, FillSequential, FillPaired:
		return f, nil
	}
	return "", ErrUnknownFill
}

// Options describe the board to deal.
type Options struct {
	Rows    int
	Columns int
	Fill    Fill
	Offset  int       // sequential fill start
	Seed    uint64    // random/paired fill seed; 0 picks one
	Deck    deck.Deck // nil means deck.Standard()
	Layout  layout.Config
}

// EventType names an Event.
type EventType string

const (
	EventDeactivated EventType = "deactivated"
	EventRebuilt     EventType = "rebuilt"
	EventEnded       EventType = "ended"
)

// Event is emitted while the session lock is held; observers must not call
// back into the session.
type Event struct {
	Type   EventType `json:"type"`
	GameID string    `json:"gameId"`
	Slot   *int      `json:"slot,omitempty"`
	Handle string    `json:"handle,omitempty"`
	Cards  int       `json:"cards,omitempty"`
	Won    bool      `json:"won,omitempty"`
}

// CardView is one card as a remote display sees it.
type CardView struct {
	Slot     int          `json:"slot"`
	Row      int          `json:"row"`
	Col      int          `json:"col"`
	Label    string       `json:"label"`
	Key      string       `json:"key"`
	Handle   string       `json:"handle"`
	Active   bool         `json:"active"`
	Position layout.Point `json:"position"`
}

// View is a full snapshot of a session.
type View struct {
	ID           string       `json:"id"`
	Status       Status       `json:"status"`
	Fill         Fill         `json:"fill"`
	Rows         int          `json:"rows"`
	Columns      int          `json:"columns"`
	Cards        []CardView   `json:"cards"`
	Active       int          `json:"active"`
	Selection    []int        `json:"selection"`
	State        match.State  `json:"state"`
	Selections   int          `json:"selections"`
	Matches      int          `json:"matches"`
	Mismatches   int          `json:"mismatches"`
	TimesDoubled int          `json:"timesDoubled"`
	Finished     bool         `json:"finished"`
	Won          bool         `json:"won"`
	Frame        layout.Frame `json:"frame"`
}

// Summary is the outcome of a session, for history and stats.
type Summary struct {
	ID         string        `json:"id"`
	Fill       Fill          `json:"fill"`
	Cards      int           `json:"cards"`
	Won        bool          `json:"won"`
	Finished   bool          `json:"finished"`
	Selections int           `json:"selections"`
	Matches    int           `json:"matches"`
	Mismatches int           `json:"mismatches"`
	Elapsed    time.Duration `json:"elapsedNs"`
	StartedAt  time.Time     `json:"startedAt"`
	FinishedAt time.Time     `json:"finishedAt"`
}
