// internal/match/types.go
//
// Type definitions for the matching engine.
// Defines:
//   - State:   Idle / OneSelected (Evaluating is transient inside Select).
//   - Reason:  why an evaluation did or did not produce a match.
//   - Outcome: what a single selection did.
//   - Result:  the value returned to the input collaborator.
//   - Display, GameState: collaborator interfaces notified by the engine.

package match

import (
	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/card"
)

// NoCard is the empty selection slot, and what an input collaborator passes for
// "clicked something that is not a card".
const NoCard = -1

// State is the engine's selection state.
type State string

const (
	Idle        State = "idle"
	OneSelected State = "one_selected"
	Evaluating  State = "evaluating"
)

// Reason explains an evaluation result.
type Reason string

const (
	Matched    Reason = "matched"
	NotACard   Reason = "not a card"
	SameCard   Reason = "same card"
	WrongType  Reason = "wrong type"
	WrongValue Reason = "wrong value"
)

// Outcome is what a single Select call did.
type Outcome string

const (
	OutcomeReset    Outcome = "reset"    // non-card target, selection cleared
	OutcomeSelected Outcome = "selected" // first card of a pair held
	OutcomeMatched  Outcome = "matched"  // pair removed
	OutcomeMismatch Outcome = "mismatch" // pair compared and released
	OutcomeEnded    Outcome = "ended"    // game already over, nothing done
)

// Result reports a selection back to the caller.
type Result struct {
	Outcome Outcome `json:"outcome"`
	Reason  Reason  `json:"reason,omitempty"`
	Slots   []int   `json:"slots,omitempty"` // slots involved in the comparison
	Ended   bool    `json:"ended"`
	Won     bool    `json:"won"`
}

// Display is notified after the board changes. It must not mutate the board.
type Display interface {
	CardDeactivated(c *card.Card)
	BoardRebuilt(b *board.Board)
}

// GameState receives the one-shot end-of-game notification.
type GameState interface {
	GameEnded(won bool)
}
