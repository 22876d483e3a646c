// internal/match/engine.go
//
// Matching engine for a single board.
// Responsibilities:
//   - Hold the current/previous selection as board slots.
//   - Compare a selected pair and deactivate matches.
//   - Detect the end of the game (no active cards) and notify once.
//   - Double the board on request.
//
// Notes:
//   - The engine is not safe for concurrent use; callers serialize selections.
//   - Failed comparisons are expected and traced at debug level only.

package match

import (
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/card"
)

// Engine resolves selections against one board.
type Engine struct {
	board   *board.Board
	display Display
	game    GameState
	logger  zerolog.Logger

	current         int
	previous        int
	matchInProgress bool

	ended bool
	won   bool
}

// Option configures an Engine.
type Option func(*Engine)

func WithDisplay(d Display) Option       { return func(e *Engine) { e.display = d } }
func WithGameState(g GameState) Option   { return func(e *Engine) { e.game = g } }
func WithLogger(l zerolog.Logger) Option { return func(e *Engine) { e.logger = l } }

// New returns an idle engine over b.
func New(b *board.Board, opts ...Option) *Engine {
	e := &Engine{
		board:    b,
		logger:   log.Logger,
		current:  NoCard,
		previous: NoCard,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) Board() *board.Board { return e.board }

// Ended reports whether the game is over, and Won whether it was cleared by matching.
func (e *Engine) Ended() bool { return e.ended }
func (e *Engine) Won() bool   { return e.won }

// State reports the selection state between calls.
func (e *Engine) State() State {
	switch {
	case e.current != NoCard && e.previous != NoCard:
		return Evaluating
	case e.current != NoCard:
		return OneSelected
	default:
		return Idle
	}
}

// Selection returns the held slots, NoCard when empty.
func (e *Engine) Selection() (current, previous int) { return e.current, e.previous }

// Select handles one user selection. A slot that is out of range, empty or
// holds an already matched card is a non-card target and resets the selection.
func (e *Engine) Select(slot int) Result {
	if e.ended {
		return Result{Outcome: OutcomeEnded, Ended: true, Won: e.won}
	}

	c := e.board.Card(slot)
	if c == nil || !c.Active {
		e.reset()
		e.logger.Debug().Int("slot", slot).Msg("non-card selected, selection cleared")
		return Result{Outcome: OutcomeReset, Reason: NotACard}
	}

	if e.current != NoCard {
		e.previous = e.current
	}
	e.current = slot

	if e.previous == NoCard || e.matchInProgress {
		return Result{Outcome: OutcomeSelected, Slots: []int{slot}}
	}

	slots := []int{e.previous, e.current}
	ok, reason := e.Evaluate()
	if !ok {
		e.reset()
		return Result{Outcome: OutcomeMismatch, Reason: reason, Slots: slots}
	}

	e.matchInProgress = true
	e.removeMatch(slots[0], slots[1])
	return Result{Outcome: OutcomeMatched, Reason: Matched, Slots: slots, Ended: e.ended, Won: e.won}
}

// Evaluate compares the held pair. It fails closed: a missing card, the same
// slot twice, or any attribute difference is not a match.
func (e *Engine) Evaluate() (bool, Reason) {
	a, b := e.board.Card(e.previous), e.board.Card(e.current)
	reason := compare(a, b)
	if reason != Matched {
		e.logger.Debug().
			Int("previous", e.previous).
			Int("current", e.current).
			Str("reason", string(reason)).
			Msg("not a match")
		return false, reason
	}
	return true, Matched
}

func compare(a, b *card.Card) Reason {
	switch {
	case a == nil || b == nil:
		return NotACard
	case a == b || a.Slot == b.Slot:
		return SameCard
	case a.Type() != b.Type():
		return WrongType
	case a.Value() != b.Value():
		return WrongValue
	}
	return Matched
}

// removeMatch deactivates both cards, clears the selection and checks for the end.
func (e *Engine) removeMatch(prev, cur int) {
	for _, slot := range []int{prev, cur} {
		c := e.board.Card(slot)
		if c == nil || !c.Active {
			continue
		}
		c.Active = false
		if e.display != nil {
			e.display.CardDeactivated(c)
		}
	}
	e.logger.Debug().Int("previous", prev).Int("current", cur).Msg("pair removed")
	e.reset()
	e.CheckEndOfGame()
}

// CheckEndOfGame reports whether no active card remains. The first time it sees
// a cleared board it ends the game as won and notifies GameState.
func (e *Engine) CheckEndOfGame() bool {
	if !e.board.Cleared() {
		return false
	}
	e.finish(true)
	return true
}

// Abort ends the game without a win. It is a no-op once the game has ended.
func (e *Engine) Abort() {
	e.reset()
	e.finish(false)
}

func (e *Engine) finish(won bool) {
	if e.ended {
		return
	}
	e.ended, e.won = true, won
	e.logger.Debug().Bool("won", won).Msg("game ended")
	if e.game != nil {
		e.game.GameEnded(won)
	}
}

// Double grows the board by a copy of every active card and notifies the
// display. It returns nil once the game has ended.
func (e *Engine) Double() []*card.Card {
	if e.ended {
		return nil
	}
	e.reset()
	added := board.Double(e.board)
	e.logger.Debug().
		Int("added", len(added)).
		Int("timesDoubled", e.board.TimesDoubled).
		Msg("board doubled")
	if e.display != nil {
		e.display.BoardRebuilt(e.board)
	}
	return added
}

func (e *Engine) reset() {
	e.current, e.previous = NoCard, NoCard
	e.matchInProgress = false
}
