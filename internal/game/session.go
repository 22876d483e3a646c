// internal/game/session.go
//
// A single concentration game session.
// Responsibilities:
//   - Deal the board from Options (random / sequential / paired fill).
//   - Serialize selections: select → evaluate → react runs under one lock.
//   - Act as the Game-State collaborator (status, won flag, end time).
//   - Keep counters for scoring and history (selections, matches, mismatches).
//   - Fan display changes out to observers as Events.

package game

import (
	"fmt"
	"math/rand/v2"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/rhysstever/CardMatchGame/internal/board"
	"github.com/rhysstever/CardMatchGame/internal/deck"
	"github.com/rhysstever/CardMatchGame/internal/layout"
	"github.com/rhysstever/CardMatchGame/internal/match"
)

// Session holds the state of one game.
type Session struct {
	mu sync.Mutex

	ID         string
	Options    Options
	Status     Status
	Finished   bool
	Won        bool
	Selections int
	Matches    int
	Mismatches int
	StartedAt  time.Time
	FinishedAt time.Time

	board   *board.Board
	engine  *match.Engine
	tracker *layout.Tracker
	logger  zerolog.Logger

	nextObserver int
	observers    map[int]func(Event)
}

// New deals a board and returns a playing session.
func New(opts Options) (*Session, error) {
	if opts.Deck == nil {
		opts.Deck = deck.Standard()
	}
	if opts.Layout == (layout.Config{}) {
		opts.Layout = layout.Default
	}
	fill, err := ParseFill(string(opts.Fill))
	if err != nil {
		return nil, err
	}
	opts.Fill = fill
	if opts.Seed == 0 {
		opts.Seed = rand.Uint64() | 1
	}

	b, err := deal(opts)
	if err != nil {
		log.Error().Err(err).
			Int("rows", opts.Rows).
			Int("columns", opts.Columns).
			Str("fill", string(opts.Fill)).
			Msg("deal board")
		return nil, fmt.Errorf("deal board: %w", err)
	}

	s := &Session{
		ID:        uuid.NewString(),
		Options:   opts,
		Status:    StatusPlaying,
		StartedAt: time.Now().UTC(),
		board:     b,
		observers: make(map[int]func(Event)),
	}
	s.logger = log.With().Str("gameId", s.ID).Logger()
	s.tracker = layout.NewTracker(opts.Layout, b)
	s.tracker.Listener = s.onDisplayChange
	s.engine = match.New(b,
		match.WithDisplay(s.tracker),
		match.WithGameState(s),
		match.WithLogger(s.logger),
	)
	return s, nil
}

func deal(opts Options) (*board.Board, error) {
	rng := rand.New(rand.NewPCG(opts.Seed, opts.Seed>>1^0x9e3779b97f4a7c15))
	switch opts.Fill {
	case FillSequential:
		return board.BuildSequential(opts.Rows, opts.Columns, opts.Deck, opts.Offset)
	case FillPaired:
		return board.BuildPaired(opts.Rows, opts.Columns, opts.Deck, rng)
	default:
		return board.BuildRandom(opts.Rows, opts.Columns, opts.Deck, rng)
	}
}

// Select resolves one selection. slot is match.NoCard (or any slot that does
// not hold an active card) for a click on something that is not a card.
func (s *Session) Select(slot int) (match.Result, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	switch s.Status {
	case StatusEnded:
		return match.Result{Outcome: match.OutcomeEnded, Ended: true, Won: s.Won}, ErrEnded
	case StatusPlaying:
	default:
		return match.Result{}, ErrNotPlaying
	}

	res := s.engine.Select(slot)
	switch res.Outcome {
	case match.OutcomeSelected:
		s.Selections++
	case match.OutcomeMatched:
		s.Selections++
		s.Matches++
	case match.OutcomeMismatch:
		s.Selections++
		s.Mismatches++
	}
	return res, nil
}

// Double grows the board by a copy of each active card.
func (s *Session) Double() (int, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusPlaying {
		if s.Status == StatusEnded {
			return 0, ErrEnded
		}
		return 0, ErrNotPlaying
	}
	return len(s.engine.Double()), nil
}

// Pause stops accepting selections.
func (s *Session) Pause() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusPlaying {
		return ErrNotPlaying
	}
	s.Status = StatusPaused
	return nil
}

// Resume continues a paused game.
func (s *Session) Resume() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status != StatusPaused {
		return ErrNotPaused
	}
	s.Status = StatusPlaying
	return nil
}

// Abort ends the game as lost.
func (s *Session) Abort() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.Status == StatusEnded {
		return ErrEnded
	}
	s.engine.Abort()
	return nil
}

// GameEnded implements match.GameState. The engine calls it with the session
// lock held.
func (s *Session) GameEnded(won bool) {
	s.Status = StatusEnded
	s.Finished, s.Won = true, won
	s.FinishedAt = time.Now().UTC()
	s.logger.Info().Bool("won", won).Int("selections", s.Selections).Msg("game ended")
	s.emit(Event{Type: EventEnded, Won: won})
}

// Observe registers fn for every future Event and returns a function that
// removes it.
func (s *Session) Observe(fn func(Event)) (cancel func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := s.nextObserver
	s.nextObserver++
	s.observers[id] = fn
	return func() {
		s.mu.Lock()
		defer s.mu.Unlock()
		delete(s.observers, id)
	}
}

func (s *Session) onDisplayChange(ch layout.Change) {
	switch ch.Kind {
	case layout.ChangeDeactivated:
		slot := ch.Slot
		s.emit(Event{Type: EventDeactivated, Slot: &slot, Handle: ch.Handle})
	case layout.ChangeRebuilt:
		s.emit(Event{Type: EventRebuilt, Cards: ch.Board.Len()})
	}
}

func (s *Session) emit(ev Event) {
	ev.GameID = s.ID
	for _, fn := range s.observers {
		fn(ev)
	}
}

// Snapshot returns the session as a View.
func (s *Session) Snapshot() View {
	s.mu.Lock()
	defer s.mu.Unlock()

	v := View{
		ID:           s.ID,
		Status:       s.Status,
		Fill:         s.Options.Fill,
		Rows:         s.board.Rows(),
		Columns:      s.board.Columns(),
		Cards:        make([]CardView, 0, s.board.Len()),
		Active:       s.board.ActiveCount(),
		Selection:    []int{},
		State:        s.engine.State(),
		Selections:   s.Selections,
		Matches:      s.Matches,
		Mismatches:   s.Mismatches,
		TimesDoubled: s.board.TimesDoubled,
		Finished:     s.Finished,
		Won:          s.Won,
		Frame:        s.Options.Layout.Frame(s.board.Rows(), s.board.Columns()),
	}
	if cur, _ := s.engine.Selection(); cur != match.NoCard {
		v.Selection = append(v.Selection, cur)
	}
	for _, c := range s.board.Cards() {
		if c == nil {
			continue
		}
		h, _ := s.tracker.Handle(c.Slot)
		v.Cards = append(v.Cards, CardView{
			Slot:     c.Slot,
			Row:      c.Row,
			Col:      c.Col,
			Label:    c.String(),
			Key:      c.Key(),
			Handle:   h,
			Active:   c.Active,
			Position: s.Options.Layout.Position(c.Row, c.Col),
		})
	}
	return v
}

// Summary reports the session's outcome counters.
func (s *Session) Summary() Summary {
	s.mu.Lock()
	defer s.mu.Unlock()
	sum := Summary{
		ID:         s.ID,
		Fill:       s.Options.Fill,
		Cards:      s.board.Len(),
		Won:        s.Won,
		Finished:   s.Finished,
		Selections: s.Selections,
		Matches:    s.Matches,
		Mismatches: s.Mismatches,
		StartedAt:  s.StartedAt,
		FinishedAt: s.FinishedAt,
	}
	if s.Finished {
		sum.Elapsed = s.FinishedAt.Sub(s.StartedAt)
	} else {
		sum.Elapsed = time.Since(s.StartedAt)
	}
	return sum
}
