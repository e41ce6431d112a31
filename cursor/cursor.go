// Package cursor adapts game engines that expose a single mutable cursor
// with step and step-back transitions into a cfr.Game.
package cursor

import (
	"github.com/pkg/errors"

	"github.com/cfrlab/go-cscfr"
)

// Environment is a mutable game engine. Step and StepBack must be exact inverses.
type Environment interface {
	// Reset reinitializes to a fresh root. The same seed reproduces
	// identical chance outcomes.
	Reset(seed int64)
	// Step advances one ply by playing the given action.
	Step(a cfr.Action) error
	// StepBack reverts the last Step.
	StepBack() error

	IsTerminal() bool
	// CurrentPlayer is undefined at terminal states.
	CurrentPlayer() int
	// LegalActions is non-empty unless the state is terminal.
	LegalActions() []cfr.Action
	// TerminalUtility returns the zero-sum payoff for player at a terminal state.
	TerminalUtility(player int) float64
	InfoSetKey() string
}

// Game implements cfr.Game on top of an Environment. Every root gets its
// own Environment, and all states below a root share it.
type Game struct {
	numPlayers int
	newEnv     func() Environment
}

var _ cfr.Game = &Game{}

// NewGame returns a Game that creates environments with newEnv.
func NewGame(numPlayers int, newEnv func() Environment) *Game {
	return &Game{
		numPlayers: numPlayers,
		newEnv:     newEnv,
	}
}

// NumPlayers implements cfr.Game.
func (g *Game) NumPlayers() int {
	return g.numPlayers
}

// NewInitialState implements cfr.Game.
func (g *Game) NewInitialState(seed int64) cfr.GameState {
	env := g.newEnv()
	env.Reset(seed)
	return &State{c: &cursor{env: env}}
}

type cursor struct {
	env   Environment
	depth int
}

// State is a handle to the position of a shared cursor. It is only valid
// while the cursor is at the depth at which the handle was created, that
// is, until a child is requested and not yet closed or the State is closed.
type State struct {
	c      *cursor
	depth  int
	closed bool
}

var _ cfr.GameState = &State{}

// Environment returns the underlying engine, positioned at this state.
func (s *State) Environment() Environment {
	s.mustBeCurrent()
	return s.c.env
}

// Depth returns the number of actions between the root and this state.
func (s *State) Depth() int {
	return s.depth
}

// IsTerminal implements cfr.GameState.
func (s *State) IsTerminal() bool {
	s.mustBeCurrent()
	return s.c.env.IsTerminal()
}

// Player implements cfr.GameState.
func (s *State) Player() int {
	s.mustBeCurrent()
	return s.c.env.CurrentPlayer()
}

// LegalActions implements cfr.GameState.
func (s *State) LegalActions() []cfr.Action {
	s.mustBeCurrent()
	return s.c.env.LegalActions()
}

// Utility implements cfr.GameState.
func (s *State) Utility(player int) float64 {
	s.mustBeCurrent()
	return s.c.env.TerminalUtility(player)
}

// InfoSetKey implements cfr.GameState.
func (s *State) InfoSetKey() string {
	s.mustBeCurrent()
	return s.c.env.InfoSetKey()
}

// Child implements cfr.GameState by stepping the cursor forward.
// The child must be closed before this State can be used again.
func (s *State) Child(a cfr.Action) (cfr.GameState, error) {
	if err := s.current(); err != nil {
		return nil, err
	}

	if err := s.c.env.Step(a); err != nil {
		return nil, errors.Wrapf(err, "step %v at depth %d", a, s.depth)
	}

	s.c.depth++
	return &State{c: s.c, depth: s.c.depth}, nil
}

// Close implements cfr.GameState by stepping the cursor back to the parent.
// Closing a root or an already closed State is a no-op.
func (s *State) Close() {
	if s.closed {
		return
	}

	if s.depth == 0 {
		s.closed = true
		return
	}

	s.mustBeCurrent()
	s.closed = true
	if err := s.c.env.StepBack(); err != nil {
		panic(errors.Wrapf(err, "step back from depth %d", s.depth))
	}

	s.c.depth--
}

func (s *State) current() error {
	if s.closed && s.depth > 0 {
		return errors.Errorf("state at depth %d is closed", s.depth)
	}

	if s.c.depth != s.depth {
		return errors.Errorf("stale state at depth %d, cursor is at depth %d", s.depth, s.c.depth)
	}

	return nil
}

func (s *State) mustBeCurrent() {
	if err := s.current(); err != nil {
		panic(err)
	}
}
