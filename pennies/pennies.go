// Package pennies implements a two-player 2x2 zero-sum matrix game, such as
// matching pennies, as an extensive-form game: player 1 chooses without
// observing player 0's choice.
package pennies

import (
	"fmt"

	"github.com/pkg/errors"

	"github.com/cfrlab/go-cscfr"
)

const (
	Heads cfr.Action = iota
	Tails
)

// Payoffs[i][j] is the payoff to player 0 when player 0 plays i and player 1 plays j.
type Payoffs [2][2]float64

// MatchingPennies is won by player 0 when both coins match.
var MatchingPennies = Payoffs{
	{1, -1},
	{-1, 1},
}

// Game implements cfr.Game. There are no chance events.
type Game struct {
	payoffs Payoffs
}

// NewGame returns a game with the given payoff matrix.
func NewGame(payoffs Payoffs) Game {
	return Game{payoffs: payoffs}
}

// NumPlayers implements cfr.Game.
func (g Game) NumPlayers() int {
	return 2
}

// NewInitialState implements cfr.Game.
func (g Game) NewInitialState(seed int64) cfr.GameState {
	return &state{payoffs: &g.payoffs}
}

type state struct {
	payoffs *Payoffs
	choices []cfr.Action
}

func (s *state) IsTerminal() bool {
	return len(s.choices) == 2
}

func (s *state) Player() int {
	return len(s.choices) % 2
}

func (s *state) LegalActions() []cfr.Action {
	if s.IsTerminal() {
		return nil
	}

	return []cfr.Action{Heads, Tails}
}

func (s *state) Child(a cfr.Action) (cfr.GameState, error) {
	if s.IsTerminal() {
		return nil, errors.New("game is over")
	}

	if a != Heads && a != Tails {
		return nil, errors.Errorf("illegal action %v", a)
	}

	choices := make([]cfr.Action, len(s.choices), len(s.choices)+1)
	copy(choices, s.choices)
	return &state{
		payoffs: s.payoffs,
		choices: append(choices, a),
	}, nil
}

func (s *state) Utility(player int) float64 {
	native := s.payoffs[s.choices[0]][s.choices[1]]
	return cfr.ZeroSumUtility(native, 0, player)
}

// InfoSetKey hides player 0's choice from player 1.
func (s *state) InfoSetKey() string {
	return fmt.Sprintf("P%d", s.Player())
}

func (s *state) Close() {}
