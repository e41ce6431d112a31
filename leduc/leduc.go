// Package leduc implements Leduc Hold'em as a cursor.Environment.
//
// The deck has two suits of Jack, Queen and King. Each player antes one chip
// and receives one private card. There are two betting rounds with fixed
// raise sizes of 2 and 4 chips and at most two raises per round. One public
// card is revealed before the second round. Turns alternate strictly, also
// across rounds, so the player to act is the parity of the number of moves.
// A player who pairs the public card wins the showdown, otherwise the
// higher card wins.
package leduc

import (
	"fmt"
	"math/rand"
	"strings"

	"github.com/pkg/errors"

	"github.com/cfrlab/go-cscfr"
	"github.com/cfrlab/go-cscfr/cursor"
)

const (
	Call cfr.Action = iota
	Raise
	Fold
	Check

	numActions = 4
)

var actionStr = [...]byte{'c', 'r', 'f', 'k'}

const (
	ante           = 1
	maxRaises      = 2
	numRounds      = 2
	noPublicCard   = -1
	noFold         = -1
	roundSeparator = '/'
)

var raiseAmount = [numRounds]int{2, 4}

// Card is a card of the six card Leduc deck. Its rank is Card / 2.
type Card int

func (c Card) Rank() int {
	return int(c) / 2
}

func (c Card) String() string {
	if c == noPublicCard {
		return "-"
	}

	return [...]string{"J", "Q", "K"}[c.Rank()]
}

type position struct {
	round   int
	player  int
	raises  int
	chips   [2]int
	folded  int
	done    bool
	history string
	// Actions taken in the current round.
	roundHistory string
}

// Env is a mutable Leduc Hold'em engine. Player 0 opens the first round.
type Env struct {
	hands  [2]Card
	public Card

	pos   position
	undo  []position
	moves []cfr.Action
}

var _ cursor.Environment = &Env{}

// NewEnv returns an environment that must be Reset before use.
func NewEnv() *Env {
	return &Env{}
}

// NewGame returns Leduc Hold'em as a cfr.Game.
func NewGame() *cursor.Game {
	return cursor.NewGame(2, func() cursor.Environment { return NewEnv() })
}

// Reset implements cursor.Environment.
func (e *Env) Reset(seed int64) {
	rng := rand.New(rand.NewSource(seed))
	deck := rng.Perm(6)
	e.Deal(Card(deck[0]), Card(deck[1]), Card(deck[2]))
}

// Deal resets the environment with the given cards.
func (e *Env) Deal(p0Card, p1Card, public Card) {
	e.hands = [2]Card{p0Card, p1Card}
	e.public = public
	e.pos = position{
		chips:  [2]int{ante, ante},
		folded: noFold,
	}
	e.undo = e.undo[:0]
	e.moves = e.moves[:0]
}

// Step implements cursor.Environment.
func (e *Env) Step(a cfr.Action) error {
	if !e.isLegal(a) {
		return errors.Errorf("illegal action %v at history %q", a, e.pos.history)
	}

	e.undo = append(e.undo, e.pos)
	e.moves = append(e.moves, a)

	p := &e.pos
	opponent := 1 - p.player
	p.history += string(actionStr[a])
	p.roundHistory += string(actionStr[a])
	switch a {
	case Fold:
		p.folded = p.player
		p.done = true
		return nil
	case Raise:
		p.chips[p.player] = p.chips[opponent] + raiseAmount[p.round]
		p.raises++
	case Call:
		p.chips[p.player] = p.chips[opponent]
		e.endRound()
		return nil
	case Check:
		if len(p.roundHistory) > 1 {
			e.endRound()
			return nil
		}
	}

	p.player = opponent
	return nil
}

func (e *Env) endRound() {
	p := &e.pos
	if p.round == numRounds-1 {
		p.done = true
		return
	}

	p.round++
	p.player = 1 - p.player
	p.raises = 0
	p.roundHistory = ""
	p.history += string(roundSeparator)
}

// StepBack implements cursor.Environment.
func (e *Env) StepBack() error {
	n := len(e.undo)
	if n == 0 {
		return errors.New("no action to step back")
	}

	e.pos = e.undo[n-1]
	e.undo = e.undo[:n-1]
	e.moves = e.moves[:n-1]
	return nil
}

// IsTerminal implements cursor.Environment.
func (e *Env) IsTerminal() bool {
	return e.pos.done
}

// CurrentPlayer implements cursor.Environment.
func (e *Env) CurrentPlayer() int {
	return e.pos.player
}

// LegalActions implements cursor.Environment. Folding is always allowed,
// calling only when facing a raise and checking only when not.
func (e *Env) LegalActions() []cfr.Action {
	if e.pos.done {
		return nil
	}

	actions := make([]cfr.Action, 0, numActions)
	for a := cfr.Action(0); a < numActions; a++ {
		if e.isLegal(a) {
			actions = append(actions, a)
		}
	}

	return actions
}

func (e *Env) isLegal(a cfr.Action) bool {
	p := &e.pos
	if p.done {
		return false
	}

	facingRaise := p.chips[p.player] < p.chips[1-p.player]
	switch a {
	case Call:
		return facingRaise
	case Raise:
		return p.raises < maxRaises
	case Fold:
		return true
	case Check:
		return !facingRaise
	}

	return false
}

// TerminalUtility implements cursor.Environment. The winner takes the
// chips the loser put in the pot.
func (e *Env) TerminalUtility(player int) float64 {
	return cfr.ZeroSumUtility(e.player0Payoff(), 0, player)
}

func (e *Env) player0Payoff() float64 {
	p := &e.pos
	if p.folded != noFold {
		if p.folded == 0 {
			return -float64(p.chips[0])
		}

		return float64(p.chips[1])
	}

	switch e.compareHands() {
	case 1:
		return float64(p.chips[1])
	case -1:
		return -float64(p.chips[0])
	}

	return 0
}

// compareHands returns 1 if player 0 wins the showdown, -1 if player 1 wins
// and 0 for a split pot.
func (e *Env) compareHands() int {
	r0, r1 := e.hands[0].Rank(), e.hands[1].Rank()
	pub := e.public.Rank()
	switch {
	case r0 == pub && r1 != pub:
		return 1
	case r1 == pub && r0 != pub:
		return -1
	case r0 > r1:
		return 1
	case r1 > r0:
		return -1
	}

	return 0
}

// Moves returns the actions played since the last Reset.
func (e *Env) Moves() []cfr.Action {
	return append([]cfr.Action(nil), e.moves...)
}

// PublicCard returns the public card if it has been revealed.
func (e *Env) PublicCard() (Card, bool) {
	if e.pos.round == 0 {
		return noPublicCard, false
	}

	return e.public, true
}

// InfoSetKey implements cursor.Environment: the acting player's card, the
// public card, the betting history and the legal action mask.
func (e *Env) InfoSetKey() string {
	public, _ := e.PublicCard()
	return fmt.Sprintf("%s%s:%s|%s", e.hands[e.pos.player], public, e.pos.history, e.actionMask())
}

// ObservationKey is a coarser key built from what the acting player observes
// about the pot, discarding the order of the betting: the private and public
// cards, both players' chips and the legal action mask.
func (e *Env) ObservationKey() string {
	public, _ := e.PublicCard()
	p := e.pos.player
	return fmt.Sprintf("%s%s:%d,%d|%s", e.hands[p], public, e.pos.chips[p], e.pos.chips[1-p], e.actionMask())
}

func (e *Env) actionMask() string {
	var sb strings.Builder
	for a := cfr.Action(0); a < numActions; a++ {
		if e.isLegal(a) {
			sb.WriteByte('1')
		} else {
			sb.WriteByte('0')
		}
	}

	return sb.String()
}

// ObservationKey is a cfr.KeyFunc for Leduc states that uses Env.ObservationKey.
// States of other games keep their own key.
func ObservationKey(s cfr.GameState) string {
	if cs, ok := s.(*cursor.State); ok {
		if env, ok := cs.Environment().(*Env); ok {
			return env.ObservationKey()
		}
	}

	return s.InfoSetKey()
}
