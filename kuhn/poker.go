// Package kuhn implements Kuhn Poker as a cfr.Game,
// adapted from: https://justinsermeno.com/posts/cfr/.
package kuhn

import (
	"fmt"
	"math/rand"

	"github.com/pkg/errors"

	"github.com/cfrlab/go-cscfr"
)

const (
	player0 = 0
	player1 = 1
)

const (
	Check cfr.Action = iota
	Bet
)

var actionStr = [...]byte{'c', 'b'}

type Card int

const (
	Jack Card = iota
	Queen
	King
)

var cardStr = [...]string{
	"J",
	"Q",
	"K",
}

func (c Card) String() string {
	return cardStr[c]
}

// Game implements cfr.Game for Kuhn Poker. Each root is dealt from
// a three card deck shuffled with the given seed.
type Game struct{}

// NewGame returns a Kuhn Poker game.
func NewGame() Game {
	return Game{}
}

// NumPlayers implements cfr.Game.
func (Game) NumPlayers() int {
	return 2
}

// NewInitialState implements cfr.Game.
func (Game) NewInitialState(seed int64) cfr.GameState {
	rng := rand.New(rand.NewSource(seed))
	deck := rng.Perm(len(cardStr))
	return NewDeal(Card(deck[0]), Card(deck[1]))
}

// Deals returns the roots of all six possible deals.
func Deals() []*PokerNode {
	var result []*PokerNode
	for _, p0Card := range []Card{Jack, Queen, King} {
		for _, p1Card := range []Card{Jack, Queen, King} {
			if p0Card != p1Card {
				result = append(result, NewDeal(p0Card, p1Card))
			}
		}
	}

	return result
}

// PokerNode implements cfr.GameState for Kuhn Poker.
// PokerNodes are immutable.
type PokerNode struct {
	history string

	// Private card held by either player.
	p0Card, p1Card Card
}

// NewDeal returns the root of the game with the given private cards.
func NewDeal(p0Card, p1Card Card) *PokerNode {
	return &PokerNode{p0Card: p0Card, p1Card: p1Card}
}

// String implements fmt.Stringer.
func (k *PokerNode) String() string {
	return fmt.Sprintf("Player %v's turn. History: %5s [Cards: P0 - %s, P1 - %s]",
		k.Player(), k.history, k.p0Card, k.p1Card)
}

// IsTerminal implements cfr.GameState.
func (k *PokerNode) IsTerminal() bool {
	return (k.history == "cc" || k.history == "cbc" ||
		k.history == "cbb" || k.history == "bc" || k.history == "bb")
}

// Player implements cfr.GameState.
//
// By convention, terminal nodes are labeled with the player whose
// turn it would be (i.e. not the last acting player).
func (k *PokerNode) Player() int {
	return len(k.history) % 2
}

// LegalActions implements cfr.GameState.
func (k *PokerNode) LegalActions() []cfr.Action {
	if k.IsTerminal() {
		return nil
	}

	return []cfr.Action{Check, Bet}
}

// Child implements cfr.GameState.
func (k *PokerNode) Child(a cfr.Action) (cfr.GameState, error) {
	if k.IsTerminal() {
		return nil, errors.Errorf("no actions at terminal history %q", k.history)
	}

	if a != Check && a != Bet {
		return nil, errors.Errorf("illegal action %v", a)
	}

	child := *k
	child.history += string(actionStr[a])
	return &child, nil
}

// Close implements cfr.GameState.
func (k *PokerNode) Close() {}

// Utility implements cfr.GameState.
func (k *PokerNode) Utility(player int) float64 {
	return cfr.ZeroSumUtility(k.nativeUtility(), k.Player(), player)
}

// nativeUtility is the payoff of the player labeling this terminal node.
func (k *PokerNode) nativeUtility() float64 {
	cardPlayer := k.playerCard(k.Player())
	cardOpponent := k.playerCard(1 - k.Player())

	if k.history == "cbc" || k.history == "bc" {
		// Last player folded. The current player wins.
		return 1.0
	} else if k.history == "cc" {
		// Showdown with no bets.
		if cardPlayer > cardOpponent {
			return 1.0
		}

		return -1.0
	}

	// Showdown with 1 bet.
	if k.history != "cbb" && k.history != "bb" {
		panic("unexpected history: " + k.history)
	}

	if cardPlayer > cardOpponent {
		return 2.0
	}

	return -2.0
}

// InfoSetKey implements cfr.GameState.
func (k *PokerNode) InfoSetKey() string {
	return k.playerCard(k.Player()).String() + "-" + k.history
}

func (k *PokerNode) playerCard(player int) Card {
	if player == player0 {
		return k.p0Card
	}

	return k.p1Card
}
