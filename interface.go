package cfr

// Action identifies a move available at a decision node.
type Action int

// GameState is a handle to a node in an extensive-form game tree.
//
// Chance outcomes are resolved by the game itself when the root is created
// (see Game.NewInitialState), so the tree as seen through a GameState only
// contains decision and terminal nodes.
type GameState interface {
	// IsTerminal returns true iff no further actions are legal.
	IsTerminal() bool
	// Player returns the player to act. It is undefined at terminal states.
	Player() int
	// LegalActions returns the ordered actions available to the acting player.
	// It must be non-empty unless the state is terminal.
	LegalActions() []Action
	// Child returns the state reached by playing the given action.
	// The returned handle must be released with Close once the caller
	// is done with it, before another child of this state is requested.
	Child(a Action) (GameState, error)
	// Utility returns the zero-sum payoff for the given player.
	// It may only be called on terminal states.
	Utility(player int) float64
	// InfoSetKey identifies the information set of the acting player.
	//
	// It may be an arbitrary string of bytes and does not need to be
	// human-readable, but it must coincide for, and only for, states that
	// the acting player cannot distinguish.
	InfoSetKey() string
	// Close releases the handle. States backed by a mutable engine
	// revert the transition that produced them.
	Close()
}

// Game creates root states for a two-player zero-sum game.
type Game interface {
	NumPlayers() int
	// NewInitialState returns a fresh root. Chance outcomes are drawn from
	// the given seed: the same seed reproduces the same deal.
	NewInitialState(seed int64) GameState
}

// KeyFunc maps a state to the key of its information set. It may implement a
// coarser abstraction than GameState.InfoSetKey, as long as the legal actions
// of all states sharing a key are the same.
type KeyFunc func(GameState) string

// DefaultKey is the KeyFunc that uses the game's own information set key.
func DefaultKey(s GameState) string {
	return s.InfoSetKey()
}

// ZeroSumUtility converts a payoff reported for nativePlayer into the payoff
// for player in a two-player zero-sum game.
func ZeroSumUtility(native float64, nativePlayer, player int) float64 {
	if player == nativePlayer {
		return native
	}

	return -native
}
