// Package tree implements helpers for exhaustively visiting a game tree.
package tree

import (
	"github.com/cfrlab/go-cscfr"
)

// Visit calls visitor on every node of the tree rooted at root, in
// depth-first order. Child handles are closed once their subtree is done.
func Visit(root cfr.GameState, visitor func(node cfr.GameState)) {
	visitor(root)
	if root.IsTerminal() {
		return
	}

	for _, a := range root.LegalActions() {
		child, err := root.Child(a)
		if err != nil {
			panic(err)
		}

		Visit(child, visitor)
		child.Close()
	}
}

// VisitInfoSets calls visitor once for each distinct information set in the tree.
func VisitInfoSets(root cfr.GameState, visitor func(player int, infoSet string)) {
	seen := make(map[string]struct{})
	Visit(root, func(node cfr.GameState) {
		if node.IsTerminal() {
			return
		}

		infoSet := node.InfoSetKey()
		if _, ok := seen[infoSet]; ok {
			return
		}

		visitor(node.Player(), infoSet)
		seen[infoSet] = struct{}{}
	})
}

func CountTerminalNodes(root cfr.GameState) int {
	total := 0
	Visit(root, func(node cfr.GameState) {
		if node.IsTerminal() {
			total++
		}
	})

	return total
}

func CountNodes(root cfr.GameState) int {
	total := 0
	Visit(root, func(node cfr.GameState) { total++ })
	return total
}

func CountInfoSets(root cfr.GameState) int {
	total := 0
	VisitInfoSets(root, func(player int, infoSet string) { total++ })
	return total
}
