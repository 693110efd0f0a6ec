// Package errors defines the code-tagged error taxonomy of the dungeon engine.
//
// Every failure that crosses a package boundary carries one of a small set of
// codes so callers can branch on the kind of failure without string matching:
//
//	err := level.Build(spec)
//	if errors.IsMalformedLevel(err) {
//		// refuse to start the game
//	}
//
// MalformedLevel is fatal to game start. InvalidAction, Protocol,
// Registration and Disconnect are recoverable: the engine rejects the single
// offending request and keeps the game running.
package errors
