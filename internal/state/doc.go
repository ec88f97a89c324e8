// Package state is the application's unidirectional data flow: a single
// AppState tree, a closed set of Actions, and Reduce, which applies an
// action and returns the effect (a tea.Cmd) to run next.
//
// Effects execute against the clients in Environment and report back with
// another Action, so every state change goes through Reduce on one
// goroutine. Fire-and-forget effects report nothing.
//
// Home lists carry a generation counter. Each fetch bumps it, and results
// issued under an older generation are dropped instead of overwriting
// newer data.
package state
