// Package monitor implements a live TUI dashboard for refresh state.
//
// The dashboard shows each category's cooldown counting down, who holds
// the refresh lock, and the host health saved by the last inventory
// refresh. Selecting a category and pressing r asks for a refresh through
// the same coordinator the CLI uses, so cooldowns and the lock apply to
// the dashboard like to any other viewer.
//
// # Architecture
//
// The package uses the Bubble Tea framework (Model-Update-View):
//
//   - Model: snapshot of refresh state, selection, last notice
//   - Update: keystrokes, ticks, snapshot and refresh results
//   - View: renders the current state with internal/ui
//
// State is read through the Source interface so tests can drive the
// model without a state directory.
package monitor
