// Package viz provides terminal output for pendulum runs.
//
// The package contains:
//
//   - [Canvas]: Braille-based pixel canvas (2x4 dots per cell)
//   - [Player]: a Bubble Tea model that plays back a precomputed trajectory
//   - lipgloss styles shared by the CLI
//
// # Key Bindings
//
//	Space - Pause/Resume playback
//	R     - Restart from the first frame
//	←/→   - Step one frame while paused
//	+/-   - Playback speed
//	Q     - Quit
package viz
