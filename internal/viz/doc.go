// Package viz renders a running sim.World in the terminal.
//
// The live view is a Bubble Tea program:
//
//   - [Model]: steps the world once per frame and draws it
//   - [Canvas]: braille dot grid with per-cell color
//   - [Projection]: world coordinates to canvas dots and back
//   - [Picker]: scenario menu shown when none is given
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	N     - Advance one frame while paused
//	R     - Reset to initial state
//	C     - Clear trails
//	S     - Spawn a disc at a random point
//	Click - Spawn a disc under the pointer
//	+/-   - Change time scale
//	T     - Cycle color themes
//	?     - Show help
package viz
