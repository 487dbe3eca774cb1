// Package viz renders a running star system in the terminal.
//
// The package implements an interactive TUI using the Bubble Tea framework:
//
//   - [Model]: live view of one scene, centred on the focused body
//   - [Canvas]: Braille-based pixel canvas with per-cell colour
//   - [Camera]: top-down projection of the orbital plane with tilt and yaw
//   - Scene picker via [RunInteractive]
//
// Stars are tinted by emissive intensity and planets by equilibrium
// temperature. Theme selection cycles through three built-in schemes.
//
// # Key Bindings
//
//	Space - Pause/Resume simulation
//	R     - Reset to initial state
//	V     - Reverse time
//	Tab   - Focus next body
//	A/C   - Add random planet / next catalog body
//	+/-   - Zoom
//	?     - Show help overlay
package viz
