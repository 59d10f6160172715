// Package control decides which navigation commands reach the engine on
// each frame.
//
// Pilots implement [Pilot]:
//
//   - [None]: never navigates (fixed viewport, used by benchmarks)
//   - [Toggle]: zoom and move toggles plus one-shot pixel nudges, driven by
//     keyboard input in the terminal host
//
// # Usage
//
//	pilot := control.NewToggle(nav.OffsetStep)
//	pilot.SetZoom(true)
//	for _, cmd := range pilot.Commands(frame) {
//		eng.Navigate(cmd)
//	}
package control
