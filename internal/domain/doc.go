// Package domain contains the core domain entities and value objects for arscan.
//
// This package represents the innermost layer of the Clean Architecture. It has
// no dependencies on infrastructure concerns (camera runtimes, file system,
// logging) and contains only pure data and invariants.
//
// # Entities
//
//   - [RawFrame]: A borrowed, row-strided single-channel camera frame
//   - [PackedBuffer]: An owned pixel buffer with no per-row padding
//   - [PackedFrame]: The read-only view handed to consumers for one tick
//   - [DisplayUvTransform]: Four UV corners mapping the frame onto the display
//   - [SessionState]: The upstream session status signal
//   - [DispatchStats]: Counters describing pipeline activity
//
// # Design Principles
//
// Domain entities are:
//   - Free of infrastructure dependencies
//   - Focused on frame geometry and pipeline invariants
//   - Testable without mocks or external systems
package domain
