// Package ports defines the interfaces (ports) that connect the application
// layer to infrastructure adapters.
//
// In Clean Architecture / Hexagonal Architecture, ports are the boundaries
// between the application core and the outside world. They define what the
// pipeline needs from the AR runtime and the host without specifying how those
// needs are fulfilled.
//
// # Port Interfaces
//
//   - [FrameSource]: Hands out one scoped camera frame per tick
//   - [StatusSource]: Reports the AR session status
//   - [Display]: Reports orientation, screen size and image-to-display UVs
//   - [FrameConsumer]: Receives the packed frame each tick
//   - [Notifier]: Shows a user-visible message and terminates the application
//   - [StatsRepository]: Persists pipeline counters
//
// # Usage
//
// The application layer (internal/app) depends only on these interfaces.
// Infrastructure adapters (internal/adapters) implement them with recordings,
// status files, overlay rendering, barcode decoding and so on.
package ports
