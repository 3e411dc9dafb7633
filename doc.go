// Package logfx registers a zap-backed logging factory in an Fx dependency
// injection container.
//
// Three entry points are provided, differing in how much control the caller
// keeps over logger construction and disposal:
//
//   - Module registers a factory built lazily from an Fx constructor that
//     returns a *Builder. The constructor's parameters are resolved from the
//     container, so logger configuration can read application config or any
//     other registered service.
//   - Configure is the same contract for callers that need no resolved
//     services: it takes a plain callback receiving the *Builder.
//   - FromLogger registers a factory over an already-built *zap.Logger, or
//     over zap's process-wide global logger when the handle is nil.
//
// The factory produced by all three converts the standard library's log/slog
// abstraction into zap events, so application code injects a *slog.Logger
// (or the forwarding *zap.Logger) and stays decoupled from the backend.
//
// Exactly one party owns disposal of the constructed pipeline. Unless
// PreserveGlobal is given, Module assigns the built logger to zap's globals
// and container teardown flushes the slot and resets it to a no-op logger;
// with PreserveGlobal, teardown flushes only the built handle and the globals
// are never touched.
//
// Construction is lazy and happens at most once per container build; that
// guarantee is Fx's documented constructor contract, and logfx adds no
// serialization of its own.
package logfx
