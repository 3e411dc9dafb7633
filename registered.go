package logfx

import "go.uber.org/zap"

// RegisteredLogger is the container-visible holder of the canonical logger
// built by Module. It deliberately has no Close or Sync method: the inner
// handle can only be disposed through the Factory's teardown path, so no
// second owner can appear no matter how many places resolve the wrapper.
type RegisteredLogger struct {
	logger *zap.Logger
}

// NewRegisteredLogger wraps an already-built logger. The logger must not be
// nil; Module only constructs wrappers from successful builds.
func NewRegisteredLogger(logger *zap.Logger) *RegisteredLogger {
	return &RegisteredLogger{logger: logger}
}

// Logger returns the canonical handle.
func (r *RegisteredLogger) Logger() *zap.Logger {
	return r.logger
}

// Forwarding returns a logger for application injection: a distinct instance
// that shares the canonical handle's pipeline. The zap.Skip field carries no
// data but forces With to clone, so handing the result out never exposes the
// canonical handle itself.
func (r *RegisteredLogger) Forwarding() *zap.Logger {
	return r.logger.With(zap.Skip())
}
