package logfx

import (
	"sync"

	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"
)

// ProviderCollection is an ordered set of secondary log sinks. It implements
// zapcore.Core, fanning every event out to the registered cores, so it can be
// wired into a pipeline like any other core. Cores may be added while the
// pipeline is emitting; additions are visible to subsequent events.
type ProviderCollection struct {
	mu    sync.RWMutex
	cores []zapcore.Core
}

// NewProviderCollection creates an empty collection.
func NewProviderCollection() *ProviderCollection {
	return &ProviderCollection{}
}

// Add registers a secondary sink. Nil cores are ignored.
func (pc *ProviderCollection) Add(core zapcore.Core) {
	if core == nil {
		return
	}

	pc.mu.Lock()
	defer pc.mu.Unlock()

	pc.cores = append(pc.cores, core)
}

// Len returns the number of registered sinks.
func (pc *ProviderCollection) Len() int {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	return len(pc.cores)
}

// Enabled reports whether any registered sink accepts the level.
func (pc *ProviderCollection) Enabled(level zapcore.Level) bool {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	for _, core := range pc.cores {
		if core.Enabled(level) {
			return true
		}
	}

	return false
}

// With returns a core that adds the fields to every event before fanning out.
// The returned core stays live: sinks added to the collection afterwards still
// receive its events.
func (pc *ProviderCollection) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return pc
	}

	return &enrichedCollection{collection: pc, fields: fields}
}

// Check implements zapcore.Core.
func (pc *ProviderCollection) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if pc.Enabled(entry.Level) {
		return checked.AddCore(entry, pc)
	}

	return checked
}

// Write fans the event out to every sink that accepts its level. Errors from
// individual sinks are combined; one failing sink does not stop delivery to
// the others.
func (pc *ProviderCollection) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	var err error

	for _, core := range pc.cores {
		if !core.Enabled(entry.Level) {
			continue
		}

		err = multierr.Append(err, core.Write(entry, fields))
	}

	return err
}

// Sync flushes every registered sink.
func (pc *ProviderCollection) Sync() error {
	pc.mu.RLock()
	defer pc.mu.RUnlock()

	var err error

	for _, core := range pc.cores {
		err = multierr.Append(err, core.Sync())
	}

	return err
}

// enrichedCollection is a ProviderCollection view carrying accumulated With
// fields. Fields are handed to the sinks at write time, which renders the
// same output as applying them to each sink's encoder.
type enrichedCollection struct {
	collection *ProviderCollection
	fields     []zapcore.Field
}

func (ec *enrichedCollection) Enabled(level zapcore.Level) bool {
	return ec.collection.Enabled(level)
}

func (ec *enrichedCollection) With(fields []zapcore.Field) zapcore.Core {
	if len(fields) == 0 {
		return ec
	}

	combined := make([]zapcore.Field, 0, len(ec.fields)+len(fields))
	combined = append(combined, ec.fields...)
	combined = append(combined, fields...)

	return &enrichedCollection{collection: ec.collection, fields: combined}
}

func (ec *enrichedCollection) Check(entry zapcore.Entry, checked *zapcore.CheckedEntry) *zapcore.CheckedEntry {
	if ec.Enabled(entry.Level) {
		return checked.AddCore(entry, ec)
	}

	return checked
}

func (ec *enrichedCollection) Write(entry zapcore.Entry, fields []zapcore.Field) error {
	combined := make([]zapcore.Field, 0, len(ec.fields)+len(fields))
	combined = append(combined, ec.fields...)
	combined = append(combined, fields...)

	return ec.collection.Write(entry, combined)
}

func (ec *enrichedCollection) Sync() error {
	return ec.collection.Sync()
}
