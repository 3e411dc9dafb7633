package logfx

// Options holds the registration settings shared by the entry points.
type Options struct {
	PreserveGlobal   bool
	WriteToProviders bool
	CloseOnStop      bool
	Providers        *ProviderCollection
}

// Option defines a function type for applying registration options.
type Option func(*Options)

// PreserveGlobal keeps zap's process-wide global logger untouched. By default
// Module assigns the built logger to the globals and container teardown
// flushes and resets them to a no-op logger; with this option teardown
// flushes only the built handle.
func PreserveGlobal() Option {
	return func(opts *Options) {
		opts.PreserveGlobal = true
	}
}

// WriteToProviders wires an empty ProviderCollection into the built pipeline
// and attaches every core registered in the ProvidersGroup value group to it
// when the factory is first resolved.
func WriteToProviders() Option {
	return func(opts *Options) {
		opts.WriteToProviders = true
	}
}

// CloseOnStop makes a FromLogger registration own the handle: container
// teardown flushes the supplied logger, or flushes and resets the globals
// when the handle was nil. Without it the registration never disposes
// anything the caller built.
func CloseOnStop() Option {
	return func(opts *Options) {
		opts.CloseOnStop = true
	}
}

// WithProviders supplies an existing ProviderCollection to a FromLogger
// registration. Cores registered in the ProvidersGroup value group are added
// to it, and the factory's loggers write to it alongside the handle.
func WithProviders(providers *ProviderCollection) Option {
	return func(opts *Options) {
		opts.Providers = providers
	}
}
