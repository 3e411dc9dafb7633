package logfx_test

import (
	"testing"

	"github.com/likvido/logfx"

	"github.com/stretchr/testify/require"
)

func TestOptions_Defaults(t *testing.T) {
	t.Parallel()

	var opts logfx.Options

	require.False(t, opts.PreserveGlobal)
	require.False(t, opts.WriteToProviders)
	require.False(t, opts.CloseOnStop)
	require.Nil(t, opts.Providers)
}

func TestPreserveGlobal(t *testing.T) {
	t.Parallel()

	var opts logfx.Options

	logfx.PreserveGlobal()(&opts)

	require.True(t, opts.PreserveGlobal)
}

func TestWriteToProviders(t *testing.T) {
	t.Parallel()

	var opts logfx.Options

	logfx.WriteToProviders()(&opts)

	require.True(t, opts.WriteToProviders)
}

func TestCloseOnStop(t *testing.T) {
	t.Parallel()

	var opts logfx.Options

	logfx.CloseOnStop()(&opts)

	require.True(t, opts.CloseOnStop)
}

func TestWithProviders(t *testing.T) {
	t.Parallel()

	providers := logfx.NewProviderCollection()

	var opts logfx.Options

	logfx.WithProviders(providers)(&opts)

	require.Same(t, providers, opts.Providers)
}
