package options

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	value   int
	name    string
	enabled bool
}

func TestNew(t *testing.T) {
	t.Run("applies the function", func(t *testing.T) {
		cfg := &testConfig{}
		opt := New(func(c *testConfig) error {
			c.value = 42
			return nil
		})

		require.NoError(t, opt(cfg))
		require.Equal(t, 42, cfg.value)
	})

	t.Run("propagates errors", func(t *testing.T) {
		cfg := &testConfig{}
		wantErr := errors.New("bad value")
		opt := New(func(c *testConfig) error {
			return wantErr
		})

		require.ErrorIs(t, opt(cfg), wantErr)
	})
}

func TestNoError(t *testing.T) {
	cfg := &testConfig{}
	opt := NoError(func(c *testConfig) {
		c.enabled = true
	})

	require.NoError(t, opt(cfg))
	require.True(t, cfg.enabled)
}

func TestApply(t *testing.T) {
	t.Run("applies options in order", func(t *testing.T) {
		cfg := &testConfig{}
		err := Apply(cfg,
			NoError(func(c *testConfig) { c.name = "first" }),
			NoError(func(c *testConfig) { c.name = "second" }),
			NoError(func(c *testConfig) { c.value = 7 }),
		)

		require.NoError(t, err)
		require.Equal(t, "second", cfg.name)
		require.Equal(t, 7, cfg.value)
	})

	t.Run("stops at the first error", func(t *testing.T) {
		cfg := &testConfig{}
		wantErr := errors.New("boom")
		err := Apply(cfg,
			NoError(func(c *testConfig) { c.value = 1 }),
			New(func(c *testConfig) error { return wantErr }),
			NoError(func(c *testConfig) { c.value = 2 }),
		)

		require.ErrorIs(t, err, wantErr)
		require.Equal(t, 1, cfg.value, "options after the failing one must not run")
	})

	t.Run("no options is a no-op", func(t *testing.T) {
		cfg := &testConfig{value: 9}
		require.NoError(t, Apply(cfg))
		require.Equal(t, 9, cfg.value)
	})
}
