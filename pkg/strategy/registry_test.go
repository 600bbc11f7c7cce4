package strategy

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInitializeIsIdempotent(t *testing.T) {
	r1 := Initialize("eurora")
	r2 := Initialize("eurora")
	assert.Same(t, r1, r2)
}

func TestSelectStrategyPrefersNoStrategyForHostProcess(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory(newNoStrategyFactory("eurora"))
	r.RegisterFactory(newBrowserStrategyFactory())
	r.RegisterFactory(newDefaultStrategyFactory())

	f, err := r.SelectStrategy(ProcessContext{ProcessName: "eurora"})
	require.NoError(t, err)
	assert.Equal(t, "none", f.Name())
}

func TestSelectStrategyPrefersBrowserOverDefault(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory(newNoStrategyFactory("eurora"))
	r.RegisterFactory(newBrowserStrategyFactory())
	r.RegisterFactory(newDefaultStrategyFactory())

	f, err := r.SelectStrategy(ProcessContext{ProcessName: "firefox"})
	require.NoError(t, err)
	assert.Equal(t, "browser", f.Name())
}

func TestSelectStrategyFallsBackToDefault(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory(newNoStrategyFactory("eurora"))
	r.RegisterFactory(newBrowserStrategyFactory())
	r.RegisterFactory(newDefaultStrategyFactory())

	f, err := r.SelectStrategy(ProcessContext{ProcessName: "vscode"})
	require.NoError(t, err)
	assert.Equal(t, "default", f.Name())
}

func TestSelectStrategyNoFactoriesRegistered(t *testing.T) {
	r := NewRegistry()
	_, err := r.SelectStrategy(ProcessContext{ProcessName: "anything"})
	assert.ErrorIs(t, err, ErrNoStrategy)
}

func TestFactoriesOrderedByPriorityDescending(t *testing.T) {
	r := NewRegistry()
	r.RegisterFactory(newDefaultStrategyFactory())
	r.RegisterFactory(newNoStrategyFactory("eurora"))
	r.RegisterFactory(newBrowserStrategyFactory())

	names := make([]string, 0, 3)
	for _, f := range r.Factories() {
		names = append(names, f.Name())
	}
	assert.Equal(t, []string{"none", "browser", "default"}, names)
}
