package api

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type nopService struct{ running bool }

func (s *nopService) Start(context.Context, *Task) error {
	s.running = true
	return nil
}

func (s *nopService) Stop() error {
	s.running = false
	return nil
}

func (s *nopService) IsRunning() bool { return s.running }

func TestRegistry_Register(t *testing.T) {
	reg := NewRegistry()
	factory := func() MockService { return &nopService{} }

	require.NoError(t, reg.Register("b.Runner", factory))
	require.NoError(t, reg.Register("a.Runner", factory))

	err := reg.Register("a.Runner", factory)
	assert.ErrorIs(t, err, ErrImplementationExists)

	assert.ErrorIs(t, reg.Register("", factory), ErrEmptyName)
	assert.ErrorIs(t, reg.Register("c.Runner", nil), ErrNilFactory)

	assert.Equal(t, []string{"a.Runner", "b.Runner"}, reg.Names())
}

func TestRegistry_Lookup(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("x.Runner", func() MockService { return &nopService{} }))

	f, ok := reg.Lookup("x.Runner")
	require.True(t, ok)

	a, b := f(), f()
	assert.NotSame(t, a, b, "factory must create fresh instances")

	_, ok = reg.Lookup("missing")
	assert.False(t, ok)
}

func TestRegistry_Each(t *testing.T) {
	reg := NewRegistry()
	require.NoError(t, reg.Register("one", func() MockService { return &nopService{} }))
	require.NoError(t, reg.Register("two", func() MockService { return &nopService{} }))

	seen := map[string]bool{}
	reg.Each(func(name string, _ Factory) { seen[name] = true })
	assert.Equal(t, map[string]bool{"one": true, "two": true}, seen)
}
