package di

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestContainerBuildsOnce(t *testing.T) {
	c := New()
	builds := 0
	c.RegisterBuilder("counter", func(*Container) (interface{}, error) {
		builds++
		return &builds, nil
	})

	first, err := c.Get("counter")
	require.NoError(t, err)
	second, err := c.Get("counter")
	require.NoError(t, err)
	assert.Same(t, first, second)
	assert.Equal(t, 1, builds)
	assert.True(t, c.Has("counter"))
	assert.False(t, c.Has("other"))
}

func TestContainerErrors(t *testing.T) {
	c := New()
	_, err := c.Get("missing")
	assert.ErrorIs(t, err, ErrServiceNotFound)

	boom := errors.New("boom")
	c.RegisterBuilder("broken", func(*Container) (interface{}, error) { return nil, boom })
	_, err = c.Get("broken")
	assert.ErrorIs(t, err, boom)

	c.RegisterBuilder("a", func(c *Container) (interface{}, error) { return c.Get("b") })
	c.RegisterBuilder("b", func(c *Container) (interface{}, error) { return c.Get("a") })
	_, err = c.Get("a")
	assert.ErrorContains(t, err, "dependency cycle")

	assert.Panics(t, func() { c.MustGet("missing") })
}

func TestResolve(t *testing.T) {
	c := New()
	c.Register("name", "marketd")
	c.RegisterBuilder("disabled", func(*Container) (interface{}, error) { return nil, nil })

	name, err := Resolve[string](c, "name")
	require.NoError(t, err)
	assert.Equal(t, "marketd", name)

	_, err = Resolve[int](c, "name")
	assert.Error(t, err)

	p, err := Resolve[*int](c, "disabled")
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestCloseRunsInReverse(t *testing.T) {
	c := New()
	var order []string
	c.OnClose("first", func() error { order = append(order, "first"); return nil })
	c.OnClose("second", func() error { order = append(order, "second"); return errors.New("stuck") })
	c.OnClose("third", func() error { order = append(order, "third"); return nil })

	err := c.Close()
	assert.ErrorContains(t, err, "close second: stuck")
	assert.Equal(t, []string{"third", "second", "first"}, order)

	// Closers run once
	require.NoError(t, c.Close())
	assert.Len(t, order, 3)
}
