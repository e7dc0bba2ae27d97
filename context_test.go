package ppm

import (
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/require"
)

func TestContextWindow(t *testing.T) {
	c := NewContext(3)
	for _, b := range []byte("abcde") {
		c.Append(b)
		require.LessOrEqual(t, c.Order(), c.MaxOrder())
	}
	require.Equal(t, "cde", c.String())
	require.Equal(t, 3, c.Order())

	b, err := c.At(0)
	require.NoError(t, err)
	require.Equal(t, byte('c'), b)
	_, err = c.At(3)
	require.Equal(t, ErrContextRange, errors.Cause(err))
	_, err = c.At(-1)
	require.Equal(t, ErrContextRange, errors.Cause(err))

	require.NoError(t, c.Drop())
	require.Equal(t, "de", c.String())
	require.Equal(t, 1, c.IndexOf('e'))
	require.Equal(t, -1, c.IndexOf('c'))

	c.Append('f')
	require.Equal(t, "def", c.String())
}

func TestContextDropEmpty(t *testing.T) {
	c := NewContext(2)
	require.Equal(t, ErrContextRange, c.Drop())

	zero := NewContext(0)
	zero.Append('x')
	require.Equal(t, 0, zero.Order())
	require.Equal(t, ErrContextRange, zero.Drop())
}

func TestContextClone(t *testing.T) {
	c := NewContext(2)
	c.Append('a')
	clone := c.Clone()
	clone.Append('b')
	require.NoError(t, clone.Drop())

	require.Equal(t, "a", c.String())
	require.Equal(t, "b", clone.String())

	c.Clear()
	require.Equal(t, 0, c.Order())
	require.Equal(t, "b", clone.String())
}

func TestExclusions(t *testing.T) {
	var e Exclusions
	e.Clear()
	require.Equal(t, 0, e.Len())

	e.Exclude('a')
	e.Exclude('a')
	e.Exclude(0xff)
	require.Equal(t, 2, e.Len())
	require.True(t, e.IsExcluded('a'))
	require.True(t, e.IsExcluded(0xff))
	require.False(t, e.IsExcluded('b'))

	e.Clear()
	require.Equal(t, 0, e.Len())
	require.False(t, e.IsExcluded('a'))
}
