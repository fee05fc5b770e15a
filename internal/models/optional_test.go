package models

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestOptional(t *testing.T) {
	t.Run("zero value is absent", func(t *testing.T) {
		var o Optional[string]
		require.True(t, o.Absent())
		require.False(t, o.Clear())

		_, ok := o.Get()
		require.False(t, ok)
		require.Nil(t, o.Ptr())
	})

	t.Run("set carries the value", func(t *testing.T) {
		o := Set("hello")
		require.False(t, o.Absent())
		require.False(t, o.Clear())

		v, ok := o.Get()
		require.True(t, ok)
		require.Equal(t, "hello", v)

		require.NotNil(t, o.Ptr())
		require.Equal(t, "hello", *o.Ptr())
	})

	t.Run("null means clear", func(t *testing.T) {
		o := Null[string]()
		require.False(t, o.Absent())
		require.True(t, o.Clear())

		_, ok := o.Get()
		require.False(t, ok)
		require.Nil(t, o.Ptr())
	})
}
