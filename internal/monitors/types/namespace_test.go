package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestNamespaceOrdering(t *testing.T) {
	ns := NewNamespace()
	ns.Set("Process_num", 1)
	ns.Set("front.srv1.scur", 3)
	ns.Set("Idle_pct", 93)

	t.Run("keys keep insertion order", func(t *testing.T) {
		require.Equal(t, []string{"Process_num", "front.srv1.scur", "Idle_pct"}, ns.Keys())
	})

	t.Run("overwrite keeps position", func(t *testing.T) {
		ns.Set("front.srv1.scur", 7)
		require.Equal(t, []string{"Process_num", "front.srv1.scur", "Idle_pct"}, ns.Keys())
		v, ok := ns.Get("front.srv1.scur")
		require.True(t, ok)
		require.Equal(t, 7.0, v)
		require.Equal(t, 3, ns.Len())
	})
}

func TestNamespaceWithout(t *testing.T) {
	ns := NewNamespace()
	ns.Set("Process_num", 2)
	ns.Set("Idle_pct", 50)

	view := ns.Without("Process_num")

	require.Equal(t, []string{"Idle_pct"}, view.Keys())
	_, ok := ns.Get("Process_num")
	require.True(t, ok, "original namespace must not be modified")
	require.Equal(t, map[string]float64{"Process_num": 2, "Idle_pct": 50}, ns.ToMap())
}
