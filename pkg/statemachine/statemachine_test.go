package statemachine

import (
	"testing"

	"github.com/stretchr/testify/require"
)

type counter struct {
	ticks int
}

func tick(c *counter) StateFn[counter] {
	c.ticks++
	if c.ticks >= 3 {
		return nil
	}
	return tick
}

func TestMachineRunsToTermination(t *testing.T) {
	c := &counter{}
	m := New(c, tick)
	m.Run()
	require.Equal(t, 3, c.ticks)
	require.True(t, m.Done())
}

func TestMachineStep(t *testing.T) {
	c := &counter{}
	m := New(c, tick)

	require.True(t, m.Step())
	require.Equal(t, 1, c.ticks)
	require.False(t, m.Done())

	require.True(t, m.Step())
	require.False(t, m.Step())
	require.True(t, m.Done())

	// Stepping a finished machine is a no-op.
	require.False(t, m.Step())
	require.Equal(t, 3, c.ticks)
}
