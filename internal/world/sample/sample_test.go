package sample

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
)

func TestEmptyWorldStartIsWon(t *testing.T) {
	w := NewEmptyWorld()
	s := w.Start()
	assert.True(t, w.Won(s))
	assert.Equal(t, geneng.SpotID("A"), s.Position())
}

func TestLinearChainOptimalRoute(t *testing.T) {
	w := NewLinearChain()
	s := w.Start()
	require.False(t, w.Won(s))

	cost1, err := s.Replay(geneng.Exit("A->B"))
	require.NoError(t, err)
	assert.Equal(t, uint32(10), cost1)
	assert.False(t, w.Won(s))

	cost2, err := s.Replay(geneng.Exit("B->C"))
	require.NoError(t, err)
	assert.Equal(t, uint32(10), cost2)
	assert.True(t, w.Won(s))

	assert.Equal(t, uint32(20), cost1+cost2)
}

func TestLinearChainWrongExitRejected(t *testing.T) {
	w := NewLinearChain()
	s := w.Start()
	_, err := s.Replay(geneng.Exit("B->C"))
	assert.ErrorIs(t, err, ErrUnknownStep)
}

func TestGatedShortcutRequiresKey(t *testing.T) {
	w := NewGatedShortcut()
	s := w.Start()

	_, err := s.Replay(geneng.Exit("A->C"))
	assert.ErrorIs(t, err, ErrMissingCapability)
}

func TestGatedShortcutFeasibleRoute(t *testing.T) {
	w := NewGatedShortcut()
	s := w.Start()

	cost1, err := s.Replay(geneng.Exit("A->B"))
	require.NoError(t, err)

	cost2, err := s.Replay(geneng.Get("key", "keyLoc"))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), cost2)
	assert.True(t, s.Has("key"))

	cost3, err := s.Replay(geneng.Exit("B->C"))
	require.NoError(t, err)
	assert.True(t, w.Won(s))

	assert.Equal(t, uint32(30), cost1+cost2+cost3)
}

func TestGatedShortcutKeyUnlocksDirectExit(t *testing.T) {
	w := NewGatedShortcut()
	s := w.Start()

	_, err := s.Replay(geneng.Exit("A->B"))
	require.NoError(t, err)
	_, err = s.Replay(geneng.Get("key", "keyLoc"))
	require.NoError(t, err)

	// Stepping back isn't modeled; instead take a clone that holds the key,
	// put it back at A, and take the gated direct exit from there.
	cloned := s.Clone().(*State)
	assert.True(t, cloned.Has("key"))
	cloned.spot = "A"
	cost, err := cloned.Replay(geneng.Exit("A->C"))
	require.NoError(t, err)
	assert.Equal(t, uint32(12), cost)
}

func TestStateCloneIsIndependent(t *testing.T) {
	w := NewLinearChain()
	s := w.Start()
	clone := s.Clone().(*State)

	_, err := s.Replay(geneng.Exit("A->B"))
	require.NoError(t, err)

	assert.Equal(t, geneng.SpotID("B"), s.Position())
	assert.Equal(t, geneng.SpotID("A"), clone.Position())
}

func TestStateEncodeRoundTripDistinguishesStates(t *testing.T) {
	w := NewLinearChain()
	s1 := w.Start()
	s2 := w.Start()
	assert.Equal(t, s1.Encode(), s2.Encode())

	_, err := s2.Replay(geneng.Exit("A->B"))
	require.NoError(t, err)
	assert.NotEqual(t, s1.Encode(), s2.Encode())
}
