package storage

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put([]byte("a"), []byte("1")))
	v, err := m.Get([]byte("a"))
	require.NoError(t, err)
	assert.Equal(t, []byte("1"), v)
}

func TestMemoryGetMissingIsErrNotFound(t *testing.T) {
	m := NewMemory()
	_, err := m.Get([]byte("missing"))
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryMergeIsAtomicReadModifyWrite(t *testing.T) {
	m := NewMemory()
	merge := func(existing []byte, found bool) []byte {
		if !found {
			return []byte{1}
		}
		return []byte{existing[0] + 1}
	}
	require.NoError(t, m.Merge([]byte("k"), merge))
	require.NoError(t, m.Merge([]byte("k"), merge))
	require.NoError(t, m.Merge([]byte("k"), merge))
	v, err := m.Get([]byte("k"))
	require.NoError(t, err)
	assert.Equal(t, byte(3), v[0])
}

func TestMemoryRangeVisitsInAscendingOrderWithinBounds(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"c", "a", "e", "b", "d"} {
		require.NoError(t, m.Put([]byte(k), []byte(k)))
	}

	var seen []string
	require.NoError(t, m.Range([]byte("b"), []byte("e"), func(key, _ []byte) bool {
		seen = append(seen, string(key))
		return true
	}))
	assert.Equal(t, []string{"b", "c", "d"}, seen)
}

func TestMemoryRangeCanStopEarly(t *testing.T) {
	m := NewMemory()
	for _, k := range []string{"a", "b", "c"} {
		require.NoError(t, m.Put([]byte(k), []byte(k)))
	}
	var seen []string
	require.NoError(t, m.Range(nil, nil, func(key, _ []byte) bool {
		seen = append(seen, string(key))
		return len(seen) < 2
	}))
	assert.Equal(t, []string{"a", "b"}, seen)
}

func TestMemoryDeleteRemovesFromRange(t *testing.T) {
	m := NewMemory()
	require.NoError(t, m.Put([]byte("a"), []byte("1")))
	require.NoError(t, m.Put([]byte("b"), []byte("2")))
	require.NoError(t, m.Delete([]byte("a")))
	assert.Equal(t, 1, m.Len())

	_, err := m.Get([]byte("a"))
	assert.ErrorIs(t, err, ErrNotFound)
}
