package matchertrie

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeState map[Property]uint64

func (f fakeState) ReadProperty(p Property) (uint64, bool) {
	v, ok := f[p]
	return v, ok
}

func TestInsertAndLookupExact(t *testing.T) {
	tr := New()
	ref := SuffixRef{SolutionID: "sol-1", SuffixStart: 2}
	path := []Observation{ExactObservation("position", 7)}
	require.NoError(t, tr.Insert(path, ref))

	got := tr.Lookup(fakeState{"position": 7})
	assert.Equal(t, []SuffixRef{ref}, got)

	miss := tr.Lookup(fakeState{"position": 8})
	assert.Empty(t, miss)
}

func TestInsertAndLookupMultiStepPath(t *testing.T) {
	tr := New()
	ref := SuffixRef{SolutionID: "sol-2", SuffixStart: 0}
	path := []Observation{
		ExactObservation("position", 1),
		CompareObservation("bombs", GeObservation(3)),
	}
	require.NoError(t, tr.Insert(path, ref))

	got := tr.Lookup(fakeState{"position": 1, "bombs": 5})
	assert.Equal(t, []SuffixRef{ref}, got)

	notEnoughBombs := tr.Lookup(fakeState{"position": 1, "bombs": 2})
	assert.Empty(t, notEnoughBombs)
}

func TestInsertSamePrefixMultipleTerminals(t *testing.T) {
	tr := New()
	shortRef := SuffixRef{SolutionID: "short", SuffixStart: 1}
	longRef := SuffixRef{SolutionID: "long", SuffixStart: 0}

	require.NoError(t, tr.Insert([]Observation{ExactObservation("position", 1)}, shortRef))
	require.NoError(t, tr.Insert([]Observation{
		ExactObservation("position", 1),
		ExactObservation("torch", 1),
	}, longRef))

	got := tr.Lookup(fakeState{"position": 1, "torch": 1})
	assert.ElementsMatch(t, []SuffixRef{shortRef, longRef}, got)

	gotShortOnly := tr.Lookup(fakeState{"position": 1, "torch": 0})
	assert.Equal(t, []SuffixRef{shortRef}, gotShortOnly)
}

func TestCompareObservationContradictionIsReported(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert([]Observation{CompareObservation("bombs", GeObservation(5))}, SuffixRef{SolutionID: "a"}))

	err := tr.Insert([]Observation{CompareObservation("bombs", LeObservation(2))}, SuffixRef{SolutionID: "b"})
	assert.ErrorIs(t, err, ErrContradiction)
}

func TestMaskedObservationMismatchedMaskIsContradiction(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert([]Observation{MaskedObservation("flags", 0x0F, 0x05)}, SuffixRef{SolutionID: "a"}))

	err := tr.Insert([]Observation{MaskedObservation("flags", 0xFF, 0x05)}, SuffixRef{SolutionID: "b"})
	assert.ErrorIs(t, err, ErrContradiction)
}

func TestClearEmptiesTrie(t *testing.T) {
	tr := New()
	require.NoError(t, tr.Insert([]Observation{ExactObservation("position", 1)}, SuffixRef{SolutionID: "a"}))
	tr.Clear()
	assert.Empty(t, tr.Lookup(fakeState{"position": 1}))
}

func TestIntegerObservationCombineMatchesReferenceTable(t *testing.T) {
	e := EqObservation(4)
	ge := GeObservation(2)
	le := LeObservation(5)
	rang := RangeObservation(0, 6)

	combined, err := e.Combine(ge)
	require.NoError(t, err)
	assert.Equal(t, e, combined)

	combined, err = ge.Combine(le)
	require.NoError(t, err)
	assert.Equal(t, RangeObservation(2, 5), combined)

	combined, err = rang.Combine(GeObservation(6))
	require.NoError(t, err)
	assert.Equal(t, EqObservation(6), combined)

	_, err = GeObservation(7).Combine(LeObservation(2))
	assert.ErrorIs(t, err, ErrContradiction)
}

func TestIntegerObservationShift(t *testing.T) {
	assert.Equal(t, EqObservation(9), EqObservation(4).Shift(5))
	assert.Equal(t, RangeObservation(2, 8), RangeObservation(0, 6).Shift(2))
}
