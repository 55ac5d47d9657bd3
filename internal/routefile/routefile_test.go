package routefile

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/arrowroute/analyzer/internal/geneng"
)

func TestFormatParseRoundTrip(t *testing.T) {
	history := []geneng.HistoryStep{
		geneng.Get("Key", "ChestA"),
		geneng.Hybrid("Map", "DoorHybrid"),
		geneng.Exit("DoorA"),
		geneng.MoveLocal("SpotB"),
		geneng.Warp("SpotC"),
		geneng.Activate("Lever"),
	}

	text := FormatHistory(history)
	got, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, history, got)
}

func TestParseIgnoresBlankLinesAndComments(t *testing.T) {
	text := "# a winning route\n\nExit(DoorA)\n  \n# trailing comment\nWarp(SpotC)\n"
	got, err := Parse(text)
	require.NoError(t, err)
	assert.Equal(t, []geneng.HistoryStep{geneng.Exit("DoorA"), geneng.Warp("SpotC")}, got)
}

func TestParseRejectsMalformedLine(t *testing.T) {
	_, err := Parse("Exit(DoorA\n")
	assert.Error(t, err)

	_, err = Parse("Teleport(SpotA)\n")
	assert.Error(t, err)

	_, err = Parse("Get(OnlyOneArg)\n")
	assert.Error(t, err)
}
