package notifications

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
)

func TestRenderGrid_PairsWithSecondHalf(t *testing.T) {
	grid := []provider.GridEntry{
		{Position: 4, FamilyName: "Leclerc"},
		{Position: 1, FamilyName: "Norris"},
		{Position: 2, FamilyName: "Verstappen"},
		{Position: 5, FamilyName: "Piastri"},
		{Position: 3, FamilyName: "Hamilton"},
	}

	got, ok := RenderGrid(grid)
	require.True(t, ok)
	want := "```\n" +
		"P1  Norris     | P4  Leclerc\n" +
		"P2  Verstappen | P5  Piastri\n" +
		"P3  Hamilton   | \n" +
		"```"
	assert.Equal(t, want, got)
}

func TestRenderGrid_DoubleDigitPositions(t *testing.T) {
	var grid []provider.GridEntry
	for i := 1; i <= 20; i++ {
		grid = append(grid, provider.GridEntry{Position: i, FamilyName: "Driver"})
	}
	got, ok := RenderGrid(grid)
	require.True(t, ok)

	lines := strings.Split(strings.Trim(got, "`\n"), "\n")
	require.Len(t, lines, 10)
	assert.Equal(t, "P1  Driver | P11 Driver", lines[0])
	assert.Equal(t, "P10 Driver | P20 Driver", lines[9])
}

func TestRenderGrid_FiltersAndDedupes(t *testing.T) {
	got, ok := RenderGrid([]provider.GridEntry{
		{Position: 2, FamilyName: "Sainz"},
		{Position: 2, FamilyName: "Again"},
		{Position: 0, FamilyName: "Unclassified"},
		{Position: 1},
	})
	require.True(t, ok)
	assert.Equal(t, "```\nP1  N/A | P2  Sainz\n```", got)
}

func TestRenderGrid_Empty(t *testing.T) {
	_, ok := RenderGrid(nil)
	assert.False(t, ok)

	_, ok = RenderGrid([]provider.GridEntry{{Position: 0, FamilyName: "X"}})
	assert.False(t, ok)
}
