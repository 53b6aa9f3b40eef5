package notifications

import (
	"fmt"
	"strings"

	"github.com/fenneh/discord-f1-reminder/internal/provider"
)

// RenderGrid lays out a starting grid as a two-column code block. Row i
// pairs entry i with entry i+ceil(n/2), so the left column reads P1..Pk and
// the right column continues from Pk+1. Entries are normalized first; ok is
// false when nothing is left to show.
func RenderGrid(entries []provider.GridEntry) (string, bool) {
	grid := provider.NormalizeGrid(entries)
	if len(grid) == 0 {
		return "", false
	}

	half := (len(grid) + 1) / 2
	lefts := make([]string, half)
	rights := make([]string, half)
	width := 0
	for i := 0; i < half; i++ {
		lefts[i] = gridCell(grid[i])
		if n := len([]rune(lefts[i])); n > width {
			width = n
		}
		if j := i + half; j < len(grid) {
			rights[i] = gridCell(grid[j])
		}
	}

	var b strings.Builder
	b.WriteString("```\n")
	for i := range lefts {
		fmt.Fprintf(&b, "%-*s | %s\n", width, lefts[i], rights[i])
	}
	b.WriteString("```")
	return b.String(), true
}

func gridCell(e provider.GridEntry) string {
	name := e.FamilyName
	if name == "" {
		name = "N/A"
	}
	return fmt.Sprintf("%-3s %s", fmt.Sprintf("P%d", e.Position), name)
}
