package race

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEventTypes_Order(t *testing.T) {
	fwd := EventTypes()
	rev := ReverseEventTypes()
	require.Len(t, fwd, 6)
	require.Len(t, rev, 6)
	for i := range fwd {
		assert.Equal(t, fwd[i], rev[len(rev)-1-i])
		assert.Equal(t, i, fwd[i].Ordinal())
	}
}

func TestEventType_Table(t *testing.T) {
	assert.Equal(t, "Race", Race.Key())
	assert.Equal(t, "🏎️", Race.Icon())
	assert.Equal(t, "⏱️", Qualifying.Icon())
	assert.Equal(t, "💨", Sprint.Icon())
	assert.Equal(t, "🔧", SecondPractice.Icon())
	assert.Equal(t, "First Practice", FirstPractice.Label())

	bogus := EventType(42)
	assert.False(t, bogus.Valid())
	assert.Equal(t, DefaultIcon, bogus.Icon())
}

func TestParseEventType(t *testing.T) {
	for _, ev := range EventTypes() {
		got, err := ParseEventType(ev.Key())
		require.NoError(t, err)
		assert.Equal(t, ev, got)
	}
	_, err := ParseEventType("Warmup")
	assert.Error(t, err)
}
