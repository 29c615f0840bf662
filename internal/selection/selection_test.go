package selection

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestMap(t *testing.T) {
	base := Event{
		Selection: Rect{Top: 180, Left: 100, Bottom: 200, Width: 80},
		Viewer:    Rect{Top: 50, Left: 20},
		ScrollY:   300,
	}

	tests := []struct {
		name     string
		text     string
		binary   bool
		expectOK bool
		expected Context
	}{
		{
			name:     "Qualifying selection",
			text:     "Confidential Information",
			expectOK: true,
			expected: Context{
				SelectedText: "Confidential Information",
				Anchor:       Anchor{Top: 450, Left: 120},
			},
		},
		{name: "Exactly ten characters", text: "abcdefghij"},
		{name: "Eleven characters after trim", text: "   abcdefghijk  ", expectOK: true,
			expected: Context{SelectedText: "abcdefghijk", Anchor: Anchor{Top: 450, Left: 120}}},
		{name: "Whitespace only", text: "              "},
		{name: "Binary view", text: "Confidential Information", binary: true},
		{name: "Multibyte runes counted once", text: "ééééééééééé", expectOK: true,
			expected: Context{SelectedText: "ééééééééééé", Anchor: Anchor{Top: 450, Left: 120}}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ev := base
			ev.Text = tt.text
			ev.Binary = tt.binary

			got, ok := Map(ev)
			assert.Equal(t, tt.expectOK, ok)
			if tt.expectOK {
				assert.Equal(t, tt.expected, got)
			} else {
				assert.Equal(t, Context{}, got)
			}
		})
	}
}

func TestMap_HorizontalScroll(t *testing.T) {
	got, ok := Map(Event{
		Text:      "indemnify and hold harmless",
		Selection: Rect{Left: 40, Bottom: 60, Width: 10},
		Viewer:    Rect{Top: 10, Left: 5},
		ScrollX:   7,
	})
	assert.True(t, ok)
	assert.Equal(t, Anchor{Top: 50, Left: 47}, got.Anchor)
}
