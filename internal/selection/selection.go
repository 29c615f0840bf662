// Package selection maps a text selection inside the document viewer to an
// overlay anchor positioned just below the selected range.
package selection

import (
	"strings"
	"unicode/utf8"
)

// MinLength is the rune count a trimmed selection must exceed to qualify.
const MinLength = 10

// Rect is a bounding box in viewport coordinates.
type Rect struct {
	Top    float64 `json:"top"`
	Left   float64 `json:"left"`
	Bottom float64 `json:"bottom"`
	Width  float64 `json:"width"`
}

// Event is a raw selection report from the viewer.
type Event struct {
	Text string `json:"text"`
	// Binary is true while the document is shown as a binary view; such views
	// never produce a selection.
	Binary    bool    `json:"binary,omitempty"`
	Selection Rect    `json:"selection"`
	Viewer    Rect    `json:"viewer"`
	ScrollX   float64 `json:"scrollX"`
	ScrollY   float64 `json:"scrollY"`
}

// Anchor is the overlay position relative to the viewer's scrolled content.
type Anchor struct {
	Top  float64 `json:"top"`
	Left float64 `json:"left"`
}

// Context is a qualifying selection and where its overlay sits.
type Context struct {
	SelectedText string `json:"selectedText"`
	Anchor       Anchor `json:"anchor"`
}

// Map returns the selection context for ev, or false when ev does not qualify.
func Map(ev Event) (Context, bool) {
	if ev.Binary {
		return Context{}, false
	}
	text := strings.TrimSpace(ev.Text)
	if utf8.RuneCountInString(text) <= MinLength {
		return Context{}, false
	}
	return Context{
		SelectedText: text,
		Anchor: Anchor{
			Top:  ev.Selection.Bottom - ev.Viewer.Top + ev.ScrollY,
			Left: ev.Selection.Left + ev.Selection.Width/2 - ev.Viewer.Left + ev.ScrollX,
		},
	}, true
}
