// Package layout defines the serialized result of a formatting run: the
// positioned tick groups and notes of a score, ready for persistence or
// transport. The engrave package computes positions; this package only
// records them.
package layout

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/matzehuels/engrave/pkg/engrave"
	"github.com/matzehuels/engrave/pkg/score"
)

// Layout is the serialization format for one formatted system. JSON is
// the wire format; the bson tags serve the document store.
type Layout struct {
	Title string `json:"title,omitempty" bson:"title,omitempty"`
	Time  string `json:"time" bson:"time"`

	// Frame dimensions and the width the voices were justified into.
	Width        float64 `json:"width" bson:"width"`
	Height       float64 `json:"height" bson:"height"`
	JustifyWidth float64 `json:"justify_width" bson:"justify_width"`

	// MinWidth is the unjustified minimum, when it was computed.
	MinWidth float64 `json:"min_width,omitempty" bson:"min_width,omitempty"`

	// ResolutionMultiplier scales the tick offsets below to integers.
	ResolutionMultiplier int64 `json:"resolution_multiplier" bson:"resolution_multiplier"`

	Ticks []TickPlacement `json:"ticks" bson:"ticks"`
	Notes []NotePlacement `json:"notes,omitempty" bson:"notes,omitempty"`
}

// TickPlacement records one alignment group's final position.
type TickPlacement struct {
	Offset      int64   `json:"offset" bson:"offset"`
	X           float64 `json:"x" bson:"x"`
	Width       float64 `json:"width" bson:"width"`
	IgnoreTicks bool    `json:"ignore_ticks,omitempty" bson:"ignore_ticks,omitempty"`
}

// NotePlacement records one tickable's final position and enough of its
// musical identity to redraw it without the original document.
type NotePlacement struct {
	Stave    int      `json:"stave" bson:"stave"`
	Voice    int      `json:"voice" bson:"voice"`
	Keys     []string `json:"keys,omitempty" bson:"keys,omitempty"`
	Duration string   `json:"duration,omitempty" bson:"duration,omitempty"`
	Dots     int      `json:"dots,omitempty" bson:"dots,omitempty"`
	Rest     bool     `json:"rest,omitempty" bson:"rest,omitempty"`
	Line     float64  `json:"line" bson:"line"`
	X        float64  `json:"x" bson:"x"`
}

// Build captures a formatter's tick grid and the formatted voices into a
// Layout. Voices are grouped per stave, matching score.Document.Build.
func Build(f *engrave.Formatter, staves [][]*score.Voice, justifyWidth float64) Layout {
	l := Layout{JustifyWidth: justifyWidth}

	if minWidth, err := f.MinTotalWidth(); err == nil {
		l.MinWidth = minWidth
	}
	if grid := f.TickContexts(); grid != nil {
		l.ResolutionMultiplier = grid.ResolutionMultiplier
		l.Ticks = make([]TickPlacement, 0, len(grid.List))
		for _, offset := range grid.List {
			ctx := grid.Map[offset]
			l.Ticks = append(l.Ticks, TickPlacement{
				Offset:      offset,
				X:           ctx.X(),
				Width:       ctx.Width(),
				IgnoreTicks: ctx.ShouldIgnoreTicks(),
			})
		}
	}

	for si, voices := range staves {
		for vi, v := range voices {
			for _, n := range v.Notes() {
				l.Notes = append(l.Notes, NotePlacement{
					Stave:    si,
					Voice:    vi,
					Keys:     n.Keys(),
					Duration: n.Duration(),
					Dots:     n.Dots(),
					Rest:     n.IsRest(),
					Line:     n.Line(),
					X:        n.X(),
				})
			}
		}
	}
	return l
}

// Marshal serializes a Layout to pretty-printed JSON.
func Marshal(l Layout) ([]byte, error) {
	return json.MarshalIndent(l, "", "  ")
}

// Unmarshal deserializes JSON bytes into a Layout and checks the fields
// a consumer relies on.
func Unmarshal(data []byte) (Layout, error) {
	var l Layout
	if err := json.Unmarshal(data, &l); err != nil {
		return Layout{}, fmt.Errorf("unmarshal layout: %w", err)
	}
	if len(l.Ticks) == 0 {
		return Layout{}, fmt.Errorf("layout has no tick placements")
	}
	if l.ResolutionMultiplier <= 0 {
		return Layout{}, fmt.Errorf("layout has no resolution multiplier")
	}
	return l, nil
}

// WriteFile writes a Layout to a JSON file.
func WriteFile(l Layout, path string) error {
	data, err := Marshal(l)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ReadFile reads a Layout from a JSON file.
func ReadFile(path string) (Layout, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Layout{}, fmt.Errorf("read %s: %w", path, err)
	}
	return Unmarshal(data)
}
