// Package pkg provides the core libraries for Engrave music typesetting.
//
// # Overview
//
// Engrave turns score documents into justified staff notation. The pkg
// directory is organized into five main areas:
//
//  1. [score] - Musical input model (notes, voices, staves, document format)
//  2. [engrave] - The layout engine (tick grids, justification, rest alignment)
//  3. [render] - Drawing contract and backends (SVG, format conversion, grid debug views)
//  4. [pipeline] - Orchestration (parse → layout → render) with caching
//  5. [layout], [store], [cache] - Serialization and persistence
//
// # Architecture
//
// The typical data flow through Engrave:
//
//	Score document (TOML/JSON)
//	         ↓
//	    [score] package (voices, ticks, durations)
//	         ↓
//	    [engrave] package (tick contexts + two-pass justification)
//	         ↓
//	    [render] package (SVG, PNG, PDF)
//	         ↓
//	    SVG/PNG/PDF/JSON output
//
// # Quick Start
//
// Format a voice onto a stave and draw it:
//
//	import (
//	    "github.com/matzehuels/engrave/pkg/engrave"
//	    "github.com/matzehuels/engrave/pkg/render/svg"
//	    "github.com/matzehuels/engrave/pkg/score"
//	)
//
//	// 1. Build the music
//	n1, _ := score.NewNote([]string{"c/5"}, "q")
//	n2, _ := score.NewNote([]string{"d/5"}, "q")
//	voice := score.NewVoice(2, 4)
//	_ = voice.AddTickable(n1)
//	_ = voice.AddTickable(n2)
//
//	// 2. Justify onto a stave
//	stave := score.NewStave(0, 40, 400)
//	f := engrave.New()
//	_ = f.JoinVoices(voice)
//	_ = f.FormatToStave([]*score.Voice{voice}, stave, nil)
//
//	// 3. Draw
//	c := svg.NewContext(400, 160)
//	stave.Draw(c)
//	n1.Draw(c)
//	n2.Draw(c)
//	out := c.Bytes()
//
// # Main Packages
//
// [score] - The musical input model: notes, rests, chords, voices,
// staves, beams, and the TOML/JSON document format. Durations are exact
// fractions of a 16384-tick whole note, so tuplets never accumulate
// rounding error.
//
// [engrave] - The horizontal layout engine. Builds offset-keyed tick
// grids across voices and staves, negotiates accidental and dot space
// through modifier contexts, aligns rests to their melodic
// surroundings, and distributes width with a two-pass justification.
//
// [fraction] - Exact rational arithmetic backing all tick math.
//
// [render] - The minimal drawing contract ([render.Context]) plus the
// SVG backend, librsvg-based PNG/PDF conversion, and a Graphviz view of
// tick grids for layout debugging.
//
// [layout] - Serializable placement results (tick and note positions)
// used for caching, the JSON output format, and the HTTP API.
//
// [pipeline] - Complete engraving pipeline (parse → layout → render)
// used by the CLI and the HTTP service. Ensures both entry points
// behave identically and cache identically.
//
// [cache] - Content-addressed caching of documents, layouts, and
// rendered artifacts. File-backed for the CLI, Redis-backed for the
// service.
//
// [store] - Layout document persistence (memory, MongoDB) behind the
// HTTP service.
//
// [observability] - Optional hooks for metrics and tracing around
// pipeline and cache operations.
//
// # Testing
//
// Run tests:
//
//	go test ./pkg/...              # All tests
//	go test ./pkg/engrave/...      # Specific package
//
// [score]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/score
// [engrave]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/engrave
// [fraction]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/fraction
// [render]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/render
// [layout]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/layout
// [pipeline]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/pipeline
// [cache]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/cache
// [store]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/store
// [observability]: https://pkg.go.dev/github.com/matzehuels/engrave/pkg/observability
package pkg
