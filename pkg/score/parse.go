package score

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strconv"
	"strings"

	"github.com/BurntSushi/toml"
)

// Document is the serialized score format accepted by the CLI, the HTTP
// service, and the pipeline. TOML is the authoring format; JSON is used
// on the wire.
type Document struct {
	Title  string     `toml:"title" json:"title,omitempty"`
	Time   string     `toml:"time" json:"time"`
	Staves []StaveDoc `toml:"staves" json:"staves"`
}

// StaveDoc declares one stave and the voices living on it.
type StaveDoc struct {
	Clef   string     `toml:"clef" json:"clef,omitempty"`
	Voices []VoiceDoc `toml:"voices" json:"voices"`
}

// VoiceDoc declares one voice.
type VoiceDoc struct {
	Mode  string    `toml:"mode" json:"mode,omitempty"` // "strict" (default) or "soft"
	Notes []NoteDoc `toml:"notes" json:"notes"`
}

// NoteDoc declares one element of a voice. Exactly one of Bar, Clef,
// Rest, or Keys applies; Keys wins for pitched notes.
type NoteDoc struct {
	Keys        []string `toml:"keys" json:"keys,omitempty"`
	Duration    string   `toml:"duration" json:"duration,omitempty"`
	Dots        int      `toml:"dots" json:"dots,omitempty"`
	Rest        bool     `toml:"rest" json:"rest,omitempty"`
	Line        float64  `toml:"line" json:"line,omitempty"` // pins a rest; 0 means default
	Accidentals []string `toml:"accidentals" json:"accidentals,omitempty"`
	Tuplet      string   `toml:"tuplet" json:"tuplet,omitempty"` // "num/den" tick scaling
	Bar         bool     `toml:"bar" json:"bar,omitempty"`
	Clef        string   `toml:"clef" json:"clef,omitempty"`
	Center      bool     `toml:"center" json:"center,omitempty"`
}

// Parse decodes a score document, accepting JSON (sniffed by a leading
// '{') or TOML.
func Parse(data []byte) (*Document, error) {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("empty score document")
	}
	var doc Document
	if trimmed[0] == '{' {
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode score JSON: %w", err)
		}
	} else {
		if err := toml.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("decode score TOML: %w", err)
		}
	}
	if err := doc.Validate(); err != nil {
		return nil, err
	}
	return &doc, nil
}

// Marshal serializes the document as pretty-printed JSON.
func (d *Document) Marshal() ([]byte, error) {
	return json.MarshalIndent(d, "", "  ")
}

// NoteCount returns the number of note entries across every voice.
func (d *Document) NoteCount() int {
	n := 0
	for _, st := range d.Staves {
		for _, v := range st.Voices {
			n += len(v.Notes)
		}
	}
	return n
}

// Validate checks the document's shape before any voices are built.
func (d *Document) Validate() error {
	if len(d.Staves) == 0 {
		return fmt.Errorf("score has no staves")
	}
	if d.Time == "" {
		d.Time = "4/4"
	}
	if _, _, err := ParseTime(d.Time); err != nil {
		return err
	}
	for i, st := range d.Staves {
		if len(st.Voices) == 0 {
			return fmt.Errorf("stave %d has no voices", i)
		}
	}
	return nil
}

// ParseTime splits a "num/den" time signature.
func ParseTime(ts string) (int, int, error) {
	parts := strings.Split(ts, "/")
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("malformed time signature %q", ts)
	}
	num, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || num <= 0 {
		return 0, 0, fmt.Errorf("malformed time signature %q", ts)
	}
	den, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || den <= 0 {
		return 0, 0, fmt.Errorf("malformed time signature %q", ts)
	}
	return num, den, nil
}

// Build materializes the document into voices, grouped per stave in
// declaration order.
func (d *Document) Build() ([][]*Voice, error) {
	if err := d.Validate(); err != nil {
		return nil, err
	}
	numBeats, beatValue, err := ParseTime(d.Time)
	if err != nil {
		return nil, err
	}
	staves := make([][]*Voice, 0, len(d.Staves))
	for si, st := range d.Staves {
		voices := make([]*Voice, 0, len(st.Voices))
		for vi, vd := range st.Voices {
			voice := NewVoice(numBeats, beatValue)
			if strings.EqualFold(vd.Mode, "soft") {
				voice.SetMode(Soft)
			}
			for ni, nd := range vd.Notes {
				t, err := nd.build()
				if err != nil {
					return nil, fmt.Errorf("stave %d voice %d note %d: %w", si, vi, ni, err)
				}
				if err := voice.AddTickable(t); err != nil {
					return nil, fmt.Errorf("stave %d voice %d note %d: %w", si, vi, ni, err)
				}
			}
			voices = append(voices, voice)
		}
		staves = append(staves, voices)
	}
	return staves, nil
}

func (nd NoteDoc) build() (Tickable, error) {
	switch {
	case nd.Bar:
		return NewBarNote(), nil
	case nd.Clef != "":
		return NewClefNote(nd.Clef), nil
	}

	var opts []NoteOption
	if nd.Dots > 0 {
		opts = append(opts, WithDots(nd.Dots))
	}
	if nd.Tuplet != "" {
		num, den, err := ParseTime(nd.Tuplet)
		if err != nil {
			return nil, fmt.Errorf("malformed tuplet ratio %q", nd.Tuplet)
		}
		opts = append(opts, WithTuplet(int64(num), int64(den)))
	}
	if nd.Center {
		opts = append(opts, WithCenterAlign())
	}

	if nd.Rest {
		if nd.Line != 0 {
			opts = append(opts, WithLine(nd.Line))
		}
		return NewRest(nd.Duration, opts...)
	}

	for _, sign := range nd.Accidentals {
		opts = append(opts, WithAccidental(sign))
	}
	return NewNote(nd.Keys, nd.Duration, opts...)
}
