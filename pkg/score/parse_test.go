package score

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const tomlScore = `
title = "Two bars"
time = "2/4"

[[staves]]
clef = "treble"

[[staves.voices]]

[[staves.voices.notes]]
keys = ["c/5"]
duration = "q"
accidentals = ["#"]

[[staves.voices.notes]]
rest = true
duration = "q"

[[staves.voices.notes]]
bar = true
`

func TestParseTOML(t *testing.T) {
	doc, err := Parse([]byte(tomlScore))
	require.NoError(t, err)

	assert.Equal(t, "Two bars", doc.Title)
	assert.Equal(t, "2/4", doc.Time)
	require.Len(t, doc.Staves, 1)
	require.Len(t, doc.Staves[0].Voices, 1)
	assert.Len(t, doc.Staves[0].Voices[0].Notes, 3)
}

func TestParseJSON(t *testing.T) {
	data := []byte(`{
		"time": "4/4",
		"staves": [
			{"voices": [{"notes": [{"keys": ["c/5"], "duration": "w"}]}]}
		]
	}`)

	doc, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, "4/4", doc.Time)
}

func TestParseRoundTrip(t *testing.T) {
	doc, err := Parse([]byte(tomlScore))
	require.NoError(t, err)

	data, err := doc.Marshal()
	require.NoError(t, err)

	again, err := Parse(data)
	require.NoError(t, err)
	assert.Equal(t, doc, again)
}

func TestParseErrors(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"empty", ""},
		{"bad json", "{not json"},
		{"bad toml", "= broken"},
		{"no staves", `time = "4/4"`},
		{"bad time", "time = \"abc\"\n[[staves]]\n[[staves.voices]]"},
		{"stave without voices", "[[staves]]\nclef = \"treble\""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.data))
			assert.Error(t, err)
		})
	}
}

func TestDocumentDefaultsTime(t *testing.T) {
	doc, err := Parse([]byte("[[staves]]\n[[staves.voices]]"))
	require.NoError(t, err)
	assert.Equal(t, "4/4", doc.Time)
}

func TestParseTime(t *testing.T) {
	num, den, err := ParseTime("6/8")
	require.NoError(t, err)
	assert.Equal(t, 6, num)
	assert.Equal(t, 8, den)

	for _, ts := range []string{"", "4", "4/4/4", "0/4", "4/0", "a/b"} {
		_, _, err := ParseTime(ts)
		assert.Error(t, err, "time %q", ts)
	}
}

func TestDocumentBuild(t *testing.T) {
	doc, err := Parse([]byte(tomlScore))
	require.NoError(t, err)

	staves, err := doc.Build()
	require.NoError(t, err)
	require.Len(t, staves, 1)
	require.Len(t, staves[0], 1)

	v := staves[0][0]
	assert.True(t, v.IsComplete())
	require.Len(t, v.Tickables(), 3)
	assert.Len(t, v.Notes()[0].Modifiers(), 1)
	assert.True(t, v.Tickables()[2].ShouldIgnoreTicks())
}

func TestDocumentBuildSoftVoiceAndTuplet(t *testing.T) {
	doc := &Document{
		Time: "2/4",
		Staves: []StaveDoc{{
			Voices: []VoiceDoc{{
				Mode: "soft",
				Notes: []NoteDoc{
					{Keys: []string{"c/5"}, Duration: "8", Tuplet: "2/3"},
					{Rest: true, Duration: "8", Tuplet: "2/3"},
					{Keys: []string{"e/5"}, Duration: "8", Tuplet: "2/3"},
				},
			}},
		}},
	}

	staves, err := doc.Build()
	require.NoError(t, err)

	v := staves[0][0]
	assert.Equal(t, Soft, v.Mode())
	assert.Equal(t, int64(3), v.ResolutionMultiplier())
	assert.True(t, v.Notes()[1].InTuplet())
}

func TestDocumentBuildRejectsOverfullVoice(t *testing.T) {
	doc := &Document{
		Time: "2/4",
		Staves: []StaveDoc{{
			Voices: []VoiceDoc{{
				Notes: []NoteDoc{
					{Keys: []string{"c/5"}, Duration: "h"},
					{Keys: []string{"d/5"}, Duration: "q"},
				},
			}},
		}},
	}
	_, err := doc.Build()
	assert.Error(t, err)
}
