package engrave

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/matzehuels/engrave/pkg/score"
)

func mustNote(t *testing.T, key, duration string, opts ...score.NoteOption) *score.Note {
	t.Helper()
	n, err := score.NewNote([]string{key}, duration, opts...)
	require.NoError(t, err)
	return n
}

func mustRest(t *testing.T, duration string, opts ...score.NoteOption) *score.Note {
	t.Helper()
	n, err := score.NewRest(duration, opts...)
	require.NoError(t, err)
	return n
}

func mustVoice(t *testing.T, numBeats, beatValue int, ts ...score.Tickable) *score.Voice {
	t.Helper()
	v := score.NewVoice(numBeats, beatValue)
	require.NoError(t, v.AddTickables(ts...))
	return v
}

func TestCreateTickContextsAscendingOffsets(t *testing.T) {
	v := mustVoice(t, 4, 4,
		mustNote(t, "c/5", "q"),
		mustNote(t, "d/5", "q"),
		mustNote(t, "e/5", "q"),
		mustNote(t, "f/5", "q"),
	)

	grid, err := createTickContexts([]*score.Voice{v})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 4096, 8192, 12288}, grid.List)
	assert.Equal(t, int64(1), grid.ResolutionMultiplier)
	assert.Len(t, grid.Contexts, 4)
	for i := 1; i < len(grid.List); i++ {
		assert.Greater(t, grid.List[i], grid.List[i-1])
	}
	for _, offset := range grid.List {
		require.Contains(t, grid.Map, offset)
	}
}

func TestCreateTickContextsMergesVoices(t *testing.T) {
	quarters := mustVoice(t, 2, 4,
		mustNote(t, "c/5", "q"),
		mustNote(t, "d/5", "q"),
	)
	eighths := mustVoice(t, 2, 4,
		mustNote(t, "c/4", "8"),
		mustNote(t, "d/4", "8"),
		mustNote(t, "e/4", "8"),
		mustNote(t, "f/4", "8"),
	)

	grid, err := createTickContexts([]*score.Voice{quarters, eighths})
	require.NoError(t, err)

	assert.Equal(t, []int64{0, 2048, 4096, 6144}, grid.List)
	assert.Len(t, grid.Map[0].Tickables(), 2)
	assert.Len(t, grid.Map[2048].Tickables(), 1)
	assert.Len(t, grid.Map[4096].Tickables(), 2)
	assert.Len(t, grid.Map[6144].Tickables(), 1)
}

func TestCreateTickContextsTripletMultiplier(t *testing.T) {
	triplets := mustVoice(t, 2, 4,
		mustNote(t, "c/5", "8", score.WithTuplet(2, 3)),
		mustNote(t, "d/5", "8", score.WithTuplet(2, 3)),
		mustNote(t, "e/5", "8", score.WithTuplet(2, 3)),
		mustNote(t, "f/5", "q"),
	)
	quarters := mustVoice(t, 2, 4,
		mustNote(t, "c/4", "q"),
		mustNote(t, "d/4", "q"),
	)

	grid, err := createTickContexts([]*score.Voice{triplets, quarters})
	require.NoError(t, err)

	assert.Equal(t, int64(3), grid.ResolutionMultiplier)
	assert.Equal(t, []int64{0, 4096, 8192, 12288}, grid.List)

	// The plain quarter voice lands only on the shared downbeats.
	assert.Len(t, grid.Map[0].Tickables(), 2)
	assert.Len(t, grid.Map[4096].Tickables(), 1)
	assert.Len(t, grid.Map[8192].Tickables(), 1)
	assert.Len(t, grid.Map[12288].Tickables(), 2)
}

func TestCreateTickContextsErrors(t *testing.T) {
	t.Run("no voices", func(t *testing.T) {
		_, err := createTickContexts(nil)
		assert.ErrorIs(t, err, ErrNoVoices)
	})

	t.Run("duration mismatch", func(t *testing.T) {
		whole := mustVoice(t, 4, 4, mustNote(t, "c/5", "w"))
		half := mustVoice(t, 2, 4, mustNote(t, "c/5", "h"))
		_, err := createTickContexts([]*score.Voice{whole, half})
		assert.ErrorIs(t, err, ErrDurationMismatch)
	})

	t.Run("incomplete strict voice", func(t *testing.T) {
		v := mustVoice(t, 4, 4, mustNote(t, "c/5", "q"))
		_, err := createTickContexts([]*score.Voice{v})
		assert.ErrorIs(t, err, ErrIncompleteVoice)
	})

	t.Run("soft voice may be underfull", func(t *testing.T) {
		v := mustVoice(t, 4, 4, mustNote(t, "c/5", "q"))
		v.SetMode(score.Soft)
		_, err := createTickContexts([]*score.Voice{v})
		assert.NoError(t, err)
	})
}

func TestCreateModifierContextsSharesGroupAcrossVoices(t *testing.T) {
	v1 := mustVoice(t, 2, 4,
		mustNote(t, "c/5", "q", score.WithAccidental("#")),
		mustNote(t, "d/5", "q"),
	)
	v2 := mustVoice(t, 2, 4,
		mustNote(t, "e/4", "q", score.WithAccidental("#")),
		mustNote(t, "f/4", "q"),
	)

	grid, err := createModifierContexts([]*score.Voice{v1, v2})
	require.NoError(t, err)

	require.Equal(t, []int64{0, 4096}, grid.List)
	assert.Len(t, grid.Map[0].Tickables(), 2)
	assert.False(t, grid.Map[0].ShouldIgnoreTicks())
}
