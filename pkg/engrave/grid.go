package engrave

import (
	"slices"

	"github.com/matzehuels/engrave/pkg/fraction"
	"github.com/matzehuels/engrave/pkg/score"
)

// Grid is the offset-keyed alignment structure built from a set of
// voices. Offsets are exact tick numerators scaled by
// ResolutionMultiplier; List is kept sorted explicitly and iteration
// always walks it - map order is never relied on.
type Grid[C Context] struct {
	// Map gives direct lookup from scaled offset to its group.
	Map map[int64]C

	// List holds the distinct offsets in ascending order.
	List []int64

	// Contexts holds the groups in creation order.
	Contexts []C

	// ResolutionMultiplier is the least common multiple of every voice's
	// own multiplier; all offsets are numerators over it.
	ResolutionMultiplier int64
}

// createContexts merges the voices onto one grid. The same walk builds
// both grid kinds: newContext makes a group, attach binds a tickable to
// it. Each tickable's offset is the exact time cursor's numerator at the
// moment it is visited, before its own duration is added.
func createContexts[C Context](
	voices []*score.Voice,
	newContext func(tick fraction.Fraction) C,
	attach func(t score.Tickable, c C),
) (*Grid[C], error) {
	if len(voices) == 0 {
		return nil, ErrNoVoices
	}

	total := voices[0].TotalTicks()
	multiplier := int64(1)
	for _, v := range voices {
		if !v.TotalTicks().Equals(total) {
			return nil, ErrDurationMismatch
		}
		if v.Mode() == score.Strict && !v.IsComplete() {
			return nil, ErrIncompleteVoice
		}
		multiplier = fraction.LCM(multiplier, v.ResolutionMultiplier())
	}

	grid := &Grid[C]{
		Map:                  make(map[int64]C),
		ResolutionMultiplier: multiplier,
	}
	for _, v := range voices {
		cursor := fraction.New(0, multiplier)
		for _, t := range v.Tickables() {
			offset := cursor.Numerator
			c, ok := grid.Map[offset]
			if !ok {
				c = newContext(fraction.New(offset, multiplier))
				grid.Map[offset] = c
				grid.Contexts = append(grid.Contexts, c)
				grid.List = append(grid.List, offset)
			}
			attach(t, c)
			cursor = cursor.Add(t.Ticks())
		}
	}
	slices.Sort(grid.List)
	return grid, nil
}

// createTickContexts builds the tick-alignment grid.
func createTickContexts(voices []*score.Voice) (*Grid[*TickContext], error) {
	return createContexts(voices,
		func(tick fraction.Fraction) *TickContext {
			c := NewTickContext()
			c.SetTick(tick)
			return c
		},
		func(t score.Tickable, c *TickContext) { c.AddTickable(t) },
	)
}

// createModifierContexts builds the modifier-alignment grid.
func createModifierContexts(voices []*score.Voice) (*Grid[*ModifierContext], error) {
	return createContexts(voices,
		func(fraction.Fraction) *ModifierContext { return NewModifierContext() },
		func(t score.Tickable, c *ModifierContext) { c.AddTickable(t) },
	)
}
