package engrave

import (
	"github.com/matzehuels/engrave/pkg/fraction"
	"github.com/matzehuels/engrave/pkg/score"
)

// Context is the capability surface shared by both alignment-group kinds.
// The grid builder and the justifier only ever talk to groups through it.
type Context interface {
	// PreFormat computes the group's width and metrics from its members.
	// Idempotent within one formatting pass.
	PreFormat()

	// PostFormat runs after x and y are both final.
	PostFormat()

	Width() float64
	Metrics() Metrics

	X() float64
	SetX(x float64)

	// ShouldIgnoreTicks reports whether the group holds only non-duration
	// elements and is excluded from tick-proportional spacing.
	ShouldIgnoreTicks() bool
}

// Metrics are the extra pixels a group needs beyond its own width to fit
// its members' side modifiers.
type Metrics struct {
	ExtraLeftPx  float64
	ExtraRightPx float64
}

// TickContext is the alignment group for one exact scaled tick offset.
// Tickables from different voices (and staves) that land on the same
// offset share one TickContext and therefore one x position.
type TickContext struct {
	tick      fraction.Fraction
	tickables []score.Tickable

	width   float64
	metrics Metrics
	x       float64

	ignoreTicks  bool
	preFormatted bool
}

// NewTickContext creates an empty group. A group ignores ticks until its
// first tick-consuming member joins.
func NewTickContext() *TickContext {
	return &TickContext{ignoreTicks: true}
}

// SetTick records the group's exact tick offset.
func (c *TickContext) SetTick(t fraction.Fraction) { c.tick = t }

// Tick returns the group's exact tick offset.
func (c *TickContext) Tick() fraction.Fraction { return c.tick }

// AddTickable attaches a member.
func (c *TickContext) AddTickable(t score.Tickable) {
	if !t.ShouldIgnoreTicks() {
		c.ignoreTicks = false
	}
	c.tickables = append(c.tickables, t)
	c.preFormatted = false
}

// Tickables returns the member list, owned by the context.
func (c *TickContext) Tickables() []score.Tickable { return c.tickables }

// CenterAlignedTickables returns the members that want centering on the
// justification width.
func (c *TickContext) CenterAlignedTickables() []score.Tickable {
	var out []score.Tickable
	for _, t := range c.tickables {
		if t.IsCenterAligned() {
			out = append(out, t)
		}
	}
	return out
}

// PreFormat measures the group: width is the widest member, metrics the
// largest left/right modifier reservations over all members.
func (c *TickContext) PreFormat() {
	if c.preFormatted {
		return
	}
	for _, t := range c.tickables {
		t.PreFormat()
		if w := t.Width(); w > c.width {
			c.width = w
		}
		if l := t.ExtraLeftPx(); l > c.metrics.ExtraLeftPx {
			c.metrics.ExtraLeftPx = l
		}
		if r := t.ExtraRightPx(); r > c.metrics.ExtraRightPx {
			c.metrics.ExtraRightPx = r
		}
	}
	c.preFormatted = true
}

// PostFormat forwards finalization to the members.
func (c *TickContext) PostFormat() {
	for _, t := range c.tickables {
		t.PostFormat()
	}
}

func (c *TickContext) Width() float64          { return c.width }
func (c *TickContext) Metrics() Metrics        { return c.metrics }
func (c *TickContext) X() float64              { return c.x }
func (c *TickContext) SetX(x float64)          { c.x = x }
func (c *TickContext) ShouldIgnoreTicks() bool { return c.ignoreTicks }

// ModifierContext negotiates horizontal space for the side modifiers of
// all tickables sharing one stave moment. It does not participate in tick
// spacing; its output is the extra left/right pixel reservation pushed
// back onto its members, which the tick contexts then aggregate.
type ModifierContext struct {
	tickables []score.Tickable

	width        float64
	metrics      Metrics
	x            float64
	preFormatted bool
}

// NewModifierContext creates an empty modifier group.
func NewModifierContext() *ModifierContext { return &ModifierContext{} }

// AddTickable attaches a member and hands it the group, so the member can
// trigger space negotiation from its own pre-format step.
func (c *ModifierContext) AddTickable(t score.Tickable) {
	c.tickables = append(c.tickables, t)
	t.AttachModifierGroup(c)
	c.preFormatted = false
}

// Tickables returns the member list, owned by the context.
func (c *ModifierContext) Tickables() []score.Tickable { return c.tickables }

// PreFormat stacks the members' modifiers: simultaneous left modifiers
// (accidentals across voices) cannot overlap, so their widths add. The
// totals are pushed back onto every member.
func (c *ModifierContext) PreFormat() {
	if c.preFormatted {
		return
	}
	var left, right float64
	for _, t := range c.tickables {
		for _, m := range t.Modifiers() {
			switch m.Position() {
			case score.ModifierLeft:
				left += m.Width()
			case score.ModifierRight:
				right += m.Width()
			}
		}
	}
	c.metrics = Metrics{ExtraLeftPx: left, ExtraRightPx: right}
	c.width = left + right
	for _, t := range c.tickables {
		t.SetExtraLeftPx(left)
		t.SetExtraRightPx(right)
	}
	c.preFormatted = true
}

// PostFormat is a no-op: members are finalized through their tick
// contexts.
func (c *ModifierContext) PostFormat() {}

func (c *ModifierContext) Width() float64          { return c.width }
func (c *ModifierContext) Metrics() Metrics        { return c.metrics }
func (c *ModifierContext) X() float64              { return c.x }
func (c *ModifierContext) SetX(x float64)          { c.x = x }
func (c *ModifierContext) ShouldIgnoreTicks() bool { return false }
