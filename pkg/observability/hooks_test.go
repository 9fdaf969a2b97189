package observability

import (
	"context"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	// Pipeline hooks
	p := NoopPipelineHooks{}
	p.OnParseStart(ctx)
	p.OnParseComplete(ctx, 12, time.Second, nil)
	p.OnLayoutStart(ctx, 2)
	p.OnLayoutComplete(ctx, time.Second, nil)
	p.OnRenderStart(ctx, []string{"svg"})
	p.OnRenderComplete(ctx, []string{"svg"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "document")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	customPipeline := &testPipelineHooks{}
	SetPipelineHooks(customPipeline)
	if Pipeline() != customPipeline {
		t.Error("SetPipelineHooks should set custom hooks")
	}

	customCache := &testCacheHooks{}
	SetCacheHooks(customCache)
	if Cache() != customCache {
		t.Error("SetCacheHooks should set custom hooks")
	}

	// Reset restores the no-op defaults
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Reset() should restore NoopCacheHooks")
	}
}

func TestSetNilHooksIgnored(t *testing.T) {
	Reset()

	SetPipelineHooks(nil)
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("SetPipelineHooks(nil) should keep the previous hooks")
	}
	SetCacheHooks(nil)
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("SetCacheHooks(nil) should keep the previous hooks")
	}
}

func TestPipelineHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	hooks := &testPipelineHooks{}
	SetPipelineHooks(hooks)

	ctx := context.Background()
	Pipeline().OnParseStart(ctx)
	Pipeline().OnParseComplete(ctx, 3, time.Millisecond, nil)
	Pipeline().OnLayoutStart(ctx, 1)
	Pipeline().OnLayoutComplete(ctx, time.Millisecond, nil)
	Pipeline().OnRenderStart(ctx, []string{"svg", "json"})
	Pipeline().OnRenderComplete(ctx, []string{"svg", "json"}, time.Millisecond, nil)

	if hooks.parseStarts != 1 || hooks.parseCompletes != 1 {
		t.Errorf("parse events = %d/%d, want 1/1", hooks.parseStarts, hooks.parseCompletes)
	}
	if hooks.layoutStaves != 1 {
		t.Errorf("layout stave count = %d, want 1", hooks.layoutStaves)
	}
	if hooks.renderFormats != 2 {
		t.Errorf("render format count = %d, want 2", hooks.renderFormats)
	}
}

type testPipelineHooks struct {
	parseStarts    int
	parseCompletes int
	layoutStaves   int
	renderFormats  int
}

func (h *testPipelineHooks) OnParseStart(context.Context) { h.parseStarts++ }
func (h *testPipelineHooks) OnParseComplete(_ context.Context, _ int, _ time.Duration, _ error) {
	h.parseCompletes++
}
func (h *testPipelineHooks) OnLayoutStart(_ context.Context, staves int) { h.layoutStaves = staves }
func (h *testPipelineHooks) OnLayoutComplete(context.Context, time.Duration, error) {}
func (h *testPipelineHooks) OnRenderStart(_ context.Context, formats []string) {
	h.renderFormats = len(formats)
}
func (h *testPipelineHooks) OnRenderComplete(context.Context, []string, time.Duration, error) {}

type testCacheHooks struct {
	hits, misses, sets int
}

func (h *testCacheHooks) OnCacheHit(context.Context, string)      { h.hits++ }
func (h *testCacheHooks) OnCacheMiss(context.Context, string)     { h.misses++ }
func (h *testCacheHooks) OnCacheSet(context.Context, string, int) { h.sets++ }
