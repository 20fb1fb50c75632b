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
	p.OnScanStart(ctx, "photos/")
	p.OnScanComplete(ctx, "photos/", 42, time.Second, nil)
	p.OnPackStart(ctx, 42)
	p.OnPackComplete(ctx, 42, 9, time.Second, nil)
	p.OnRenderStart(ctx, []string{"html"})
	p.OnRenderComplete(ctx, []string{"html"}, time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "probe")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "artifact", 1024)
}

type capturingPipelineHooks struct {
	NoopPipelineHooks
	packStarts int
}

func (h *capturingPipelineHooks) OnPackStart(ctx context.Context, itemCount int) {
	h.packStarts++
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()
	defer Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}

	// Registered hooks are returned
	h := &capturingPipelineHooks{}
	SetPipelineHooks(h)
	Pipeline().OnPackStart(context.Background(), 10)
	if h.packStarts != 1 {
		t.Errorf("packStarts = %d, want 1", h.packStarts)
	}

	// Nil registration is ignored
	SetPipelineHooks(nil)
	if Pipeline() != PipelineHooks(h) {
		t.Error("nil registration should not replace hooks")
	}
}
