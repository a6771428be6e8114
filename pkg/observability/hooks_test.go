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
	p.OnParseStart(ctx, "flowchart")
	p.OnParseComplete(ctx, "flowchart", 100, time.Second, 2)
	p.OnLayoutStart(ctx, "flowchart", 100)
	p.OnLayoutComplete(ctx, "flowchart", time.Second, 1)
	p.OnRenderStart(ctx, "svg")
	p.OnRenderComplete(ctx, "svg", time.Second, nil)

	// Cache hooks
	c := NoopCacheHooks{}
	c.OnCacheHit(ctx, "parse")
	c.OnCacheMiss(ctx, "layout")
	c.OnCacheSet(ctx, "render", 1024)

	// Service hooks
	s := NoopServiceHooks{}
	s.OnRequest(ctx, "POST", "/api/v1/parse")
	s.OnResponse(ctx, "POST", "/api/v1/parse", 200, time.Second)
}

func TestGlobalHooksRegistry(t *testing.T) {
	// Reset to known state
	Reset()

	// Verify defaults are noop
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Pipeline() should return NoopPipelineHooks by default")
	}
	if _, ok := Cache().(NoopCacheHooks); !ok {
		t.Error("Cache() should return NoopCacheHooks by default")
	}
	if _, ok := Service().(NoopServiceHooks); !ok {
		t.Error("Service() should return NoopServiceHooks by default")
	}

	// Set custom hooks
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

	customService := &testServiceHooks{}
	SetServiceHooks(customService)
	if Service() != customService {
		t.Error("SetServiceHooks should set custom hooks")
	}

	// Reset and verify
	Reset()
	if _, ok := Pipeline().(NoopPipelineHooks); !ok {
		t.Error("Reset() should restore NoopPipelineHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()

	custom := &testPipelineHooks{}
	SetPipelineHooks(custom)

	// Setting nil should be ignored
	SetPipelineHooks(nil)

	if Pipeline() != custom {
		t.Error("SetPipelineHooks(nil) should be ignored")
	}

	Reset()
}

// Test implementations
type testPipelineHooks struct{ NoopPipelineHooks }
type testCacheHooks struct{ NoopCacheHooks }
type testServiceHooks struct{ NoopServiceHooks }
