package observability

import (
	"context"
	"errors"
	"testing"
	"time"
)

func TestNoopHooksDoNotPanic(t *testing.T) {
	ctx := context.Background()

	s := NoopStoreHooks{}
	s.OnRead(ctx, "find", "abc", time.Millisecond)
	s.OnWrite(ctx, "set_attributes", "abc", 3, time.Millisecond)
	s.OnError(ctx, "find", "abc", errors.New("boom"))

	h := NoopHierarchyHooks{}
	h.OnResolveStart(ctx, 10)
	h.OnResolveComplete(ctx, 4, time.Second, nil)
	h.OnSkip(ctx, "abc", nil)
}

func TestGlobalHooksRegistry(t *testing.T) {
	Reset()

	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Store() should return NoopStoreHooks by default")
	}
	if _, ok := Hierarchy().(NoopHierarchyHooks); !ok {
		t.Error("Hierarchy() should return NoopHierarchyHooks by default")
	}

	customStore := &testStoreHooks{}
	SetStoreHooks(customStore)
	if Store() != customStore {
		t.Error("SetStoreHooks should set custom hooks")
	}

	customHierarchy := &testHierarchyHooks{}
	SetHierarchyHooks(customHierarchy)
	if Hierarchy() != customHierarchy {
		t.Error("SetHierarchyHooks should set custom hooks")
	}

	Reset()
	if _, ok := Store().(NoopStoreHooks); !ok {
		t.Error("Reset() should restore NoopStoreHooks")
	}
	if _, ok := Hierarchy().(NoopHierarchyHooks); !ok {
		t.Error("Reset() should restore NoopHierarchyHooks")
	}
}

func TestSetNilHooksIsIgnored(t *testing.T) {
	Reset()
	defer Reset()

	custom := &testStoreHooks{}
	SetStoreHooks(custom)
	SetStoreHooks(nil)
	if Store() != custom {
		t.Error("SetStoreHooks(nil) should keep the current hooks")
	}
}

func TestCustomHooksReceiveEvents(t *testing.T) {
	Reset()
	defer Reset()

	h := &testHierarchyHooks{}
	SetHierarchyHooks(h)

	ctx := context.Background()
	Hierarchy().OnResolveStart(ctx, 3)
	Hierarchy().OnSkip(ctx, "e1", errors.New("unreadable tags"))
	Hierarchy().OnResolveComplete(ctx, 2, time.Millisecond, nil)

	if h.starts != 1 || h.skips != 1 || h.completes != 1 {
		t.Errorf("events = %+v", h)
	}
}

type testStoreHooks struct{ reads, writes, errs int }

func (h *testStoreHooks) OnRead(context.Context, string, string, time.Duration) { h.reads++ }
func (h *testStoreHooks) OnWrite(context.Context, string, string, int, time.Duration) {
	h.writes++
}
func (h *testStoreHooks) OnError(context.Context, string, string, error) { h.errs++ }

type testHierarchyHooks struct{ starts, completes, skips int }

func (h *testHierarchyHooks) OnResolveStart(context.Context, int) { h.starts++ }
func (h *testHierarchyHooks) OnResolveComplete(context.Context, int, time.Duration, error) {
	h.completes++
}
func (h *testHierarchyHooks) OnSkip(context.Context, string, error) { h.skips++ }
