package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/options/optionstest"
	roottestutil "github.com/kbukum/modeloptions/testutil"
)

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	rc := NewComponent()

	if rc.CachedStore() != nil || rc.Addr() != "" {
		t.Error("expected nothing before Start")
	}
	if err := rc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := rc.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}
	if h := rc.Health(ctx); h.Status != component.StatusHealthy || h.Name != "redis-test" {
		t.Errorf("unexpected health %+v", h)
	}
	if err := rc.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if h := rc.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy after Stop, got %v", h.Status)
	}
}

func TestComponent_SnapshotRestoreKeepsTTL(t *testing.T) {
	ctx := context.Background()
	rc := NewComponent().WithOptionTTL("1h")
	h := roottestutil.T(t)
	h.Setup(rc)

	store := rc.CachedStore()
	w := optionstest.Widget{ID: "1"}
	if err := store.SetOption(ctx, w, "color", "blue"); err != nil {
		t.Fatalf("SetOption: %v", err)
	}
	snap := h.Snapshot(rc).(Snapshot)
	if e := snap["widget-color"]; e.Value != `"blue"` || e.TTL != time.Hour {
		t.Fatalf("unexpected snapshot entry %+v", e)
	}

	h.Reset(rc)
	if has, _ := store.HasOption(ctx, w, "color"); has {
		t.Fatal("expected Reset to clear the slot")
	}

	h.Restore(rc, snap)
	got, err := store.GetOption(ctx, w, "color", nil)
	if err != nil || got != "blue" {
		t.Fatalf("GetOption after restore = (%v, %v)", got, err)
	}

	rc.FastForward(2 * time.Hour)
	if has, _ := store.HasOption(ctx, w, "color"); has {
		t.Error("expected the restored TTL to expire the slot")
	}
}

func TestComponent_RestoreRejectsForeignSnapshot(t *testing.T) {
	rc := NewComponent()
	roottestutil.T(t).Setup(rc)
	if err := rc.Restore(context.Background(), map[string]string{}); err == nil {
		t.Error("expected type error")
	}
}
