package testutil_test

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/testutil"
)

type fakeComponent struct {
	name     string
	log      *[]string
	startErr error
	stopErr  error
	state    map[string]string
}

func newFake(name string, log *[]string) *fakeComponent {
	return &fakeComponent{name: name, log: log, state: map[string]string{}}
}

func (f *fakeComponent) Name() string { return f.name }

func (f *fakeComponent) Start(context.Context) error {
	*f.log = append(*f.log, "start:"+f.name)
	return f.startErr
}

func (f *fakeComponent) Stop(context.Context) error {
	*f.log = append(*f.log, "stop:"+f.name)
	return f.stopErr
}

func (f *fakeComponent) Health(context.Context) component.Health {
	return component.Health{Name: f.name, Status: component.StatusHealthy}
}

func (f *fakeComponent) Reset(context.Context) error {
	f.state = map[string]string{}
	return nil
}

func (f *fakeComponent) Snapshot(context.Context) (interface{}, error) {
	cp := make(map[string]string, len(f.state))
	for k, v := range f.state {
		cp[k] = v
	}
	return cp, nil
}

func (f *fakeComponent) Restore(_ context.Context, snap interface{}) error {
	state, ok := snap.(map[string]string)
	if !ok {
		return errors.New("unexpected snapshot type")
	}
	f.state = state
	return nil
}

func TestManager_Order(t *testing.T) {
	var log []string
	m := testutil.NewManager(context.Background()).
		Add(newFake("database", &log), newFake("redis", &log))

	if err := m.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	if err := m.StopAll(); err != nil {
		t.Fatalf("StopAll: %v", err)
	}

	want := []string{"start:database", "start:redis", "stop:redis", "stop:database"}
	if len(log) != len(want) {
		t.Fatalf("log = %v, want %v", log, want)
	}
	for i := range want {
		if log[i] != want[i] {
			t.Errorf("log[%d] = %q, want %q", i, log[i], want[i])
		}
	}
}

func TestManager_StartFailureStops(t *testing.T) {
	var log []string
	bad := newFake("redis", &log)
	bad.startErr = errors.New("refused")
	m := testutil.NewManager(context.Background()).Add(bad, newFake("database", &log))

	err := m.StartAll()
	if err == nil || !errors.Is(err, bad.startErr) {
		t.Fatalf("expected wrapped start error, got %v", err)
	}
	if len(log) != 1 {
		t.Errorf("expected later components untouched, got %v", log)
	}
}

func TestManager_StopAllJoinsErrors(t *testing.T) {
	var log []string
	a, b := newFake("a", &log), newFake("b", &log)
	a.stopErr = errors.New("a failed")
	b.stopErr = errors.New("b failed")

	m := testutil.NewManager(context.Background()).Add(a, b)
	if err := m.StartAll(); err != nil {
		t.Fatalf("StartAll: %v", err)
	}
	err := m.StopAll()
	if !errors.Is(err, a.stopErr) || !errors.Is(err, b.stopErr) {
		t.Errorf("expected both stop errors, got %v", err)
	}
}

func TestManager_RollsBackFailedStart(t *testing.T) {
	var log []string
	bad := newFake("redis", &log)
	bad.startErr = errors.New("refused")
	m := testutil.NewManager(context.Background()).Add(newFake("database", &log), bad)

	if err := m.StartAll(); err == nil {
		t.Fatal("expected start error")
	}
	want := []string{"start:database", "start:redis", "stop:database"}
	if strings.Join(log, ",") != strings.Join(want, ",") {
		t.Errorf("log = %v, want %v", log, want)
	}
}

func TestManager_DuplicateName(t *testing.T) {
	var log []string
	m := testutil.NewManager(context.Background()).Add(newFake("db", &log), newFake("db", &log))
	if err := m.StartAll(); err == nil {
		t.Error("expected duplicate registration to fail StartAll")
	}
	if len(log) != 0 {
		t.Errorf("nothing should start, got %v", log)
	}
}

func TestManager_SnapshotRestoreAll(t *testing.T) {
	var log []string
	db, cache := newFake("database", &log), newFake("cache", &log)
	db.state["widget-color"] = "blue"
	m := testutil.NewManager(context.Background()).Add(db, cache)

	snaps, err := m.SnapshotAll()
	if err != nil {
		t.Fatalf("SnapshotAll: %v", err)
	}
	db.state["widget-color"] = "red"
	cache.state["widget-size"] = "10"

	if err := m.RestoreAll(snaps); err != nil {
		t.Fatalf("RestoreAll: %v", err)
	}
	if db.state["widget-color"] != "blue" || len(cache.state) != 0 {
		t.Errorf("unexpected state db=%v cache=%v", db.state, cache.state)
	}
}

func TestManager_GetAndReset(t *testing.T) {
	var log []string
	f := newFake("database", &log)
	f.state["k"] = "v"
	m := testutil.NewManager(context.Background()).Add(f)

	if m.Get("database") != f {
		t.Error("expected Get to return the registered component")
	}
	if m.Get("missing") != nil {
		t.Error("expected nil for an unknown name")
	}
	if err := m.ResetAll(); err != nil {
		t.Fatalf("ResetAll: %v", err)
	}
	if len(f.state) != 0 {
		t.Errorf("expected empty state, got %v", f.state)
	}
}

func TestTHelper_SnapshotRestore(t *testing.T) {
	var log []string
	f := newFake("cache", &log)

	h := testutil.T(t)
	h.Setup(f)
	f.state["color"] = "blue"
	snap := h.Snapshot(f)

	f.state["color"] = "red"
	h.Restore(f, snap)
	if f.state["color"] != "blue" {
		t.Errorf("expected restored value blue, got %q", f.state["color"])
	}

	h.Reset(f)
	if len(f.state) != 0 {
		t.Errorf("expected reset state, got %v", f.state)
	}
}
