package testutil

import (
	"context"
	"testing"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/database"
	"github.com/kbukum/modeloptions/options/optionstest"
	roottestutil "github.com/kbukum/modeloptions/testutil"
)

func TestComponent_Lifecycle(t *testing.T) {
	ctx := context.Background()
	tc := NewComponent()

	if tc.OptionStore() != nil {
		t.Error("OptionStore should be nil before Start")
	}
	if h := tc.Health(ctx); h.Status != component.StatusUnhealthy {
		t.Errorf("expected unhealthy before Start, got %v", h.Status)
	}

	if err := tc.Start(ctx); err != nil {
		t.Fatalf("Start: %v", err)
	}
	if err := tc.Start(ctx); err == nil {
		t.Error("expected second Start to fail")
	}
	if h := tc.Health(ctx); h.Status != component.StatusHealthy || h.Name != "database-test" {
		t.Errorf("unexpected health %+v", h)
	}
	if err := tc.Stop(ctx); err != nil {
		t.Fatalf("Stop: %v", err)
	}
	if err := tc.Stop(ctx); err != nil {
		t.Errorf("second Stop should be a no-op, got %v", err)
	}
}

func TestComponent_ResetSnapshotRestore(t *testing.T) {
	for name, tc := range map[string]*Component{
		"auto migrate":   NewComponent(),
		"sql migrations": NewComponent().WithSQLMigrations(),
	} {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			h := roottestutil.T(t)
			h.Setup(tc)

			store := tc.OptionStore()
			w := optionstest.Widget{ID: "1"}
			if err := store.SetOption(ctx, w, "color", "blue"); err != nil {
				t.Fatalf("SetOption: %v", err)
			}
			snap := h.Snapshot(tc)

			if err := store.SetOption(ctx, w, "size", 3); err != nil {
				t.Fatalf("SetOption: %v", err)
			}
			AssertOptionCount(t, tc.DB(), "widget", "1", 2)

			h.Restore(tc, snap)
			AssertOptionCount(t, tc.DB(), "widget", "1", 1)

			h.Reset(tc)
			AssertOptionCount(t, tc.DB(), "", "", 0)
		})
	}
}

func TestFixtures(t *testing.T) {
	tc := NewComponent()
	roottestutil.T(t).Setup(tc)

	MustLoadOptions(t, tc.DB(),
		database.Option{OwnerType: "widget", OwnerID: "1", Key: "color", Value: "blue"},
		database.Option{OwnerType: "widget", OwnerID: "2", Key: "color", Value: "red"},
	)
	AssertOptionCount(t, tc.DB(), "widget", "1", 1)
	AssertOptionCount(t, tc.DB(), "", "", 2)

	got, err := tc.OptionStore().GetOption(context.Background(), optionstest.Widget{ID: "2"}, "color", nil)
	if err != nil || got != "red" {
		t.Errorf("GetOption = (%v, %v), want red", got, err)
	}
}
