package optionstest

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/modeloptions/errors"
	"github.com/kbukum/modeloptions/options"
)

// RunStoreSuite checks the behavior every Store shares. newStore must return
// an empty store for each call.
func RunStoreSuite(t *testing.T, newStore func(t *testing.T) options.Store) {
	t.Helper()

	t.Run("get returns the sniffed value", func(t *testing.T) {
		tests := []struct {
			name string
			in   any
			want any
		}{
			{"title bool", "True", true},
			{"lower bool", "false", false},
			{"int text", "123", 123},
			{"float text", "1.23", 1.23},
			{"plain text", "foo", "foo"},
			{"native bool", true, true},
			{"native int", 42, 42},
			{"native float", 1.23, 1.23},
			{"integral float", 2.0, 2.0},
			{"negative float", -0.5, -0.5},
			{"integral float text", "2.0", 2.0},
		}
		for _, tc := range tests {
			t.Run(tc.name, func(t *testing.T) {
				store := newStore(t)
				ctx := context.Background()
				w := Widget{ID: "1"}

				require.NoError(t, store.SetOption(ctx, w, "key", tc.in))
				got, err := store.GetOption(ctx, w, "key", "default")
				require.NoError(t, err)
				assert.Equal(t, tc.want, got)
			})
		}
	})

	t.Run("missing key returns default unchanged", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		got, err := store.GetOption(ctx, Widget{ID: "1"}, "missing", "fizbaz")
		require.NoError(t, err)
		assert.Equal(t, "fizbaz", got)

		got, err = store.GetOption(ctx, Widget{ID: "1"}, "missing", "123")
		require.NoError(t, err)
		assert.Equal(t, "123", got, "the default must not be sniffed")

		got, err = store.GetOption(ctx, Widget{ID: "1"}, "missing", nil)
		require.NoError(t, err)
		assert.Nil(t, got)
	})

	t.Run("has follows set", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		w := Widget{ID: "1"}

		has, err := store.HasOption(ctx, w, "color")
		require.NoError(t, err)
		assert.False(t, has)

		require.NoError(t, store.SetOption(ctx, w, "color", "blue"))
		has, err = store.HasOption(ctx, w, "color")
		require.NoError(t, err)
		assert.True(t, has)
	})

	t.Run("last write wins", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		w := Widget{ID: "1"}

		require.NoError(t, store.SetOption(ctx, w, "color", "red"))
		require.NoError(t, store.SetOption(ctx, w, "color", "blue"))

		got, err := store.GetOption(ctx, w, "color", nil)
		require.NoError(t, err)
		assert.Equal(t, "blue", got)
	})

	t.Run("delete removes a set key", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		w := Widget{ID: "1"}

		require.NoError(t, store.SetOption(ctx, w, "color", "blue"))
		require.NoError(t, store.DeleteOption(ctx, w, "color"))

		has, err := store.HasOption(ctx, w, "color")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("owner types are isolated", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()

		require.NoError(t, store.SetOption(ctx, Widget{ID: "1"}, "color", "blue"))
		has, err := store.HasOption(ctx, Gadget{ID: "1"}, "color")
		require.NoError(t, err)
		assert.False(t, has)
	})

	t.Run("bound handle", func(t *testing.T) {
		store := newStore(t)
		ctx := context.Background()
		opts := options.For(store, Widget{ID: "1"})

		require.NoError(t, opts.Enable(ctx, "featured"))
		v, err := opts.Value(ctx, "featured")
		require.NoError(t, err)
		assert.Equal(t, true, v)

		v, err = opts.Value(ctx, "unset")
		require.NoError(t, err)
		assert.Nil(t, v)

		require.NoError(t, opts.Set(ctx, "size", 3))
		v, err = opts.Get(ctx, "size", 0)
		require.NoError(t, err)
		assert.Equal(t, 3, v)

		has, err := opts.Has(ctx, "size")
		require.NoError(t, err)
		assert.True(t, has)
		require.NoError(t, opts.Delete(ctx, "size"))
		assert.Equal(t, Widget{ID: "1"}, opts.Owner())
	})

	t.Run("nil owner is rejected", func(t *testing.T) {
		store := newStore(t)
		err := store.SetOption(context.Background(), nil, "color", "blue")
		assert.True(t, errors.IsInvalidInput(err), "got %v", err)
	})
}
