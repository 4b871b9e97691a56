package redis_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kbukum/modeloptions/options"
	"github.com/kbukum/modeloptions/options/optionstest"
	redistest "github.com/kbukum/modeloptions/redis/testutil"
	"github.com/kbukum/modeloptions/testutil"
)

func TestCachedStoreOverRedis_Suite(t *testing.T) {
	optionstest.RunStoreSuite(t, func(t *testing.T) options.Store {
		rc := redistest.NewComponent()
		testutil.T(t).Setup(rc)
		return rc.CachedStore()
	})
}

func TestCachedStoreOverRedis_SharedByType(t *testing.T) {
	rc := redistest.NewComponent().WithKeyPrefix("opts")
	testutil.T(t).Setup(rc)
	store := rc.CachedStore()
	ctx := context.Background()

	require.NoError(t, store.SetOption(ctx, optionstest.Widget{ID: "1"}, "featured", true))

	got, err := store.GetOption(ctx, optionstest.Widget{ID: "99"}, "featured", false)
	require.NoError(t, err)
	assert.Equal(t, true, got)

	n, err := rc.Client().Exists(ctx, "opts:widget-featured")
	require.NoError(t, err)
	assert.EqualValues(t, 1, n)
}

func TestCachedStoreOverRedis_FalsyAndExpiry(t *testing.T) {
	rc := redistest.NewComponent().WithOptionTTL("1m")
	testutil.T(t).Setup(rc)
	store := rc.CachedStore()
	ctx := context.Background()
	w := optionstest.Widget{ID: "1"}

	require.NoError(t, store.SetOption(ctx, w, "count", 0))
	has, err := store.HasOption(ctx, w, "count")
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, store.SetOption(ctx, w, "count", 5))
	got, err := store.GetOption(ctx, w, "count", nil)
	require.NoError(t, err)
	assert.Equal(t, 5, got)

	rc.FastForward(2 * time.Minute)
	got, err = store.GetOption(ctx, w, "count", "gone")
	require.NoError(t, err)
	assert.Equal(t, "gone", got)

	require.NoError(t, store.DeleteOption(ctx, w, "count"))
}
