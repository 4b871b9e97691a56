// Package testutil runs the Redis-backed cached option store on miniredis.
//
//	rc := testutil.NewComponent().WithOptionTTL("1h")
//	roottestutil.T(t).Setup(rc)
//	store := rc.CachedStore()
//	rc.FastForward(2 * time.Hour) // expire every slot
package testutil
