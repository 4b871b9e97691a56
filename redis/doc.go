// Package redis backs the cached option store with Redis.
//
// OptionCache writes each slot as a JSON string, so values keep their
// native type across processes:
//
//	comp := redis.NewComponent(redis.Config{Enabled: true, Addr: "localhost:6379"}, log)
//	if err := comp.Start(ctx); err != nil { ... }
//	store := comp.CachedStore()
//	_ = store.SetOption(ctx, widget, "featured", true)
//
// Slots are shared by every owner of one type. Set Config.OptionTTL to let
// Redis expire them.
package redis
