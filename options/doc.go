// Package options attaches ad-hoc key/value options to owner entities.
//
// Two stores implement the same Store contract with different semantics:
//
//   - database.OptionStore persists one row per (owner, key) and fails to
//     delete a key that was never set.
//   - CachedStore keeps one cache slot per (owner type, key). Instances of a
//     type share their options, a falsy stored value reads as absent, and
//     delete is idempotent.
//
// Stored text is mapped back to native values with sniff.Detect on read.
//
//	opts := options.For(store, widget)
//	_ = opts.Enable(ctx, "featured")
//	v, _ := opts.Get(ctx, "color", "red")
package options
