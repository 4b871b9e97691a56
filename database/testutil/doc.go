// Package testutil runs the persisted option store on a private in-memory
// sqlite database.
//
//	db := testutil.NewComponent()
//	roottestutil.T(t).Setup(db)
//	store := db.OptionStore()
//
// Reset empties model_options. Snapshot and Restore copy its rows.
package testutil
