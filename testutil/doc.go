// Package testutil runs backing-service components in tests.
//
// A TestComponent is a component.Component that can also be reset between
// test cases and rolled back to a snapshot. The database and redis packages
// each ship one under their own testutil subpackage.
//
//	func TestPersisted(t *testing.T) {
//	    db := dbtest.NewComponent()
//	    testutil.T(t).Setup(db)
//	    store := db.OptionStore()
//	    // ...
//	}
//
// Manager starts several components together and stops them in reverse
// order.
package testutil
