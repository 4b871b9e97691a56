// Package component defines the lifecycle contract shared by the backing
// services of the option stores.
//
// A Registry starts components in registration order, stops them in reverse
// order, and aggregates their health.
package component
