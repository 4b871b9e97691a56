package logger

import (
	"maps"
	"slices"
	"sync"
)

// named holds per-component loggers derived from the global logger.
var named = struct {
	sync.RWMutex
	loggers map[string]*Logger
}{loggers: make(map[string]*Logger)}

// Register stores l under name, replacing any previous entry.
func Register(name string, l *Logger) {
	named.Lock()
	named.loggers[name] = l
	named.Unlock()
}

// Get returns the logger registered under name. Unregistered names get the
// global logger tagged with the component name; the result is cached so
// repeated lookups from hot paths do not allocate.
func Get(name string) *Logger {
	named.RLock()
	l, ok := named.loggers[name]
	named.RUnlock()
	if ok {
		return l
	}

	named.Lock()
	defer named.Unlock()
	if l, ok := named.loggers[name]; ok {
		return l
	}
	l = GetGlobalLogger().WithComponent(name)
	named.loggers[name] = l
	return l
}

// Names lists the registered component names in sorted order.
func Names() []string {
	named.RLock()
	defer named.RUnlock()
	return slices.Sorted(maps.Keys(named.loggers))
}

// Reset drops every registered logger. Init calls it so components pick up
// the new global configuration.
func Reset() {
	named.Lock()
	named.loggers = make(map[string]*Logger)
	named.Unlock()
}
