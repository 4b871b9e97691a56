package component

import "context"

// HealthStatus is the coarse state a component reports.
type HealthStatus string

const (
	StatusHealthy   HealthStatus = "healthy"
	StatusDegraded  HealthStatus = "degraded"
	StatusUnhealthy HealthStatus = "unhealthy"
)

// Health is one component's answer to a health probe.
type Health struct {
	Name    string       `json:"name"`
	Status  HealthStatus `json:"status"`
	Message string       `json:"message,omitempty"`
}

// Component is a backing service an option store depends on, the options
// database or the redis cache. Stores built on a component are usable only
// after Start returned nil and until Stop is called.
type Component interface {
	Name() string
	Start(ctx context.Context) error
	Stop(ctx context.Context) error
	Health(ctx context.Context) Health
}

// Description summarizes a component for startup output, e.g.
// {Name: "Database", Type: "database", Details: "sqlite file::memory:"}.
type Description struct {
	Name    string
	Type    string
	Details string
}

// Describable is implemented by components that can summarize their
// configuration.
type Describable interface {
	Describe() Description
}

// Describe returns c's description, falling back to its Name when c is not
// Describable or leaves the name empty.
func Describe(c Component) Description {
	var desc Description
	if d, ok := c.(Describable); ok {
		desc = d.Describe()
	}
	if desc.Name == "" {
		desc.Name = c.Name()
	}
	return desc
}
