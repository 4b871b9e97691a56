package observability

import "github.com/kbukum/modeloptions/component"

// ServiceHealth rolls component health up into one status.
type ServiceHealth struct {
	Service    string                 `json:"service"`
	Status     component.HealthStatus `json:"status"`
	Version    string                 `json:"version,omitempty"`
	Components []component.Health     `json:"components,omitempty"`
}

// NewServiceHealth creates a healthy ServiceHealth and folds in components.
func NewServiceHealth(service, version string, components ...component.Health) *ServiceHealth {
	sh := &ServiceHealth{
		Service: service,
		Status:  component.StatusHealthy,
		Version: version,
	}
	for _, ch := range components {
		sh.AddComponent(ch)
	}
	return sh
}

// AddComponent appends ch and lowers the overall status if needed. Unhealthy
// always wins over degraded.
func (sh *ServiceHealth) AddComponent(ch component.Health) {
	sh.Components = append(sh.Components, ch)

	switch ch.Status {
	case component.StatusUnhealthy:
		sh.Status = component.StatusUnhealthy
	case component.StatusDegraded:
		if sh.Status != component.StatusUnhealthy {
			sh.Status = component.StatusDegraded
		}
	}
}

// Healthy reports whether every component is healthy.
func (sh *ServiceHealth) Healthy() bool {
	return sh.Status == component.StatusHealthy
}
