package bootstrap

import (
	"context"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/kbukum/modeloptions/component"
	"github.com/kbukum/modeloptions/logger"
)

// InfrastructureInfo describes one started backing component.
type InfrastructureInfo struct {
	Name    string
	Type    string // "database", "redis"
	Details string
}

// StoreInfo describes one option store and the backend it runs on.
type StoreInfo struct {
	Name    string // "persisted", "cached"
	Backend string
}

// Summary tracks what the app started and renders it once startup is done.
type Summary struct {
	serviceName     string
	version         string
	startupDuration time.Duration
	infrastructure  []InfrastructureInfo
	stores          []StoreInfo
}

// NewSummary creates a new bootstrap summary tracker.
func NewSummary(serviceName, version string) *Summary {
	return &Summary{serviceName: serviceName, version: version}
}

// SetStartupDuration records the total startup time.
func (s *Summary) SetStartupDuration(d time.Duration) {
	s.startupDuration = d
}

// TrackInfrastructure records a backing component.
func (s *Summary) TrackInfrastructure(name, componentType, details string) {
	s.infrastructure = append(s.infrastructure, InfrastructureInfo{
		Name:    name,
		Type:    componentType,
		Details: details,
	})
}

// TrackStore records an option store.
func (s *Summary) TrackStore(name, backend string) {
	s.stores = append(s.stores, StoreInfo{Name: name, Backend: backend})
}

// Collect fills the summary from the registry. Components implementing
// component.Describable contribute their description. Collect replaces
// earlier collected entries.
func (s *Summary) Collect(registry *component.Registry, cacheBackend string) {
	s.infrastructure = s.infrastructure[:0]
	s.stores = s.stores[:0]

	for _, c := range registry.All() {
		desc := component.Describe(c)
		info := InfrastructureInfo{Name: desc.Name, Type: desc.Type, Details: desc.Details}
		s.infrastructure = append(s.infrastructure, info)
		if info.Type == "database" {
			s.TrackStore("persisted", info.Name)
		}
	}
	if cacheBackend != "" {
		s.TrackStore("cached", cacheBackend)
	}
}

// Render writes the summary as a tree, followed by the given health results.
func (s *Summary) Render(w io.Writer, health []component.Health) {
	fmt.Fprintf(w, "%s v%s started in %.2fs\n", s.serviceName, s.version, s.startupDuration.Seconds())

	if len(s.infrastructure) > 0 {
		fmt.Fprintf(w, "Infrastructure\n")
		for i, inf := range s.infrastructure {
			fmt.Fprintf(w, "   %s %s [%s]: %s\n", treePrefix(i, len(s.infrastructure)), inf.Name, inf.Type, inf.Details)
		}
	}

	if len(s.stores) > 0 {
		fmt.Fprintf(w, "Stores\n")
		for i, st := range s.stores {
			fmt.Fprintf(w, "   %s %s -> %s\n", treePrefix(i, len(s.stores)), st.Name, st.Backend)
		}
	}

	if len(health) > 0 {
		fmt.Fprintf(w, "Health\n")
		for i, h := range health {
			msg := ""
			if h.Message != "" {
				msg = " (" + h.Message + ")"
			}
			fmt.Fprintf(w, "   %s %s %s: %s%s\n", treePrefix(i, len(health)), healthStatusIcon(h.Status), h.Name, string(h.Status), msg)
		}
	}
}

// Log renders the summary with live health from registry and logs it.
func (s *Summary) Log(ctx context.Context, registry *component.Registry, log *logger.Logger) {
	var b strings.Builder
	s.Render(&b, registry.HealthAll(ctx))
	log.Info("Startup summary\n"+b.String(), map[string]interface{}{
		"startup_ms": s.startupDuration.Milliseconds(),
		"components": len(s.infrastructure),
	})
}

func treePrefix(i, n int) string {
	if i == n-1 {
		return "└──"
	}
	return "├──"
}

func healthStatusIcon(status component.HealthStatus) string {
	switch status {
	case component.StatusHealthy:
		return "✅"
	case component.StatusDegraded:
		return "⚠️"
	case component.StatusUnhealthy:
		return "❌"
	default:
		return "❓"
	}
}
