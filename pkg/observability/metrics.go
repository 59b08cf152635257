package observability

import (
	"fmt"

	"github.com/aretw0/savestate/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by the pipeline hooks.
type Metrics struct {
	ScenariosResolved *prometheus.CounterVec
	ScenariosMissing  *prometheus.CounterVec
	ContentMissing    *prometheus.CounterVec
	CarryoverExpanded prometheus.Counter
	StartSaves        prometheus.Counter
	ResidualSides     prometheus.Histogram
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		ScenariosResolved: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savestate_scenarios_resolved_total",
				Help: "Total number of scenarios resolved from the catalog",
			},
			[]string{"catalog_tag"},
		),
		ScenariosMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savestate_scenarios_missing_total",
				Help: "Total number of scenario lookups that found nothing",
			},
			[]string{"catalog_tag"},
		),
		ContentMissing: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "savestate_content_missing_total",
				Help: "Total number of era, modification and option lookups that found nothing",
			},
			[]string{"kind", "catalog"},
		),
		CarryoverExpanded: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "savestate_carryover_expanded_total",
			Help: "Total number of carryover blocks merged into a scenario",
		}),
		StartSaves: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "savestate_start_saves_total",
			Help: "Total number of snapshots converted to start-of-scenario saves",
		}),
		ResidualSides: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "savestate_carryover_residual_sides",
			Help:    "Sides left unclaimed in the carryover block after expansion",
			Buckets: []float64{0, 1, 2, 4, 8},
		}),
	}

	for _, c := range []prometheus.Collector{
		m.ScenariosResolved, m.ScenariosMissing, m.ContentMissing,
		m.CarryoverExpanded, m.StartSaves, m.ResidualSides,
	} {
		if err := reg.Register(c); err != nil {
			return nil, fmt.Errorf("failed to register metric: %w", err)
		}
	}
	return m, nil
}

// Hooks returns lifecycle hooks that record into m.
func (m *Metrics) Hooks() domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScenarioResolved: func(e *domain.ScenarioEvent) {
			m.ScenariosResolved.WithLabelValues(e.CatalogTag).Inc()
		},
		OnScenarioMissing: func(e *domain.ScenarioEvent) {
			m.ScenariosMissing.WithLabelValues(e.CatalogTag).Inc()
		},
		OnContentMissing: func(e *domain.ContentEvent) {
			m.ContentMissing.WithLabelValues(e.Kind, e.Catalog).Inc()
		},
		OnCarryoverExpanded: func(e *domain.CarryoverEvent) {
			m.CarryoverExpanded.Inc()
			m.ResidualSides.Observe(float64(e.Residual))
		},
		OnStartSave: func(*domain.CarryoverEvent) {
			m.StartSaves.Inc()
		},
	}
}
