package observability

import (
	"log/slog"

	"github.com/aretw0/savestate/pkg/domain"
)

// LogHooks returns lifecycle hooks that write one structured record per event.
func LogHooks(logger *slog.Logger) domain.LifecycleHooks {
	return domain.LifecycleHooks{
		OnScenarioResolved: func(e *domain.ScenarioEvent) {
			logger.Info("scenario_resolved", "scenario", e.ScenarioID, "tag", e.CatalogTag, "hash", e.Hash)
		},
		OnScenarioMissing: func(e *domain.ScenarioEvent) {
			logger.Warn("scenario_missing", "scenario", e.ScenarioID, "tag", e.CatalogTag)
		},
		OnContentMissing: func(e *domain.ContentEvent) {
			logger.Debug("content_missing", "kind", e.Kind, "id", e.ID, "catalog", e.Catalog)
		},
		OnCarryoverExpanded: func(e *domain.CarryoverEvent) {
			logger.Info("carryover_expanded", "scenario", e.ScenarioID, "residual_sides", e.Residual)
		},
		OnStartSave: func(e *domain.CarryoverEvent) {
			logger.Info("start_save", "next_scenario", e.ScenarioID, "sides", e.Residual)
		},
	}
}
