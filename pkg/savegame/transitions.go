package savegame

import (
	"github.com/aretw0/savestate/pkg/carryover"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/replay"
)

// SetSnapshot makes doc the mid-scenario snapshot and returns it. The save takes ownership of doc.
func (sg *SavedGame) SetSnapshot(doc *document.Config) *document.Config {
	sg.start = domain.SnapshotStart(doc)
	return sg.start.Document()
}

// SetScenario installs a scenario definition. The scenario is treated as not yet expanded.
func (sg *SavedGame) SetScenario(doc *document.Config) {
	sg.start = domain.ScenarioStart(doc)
	sg.carryoverExpanded = false
	sg.updateLabel()
}

// ClearStartingPosition drops the snapshot or scenario.
func (sg *SavedGame) ClearStartingPosition() {
	sg.start = domain.NoStart()
}

// ConvertToStartSave turns a mid-scenario snapshot into a start-of-scenario save for the
// next scenario. The live sides become the new pending carryover, merged with the previous
// baseline, and the random generator moves on. The replay is discarded.
//
// It panics unless the save holds a snapshot.
func (sg *SavedGame) ConvertToStartSave() {
	if sg.start.Kind() != domain.StartSnapshot {
		panic("savegame: ConvertToStartSave requires a snapshot, have " + sg.start.Kind().String())
	}

	info := carryover.FromSnapshot(sg.start.Document())
	info.MergePrevious(carryover.FromDocument(sg.carryover))
	info.RNG.Rotate()

	sg.carryover = info.ToDocument()
	sg.carryoverExpanded = false
	sg.replay = replay.New()
	sg.replayStart = document.New()
	sg.ClearStartingPosition()

	sg.logger.Debug("converted to start save", "next_scenario", info.NextScenario, "sides", len(info.Sides))
	if sg.hooks.OnStartSave != nil {
		sg.hooks.OnStartSave(&domain.CarryoverEvent{
			EventBase:  domain.NewEventBase(domain.EventStartSave),
			ScenarioID: info.NextScenario,
			Residual:   len(info.Sides),
		})
	}
}

// ScenarioID returns the id of the active scenario, or of the pending next scenario.
// "null" stands for no scenario and reads as "".
//
// It panics once the carryover was expanded without an active scenario, since nothing
// records the id any more.
func (sg *SavedGame) ScenarioID() string {
	var id string
	switch {
	case sg.start.Kind() == domain.StartSnapshot || sg.start.Kind() == domain.StartScenario:
		id = sg.start.Document().Get("id").Str()
	case !sg.carryoverExpanded:
		id = sg.carryover.Get("next_scenario").Str()
	default:
		panic("savegame: cannot determine scenario id: carryover expanded without a " + domain.TagScenario)
	}
	if id == "null" {
		return ""
	}
	return id
}

// ReplayStartingPosition returns the document a replay starts from: the recorded
// [replay_start] if any, otherwise the expanded scenario. It returns nil when neither exists.
// Resolving the scenario may expand it and its carryover.
func (sg *SavedGame) ReplayStartingPosition() *document.Config {
	if !sg.replayStart.Empty() {
		return sg.replayStart
	}
	if !sg.carryoverExpanded {
		sg.ExpandScenario()
		sg.ExpandCarryover()
	}
	if sg.start.Kind() == domain.StartScenario {
		return sg.start.Document()
	}
	return nil
}

// CancelOrders clears the queued multi-turn moves of units on human and network sides.
// AI sides keep theirs, since scenario scripts use goto_x/goto_y to direct the AI.
func (sg *SavedGame) CancelOrders() {
	for _, side := range sg.start.Document().ChildRange("side") {
		ctrl := side.Get("controller").Str()
		if ctrl != domain.ControllerHuman && ctrl != domain.ControllerNetwork {
			continue
		}
		for _, unit := range side.ChildRange("unit") {
			unit.Set("goto_x", domain.NoOrder)
			unit.Set("goto_y", domain.NoOrder)
		}
	}
}

// UnifyControllers maps network controllers to their local equivalents.
func (sg *SavedGame) UnifyControllers() {
	for _, side := range sg.start.Document().ChildRange("side") {
		switch side.Get("controller").Str() {
		case domain.ControllerNetwork:
			side.Set("controller", domain.ControllerHuman)
		case domain.ControllerNetworkAI:
			side.Set("controller", domain.ControllerAI)
		}
	}
}
