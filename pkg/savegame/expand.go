package savegame

import (
	"errors"
	"fmt"

	"github.com/aretw0/savestate/pkg/carryover"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
)

// teamDefaults are scenario-level attributes that each side inherits unless it sets its own.
var teamDefaults = []string{"carryover_percentage", "carryover_add"}

var (
	errNoScenarioGenerator = errors.New("no scenario generator configured")
	errNoMapGenerator      = errors.New("no map generator configured")
	errNoMapReader         = errors.New("no map reader configured")
)

// contentRef names one era, modification, scenario or campaign whose content is looked up.
type contentRef struct {
	kind string
	id   string
}

// EnsureRandomSeed gives the pending carryover a fresh seed unless it already has one.
func (sg *SavedGame) EnsureRandomSeed() error {
	if sg.carryoverExpanded || !sg.carryover.Get("random_seed").Empty() {
		return nil
	}
	seed, err := carryover.NewSeed()
	if err != nil {
		return err
	}
	carryover.RNG{Seed: seed}.Write(sg.carryover)
	return nil
}

// ExpandScenario resolves the pending next_scenario into a scenario definition.
// It only acts when no starting position is set and the carryover is still pending.
// A scenario missing from the catalog moves the save to the Invalid state.
func (sg *SavedGame) ExpandScenario() {
	if sg.start.Kind() != domain.StartNone || sg.carryoverExpanded {
		return
	}

	tag := sg.classification.TagName()
	id := sg.carryover.Get("next_scenario").Str()
	scenario, ok := sg.find(tag, id)
	if !ok {
		sg.logger.Error("scenario not found", "tag", tag, "scenario", id)
		sg.start = domain.InvalidStart()
		if sg.hooks.OnScenarioMissing != nil {
			sg.hooks.OnScenarioMissing(&domain.ScenarioEvent{
				EventBase:  domain.NewEventBase(domain.EventScenarioMissing),
				ScenarioID: id,
				CatalogTag: tag,
			})
		}
		return
	}

	// Hash the catalog's copy before anything below mutates ours.
	sg.mpSettings.Hash = scenario.Hash()
	sg.start = domain.ScenarioStart(scenario.Clone())

	if !scenario.Get("addon_id").Empty() && scenario.Get("require_scenario").Bool(false) {
		sg.requireAddon(scenario)
	}

	sg.updateLabel()
	sg.applySideDefaults()

	sg.logger.Debug("scenario resolved", "tag", tag, "scenario", id, "hash", sg.mpSettings.Hash)
	if sg.hooks.OnScenarioResolved != nil {
		sg.hooks.OnScenarioResolved(&domain.ScenarioEvent{
			EventBase:  domain.NewEventBase(domain.EventScenarioResolved),
			ScenarioID: id,
			CatalogTag: tag,
			Hash:       sg.mpSettings.Hash,
		})
	}
}

// applySideDefaults sets save_id from id and copies the scenario-level team defaults onto
// every side that does not define them.
func (sg *SavedGame) applySideDefaults() {
	level := sg.start.Document()
	for _, side := range level.ChildRange("side") {
		if side.Get("save_id").Empty() {
			side.Set("save_id", side.Get("id"))
		}
		for _, key := range teamDefaults {
			if level.Has(key) && side.Get(key).Empty() {
				side.Set(key, level.Get(key))
			}
		}
	}
}

func (sg *SavedGame) updateLabel() {
	sg.classification.Label = sg.classification.LabelFor(sg.start.Document().Get("name").Str())
}

func (sg *SavedGame) requireAddon(def *document.Config) {
	req := domain.AddonFromDefinition(def)
	if !sg.mpSettings.UpdateAddonRequirements(req) {
		sg.logger.Warn("conflicting add-on requirements", "addon", req.ID, "version", req.Version, "min_version", req.MinVersion)
	}
}

func (sg *SavedGame) contentMissing(kind, id, catalog string) {
	if sg.hooks.OnContentMissing != nil {
		sg.hooks.OnContentMissing(&domain.ContentEvent{
			EventBase: domain.NewEventBase(domain.EventContentMissing),
			Kind:      kind,
			ID:        id,
			Catalog:   catalog,
		})
	}
}

// ExpandMPEvents copies the [event] and [lua] children of the active era and modifications
// into the scenario. The has_mod_events marker makes it run once per scenario.
func (sg *SavedGame) ExpandMPEvents() {
	sg.ExpandScenario()
	level := sg.start.Document()
	if sg.start.Kind() != domain.StartScenario || level.Get("has_mod_events").Bool(false) {
		return
	}

	refs := make([]contentRef, 0, len(sg.mpSettings.ActiveMods)+1)
	for _, mod := range sg.mpSettings.ActiveMods {
		refs = append(refs, contentRef{kind: "modification", id: mod})
	}
	// Single-player games have no era.
	if sg.mpSettings.Era != "" {
		refs = append(refs, contentRef{kind: "era", id: sg.mpSettings.Era})
	}

	for _, ref := range refs {
		def, ok := sg.find(ref.kind, ref.id)
		if !ok {
			sg.logger.Error("content not found", "kind", ref.kind, "id", ref.id)
			sg.contentMissing(ref.kind, ref.id, "game")
			continue
		}

		// Eras are required by default, modifications are not.
		required := def.Get("require_" + ref.kind).Bool(ref.kind == "era")
		if !def.Get("addon_id").Empty() && required {
			sg.requireAddon(def)
		}

		for _, ev := range def.ChildRange("event") {
			level.AddChild("event", ev.Clone())
		}
		for _, script := range def.ChildRange("lua") {
			level.AddChild("lua", script.Clone())
		}
	}

	level.Set("has_mod_events", true)
}

// ExpandMPOptions writes the configured option values of the active content into the
// carryover variables. It has no run-once marker: values are overwritten by id, so running it
// again yields the same variables.
func (sg *SavedGame) ExpandMPOptions() {
	if sg.start.Kind() != domain.StartScenario || sg.carryoverExpanded {
		return
	}

	refs := make([]contentRef, 0, len(sg.mpSettings.ActiveMods)+3)
	for _, mod := range sg.mpSettings.ActiveMods {
		refs = append(refs, contentRef{kind: "modification", id: mod})
	}
	refs = append(refs,
		contentRef{kind: "era", id: sg.mpSettings.Era},
		contentRef{kind: "multiplayer", id: sg.ScenarioID()},
		contentRef{kind: "campaign", id: sg.classification.Campaign},
	)

	variables := sg.carryover.ChildOrAdd("variables")
	for _, ref := range refs {
		block := sg.mpSettings.Options.FindChild(ref.kind, "id", ref.id)
		if block == nil {
			sg.logger.Info("no options configured", "kind", ref.kind, "id", ref.id)
			sg.contentMissing(ref.kind, ref.id, "options")
			continue
		}
		for _, opt := range block.ChildRange("option") {
			variables.Set(opt.Get("id").Str(), opt.Get("value"))
		}
	}
}

// ExpandRandomScenario runs procedural generation for the resolved scenario.
// A scenario_generation spec replaces the whole scenario, keeping its id and [story].
// Then an empty map_data is filled from the map file, or failing that from map_generation,
// so explicit map data is never overwritten.
// On error the scenario keeps the state it had before the failing step.
func (sg *SavedGame) ExpandRandomScenario() error {
	sg.ExpandScenario()
	if sg.start.Kind() != domain.StartScenario {
		return nil
	}
	level := sg.start.Document()

	if spec := level.Get("scenario_generation"); !spec.Empty() {
		if sg.collab.ScenarioGenerator == nil {
			return errNoScenarioGenerator
		}
		sg.logger.Info("generating scenario", "generator", spec.Str())
		generated, err := sg.collab.ScenarioGenerator.GenerateScenario(spec.Str(), level.ChildOrEmpty("generator"))
		if err != nil {
			return fmt.Errorf("failed to generate scenario %q: %w", level.Get("id").Str(), err)
		}
		if generated == nil {
			generated = document.New()
		}
		for _, story := range level.ChildRange("story") {
			generated.AddChild("story", story.Clone())
		}
		generated.Set("id", level.Get("id"))

		sg.start = domain.ScenarioStart(generated)
		level = generated
		sg.updateLabel()
		sg.applySideDefaults()
	}

	if level.Get("map_data").Empty() && !level.Get("map").Empty() {
		if sg.collab.MapReader == nil {
			return errNoMapReader
		}
		data, err := sg.collab.MapReader.ReadMap(level.Get("map").Str())
		if err != nil {
			return fmt.Errorf("failed to read map %q: %w", level.Get("map").Str(), err)
		}
		level.Set("map_data", data)
	}

	if spec := level.Get("map_generation"); level.Get("map_data").Empty() && !spec.Empty() {
		if sg.collab.MapGenerator == nil {
			return errNoMapGenerator
		}
		sg.logger.Info("generating map", "generator", spec.Str())
		data, err := sg.collab.MapGenerator.GenerateMap(spec.Str(), level.ChildOrEmpty("generator"))
		if err != nil {
			return fmt.Errorf("failed to generate map for %q: %w", level.Get("id").Str(), err)
		}
		level.Set("map_data", data)
	}
	return nil
}

// ExpandCarryover merges the pending carryover into the resolved scenario and its sides.
// Afterwards the carryover block holds what no side claimed. This is the only place that
// marks the carryover expanded.
func (sg *SavedGame) ExpandCarryover() {
	sg.ExpandScenario()
	if sg.start.Kind() != domain.StartScenario || sg.carryoverExpanded {
		return
	}
	level := sg.start.Document()

	info := carryover.FromDocument(sg.carryover)
	info.TransferScenarioScope(level)
	for _, side := range level.ChildRange("side") {
		info.TransferSideScope(side)
	}

	sg.carryover = info.ToDocument()
	sg.carryoverExpanded = true

	sg.logger.Debug("carryover expanded", "scenario", level.Get("id").Str(), "residual_sides", len(info.Sides))
	if sg.hooks.OnCarryoverExpanded != nil {
		sg.hooks.OnCarryoverExpanded(&domain.CarryoverEvent{
			EventBase:  domain.NewEventBase(domain.EventCarryoverExpanded),
			ScenarioID: level.Get("id").Str(),
			Residual:   len(info.Sides),
		})
	}
}
