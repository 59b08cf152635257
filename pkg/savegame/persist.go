package savegame

import (
	"fmt"
	"io"

	"github.com/aretw0/savestate/pkg/carryover"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/replay"
)

// FromDocument builds a save from a whole save document. See SetData.
func FromDocument(doc *document.Config, opts ...Option) (*SavedGame, error) {
	sg := New(opts...)
	if err := sg.SetData(doc); err != nil {
		return nil, err
	}
	return sg, nil
}

// Read decodes a YAML save and builds a save from it.
func Read(r io.Reader, opts ...Option) (*SavedGame, error) {
	doc, err := document.Decode(r)
	if err != nil {
		return nil, err
	}
	return FromDocument(doc, opts...)
}

// SetData replaces the whole state with the content of a save document.
// The save takes the document's children over and leaves doc empty.
//
// Missing blocks default to empty. Every [replay] block is appended to the log in document
// order, and the cursor ends after the last command. A [statistics] block is forwarded to
// the statistics sink.
func (sg *SavedGame) SetData(doc *document.Config) error {
	classification, err := domain.ClassificationFromDocument(doc)
	if err != nil {
		return fmt.Errorf("failed to read classification: %w", err)
	}
	mp, err := domain.MPSettingsFromDocument(doc.Child(domain.TagMultiplayer))
	if err != nil {
		return fmt.Errorf("failed to read multiplayer settings: %w", err)
	}

	switch {
	case doc.HasChild(domain.TagCarryoverSides):
		sg.carryover = doc.Child(domain.TagCarryoverSides)
		sg.carryoverExpanded = true
	case doc.HasChild(domain.TagCarryoverSidesStart):
		sg.carryover = doc.Child(domain.TagCarryoverSidesStart)
		sg.carryoverExpanded = false
	default:
		sg.carryover = document.New()
		sg.carryoverExpanded = false
	}

	sg.replayStart = document.New()
	if rs := doc.Child(domain.TagReplayStart); rs != nil {
		sg.replayStart = rs
	}

	sg.replay = replay.New()
	for _, block := range doc.ChildRange(domain.TagReplay) {
		sg.replay.AppendDocument(block)
	}
	sg.replay.SetToEnd()

	switch {
	case doc.HasChild(domain.TagSnapshot):
		sg.start = domain.SnapshotStart(doc.Child(domain.TagSnapshot))
	case doc.HasChild(domain.TagScenario):
		sg.start = domain.ScenarioStart(doc.Child(domain.TagScenario))
	default:
		sg.start = domain.NoStart()
	}

	for _, block := range []*document.Config{sg.carryover, sg.start.Document()} {
		if raw := block.Get("random_seed"); !raw.Empty() {
			if _, err := carryover.ParseSeed(raw.Str()); err != nil {
				sg.logger.Warn("malformed random seed, a fresh one replaces it", "error", err)
			}
		}
	}

	sg.logger.Info("save loaded", "scenario", sg.carryover.Get("next_scenario").Str(), "start", sg.start.Kind().String())

	if stats := doc.Child(domain.TagStatistics); stats != nil && sg.collab.Statistics != nil {
		sg.collab.Statistics.Reset()
		sg.collab.Statistics.Load(stats)
	}

	sg.classification = classification
	sg.mpSettings = mp
	doc.Clear()
	return nil
}

// ToDocument serializes the whole save. Blocks are copies; the save stays usable.
func (sg *SavedGame) ToDocument() *document.Config {
	doc := sg.classification.ToDocument()
	doc.AddChild(domain.TagMultiplayer, sg.mpSettings.ToDocument())
	if tag := sg.start.Tag(); tag != "" {
		doc.AddChild(tag, sg.start.Document().Clone())
	}
	if !sg.replayStart.Empty() {
		doc.AddChild(domain.TagReplayStart, sg.replayStart.Clone())
	}
	doc.AddChild(domain.TagReplay, sg.replay.ToDocument())
	doc.AddChild(sg.carryoverTag(), sg.carryover.Clone())
	return doc
}

// Write encodes the save as YAML.
func (sg *SavedGame) Write(w io.Writer) error {
	return document.Encode(w, sg.ToDocument())
}

// carryoverTag is the tag the carryover block is stored under: residual data once expanded,
// pending data before.
func (sg *SavedGame) carryoverTag() string {
	if sg.carryoverExpanded {
		return domain.TagCarryoverSides
	}
	return domain.TagCarryoverSidesStart
}
