package savegame_test

import (
	"testing"

	"github.com/aretw0/savestate/pkg/adapters/memory"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/savegame"
	"github.com/stretchr/testify/require"
)

const catalogYAML = `
"[scenario]":
- id: s2
  name: The Ford
  carryover_percentage: "50"
  "[side]":
  - id: p1
    gold: "100"
    controller: human
  - id: p2
    controller: ai
    carryover_percentage: "20"
- id: s3
  name: Caves
  map: caves.map
  map_generation: cave
  "[side]":
  - id: p1
"[modification]":
- id: mod_a
  addon_id: addon_a
  addon_version: "1.0.0"
  "[event]":
  - name: prestart
- id: mod_required
  addon_id: addon_b
  addon_version: "2.1.0"
  require_modification: "yes"
  "[lua]":
  - code: "wesnoth.dofile('b')"
"[era]":
- id: era_default
  addon_id: addon_era
  addon_version: "0.3.0"
  "[event]":
  - name: turn 1
  "[lua]":
  - code: "return true"
`

const startSaveYAML = `
label: ""
campaign_type: scenario
"[carryover_sides_start]":
- next_scenario: s2
  random_seed: "1f"
  random_calls: "3"
  "[side]":
  - save_id: p1
    gold: "150"
    add: "no"
    previous_recruits: Spearman
    "[unit]":
    - id: veteran
      type: Spearman
  - save_id: p2
    gold: "40"
    add: "yes"
  "[variables]":
  - met_king: "yes"
`

func parse(t *testing.T, text string) *document.Config {
	t.Helper()
	doc, err := document.Unmarshal([]byte(text))
	require.NoError(t, err)
	return doc
}

func newCatalog(t *testing.T) *memory.Catalog {
	t.Helper()
	return memory.NewCatalogFromDocument(parse(t, catalogYAML))
}

func load(t *testing.T, text string, opts ...savegame.Option) *savegame.SavedGame {
	t.Helper()
	sg, err := savegame.FromDocument(parse(t, text), opts...)
	require.NoError(t, err)
	return sg
}

func startSave(t *testing.T, opts ...savegame.Option) *savegame.SavedGame {
	t.Helper()
	opts = append([]savegame.Option{savegame.WithCatalog(newCatalog(t))}, opts...)
	return load(t, startSaveYAML, opts...)
}

func sideByID(doc *document.Config, id string) *document.Config {
	return doc.FindChild("side", "id", id)
}
