package domain

import (
	"strings"

	"github.com/aretw0/savestate/pkg/document"
	"golang.org/x/mod/semver"
)

// AddonRequirement names an add-on a game needs, with the version range it was built against.
type AddonRequirement struct {
	ID         string
	Version    string
	MinVersion string
}

// AddonFromDocument reads a stored [addon] child: id, version and min_version.
func AddonFromDocument(doc *document.Config) AddonRequirement {
	return AddonRequirement{
		ID:         doc.Get("id").Str(),
		Version:    doc.Get("version").Str(),
		MinVersion: doc.Get("min_version").Str(),
	}
}

// AddonFromDefinition reads the add-on a scenario, era or modification definition belongs to.
// The definition's own id names the content, not the add-on.
func AddonFromDefinition(def *document.Config) AddonRequirement {
	return AddonRequirement{
		ID:         def.Get("addon_id").Str(),
		Version:    def.Get("addon_version").Str(),
		MinVersion: def.Get("addon_min_version").Str(),
	}
}

// MPSettings is the [multiplayer] block of a save.
type MPSettings struct {
	Name           string   `mapstructure:"scenario"`
	Hash           string   `mapstructure:"hash"`
	Era            string   `mapstructure:"mp_era"`
	Scenario       string   `mapstructure:"mp_scenario"`
	ScenarioName   string   `mapstructure:"mp_scenario_name"`
	Campaign       string   `mapstructure:"mp_campaign"`
	ActiveMods     []string `mapstructure:"active_mods"`
	NumTurns       int      `mapstructure:"mp_num_turns"`
	VillageGold    int      `mapstructure:"mp_village_gold"`
	VillageSupport int      `mapstructure:"mp_village_support"`
	Fog            bool     `mapstructure:"mp_fog"`
	Shroud         bool     `mapstructure:"mp_shroud"`
	Observers      bool     `mapstructure:"observer"`
	ShuffleSides   bool     `mapstructure:"shuffle_sides"`
	Saved          bool     `mapstructure:"savegame"`

	// Options holds one child per configurable content block ([era], [modification],
	// [multiplayer], [campaign]), each with [option] id/value children.
	Options *document.Config   `mapstructure:"-"`
	Addons  []AddonRequirement `mapstructure:"-"`
}

// NewMPSettings returns empty settings.
func NewMPSettings() MPSettings {
	return MPSettings{Options: document.New()}
}

// MPSettingsFromDocument reads the [multiplayer] block. A nil document yields the defaults.
func MPSettingsFromDocument(doc *document.Config) (MPSettings, error) {
	s := NewMPSettings()
	if doc == nil {
		return s, nil
	}
	if err := decodeAttributes(doc, &s); err != nil {
		return NewMPSettings(), err
	}
	s.ActiveMods = trimAll(s.ActiveMods)
	if opts := doc.Child("options"); opts != nil {
		s.Options = opts.Clone()
	}
	for _, a := range doc.ChildRange("addon") {
		s.Addons = append(s.Addons, AddonFromDocument(a))
	}
	return s, nil
}

// ToDocument writes the settings as a [multiplayer] body.
func (s MPSettings) ToDocument() *document.Config {
	doc := document.New()
	doc.Set("scenario", s.Name)
	doc.Set("hash", s.Hash)
	doc.Set("mp_era", s.Era)
	doc.Set("mp_scenario", s.Scenario)
	doc.Set("mp_scenario_name", s.ScenarioName)
	doc.Set("mp_campaign", s.Campaign)
	doc.Set("active_mods", s.ActiveMods)
	doc.Set("mp_num_turns", s.NumTurns)
	doc.Set("mp_village_gold", s.VillageGold)
	doc.Set("mp_village_support", s.VillageSupport)
	doc.Set("mp_fog", s.Fog)
	doc.Set("mp_shroud", s.Shroud)
	doc.Set("observer", s.Observers)
	doc.Set("shuffle_sides", s.ShuffleSides)
	doc.Set("savegame", s.Saved)
	doc.AddChild("options", s.Options.Clone())
	for _, a := range s.Addons {
		addon := doc.AddChild("addon", nil)
		addon.Set("id", a.ID)
		addon.Set("version", a.Version)
		addon.Set("min_version", a.MinVersion)
	}
	return doc
}

// Clone returns a deep copy.
func (s MPSettings) Clone() MPSettings {
	out := s
	out.ActiveMods = append([]string(nil), s.ActiveMods...)
	out.Addons = append([]AddonRequirement(nil), s.Addons...)
	out.Options = s.Options.Clone()
	return out
}

// UpdateAddonRequirements records req, merging with an existing entry of the same id by
// keeping the highest version and the highest minimum version. It reports false when the two
// requirements cannot both be satisfied (one's version is below the other's minimum).
func (s *MPSettings) UpdateAddonRequirements(req AddonRequirement) bool {
	for i := range s.Addons {
		cur := &s.Addons[i]
		if cur.ID != req.ID {
			continue
		}
		compatible := !versionLess(req.Version, cur.MinVersion) && !versionLess(cur.Version, req.MinVersion)
		if versionLess(cur.Version, req.Version) {
			cur.Version = req.Version
		}
		if versionLess(cur.MinVersion, req.MinVersion) {
			cur.MinVersion = req.MinVersion
		}
		return compatible
	}
	s.Addons = append(s.Addons, req)
	return true
}

// versionLess orders add-on versions. Empty sorts first; anything semver cannot parse
// falls back to plain string order.
func versionLess(a, b string) bool {
	if a == "" || b == "" {
		return a == "" && b != ""
	}
	va, vb := canonical(a), canonical(b)
	if semver.IsValid(va) && semver.IsValid(vb) {
		return semver.Compare(va, vb) < 0
	}
	return a < b
}

func canonical(v string) string {
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

func trimAll(items []string) []string {
	out := items[:0]
	for _, s := range items {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	if len(out) == 0 {
		return nil
	}
	return out
}
