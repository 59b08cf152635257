package domain_test

import (
	"testing"

	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestClassification_RoundTrip(t *testing.T) {
	doc := document.New()
	doc.Set("campaign", "heir")
	doc.Set("abbrev", "HttT")
	doc.Set("campaign_type", "scenario")
	doc.Set("end_credits", "no")
	doc.Set("unrelated", "ignored")

	c, err := domain.ClassificationFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "heir", c.Campaign)
	assert.Equal(t, "HttT", c.Abbrev)
	assert.False(t, c.EndCredits)
	assert.Equal(t, "NORMAL", c.Difficulty, "missing attributes keep defaults")

	again, err := domain.ClassificationFromDocument(c.ToDocument())
	require.NoError(t, err)
	assert.Equal(t, c, again)
}

func TestClassification_TagName(t *testing.T) {
	cases := []struct {
		name     string
		c        domain.Classification
		expected string
	}{
		{"default", domain.Classification{}, "scenario"},
		{"campaign", domain.Classification{CampaignType: "scenario", Campaign: "heir"}, "scenario"},
		{"mp", domain.Classification{CampaignType: "multiplayer"}, "multiplayer"},
		{"mp campaign", domain.Classification{CampaignType: "multiplayer", Campaign: "coop"}, "scenario"},
		{"tutorial", domain.Classification{CampaignType: "tutorial"}, "scenario"},
		{"test", domain.Classification{CampaignType: "test"}, "test"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.expected, tc.c.TagName())
		})
	}
}

func TestClassification_LabelFor(t *testing.T) {
	assert.Equal(t, "The Gate", domain.Classification{}.LabelFor("The Gate"))
	assert.Equal(t, "HttT-The Gate", domain.Classification{Abbrev: "HttT"}.LabelFor("The Gate"))
}

func TestMPSettings_RoundTrip(t *testing.T) {
	doc := document.New()
	doc.Set("mp_era", "default")
	doc.Set("active_mods", "plan_unit_advance, rpg")
	doc.Set("mp_num_turns", "30")
	doc.Set("mp_fog", "yes")
	era := doc.AddChild("options", nil).AddChild("era", nil)
	era.Set("id", "default")
	opt := era.AddChild("option", nil)
	opt.Set("id", "gold_bonus")
	opt.Set("value", 10)
	addon := doc.AddChild("addon", nil)
	addon.Set("id", "pack")
	addon.Set("version", "1.2.0")

	s, err := domain.MPSettingsFromDocument(doc)
	require.NoError(t, err)
	assert.Equal(t, "default", s.Era)
	assert.Equal(t, []string{"plan_unit_advance", "rpg"}, s.ActiveMods)
	assert.Equal(t, 30, s.NumTurns)
	assert.True(t, s.Fog)
	require.Len(t, s.Addons, 1)
	assert.Equal(t, "1.2.0", s.Addons[0].Version)
	assert.NotNil(t, s.Options.FindChild("era", "id", "default"))

	again, err := domain.MPSettingsFromDocument(s.ToDocument())
	require.NoError(t, err)
	assert.Equal(t, s.ActiveMods, again.ActiveMods)
	assert.Equal(t, s.Addons, again.Addons)
	assert.True(t, s.Options.Equal(again.Options))
}

func TestMPSettings_NilDocument(t *testing.T) {
	s, err := domain.MPSettingsFromDocument(nil)
	require.NoError(t, err)
	assert.Empty(t, s.ActiveMods)
	assert.True(t, s.Options.Empty())
}

func TestMPSettings_UpdateAddonRequirements(t *testing.T) {
	s := domain.NewMPSettings()

	assert.True(t, s.UpdateAddonRequirements(domain.AddonRequirement{ID: "pack", Version: "1.2.0", MinVersion: "1.0.0"}))
	assert.True(t, s.UpdateAddonRequirements(domain.AddonRequirement{ID: "pack", Version: "1.10.0", MinVersion: "1.1.0"}))
	require.Len(t, s.Addons, 1)
	assert.Equal(t, "1.10.0", s.Addons[0].Version, "semver ordering, not string ordering")
	assert.Equal(t, "1.1.0", s.Addons[0].MinVersion)

	assert.False(t, s.UpdateAddonRequirements(domain.AddonRequirement{ID: "pack", Version: "0.9.0"}))

	s.UpdateAddonRequirements(domain.AddonRequirement{ID: "other"})
	assert.Len(t, s.Addons, 2)
}

func TestAddonFromDefinition(t *testing.T) {
	def := document.New()
	def.Set("id", "s9")
	def.Set("addon_id", "my_campaign")
	def.Set("addon_version", "2.0.0")
	def.Set("version", "9.9.9")

	req := domain.AddonFromDefinition(def)
	assert.Equal(t, domain.AddonRequirement{ID: "my_campaign", Version: "2.0.0"}, req,
		"the content id and version are not the add-on's")

	stored := domain.AddonFromDocument(def)
	assert.Equal(t, "s9", stored.ID)
}

func TestStartingPosition(t *testing.T) {
	assert.Nil(t, domain.NoStart().Document())
	assert.Nil(t, domain.InvalidStart().Document())
	assert.Equal(t, "", domain.InvalidStart().Tag())

	doc := document.New()
	doc.Set("id", "s1")
	p := domain.ScenarioStart(doc)
	assert.Equal(t, domain.StartScenario, p.Kind())
	assert.Equal(t, "scenario", p.Tag())

	cp := p.Clone()
	cp.Document().Set("id", "s2")
	assert.Equal(t, "s1", p.Document().Get("id").Str())
	assert.False(t, p.Equal(cp))
	assert.False(t, domain.SnapshotStart(doc.Clone()).Equal(p), "same document, different tag")
	assert.Equal(t, "snapshot", domain.StartSnapshot.String())
}

func TestLifecycleHooks_Merge(t *testing.T) {
	var calls []string
	a := domain.LifecycleHooks{OnStartSave: func(*domain.CarryoverEvent) { calls = append(calls, "a") }}
	b := domain.LifecycleHooks{OnStartSave: func(*domain.CarryoverEvent) { calls = append(calls, "b") }}

	merged := a.Merge(b)
	merged.OnStartSave(&domain.CarryoverEvent{})
	assert.Equal(t, []string{"a", "b"}, calls)
	assert.Nil(t, merged.OnScenarioMissing)
}
