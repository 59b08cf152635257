package carryover_test

import (
	"testing"

	"github.com/aretw0/savestate/pkg/carryover"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func storedBlock() *document.Config {
	doc := document.New()
	doc.Set("next_scenario", "s2")
	doc.Set("random_seed", "1a2b")
	doc.Set("random_calls", 5)
	doc.Set("next_underlying_unit_id", 42)
	doc.ChildOrAdd("variables").Set("met_king", true)

	p1 := doc.AddChild("side", nil)
	p1.Set("save_id", "Konrad")
	p1.Set("gold", 250)
	p1.Set("add", false)
	p1.Set("previous_recruits", "Spearman,Bowman")
	p1.AddChild("unit", nil).Set("id", "Delfador")

	p2 := doc.AddChild("side", nil)
	p2.Set("save_id", "Li'sar")
	p2.Set("gold", 40)
	p2.Set("add", true)
	return doc
}

func TestFromDocument(t *testing.T) {
	info := carryover.FromDocument(storedBlock())

	assert.Equal(t, "s2", info.NextScenario)
	assert.Equal(t, uint32(0x1a2b), info.RNG.Seed)
	assert.Equal(t, 5, info.RNG.Calls)
	assert.Equal(t, 42, info.NextUnderlyingUnitID)
	require.Len(t, info.Sides, 2)

	konrad := info.Side("Konrad")
	require.NotNil(t, konrad)
	assert.Equal(t, 250, konrad.Gold)
	assert.Equal(t, []string{"Spearman", "Bowman"}, konrad.PreviousRecruits)
	require.Len(t, konrad.RecallList, 1)
	assert.Nil(t, info.Side("nobody"))
}

func TestToDocument_RoundTrip(t *testing.T) {
	info := carryover.FromDocument(storedBlock())
	again := carryover.FromDocument(info.ToDocument())

	assert.Equal(t, info.NextScenario, again.NextScenario)
	assert.Equal(t, info.RNG, again.RNG)
	require.Len(t, again.Sides, 2)
	assert.Equal(t, info.Sides[0].PreviousRecruits, again.Sides[0].PreviousRecruits)
	assert.True(t, info.Variables.Equal(again.Variables))
}

func TestTransferScenarioScope(t *testing.T) {
	info := carryover.FromDocument(storedBlock())
	level := document.New()
	level.Set("id", "s2")

	info.TransferScenarioScope(level)

	assert.Equal(t, "1a2b", level.Get("random_seed").Str())
	assert.Equal(t, 5, level.Get("random_calls").Int(0))
	assert.Equal(t, 42, level.Get("next_underlying_unit_id").Int(0))
	assert.True(t, level.Child("variables").Get("met_king").Bool(false))
	assert.Equal(t, "", info.NextScenario, "next scenario is consumed")
	assert.True(t, info.Variables.Empty())

	// Values the scenario defines are kept.
	fixed := document.New()
	fixed.Set("random_seed", "ff")
	fixed.AddChild("variables", nil).Set("own", 1)
	carryover.FromDocument(storedBlock()).TransferScenarioScope(fixed)
	assert.Equal(t, "ff", fixed.Get("random_seed").Str())
	assert.False(t, fixed.Child("variables").Has("met_king"))
}

func TestTransferSideScope(t *testing.T) {
	t.Run("keeps the larger gold without add", func(t *testing.T) {
		info := carryover.FromDocument(storedBlock())
		side := document.New()
		side.Set("id", "Konrad")
		side.Set("gold", 100)

		assert.True(t, info.TransferSideScope(side))
		assert.Equal(t, "Konrad", side.Get("save_id").Str())
		assert.Equal(t, 250, side.Get("gold").Int(0))
		assert.Equal(t, "Spearman,Bowman", side.Get("previous_recruits").Str())
		assert.Len(t, side.ChildRange("unit"), 1)
		assert.Nil(t, info.Side("Konrad"), "matched record is consumed")
		assert.Len(t, info.Sides, 1)
	})

	t.Run("adds gold with add flag", func(t *testing.T) {
		info := carryover.FromDocument(storedBlock())
		side := document.New()
		side.Set("save_id", "Li'sar")

		assert.True(t, info.TransferSideScope(side))
		assert.Equal(t, carryover.DefaultGold+40, side.Get("gold").Int(0))
	})

	t.Run("scenario gold wins when larger", func(t *testing.T) {
		info := carryover.FromDocument(storedBlock())
		side := document.New()
		side.Set("id", "Konrad")
		side.Set("gold", 300)

		info.TransferSideScope(side)
		assert.Equal(t, 300, side.Get("gold").Int(0))
	})

	t.Run("unmatched side gets default gold", func(t *testing.T) {
		info := carryover.FromDocument(storedBlock())
		side := document.New()
		side.Set("id", "enemy")

		assert.False(t, info.TransferSideScope(side))
		assert.Equal(t, carryover.DefaultGold, side.Get("gold").Int(0))
		assert.Len(t, info.Sides, 2)
	})
}

func TestFromSnapshot(t *testing.T) {
	snap := document.New()
	snap.Set("next_scenario", "s3")
	snap.Set("random_seed", "10")

	hero := snap.AddChild("side", nil)
	hero.Set("id", "Konrad")
	hero.Set("gold", 200)
	hero.Set("carryover_percentage", 50)
	hero.Set("recruit", "Cavalryman,Spearman")
	hero.Set("previous_recruits", "ignored")
	u := hero.AddChild("unit", nil)
	u.Set("id", "Delfador")
	u.Set("x", 3)
	u.Set("goto_x", 5)

	explicit := snap.AddChild("side", nil)
	explicit.Set("save_id", "Li'sar")
	explicit.Set("gold", 500)
	explicit.Set("carryover_gold", 75)
	explicit.Set("carryover_add", true)

	lost := snap.AddChild("side", nil)
	lost.Set("save_id", "orcs")
	lost.Set("lost", true)

	transient := snap.AddChild("side", nil)
	transient.Set("save_id", "bandits")
	transient.Set("persistent", false)

	info := carryover.FromSnapshot(snap)
	require.Len(t, info.Sides, 2)
	assert.Equal(t, "s3", info.NextScenario)

	k := info.Side("Konrad")
	require.NotNil(t, k)
	assert.Equal(t, 100, k.Gold)
	assert.Equal(t, []string{"Cavalryman", "Spearman"}, k.PreviousRecruits)
	require.Len(t, k.RecallList, 1)
	assert.False(t, k.RecallList[0].Has("x"))
	assert.False(t, k.RecallList[0].Has("goto_x"))
	assert.Equal(t, "Delfador", k.RecallList[0].Get("id").Str())

	l := info.Side("Li'sar")
	require.NotNil(t, l)
	assert.Equal(t, 75, l.Gold)
	assert.True(t, l.Add)
}

func TestFromSnapshot_DefaultPercentage(t *testing.T) {
	snap := document.New()
	s := snap.AddChild("side", nil)
	s.Set("id", "p1")
	s.Set("gold", 101)

	info := carryover.FromSnapshot(snap)
	require.Len(t, info.Sides, 1)
	assert.Equal(t, 81, info.Sides[0].Gold, "80% of 101 rounds to 81")
}

func TestMergePrevious(t *testing.T) {
	current := carryover.FromDocument(storedBlock())
	current.RNG = carryover.RNG{Seed: 7, Calls: 1}
	current.Sides = current.Sides[:1]
	current.Sides[0].PreviousRecruits = nil

	old := carryover.FromDocument(storedBlock())
	old.Sides[0].Gold = 999
	veteran := old.Sides[1]

	current.MergePrevious(old)

	assert.Equal(t, carryover.RNG{Seed: 7, Calls: 1}, current.RNG, "rng stays from the newer info")
	require.Len(t, current.Sides, 2)
	assert.Equal(t, 250, current.Sides[0].Gold, "newer record wins")
	assert.Equal(t, []string{"Spearman", "Bowman"}, current.Sides[0].PreviousRecruits, "gaps are filled from old")
	assert.Equal(t, veteran.SaveID, current.Sides[1].SaveID, "old-only side is kept")

	veteran.Gold = -1
	assert.Equal(t, 40, current.Sides[1].Gold, "appended side is a copy")

	current.MergePrevious(nil)
	assert.Len(t, current.Sides, 2)
}
