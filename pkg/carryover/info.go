package carryover

import (
	"github.com/aretw0/savestate/pkg/document"
)

// Info is the structured form of a carryover block: what one scenario hands to the next.
// An Info is built, consumed and turned back into a document; it is never stored.
type Info struct {
	Sides                []*Side
	RNG                  RNG
	NextScenario         string
	NextUnderlyingUnitID int
	Variables            *document.Config
}

// FromDocument reads a stored carryover block ([carryover_sides] or [carryover_sides_start]).
func FromDocument(doc *document.Config) *Info {
	info := baseInfo(doc)
	for _, side := range doc.ChildRange("side") {
		info.Sides = append(info.Sides, sideFromDocument(side))
	}
	return info
}

// FromSnapshot rebuilds carryover from the live state of a scenario snapshot.
// Sides that lost or are not persistent carry nothing over.
func FromSnapshot(doc *document.Config) *Info {
	info := baseInfo(doc)
	for _, side := range doc.ChildRange("side") {
		if side.Get("lost").Bool(false) || !side.Get("persistent").Bool(true) {
			continue
		}
		info.Sides = append(info.Sides, sideFromLive(side))
	}
	return info
}

func baseInfo(doc *document.Config) *Info {
	return &Info{
		RNG:                  RNGFromDocument(doc),
		NextScenario:         doc.Get("next_scenario").Str(),
		NextUnderlyingUnitID: doc.Get("next_underlying_unit_id").Int(0),
		Variables:            doc.ChildOrEmpty("variables").Clone(),
	}
}

// Side returns the record with the given save id, or nil.
func (i *Info) Side(saveID string) *Side {
	for _, s := range i.Sides {
		if s.SaveID == saveID {
			return s
		}
	}
	return nil
}

// TransferScenarioScope writes scenario-level carryover onto a scenario document.
// Values the scenario already defines win. The next scenario id and the variables are
// consumed by the transfer.
func (i *Info) TransferScenarioScope(level *document.Config) {
	if !level.Has("next_underlying_unit_id") {
		level.Set("next_underlying_unit_id", i.NextUnderlyingUnitID)
	}
	if !level.HasChild("variables") {
		level.AddChild("variables", i.Variables.Clone())
	}
	if level.Get("random_seed").Empty() {
		level.Set("random_seed", i.RNG.SeedString())
		level.Set("random_calls", i.RNG.Calls)
	}

	i.NextScenario = ""
	i.Variables = document.New()
}

// TransferSideScope merges the matching carryover record into one scenario [side].
// A matched record is consumed, so whatever remains afterwards is residual data for later
// scenarios. It reports whether a record matched.
func (i *Info) TransferSideScope(side *document.Config) bool {
	if side.Get("save_id").Empty() {
		side.Set("save_id", side.Get("id"))
	}
	saveID := side.Get("save_id").Str()

	for idx, s := range i.Sides {
		if s.SaveID != saveID {
			continue
		}
		s.transferGold(side)
		s.transferRecalls(side)
		s.transferRecruits(side)
		i.Sides = append(i.Sides[:idx], i.Sides[idx+1:]...)
		return true
	}

	if side.Get("gold").Empty() {
		side.Set("gold", DefaultGold)
	}
	return false
}

// MergePrevious reconciles an older baseline into i. The RNG, next scenario and variables
// stay from i. A side known to both keeps i's record with gaps filled from old; a side known
// only to old is appended so its data survives scenarios it did not take part in.
func (i *Info) MergePrevious(old *Info) {
	if old == nil {
		return
	}
	for _, prev := range old.Sides {
		if cur := i.Side(prev.SaveID); cur != nil {
			cur.fillFrom(prev)
			continue
		}
		i.Sides = append(i.Sides, prev.clone())
	}
}

// ToDocument serializes the carryover block.
func (i *Info) ToDocument() *document.Config {
	doc := document.New()
	doc.Set("next_underlying_unit_id", i.NextUnderlyingUnitID)
	doc.Set("next_scenario", i.NextScenario)
	for _, s := range i.Sides {
		doc.AddChild("side", s.toDocument())
	}
	i.RNG.Write(doc)
	doc.AddChild("variables", i.Variables.Clone())
	return doc
}
