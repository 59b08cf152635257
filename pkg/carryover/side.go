package carryover

import (
	"math"
	"strings"

	"github.com/aretw0/savestate/pkg/document"
)

// DefaultGold is the starting gold of a side that has none defined.
const DefaultGold = 100

// DefaultCarryoverPercentage applies when a live side does not set carryover_percentage.
const DefaultCarryoverPercentage = 80

// liveOnly lists unit attributes that make no sense on a recall list.
var liveOnly = []string{"side", "x", "y", "goto_x", "goto_y"}

// Side is the persistent data of one side between scenarios.
type Side struct {
	SaveID           string
	Gold             int
	Add              bool
	CurrentPlayer    string
	PreviousRecruits []string
	Variables        *document.Config
	RecallList       []*document.Config
}

// sideFromDocument reads a stored [side] record of a carryover block.
func sideFromDocument(cfg *document.Config) *Side {
	s := &Side{
		SaveID:        cfg.Get("save_id").Str(),
		Gold:          cfg.Get("gold").Int(0),
		Add:           cfg.Get("add").Bool(false),
		CurrentPlayer: cfg.Get("current_player").Str(),
		Variables:     cfg.ChildOrEmpty("variables").Clone(),
	}
	s.PreviousRecruits = mergeRecruits(nil, cfg.Get("previous_recruits").List())
	for _, u := range cfg.ChildRange("unit") {
		s.RecallList = append(s.RecallList, u.Clone())
	}
	return s
}

// sideFromLive reads a side of a running scenario snapshot. Gold is the explicit
// carryover_gold when present, otherwise the live gold scaled by carryover_percentage.
func sideFromLive(cfg *document.Config) *Side {
	s := &Side{
		SaveID:        cfg.Get("save_id").Str(),
		CurrentPlayer: cfg.Get("current_player").Str(),
		Variables:     cfg.ChildOrEmpty("variables").Clone(),
	}
	if s.SaveID == "" {
		s.SaveID = cfg.Get("id").Str()
	}

	if cfg.Has("carryover_gold") {
		s.Gold = cfg.Get("carryover_gold").Int(0)
	} else {
		pct := cfg.Get("carryover_percentage").Int(DefaultCarryoverPercentage)
		s.Gold = int(math.Round(float64(cfg.Get("gold").Int(0)) * float64(pct) / 100))
		if s.Gold < 0 {
			s.Gold = 0
		}
	}

	if cfg.Has("carryover_add") {
		s.Add = cfg.Get("carryover_add").Bool(false)
	} else {
		s.Add = cfg.Get("add").Bool(false)
	}

	// A snapshot keeps the current recruit list under "recruit".
	if cfg.Has("recruit") {
		s.PreviousRecruits = mergeRecruits(nil, cfg.Get("recruit").List())
	} else {
		s.PreviousRecruits = mergeRecruits(nil, cfg.Get("previous_recruits").List())
	}

	for _, u := range cfg.ChildRange("unit") {
		recall := u.Clone()
		for _, key := range liveOnly {
			recall.Remove(key)
		}
		s.RecallList = append(s.RecallList, recall)
	}
	return s
}

// transferGold applies the carryover gold rule to a scenario side and zeroes the record.
func (s *Side) transferGold(side *document.Config) {
	gold := side.Get("gold").Int(0)
	if side.Get("gold").Empty() {
		gold = DefaultGold
		side.Set("gold", gold)
	}

	if s.Add && s.Gold > 0 {
		side.Set("gold", gold+s.Gold)
	} else if s.Gold > gold {
		side.Set("gold", s.Gold)
	}
	s.Gold = 0
}

func (s *Side) transferRecalls(side *document.Config) {
	for _, u := range s.RecallList {
		side.AddChild("unit", u.Clone())
	}
	s.RecallList = nil
}

func (s *Side) transferRecruits(side *document.Config) {
	side.Set("previous_recruits", strings.Join(s.PreviousRecruits, ","))
	s.PreviousRecruits = nil
}

// fillFrom copies fields s lacks from older data of the same side.
func (s *Side) fillFrom(old *Side) {
	if len(s.PreviousRecruits) == 0 {
		s.PreviousRecruits = append([]string(nil), old.PreviousRecruits...)
	}
	if s.Variables.Empty() && !old.Variables.Empty() {
		s.Variables = old.Variables.Clone()
	}
	if s.CurrentPlayer == "" {
		s.CurrentPlayer = old.CurrentPlayer
	}
}

func (s *Side) toDocument() *document.Config {
	cfg := document.New()
	cfg.Set("save_id", s.SaveID)
	cfg.Set("gold", s.Gold)
	cfg.Set("add", s.Add)
	cfg.Set("current_player", s.CurrentPlayer)
	cfg.Set("previous_recruits", strings.Join(s.PreviousRecruits, ","))
	cfg.AddChild("variables", s.Variables.Clone())
	for _, u := range s.RecallList {
		cfg.AddChild("unit", u.Clone())
	}
	return cfg
}

func (s *Side) clone() *Side {
	out := *s
	out.PreviousRecruits = append([]string(nil), s.PreviousRecruits...)
	out.Variables = s.Variables.Clone()
	out.RecallList = make([]*document.Config, 0, len(s.RecallList))
	for _, u := range s.RecallList {
		out.RecallList = append(out.RecallList, u.Clone())
	}
	return &out
}

// mergeRecruits appends items not already present, keeping first-seen order.
func mergeRecruits(into []string, items []string) []string {
	seen := make(map[string]bool, len(into)+len(items))
	for _, r := range into {
		seen[r] = true
	}
	for _, r := range items {
		if !seen[r] {
			seen[r] = true
			into = append(into, r)
		}
	}
	return into
}
