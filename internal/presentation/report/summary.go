// Package report renders human-readable summaries of saves as Markdown.
package report

import (
	"fmt"
	"strings"

	"github.com/aretw0/savestate/pkg/carryover"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/domain"
	"github.com/aretw0/savestate/pkg/savegame"
)

// Summary describes sg: its classification, the stage it records, the sides in play and
// the carryover waiting for (or left over from) the scenario.
func Summary(sg *savegame.SavedGame) string {
	var b strings.Builder
	class := sg.Classification()

	title := class.Label
	if title == "" {
		title = "(unnamed save)"
	}
	fmt.Fprintf(&b, "# %s\n\n", title)

	b.WriteString("| | |\n|---|---|\n")
	row(&b, "Campaign type", class.CampaignType)
	row(&b, "Campaign", class.Campaign)
	row(&b, "Difficulty", class.Difficulty)
	row(&b, "Stage", sg.Start().Kind().String())
	row(&b, "Scenario", scenarioID(sg))
	row(&b, "Carryover", carryoverState(sg))
	row(&b, "Replay commands", fmt.Sprint(sg.Replay().Len()))
	if era := sg.MPSettings().Era; era != "" {
		row(&b, "Era", era)
	}
	if mods := sg.MPSettings().ActiveMods; len(mods) > 0 {
		row(&b, "Modifications", strings.Join(mods, ", "))
	}
	b.WriteString("\n")

	if level := sg.StartingDocument(); level != nil && level.ChildCount("side") > 0 {
		b.WriteString("## Sides\n\n")
		b.WriteString("| Side | Save id | Controller | Gold | Units |\n|---|---|---|---|---|\n")
		for i, side := range level.ChildRange("side") {
			fmt.Fprintf(&b, "| %d | %s | %s | %s | %d |\n",
				i+1, cell(side.Get("save_id").Str()), cell(side.Get("controller").Str()),
				cell(side.Get("gold").Str()), side.ChildCount("unit"))
		}
		b.WriteString("\n")
	}

	info := carryover.FromDocument(sg.Carryover())
	if len(info.Sides) > 0 {
		b.WriteString("## Carryover\n\n")
		if info.NextScenario != "" {
			fmt.Fprintf(&b, "Next scenario: **%s**\n\n", info.NextScenario)
		}
		b.WriteString("| Save id | Gold | Add | Recall list | Recruits |\n|---|---|---|---|---|\n")
		for _, s := range info.Sides {
			fmt.Fprintf(&b, "| %s | %d | %t | %d | %s |\n",
				cell(s.SaveID), s.Gold, s.Add, len(s.RecallList), cell(strings.Join(s.PreviousRecruits, ", ")))
		}
		b.WriteString("\n")
	}

	if vars := variableNames(sg.Carryover().Child("variables")); len(vars) > 0 {
		fmt.Fprintf(&b, "Variables: `%s`\n", strings.Join(vars, "`, `"))
	}
	return b.String()
}

func scenarioID(sg *savegame.SavedGame) (id string) {
	// A carryover expanded without a scenario has no id left to report.
	defer func() {
		if recover() != nil {
			id = "(unknown)"
		}
	}()
	return sg.ScenarioID()
}

func carryoverState(sg *savegame.SavedGame) string {
	if sg.CarryoverExpanded() {
		return "expanded (" + domain.TagCarryoverSides + ")"
	}
	return "pending (" + domain.TagCarryoverSidesStart + ")"
}

func variableNames(vars *document.Config) []string {
	names := make([]string, 0, len(vars.Attributes()))
	for _, a := range vars.Attributes() {
		names = append(names, a.Key)
	}
	return names
}

func row(b *strings.Builder, key, value string) {
	fmt.Fprintf(b, "| %s | %s |\n", key, cell(value))
}

func cell(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}
