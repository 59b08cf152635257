/*
Package savegame implements the persistable state of one game session across a campaign.

A SavedGame records which stage of a scenario the save holds (its starting position), the
carryover handed over from the previous scenario, the replay log and the campaign and
multiplayer metadata. It owns the expansion pipeline that turns a bare "next scenario"
reference into a playable scenario:

	ExpandScenario        catalog lookup, content hash, label, side defaults
	ExpandMPEvents        era and modification [event]/[lua] injection
	ExpandRandomScenario  procedural scenario and map generation
	ExpandMPOptions       configured option values into carryover variables
	ExpandCarryover       per-side carryover merged into the scenario sides

ExpandMPEvents, ExpandRandomScenario and ExpandCarryover resolve the scenario first when it
is still a reference. ExpandMPOptions only writes carryover variables. Every step is guarded,
so running one twice changes nothing. ConvertToStartSave goes the other way: it collapses a mid-scenario snapshot into
a fresh carryover block for the next scenario.

A SavedGame is not safe for concurrent use.
*/
package savegame
