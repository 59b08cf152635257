// Package carryover converts the carryover block of a save into per-side records and back.
//
// Carryover is what one scenario hands to the next: gold, recruits, recall lists, variables and
// the campaign's random state. The block is stored raw in the save and only turned into an Info
// while it is merged into a scenario or rebuilt from a finished snapshot.
package carryover
