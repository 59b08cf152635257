/*
Package savestate manages saved games of a turn-based strategy campaign: the state a save
records, how a pending scenario is resolved and expanded from game content, and how a
finished scenario hands its surviving sides over to the next one.

# Concept

A save is in one of four stages. It may record nothing yet (a start save that only names
the next scenario), a scenario definition, a mid-scenario snapshot, or an invalid scenario
reference. Between scenarios the persistent data of each side (gold, recall list,
recruits, variables) travels in a carryover block.

The engine wires a save to its collaborators: the content catalog (eras, modifications,
options, scenarios), the scenario and map generators, the map reader and the statistics
sink. The expansion pipeline only reads from them.

# Usage

	eng, err := savestate.New(
		savestate.WithCatalogDir("./content"),
		savestate.WithGeneratorDir("./content/generators"),
	)
	if err != nil {
		log.Fatal(err)
	}

	f, err := os.Open("turn-12.yaml")
	if err != nil {
		log.Fatal(err)
	}
	defer f.Close()

	sg, err := eng.Load(f)
	if err != nil {
		log.Fatal(err)
	}

	// The scenario is won: carry the surviving sides into the next one.
	if err := eng.StartNextScenario(sg); err != nil {
		log.Fatal(err)
	}
	if err := eng.Prepare(sg); err != nil {
		log.Fatal(err)
	}
	_ = eng.Encode(os.Stdout, sg)

Persistence across processes goes through pkg/session, which serializes updates to one
save and stores documents in any ports.SaveStore (memory, file, Redis).
*/
package savestate
