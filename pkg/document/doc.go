/*
Package document implements the hierarchical save document: an ordered tree of text
attributes and tagged child lists.

Scenarios, snapshots, carryover blocks and replay commands are all documents. The tree is the
interchange contract between the save state machine, the catalog, the generators and the
stores, so every layer reads and writes it through the same small API:

	side := scenario.AddChild("side", nil)
	side.Set("id", "p1")
	side.Set("gold", 100)
	gold := side.Get("gold").Int(0)

Documents serialize to YAML with Encode/Decode.
*/
package document
