/*
Package ports defines the driven ports (interfaces) of the save state core.

These interfaces decouple the state machine from the game catalog, the procedural
generators, the statistics subsystem and the persistence backends, so each can be
swapped for a test double or a different adapter.

# Key Interfaces

  - Catalog: looks up scenario, era and modification definitions by tag and id.
  - ScenarioGenerator / MapGenerator: procedural generation black boxes.
  - MapReader: resolves a map file reference to its content.
  - Statistics: receives the opaque statistics block of a save.
  - SaveStore: persists whole save documents.
  - DistributedLocker: coordinates access to one save across replicas.
*/
package ports
