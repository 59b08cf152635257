/*
Package domain contains the value objects shared by the save state machine and its adapters.

It defines the starting position of a save, the campaign classification, the multiplayer
settings, the lifecycle events and the sentinel errors. Everything here is plain data built on
top of the document tree; no I/O happens in this package.

# Key Entities

  - StartingPosition: which stage of a scenario a save records (None, Snapshot, Scenario, Invalid).
  - Classification: campaign id, label and abbreviation, and the catalog tag scenarios live under.
  - MPSettings: era, active modifications, options and required add-ons.
  - LifecycleHooks: callbacks fired by the expansion pipeline.
*/
package domain
