package domain

// Top-level tags of a save document.
const (
	TagMultiplayer         = "multiplayer"
	TagReplayStart         = "replay_start"
	TagReplay              = "replay"
	TagSnapshot            = "snapshot"
	TagScenario            = "scenario"
	TagCarryoverSides      = "carryover_sides"
	TagCarryoverSidesStart = "carryover_sides_start"
	TagStatistics          = "statistics"
)

// Controller values of a side.
const (
	ControllerHuman     = "human"
	ControllerNetwork   = "network"
	ControllerAI        = "ai"
	ControllerNetworkAI = "network_ai"
)

// NoOrder is written to goto_x/goto_y when a unit has no queued move.
const NoOrder = -999

// Campaign types.
const (
	CampaignTypeScenario    = "scenario"
	CampaignTypeMultiplayer = "multiplayer"
	CampaignTypeTutorial    = "tutorial"
	CampaignTypeTest        = "test"
)
