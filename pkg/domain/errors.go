package domain

import "errors"

// ErrSaveNotFound is returned when a save ID cannot be found in the store.
var ErrSaveNotFound = errors.New("save not found")

// ErrScenarioNotFound is returned when the next scenario of a save is missing from the catalog.
var ErrScenarioNotFound = errors.New("scenario not found")

// ErrNotSnapshot is returned when an operation needs a mid-scenario snapshot and the save has none.
var ErrNotSnapshot = errors.New("save does not hold a snapshot")

// ErrInvalidSaveID is returned by stores for empty or unsafe save IDs.
var ErrInvalidSaveID = errors.New("invalid save id")
