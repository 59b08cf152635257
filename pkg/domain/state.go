package domain

import (
	"fmt"

	"github.com/aretw0/savestate/pkg/document"
)

// StartKind tags the stage of a scenario a save records.
type StartKind int

const (
	StartNone     StartKind = iota // Nothing recorded yet, or the scenario was completed.
	StartSnapshot                  // Mid-scenario save with the full live state.
	StartScenario                  // Scenario definition, possibly not expanded yet.
	StartInvalid                   // The requested scenario does not exist.
)

func (k StartKind) String() string {
	switch k {
	case StartNone:
		return "none"
	case StartSnapshot:
		return "snapshot"
	case StartScenario:
		return "scenario"
	case StartInvalid:
		return "invalid"
	default:
		return fmt.Sprintf("StartKind(%d)", int(k))
	}
}

// StartingPosition is the tagged union over the start kinds.
// Only Snapshot and Scenario own a document.
type StartingPosition struct {
	kind StartKind
	doc  *document.Config
}

// NoStart returns the None position.
func NoStart() StartingPosition {
	return StartingPosition{kind: StartNone}
}

// InvalidStart returns the terminal Invalid position.
func InvalidStart() StartingPosition {
	return StartingPosition{kind: StartInvalid}
}

// SnapshotStart wraps a live snapshot. The position takes ownership of doc.
func SnapshotStart(doc *document.Config) StartingPosition {
	if doc == nil {
		doc = document.New()
	}
	return StartingPosition{kind: StartSnapshot, doc: doc}
}

// ScenarioStart wraps a scenario definition. The position takes ownership of doc.
func ScenarioStart(doc *document.Config) StartingPosition {
	if doc == nil {
		doc = document.New()
	}
	return StartingPosition{kind: StartScenario, doc: doc}
}

// Kind returns the active tag.
func (p StartingPosition) Kind() StartKind {
	return p.kind
}

// Document returns the owned document, or nil for None and Invalid.
func (p StartingPosition) Document() *document.Config {
	switch p.kind {
	case StartSnapshot, StartScenario:
		return p.doc
	default:
		return nil
	}
}

// Tag returns the save-file tag the position serializes under, or "" when it is not written.
func (p StartingPosition) Tag() string {
	switch p.kind {
	case StartSnapshot:
		return TagSnapshot
	case StartScenario:
		return TagScenario
	default:
		return ""
	}
}

// Clone returns a deep copy.
func (p StartingPosition) Clone() StartingPosition {
	if d := p.Document(); d != nil {
		return StartingPosition{kind: p.kind, doc: d.Clone()}
	}
	return StartingPosition{kind: p.kind}
}

// Equal compares tag and document content.
func (p StartingPosition) Equal(other StartingPosition) bool {
	return p.kind == other.kind && p.Document().Equal(other.Document())
}
