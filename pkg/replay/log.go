// Package replay holds the ordered action log recorded between a replay start point and a snapshot.
package replay

import (
	"github.com/aretw0/savestate/pkg/document"
)

// Log is an append-only sequence of recorded commands with a playback cursor.
// The zero value is an empty log with the cursor at 0.
type Log struct {
	commands  []*document.Config
	uploadLog *document.Config
	pos       int
}

// New returns an empty log.
func New() *Log {
	return &Log{}
}

// Append adds one command document. The log takes ownership of cmd.
func (l *Log) Append(cmd *document.Config) {
	if cmd == nil {
		cmd = document.New()
	}
	l.commands = append(l.commands, cmd)
}

// AppendDocument adds every [command] of a [replay] block, in order.
// Server-side replays may be split over several blocks; only the first [upload_log] is kept.
func (l *Log) AppendDocument(block *document.Config) {
	for _, cmd := range block.ChildRange("command") {
		l.commands = append(l.commands, cmd.Clone())
	}
	if up := block.Child("upload_log"); up != nil && l.uploadLog == nil {
		l.uploadLog = up.Clone()
	}
}

// Len returns the number of recorded commands.
func (l *Log) Len() int {
	return len(l.commands)
}

// At returns the command at index i. The document is live.
func (l *Log) At(i int) *document.Config {
	return l.commands[i]
}

// Pos returns the cursor position.
func (l *Log) Pos() int {
	return l.pos
}

// AtEnd reports whether the cursor is past the last command.
func (l *Log) AtEnd() bool {
	return l.pos >= len(l.commands)
}

// Next returns the command under the cursor and advances, or nil at the end.
func (l *Log) Next() *document.Config {
	if l.AtEnd() {
		return nil
	}
	cmd := l.commands[l.pos]
	l.pos++
	return cmd
}

// SetToEnd moves the cursor past the last command, so new actions append after history.
func (l *Log) SetToEnd() {
	l.pos = len(l.commands)
}

// Rewind moves the cursor back to the first command.
func (l *Log) Rewind() {
	l.pos = 0
}

// Truncate drops every command from index n on. The cursor is clamped.
func (l *Log) Truncate(n int) {
	if n < 0 {
		n = 0
	}
	if n >= len(l.commands) {
		return
	}
	for i := n; i < len(l.commands); i++ {
		l.commands[i] = nil
	}
	l.commands = l.commands[:n]
	if l.pos > n {
		l.pos = n
	}
}

// Reset empties the log.
func (l *Log) Reset() {
	l.commands = nil
	l.uploadLog = nil
	l.pos = 0
}

// Write appends the log's content to a [replay] block.
func (l *Log) Write(block *document.Config) {
	for _, cmd := range l.commands {
		block.AddChild("command", cmd.Clone())
	}
	if l.uploadLog != nil {
		block.AddChild("upload_log", l.uploadLog.Clone())
	}
}

// ToDocument returns the log as a new [replay] block.
func (l *Log) ToDocument() *document.Config {
	block := document.New()
	l.Write(block)
	return block
}

// Clone returns a deep copy, cursor included.
func (l *Log) Clone() *Log {
	out := &Log{pos: l.pos}
	for _, cmd := range l.commands {
		out.commands = append(out.commands, cmd.Clone())
	}
	if l.uploadLog != nil {
		out.uploadLog = l.uploadLog.Clone()
	}
	return out
}

// Equal compares recorded content, ignoring the cursor.
func (l *Log) Equal(other *Log) bool {
	if len(l.commands) != len(other.commands) {
		return false
	}
	for i := range l.commands {
		if !l.commands[i].Equal(other.commands[i]) {
			return false
		}
	}
	return l.uploadLog.Equal(other.uploadLog)
}
