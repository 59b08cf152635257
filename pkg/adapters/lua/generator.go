// Package lua runs scenario and map generators written as Lua scripts.
//
// A generation spec names a script in the generator directory ("cave" runs cave.lua). The
// [generator] parameters are exposed to the script as the global table "params": attributes
// become string fields and child lists become arrays of tables under their tag. A scenario
// generator returns a table, which becomes the scenario document; a map generator returns the
// map data as a string.
package lua

import (
	"fmt"
	"log/slog"
	"math"
	"path/filepath"
	"strings"

	"github.com/Shopify/go-lua"
	"github.com/aretw0/savestate/internal/logging"
	"github.com/aretw0/savestate/pkg/document"
)

// Generator implements ports.ScenarioGenerator and ports.MapGenerator.
// Each call runs in a fresh Lua state, so scripts share nothing.
type Generator struct {
	dir    string
	logger *slog.Logger
}

// Option configures the Generator.
type Option func(*Generator)

// WithLogger sets the logger script print output and runs are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// New creates a generator that resolves scripts in dir.
func New(dir string, opts ...Option) *Generator {
	g := &Generator{dir: dir, logger: logging.NewNop()}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateScenario runs the script named by spec and converts its table result.
func (g *Generator) GenerateScenario(spec string, params *document.Config) (*document.Config, error) {
	state, err := g.run(spec, params)
	if err != nil {
		return nil, err
	}
	if state.TypeOf(-1) != lua.TypeTable {
		return nil, fmt.Errorf("scenario generator %q must return a table, got %s", spec, lua.TypeNameOf(state, -1))
	}
	return document.FromMap(tableToMap(state, -1)), nil
}

// GenerateMap runs the script named by spec and returns its string result.
func (g *Generator) GenerateMap(spec string, params *document.Config) (string, error) {
	state, err := g.run(spec, params)
	if err != nil {
		return "", err
	}
	if state.TypeOf(-1) != lua.TypeString {
		return "", fmt.Errorf("map generator %q must return a string, got %s", spec, lua.TypeNameOf(state, -1))
	}
	data, _ := state.ToString(-1)
	return data, nil
}

func (g *Generator) script(spec string) (string, error) {
	name := strings.TrimSpace(spec)
	if !strings.HasSuffix(name, ".lua") {
		name += ".lua"
	}
	if !filepath.IsLocal(name) {
		return "", fmt.Errorf("invalid generator name %q", spec)
	}
	return filepath.Join(g.dir, name), nil
}

// run loads and calls the script, leaving its single result on the stack.
func (g *Generator) run(spec string, params *document.Config) (*lua.State, error) {
	path, err := g.script(spec)
	if err != nil {
		return nil, err
	}

	state := lua.NewState()
	lua.OpenLibraries(state)
	pushDocument(state, params)
	state.SetGlobal("params")

	g.logger.Debug("running generator", "script", path)
	if err := lua.LoadFile(state, path, ""); err != nil {
		return nil, fmt.Errorf("load lua: %w", err)
	}
	if err := state.ProtectedCall(0, 1, 0); err != nil {
		return nil, fmt.Errorf("run lua: %w", err)
	}
	return state, nil
}

func pushDocument(state *lua.State, doc *document.Config) {
	state.NewTable()
	for _, a := range doc.Attributes() {
		state.PushString(a.Value.Str())
		state.SetField(-2, a.Key)
	}

	var tags []string
	seen := make(map[string]bool)
	for _, ch := range doc.Children() {
		if !seen[ch.Tag] {
			seen[ch.Tag] = true
			tags = append(tags, ch.Tag)
		}
	}
	for _, tag := range tags {
		state.NewTable()
		for i, ch := range doc.ChildRange(tag) {
			pushDocument(state, ch)
			state.RawSetInt(-2, i+1)
		}
		state.SetField(-2, tag)
	}
}

func tableToMap(state *lua.State, index int) map[string]any {
	output := map[string]any{}
	if state.TypeOf(index) != lua.TypeTable {
		return output
	}

	index = state.AbsIndex(index)
	state.PushNil()
	for state.Next(index) {
		if state.TypeOf(-2) == lua.TypeString {
			key, _ := state.ToString(-2)
			output[key] = luaToGo(state, -1)
		}
		state.Pop(1)
	}
	return output
}

func luaToGo(state *lua.State, index int) any {
	switch state.TypeOf(index) {
	case lua.TypeString:
		value, _ := state.ToString(index)
		return value
	case lua.TypeNumber:
		value, _ := state.ToNumber(index)
		return normalizeNumber(value)
	case lua.TypeBoolean:
		return state.ToBoolean(index)
	case lua.TypeTable:
		return tableToGo(state, index)
	default:
		return nil
	}
}

func tableToGo(state *lua.State, index int) any {
	if state.TypeOf(index) != lua.TypeTable {
		return nil
	}

	index = state.AbsIndex(index)
	isArray := true
	maxIndex := 0
	count := 0
	state.PushNil()
	for state.Next(index) {
		if isArray {
			if state.TypeOf(-2) != lua.TypeNumber {
				isArray = false
			} else if idx, ok := state.ToInteger(-2); ok && idx > 0 {
				count++
				if idx > maxIndex {
					maxIndex = idx
				}
			} else {
				isArray = false
			}
		}
		state.Pop(1)
	}

	if isArray && count > 0 && maxIndex == count {
		result := make([]any, 0, maxIndex)
		for i := 1; i <= maxIndex; i++ {
			state.RawGetInt(index, i)
			result = append(result, luaToGo(state, -1))
			state.Pop(1)
		}
		return result
	}

	return tableToMap(state, index)
}

func normalizeNumber(value float64) any {
	if math.Mod(value, 1) == 0 {
		return int(value)
	}
	return value
}
