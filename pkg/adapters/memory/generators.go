package memory

import (
	"fmt"

	"github.com/aretw0/savestate/pkg/document"
)

// ScenarioGeneratorFunc adapts a function to ports.ScenarioGenerator.
type ScenarioGeneratorFunc func(spec string, params *document.Config) (*document.Config, error)

// GenerateScenario calls f.
func (f ScenarioGeneratorFunc) GenerateScenario(spec string, params *document.Config) (*document.Config, error) {
	return f(spec, params)
}

// MapGeneratorFunc adapts a function to ports.MapGenerator.
type MapGeneratorFunc func(spec string, params *document.Config) (string, error)

// GenerateMap calls f.
func (f MapGeneratorFunc) GenerateMap(spec string, params *document.Config) (string, error) {
	return f(spec, params)
}

// Maps implements ports.MapReader over a fixed set of map files.
type Maps map[string]string

// ReadMap returns the content registered under path.
func (m Maps) ReadMap(path string) (string, error) {
	data, ok := m[path]
	if !ok {
		return "", fmt.Errorf("map not found: %s", path)
	}
	return data, nil
}
