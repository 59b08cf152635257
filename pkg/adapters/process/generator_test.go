package process_test

import (
	"os"
	"path/filepath"
	"runtime"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/aretw0/savestate/pkg/adapters/memory"
	"github.com/aretw0/savestate/pkg/adapters/process"
	"github.com/aretw0/savestate/pkg/document"
)

func requireShell(t *testing.T) {
	t.Helper()
	if runtime.GOOS == "windows" {
		t.Skip("generator fixtures use sh")
	}
}

func params() *document.Config {
	p := document.New()
	p.Set("width", 12)
	p.Set("players", 2)
	return p
}

func TestGenerateScenario_ReadsStdout(t *testing.T) {
	requireShell(t)
	g := process.New()
	// Echoing stdin back turns the params into the scenario.
	g.Register("echo", "sh", "-c", "cat; printf 'id: generated\\n'")

	doc, err := g.GenerateScenario("echo", params())
	require.NoError(t, err)
	assert.Equal(t, "12", doc.Get("width").Str())
	assert.Equal(t, "generated", doc.Get("id").Str())
}

func TestGenerateMap_UsesEnvironment(t *testing.T) {
	requireShell(t)
	g := process.New(process.WithRegistry(map[string]process.ProcessConfig{
		"flat": {
			Name:        "flat",
			Command:     "sh",
			Args:        []string{"-c", `printf '%s:%s:%s\n' "$TERRAIN" "$SAVESTATE_ARG_WIDTH" "$SAVESTATE_ARG_PLAYERS"`},
			Environment: map[string]string{"TERRAIN": "Gg"},
		},
	}))

	data, err := g.GenerateMap("flat", params())
	require.NoError(t, err)
	assert.Equal(t, "Gg:12:2", data)
}

func TestGenerate_Failure(t *testing.T) {
	requireShell(t)
	g := process.New()
	g.Register("broken", "sh", "-c", "echo boom >&2; exit 3")

	_, err := g.GenerateMap("broken", params())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "boom")
}

func TestGenerate_Timeout(t *testing.T) {
	requireShell(t)
	g := process.New(process.WithTimeout(100 * time.Millisecond))
	g.Register("slow", "sh", "-c", "sleep 5")

	start := time.Now()
	_, err := g.GenerateMap("slow", params())
	require.Error(t, err)
	assert.Less(t, time.Since(start), 3*time.Second)
}

func TestGenerate_Fallback(t *testing.T) {
	g := process.New(process.WithFallback(
		memory.ScenarioGeneratorFunc(func(spec string, _ *document.Config) (*document.Config, error) {
			doc := document.New()
			doc.Set("id", "from-"+spec)
			return doc, nil
		}),
		nil,
	))

	doc, err := g.GenerateScenario("cave", params())
	require.NoError(t, err)
	assert.Equal(t, "from-cave", doc.Get("id").Str())

	_, err = g.GenerateMap("cave", params())
	assert.ErrorIs(t, err, process.ErrNotRegistered)
}

func TestLoadGenerators(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "generators.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
generators:
  - name: cave
    command: ./cave-gen
    args: ["--fast"]
  - name: ""
    command: ignored
`), 0o644))

	gens, err := process.LoadGenerators(path)
	require.NoError(t, err)
	require.Len(t, gens, 1)
	assert.Equal(t, "./cave-gen", gens["cave"].Command)
	assert.Equal(t, []string{"--fast"}, gens["cave"].Args)

	missing, err := process.LoadGenerators(filepath.Join(dir, "absent.yaml"))
	require.NoError(t, err)
	assert.Empty(t, missing)
}
