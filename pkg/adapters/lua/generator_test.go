package lua_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aretw0/savestate/pkg/adapters/lua"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeScript(t *testing.T, dir, name, src string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(src), 0644))
}

func params() *document.Config {
	p := document.New()
	p.Set("width", 3)
	p.Set("terrain", "Uu")
	p.AddChild("village", nil).Set("x", 1)
	p.AddChild("village", nil).Set("x", 2)
	return p
}

func TestGenerator_Map(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "cave.lua", `
local row = {}
for i = 1, tonumber(params.width) do
  row[#row + 1] = params.terrain
end
return table.concat(row, ", ") .. " #" .. #params.village
`)

	data, err := lua.New(dir).GenerateMap("cave", params())
	require.NoError(t, err)
	assert.Equal(t, "Uu, Uu, Uu #2", data)
}

func TestGenerator_Scenario(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "islands.lua", `
local sides = {}
for i = 1, 2 do
  sides[i] = { id = "p" .. i, gold = 100 * i, canrecruit = true }
end
return {
  id = "ignored",
  name = "Islands of " .. params.terrain,
  turns = 24,
  side = sides,
  generator = { seed = 1.5 },
}
`)

	doc, err := lua.New(dir).GenerateScenario("islands.lua", params())
	require.NoError(t, err)

	assert.Equal(t, "Islands of Uu", doc.Get("name").Str())
	assert.Equal(t, 24, doc.Get("turns").Int(0))
	require.Equal(t, 2, doc.ChildCount("side"))
	assert.Equal(t, "p2", doc.ChildRange("side")[1].Get("id").Str())
	assert.Equal(t, "200", doc.ChildRange("side")[1].Get("gold").Str())
	assert.True(t, doc.Child("side").Get("canrecruit").Bool(false))
	assert.Equal(t, "1.5", doc.Child("generator").Get("seed").Str())
}

func TestGenerator_Errors(t *testing.T) {
	dir := t.TempDir()
	writeScript(t, dir, "broken.lua", `return params.missing.field`)
	writeScript(t, dir, "number.lua", `return 42`)

	gen := lua.New(dir)

	_, err := gen.GenerateMap("broken", document.New())
	assert.Error(t, err)

	_, err = gen.GenerateMap("absent", document.New())
	assert.Error(t, err)

	_, err = gen.GenerateScenario("number", document.New())
	assert.ErrorContains(t, err, "must return a table")

	_, err = gen.GenerateMap("../escape", document.New())
	assert.ErrorContains(t, err, "invalid generator name")
}
