// Package process runs scenario and map generators as external programs.
//
// Only generators registered by name can run. The [generator] parameters are written to the
// program's stdin as a YAML document, and each attribute is also exported as
// SAVESTATE_ARG_<KEY>. A scenario generator prints a YAML document; a map generator prints
// the map data. Specs that name no registered program go to the fallback generators.
package process

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os/exec"
	"strings"
	"time"

	"github.com/aretw0/savestate/internal/logging"
	"github.com/aretw0/savestate/pkg/document"
	"github.com/aretw0/savestate/pkg/ports"
)

// DefaultTimeout bounds one generator run.
const DefaultTimeout = 30 * time.Second

// ErrNotRegistered is returned for a spec no registered program or fallback can serve.
var ErrNotRegistered = errors.New("generator not registered")

// Generator implements ports.ScenarioGenerator and ports.MapGenerator.
type Generator struct {
	registry map[string]ProcessConfig
	baseDir  string
	timeout  time.Duration
	logger   *slog.Logger

	scenarioFallback ports.ScenarioGenerator
	mapFallback      ports.MapGenerator
}

// Option configures the Generator.
type Option func(*Generator)

// WithRegistry adds the loaded generator configs to the allow-list.
func WithRegistry(generators map[string]ProcessConfig) Option {
	return func(g *Generator) {
		for name, cfg := range generators {
			g.registry[name] = cfg
		}
	}
}

// WithBaseDir sets the working directory of generator programs.
func WithBaseDir(dir string) Option {
	return func(g *Generator) {
		g.baseDir = dir
	}
}

// WithTimeout overrides DefaultTimeout.
func WithTimeout(d time.Duration) Option {
	return func(g *Generator) {
		g.timeout = d
	}
}

// WithLogger sets the logger runs are reported to.
func WithLogger(logger *slog.Logger) Option {
	return func(g *Generator) {
		g.logger = logger
	}
}

// WithFallback sets the generators used for specs that are not registered here.
// Either may be nil.
func WithFallback(scenarios ports.ScenarioGenerator, maps ports.MapGenerator) Option {
	return func(g *Generator) {
		g.scenarioFallback = scenarios
		g.mapFallback = maps
	}
}

// New creates a process generator.
func New(opts ...Option) *Generator {
	g := &Generator{
		registry: make(map[string]ProcessConfig),
		timeout:  DefaultTimeout,
		logger:   logging.NewNop(),
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// Register adds a trusted program to the allow-list.
func (g *Generator) Register(name, command string, args ...string) {
	g.registry[name] = ProcessConfig{Name: name, Command: command, Args: args}
}

// GenerateScenario runs the program registered as spec and decodes its output.
func (g *Generator) GenerateScenario(spec string, params *document.Config) (*document.Config, error) {
	cfg, ok := g.registry[spec]
	if !ok {
		if g.scenarioFallback == nil {
			return nil, fmt.Errorf("%w: %s", ErrNotRegistered, spec)
		}
		return g.scenarioFallback.GenerateScenario(spec, params)
	}

	out, err := g.run(cfg, params)
	if err != nil {
		return nil, err
	}
	doc, err := document.Unmarshal(out)
	if err != nil {
		return nil, fmt.Errorf("scenario generator %q: %w", spec, err)
	}
	return doc, nil
}

// GenerateMap runs the program registered as spec and returns its trimmed output.
func (g *Generator) GenerateMap(spec string, params *document.Config) (string, error) {
	cfg, ok := g.registry[spec]
	if !ok {
		if g.mapFallback == nil {
			return "", fmt.Errorf("%w: %s", ErrNotRegistered, spec)
		}
		return g.mapFallback.GenerateMap(spec, params)
	}

	out, err := g.run(cfg, params)
	if err != nil {
		return "", err
	}
	return strings.TrimSpace(string(out)), nil
}

func (g *Generator) run(cfg ProcessConfig, params *document.Config) ([]byte, error) {
	input, err := document.Marshal(params)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal generator params: %w", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), g.timeout)
	defer cancel()

	cmd := exec.CommandContext(ctx, cfg.Command, cfg.Args...)
	cmd.Dir = g.baseDir
	cmd.WaitDelay = time.Second
	cmd.Stdin = bytes.NewReader(input)

	// Parameters travel in the environment, never as flags, so values cannot inject options.
	env := cmd.Environ()
	for k, v := range cfg.Environment {
		env = append(env, k+"="+v)
	}
	for _, a := range params.Attributes() {
		env = append(env, "SAVESTATE_ARG_"+strings.ToUpper(a.Key)+"="+a.Value.Str())
	}
	cmd.Env = env

	var stdout, stderr bytes.Buffer
	cmd.Stdout = &stdout
	cmd.Stderr = &stderr

	start := time.Now()
	err = cmd.Run()
	g.logger.Debug("generator finished", "name", cfg.Name, "duration", time.Since(start), "error", err)
	if err != nil {
		if ctx.Err() != nil {
			return nil, fmt.Errorf("generator %q: %w", cfg.Name, ctx.Err())
		}
		return nil, fmt.Errorf("generator %q failed: %w: %s", cfg.Name, err, strings.TrimSpace(stderr.String()))
	}
	return stdout.Bytes(), nil
}
