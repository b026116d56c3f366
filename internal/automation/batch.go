package automation

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/log"
	"gopkg.in/yaml.v3"

	"github.com/san-kum/chaoslab/internal/config"
	"github.com/san-kum/chaoslab/internal/metrics"
	"github.com/san-kum/chaoslab/internal/scenario"
	"github.com/san-kum/chaoslab/internal/sim"
	"github.com/san-kum/chaoslab/internal/storage"
)

var ErrEmptyBatch = errors.New("automation: batch has no runs")

// Batch is a scripted sequence of runs.
type Batch struct {
	Name        string     `yaml:"name"`
	Description string     `yaml:"description"`
	Runs        []BatchRun `yaml:"runs"`
}

// BatchRun resolves like the CLI: preset, then config file, then the
// explicit fields. Zero fields keep the resolved value.
type BatchRun struct {
	Scenario   string             `yaml:"scenario"`
	Preset     string             `yaml:"preset"`
	Config     string             `yaml:"config"`
	Frames     int                `yaml:"frames"`
	Seed       int64              `yaml:"seed"`
	Integrator string             `yaml:"integrator"`
	Set        map[string]float64 `yaml:"set"`
}

func LoadBatch(path string) (*Batch, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}

	var batch Batch
	if err := yaml.Unmarshal(data, &batch); err != nil {
		return nil, fmt.Errorf("parse %s: %w", path, err)
	}
	if len(batch.Runs) == 0 {
		return nil, ErrEmptyBatch
	}
	for i, run := range batch.Runs {
		if run.Scenario == "" {
			return nil, fmt.Errorf("run %d: scenario is required", i+1)
		}
	}
	return &batch, nil
}

// Resolve builds the run's config. A relative Config path is taken from
// baseDir.
func (r BatchRun) Resolve(baseDir string) (*config.Config, error) {
	cfg := config.DefaultConfig()
	if r.Preset != "" {
		p, err := config.GetPreset(r.Scenario, r.Preset)
		if err != nil {
			return nil, err
		}
		cfg = p
	}
	if r.Config != "" {
		path := r.Config
		if !filepath.IsAbs(path) {
			path = filepath.Join(baseDir, path)
		}
		loaded, err := config.LoadOver(path, cfg)
		if err != nil {
			return nil, err
		}
		cfg = loaded
	}

	cfg.Scenario = r.Scenario
	if r.Frames > 0 {
		cfg.Frames = r.Frames
	}
	if r.Seed != 0 {
		cfg.Seed = r.Seed
	}
	if r.Integrator != "" {
		cfg.Integrator = r.Integrator
	}
	for key, value := range r.Set {
		if err := cfg.Set(key, value); err != nil {
			return nil, err
		}
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Runner builds worlds from configs, runs them headless and optionally
// saves the results.
type Runner struct {
	registry *scenario.Registry
	store    *storage.Store
	logger   *log.Logger
}

// NewRunner returns a runner over reg. A nil store skips saving and a nil
// logger discards.
func NewRunner(reg *scenario.Registry, st *storage.Store, logger *log.Logger) *Runner {
	if logger == nil {
		logger = log.New(io.Discard)
	}
	return &Runner{registry: reg, store: st, logger: logger}
}

// Run builds cfg's world with its scenario's default metrics and runs it.
func (r *Runner) Run(ctx context.Context, cfg *config.Config) (*sim.Result, *sim.World, error) {
	w, err := r.registry.NewWorld(cfg, sim.WithLogger(r.logger), sim.WithMetricsFor(metrics.ForScenario))
	if err != nil {
		return nil, nil, err
	}
	result, err := w.Run(ctx, cfg.RunConfig())
	return result, w, err
}

// Outcome is one finished batch run.
type Outcome struct {
	Index  int
	RunID  string
	Config *config.Config
	Result *sim.Result
}

// RunBatch executes every run in order and stops at the first failure,
// returning the outcomes so far.
func (r *Runner) RunBatch(ctx context.Context, b *Batch, baseDir string) ([]Outcome, error) {
	outcomes := make([]Outcome, 0, len(b.Runs))

	for i, run := range b.Runs {
		cfg, err := run.Resolve(baseDir)
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}
		r.logger.Info("batch run", "batch", b.Name, "index", i+1, "of", len(b.Runs), "scenario", cfg.Scenario)

		result, w, err := r.Run(ctx, cfg)
		if err != nil {
			return outcomes, fmt.Errorf("run %d: %w", i+1, err)
		}

		out := Outcome{Index: i, Config: cfg, Result: result}
		if r.store != nil {
			scn := w.Scenario()
			out.RunID, err = r.store.Save(storage.RunInfo{
				Scenario:   cfg.Scenario,
				Integrator: cfg.Integrator,
				Seed:       cfg.Seed,
				FrameDt:    cfg.FrameDt,
				Frames:     w.Frames(),
				Substeps:   scn.Substeps,
				TimeScale:  scn.TimeScale,
			}, result)
			if err != nil {
				return outcomes, fmt.Errorf("run %d: save: %w", i+1, err)
			}
		}
		outcomes = append(outcomes, out)
	}
	return outcomes, nil
}
