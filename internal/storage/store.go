package storage

import (
	"encoding/csv"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"time"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/sim"
)

const (
	metadataFile = "metadata.json"
	framesFile   = "frames.csv"
	seriesFile   = "series.csv"
)

var frameHeader = []string{
	"frame", "time", "step", "energy",
	"kind", "index", "x", "y", "vx", "vy",
	"mass", "radius", "rotation", "spin", "color",
}

type Store struct {
	baseDir string
}

// New returns a store rooted at baseDir. Call Init before saving.
func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

// RunInfo is what the caller knows about a run that the result does not.
type RunInfo struct {
	Scenario   string
	Integrator string
	Seed       int64
	FrameDt    float64
	Frames     int
	Substeps   int
	TimeScale  float64
}

type RunMetadata struct {
	ID          string             `json:"id"`
	Scenario    string             `json:"scenario"`
	Timestamp   time.Time          `json:"timestamp"`
	Seed        int64              `json:"seed"`
	FrameDt     float64            `json:"frame_dt"`
	Frames      int                `json:"frames"`
	Substeps    int                `json:"substeps"`
	TimeScale   float64            `json:"time_scale"`
	Integrator  string             `json:"integrator"`
	StepsTaken  int                `json:"steps_taken"`
	EnergyDrift float64            `json:"energy_drift"`
	Metrics     map[string]float64 `json:"metrics"`
}

// Save writes metadata.json, the sampled frames to frames.csv and the
// sampled series to series.csv under a new run directory.
func (s *Store) Save(info RunInfo, result *sim.Result) (string, error) {
	now := time.Now()
	runID, runDir, err := s.newRunDir(info.Scenario, now)
	if err != nil {
		return "", err
	}

	meta := RunMetadata{
		ID:          runID,
		Scenario:    info.Scenario,
		Timestamp:   now,
		Seed:        info.Seed,
		FrameDt:     info.FrameDt,
		Frames:      info.Frames,
		Substeps:    info.Substeps,
		TimeScale:   info.TimeScale,
		Integrator:  info.Integrator,
		StepsTaken:  result.StepsTaken,
		EnergyDrift: result.EnergyDrift,
		Metrics:     result.Metrics,
	}

	if err := writeJSON(filepath.Join(runDir, metadataFile), meta); err != nil {
		return "", err
	}
	if err := writeFrames(filepath.Join(runDir, framesFile), result.Frames); err != nil {
		return "", err
	}
	if err := writeSeries(filepath.Join(runDir, seriesFile), result.Times, result.Series); err != nil {
		return "", err
	}
	return runID, nil
}

func (s *Store) newRunDir(scenario string, now time.Time) (string, string, error) {
	if err := s.Init(); err != nil {
		return "", "", err
	}
	base := fmt.Sprintf("%s_%d", scenario, now.Unix())
	for i := 0; ; i++ {
		runID := base
		if i > 0 {
			runID = fmt.Sprintf("%s-%d", base, i)
		}
		dir := filepath.Join(s.baseDir, runID)
		err := os.Mkdir(dir, 0755)
		if err == nil {
			return runID, dir, nil
		}
		if !errors.Is(err, os.ErrExist) {
			return "", "", err
		}
	}
}

func writeJSON(path string, v any) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	enc := json.NewEncoder(f)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'g', -1, 64)
}

func writeFrames(path string, frames []dynamo.Frame) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	w := csv.NewWriter(f)
	if err := w.Write(frameHeader); err != nil {
		return err
	}
	for i, fr := range frames {
		for _, e := range fr.Entities {
			row := []string{
				strconv.Itoa(i),
				formatFloat(fr.Time),
				strconv.Itoa(fr.Step),
				formatFloat(fr.Energy),
				e.Kind.String(),
				strconv.Itoa(e.Index),
				formatFloat(e.Position[0]),
				formatFloat(e.Position[1]),
				formatFloat(e.Velocity[0]),
				formatFloat(e.Velocity[1]),
				formatFloat(e.Mass),
				formatFloat(e.Radius),
				formatFloat(e.Rotation),
				formatFloat(e.Spin),
				string(e.Color),
			}
			if err := w.Write(row); err != nil {
				return err
			}
		}
	}
	w.Flush()
	return w.Error()
}

// seriesNames puts energy first, the rest sorted.
func seriesNames(series map[string][]float64) []string {
	names := make([]string, 0, len(series))
	for name := range series {
		if name != "energy" {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := series["energy"]; ok {
		names = append([]string{"energy"}, names...)
	}
	return names
}

func writeSeries(path string, times []float64, series map[string][]float64) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()

	names := seriesNames(series)
	w := csv.NewWriter(f)
	if err := w.Write(append([]string{"time"}, names...)); err != nil {
		return err
	}
	for i, t := range times {
		row := []string{formatFloat(t)}
		for _, name := range names {
			v := 0.0
			if i < len(series[name]) {
				v = series[name][i]
			}
			row = append(row, formatFloat(v))
		}
		if err := w.Write(row); err != nil {
			return err
		}
	}
	w.Flush()
	return w.Error()
}

// List returns every readable run, oldest first.
func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil {
			continue
		}
		runs = append(runs, *meta)
	}

	sort.SliceStable(runs, func(i, j int) bool {
		return runs[i].Timestamp.Before(runs[j].Timestamp)
	})
	return runs, nil
}

// Load reads a run's metadata.
func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, metadataFile))
	if err != nil {
		return nil, err
	}

	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, fmt.Errorf("run %s: %w", runID, err)
	}
	return &meta, nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	return r.ReadAll()
}

// LoadFrames rebuilds the saved frames. Trails and frames without
// entities are not persisted.
func (s *Store) LoadFrames(runID string) ([]dynamo.Frame, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, framesFile))
	if err != nil {
		return nil, err
	}

	frames := make([]dynamo.Frame, 0)
	for line, rec := range records {
		if line == 0 {
			continue
		}
		if len(rec) != len(frameHeader) {
			return nil, fmt.Errorf("%s line %d: want %d fields, got %d", framesFile, line+1, len(frameHeader), len(rec))
		}

		nums := make([]float64, len(frameHeader))
		for _, col := range []int{1, 3, 6, 7, 8, 9, 10, 11, 12, 13} {
			if nums[col], err = strconv.ParseFloat(rec[col], 64); err != nil {
				return nil, fmt.Errorf("%s line %d: %s: %w", framesFile, line+1, frameHeader[col], err)
			}
		}
		idx, err1 := strconv.Atoi(rec[0])
		step, err2 := strconv.Atoi(rec[2])
		entity, err3 := strconv.Atoi(rec[5])
		if err := errors.Join(err1, err2, err3); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+1, err)
		}
		var kind dynamo.Kind
		if err := kind.UnmarshalText([]byte(rec[4])); err != nil {
			return nil, fmt.Errorf("%s line %d: %w", framesFile, line+1, err)
		}

		for len(frames) <= idx {
			frames = append(frames, dynamo.Frame{})
		}
		fr := &frames[idx]
		fr.Time, fr.Step, fr.Energy = nums[1], step, nums[3]
		fr.Entities = append(fr.Entities, dynamo.Snapshot{
			Kind:     kind,
			Index:    entity,
			Position: mgl64.Vec2{nums[6], nums[7]},
			Velocity: mgl64.Vec2{nums[8], nums[9]},
			Mass:     nums[10],
			Radius:   nums[11],
			Rotation: nums[12],
			Spin:     nums[13],
			Color:    dynamo.Color(rec[14]),
		})
	}
	return frames, nil
}

// LoadSeries returns the sample times and every saved series by name.
func (s *Store) LoadSeries(runID string) ([]float64, map[string][]float64, error) {
	records, err := readCSV(filepath.Join(s.baseDir, runID, seriesFile))
	if err != nil {
		return nil, nil, err
	}

	series := make(map[string][]float64)
	if len(records) < 2 {
		return []float64{}, series, nil
	}

	header := records[0]
	times := make([]float64, 0, len(records)-1)
	for _, rec := range records[1:] {
		if len(rec) != len(header) {
			continue
		}
		t, err := strconv.ParseFloat(rec[0], 64)
		if err != nil {
			continue
		}
		times = append(times, t)
		for j := 1; j < len(rec); j++ {
			v, err := strconv.ParseFloat(rec[j], 64)
			if err != nil {
				v = 0
			}
			series[header[j]] = append(series[header[j]], v)
		}
	}
	return times, series, nil
}
