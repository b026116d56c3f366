package storage

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/go-gl/mathgl/mgl64"

	"github.com/san-kum/chaoslab/internal/dynamo"
	"github.com/san-kum/chaoslab/internal/sim"
)

func sampleResult() *sim.Result {
	disc := dynamo.Snapshot{
		Kind:     dynamo.KindDisc,
		Index:    0,
		Position: mgl64.Vec2{1.5, 2.25},
		Velocity: mgl64.Vec2{-3, 4},
		Mass:     1,
		Radius:   5,
		Rotation: 0.1,
		Spin:     -2,
		Color:    "#ff0000",
	}
	src := dynamo.Snapshot{Kind: dynamo.KindSource, Index: -1, Position: mgl64.Vec2{600, 450}, Mass: 5000, Radius: 20, Color: "#ffff00"}
	moved := disc
	moved.Position = mgl64.Vec2{1.45, 2.29}

	return &sim.Result{
		Frames: []dynamo.Frame{
			{Time: 0, Step: 0, Energy: 12.5, Entities: []dynamo.Snapshot{src, disc}},
			{Time: 0.01, Step: 1, Energy: 12.5, Entities: []dynamo.Snapshot{src, moved}},
		},
		Times: []float64{0, 0.01},
		Series: map[string][]float64{
			"energy":       {12.5, 12.5},
			"energy_drift": {0, 1e-9},
		},
		Metrics:     map[string]float64{"energy_drift": 1e-9},
		StepsTaken:  1,
		EnergyDrift: 1e-9,
	}
}

func TestStoreSaveLoad(t *testing.T) {
	st := New(t.TempDir())
	if err := st.Init(); err != nil {
		t.Fatalf("init failed: %v", err)
	}

	info := RunInfo{Scenario: "particles", Integrator: "verlet", Seed: 42, FrameDt: 0.01, Frames: 1, Substeps: 1, TimeScale: 1}
	runID, err := st.Save(info, sampleResult())
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if runID == "" {
		t.Fatal("expected non-empty run id")
	}

	meta, err := st.Load(runID)
	if err != nil {
		t.Fatalf("load failed: %v", err)
	}
	if meta.Scenario != "particles" || meta.Seed != 42 || meta.StepsTaken != 1 {
		t.Errorf("unexpected metadata: %+v", meta)
	}
	if meta.Metrics["energy_drift"] != 1e-9 {
		t.Errorf("expected energy_drift 1e-9, got %g", meta.Metrics["energy_drift"])
	}

	frames, err := st.LoadFrames(runID)
	if err != nil {
		t.Fatalf("load frames failed: %v", err)
	}
	want := sampleResult().Frames
	if len(frames) != len(want) {
		t.Fatalf("expected %d frames, got %d", len(want), len(frames))
	}
	for i := range want {
		if frames[i].Time != want[i].Time || frames[i].Step != want[i].Step || frames[i].Energy != want[i].Energy {
			t.Errorf("frame %d header = %+v", i, frames[i])
		}
		for j := range want[i].Entities {
			if frames[i].Entities[j] != want[i].Entities[j] {
				t.Errorf("frame %d entity %d = %+v, want %+v", i, j, frames[i].Entities[j], want[i].Entities[j])
			}
		}
	}

	times, series, err := st.LoadSeries(runID)
	if err != nil {
		t.Fatalf("load series failed: %v", err)
	}
	if len(times) != 2 || len(series["energy"]) != 2 || series["energy_drift"][1] != 1e-9 {
		t.Errorf("series = %v at %v", series, times)
	}
}

func TestStoreSave_UniqueIDs(t *testing.T) {
	st := New(t.TempDir())
	a, err := st.Save(RunInfo{Scenario: "solar"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	b, err := st.Save(RunInfo{Scenario: "solar"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}
	if a == b {
		t.Errorf("two saves share run id %s", a)
	}
}

func TestStoreList(t *testing.T) {
	dir := t.TempDir()
	st := New(dir)

	runs, err := st.List()
	if err != nil || len(runs) != 0 {
		t.Fatalf("empty store: %v, %v", runs, err)
	}

	for _, name := range []string{"particles", "pendulum"} {
		if _, err := st.Save(RunInfo{Scenario: name}, sampleResult()); err != nil {
			t.Fatal(err)
		}
	}
	os.Mkdir(filepath.Join(dir, "junk"), 0755)
	os.WriteFile(filepath.Join(dir, "stray.txt"), []byte("x"), 0644)

	runs, err = st.List()
	if err != nil {
		t.Fatal(err)
	}
	if len(runs) != 2 {
		t.Errorf("expected 2 runs, got %d", len(runs))
	}
}

func TestList_MissingDir(t *testing.T) {
	runs, err := New(filepath.Join(t.TempDir(), "nope")).List()
	if err != nil || len(runs) != 0 {
		t.Errorf("missing dir: %v, %v", runs, err)
	}
}

func TestLoad_Missing(t *testing.T) {
	st := New(t.TempDir())
	if _, err := st.Load("nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
	if _, err := st.LoadFrames("nope"); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}

func TestLoadFrames_Corrupt(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Scenario: "x"}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	path := filepath.Join(st.baseDir, runID, framesFile)
	data, _ := os.ReadFile(path)
	data = bytes.Replace(data, []byte("disc"), []byte("comet"), 1)
	os.WriteFile(path, data, 0644)

	if _, err := st.LoadFrames(runID); err == nil {
		t.Error("expected error for unknown kind")
	}
}

func TestExport(t *testing.T) {
	st := New(t.TempDir())
	runID, err := st.Save(RunInfo{Scenario: "solar", Seed: 7}, sampleResult())
	if err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := st.Export(runID, &buf, true); err != nil {
		t.Fatal(err)
	}

	var got ExportData
	if err := json.Unmarshal(buf.Bytes(), &got); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if got.Run.Seed != 7 || len(got.Times) != 2 || len(got.Frames) != 2 {
		t.Errorf("unexpected export: %+v", got)
	}
	if got.Frames[0].Entities[0].Kind != dynamo.KindSource {
		t.Errorf("kind lost in export: %v", got.Frames[0].Entities[0].Kind)
	}
	if !bytes.Contains(buf.Bytes(), []byte(`"Kind": "source"`)) {
		t.Error("kinds should export by name")
	}

	buf.Reset()
	if err := st.Export(runID, &buf, false); err != nil {
		t.Fatal(err)
	}
	var top map[string]json.RawMessage
	if err := json.Unmarshal(buf.Bytes(), &top); err != nil {
		t.Fatal(err)
	}
	if _, ok := top["frames"]; ok {
		t.Error("frames should be omitted")
	}
	if _, ok := top["run"]; !ok {
		t.Error("run metadata missing")
	}
}
