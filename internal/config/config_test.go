package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"
)

func writeTempConfig(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("failed to write temp config: %v", err)
	}
	return path
}

func TestLoadYAMLFile(t *testing.T) {
	path := writeTempConfig(t, "sim.yaml", `
simulation:
  name: custom
  description: Custom run
  duration: 30s
  capacity: 5
  groups: 4
  devices_per_group: 3
  request_type:
    min: 1
    max: 5
  generation_interval:
    min: 100
    max: 200
  processing_time:
    min: 300
    max: 400
  seed: 42
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate failed: %v", err)
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("ToScenarioConfig failed: %v", err)
	}

	if sc.Name != "custom" {
		t.Errorf("expected name custom, got %s", sc.Name)
	}
	if sc.Duration != 30*time.Second {
		t.Errorf("expected duration 30s, got %v", sc.Duration)
	}
	if sc.Capacity != 5 || sc.NumGroups != 4 || sc.DevicesPerGroup != 3 {
		t.Errorf("unexpected sizes: %d/%d/%d", sc.Capacity, sc.NumGroups, sc.DevicesPerGroup)
	}
	if sc.TypeRange.Min != 1 || sc.TypeRange.Max != 5 {
		t.Errorf("unexpected type range %+v", sc.TypeRange)
	}
	if sc.GenInterval.Min != 100 || sc.GenInterval.Max != 200 {
		t.Errorf("unexpected generation interval %+v", sc.GenInterval)
	}
	if sc.ProcessingTime.Min != 300 || sc.ProcessingTime.Max != 400 {
		t.Errorf("unexpected processing time %+v", sc.ProcessingTime)
	}
	if sc.Seed != 42 {
		t.Errorf("expected seed 42, got %d", sc.Seed)
	}
}

func TestLoadJSONFile(t *testing.T) {
	path := writeTempConfig(t, "sim.json", `{
  "simulation": {
    "name": "json-run",
    "capacity": 7,
    "groups": 2,
    "devices_per_group": 1
  }
}`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("ToScenarioConfig failed: %v", err)
	}
	if sc.Name != "json-run" || sc.Capacity != 7 || sc.NumGroups != 2 {
		t.Errorf("unexpected config: %+v", sc)
	}
}

func TestDefaultsApplyWhenOmitted(t *testing.T) {
	path := writeTempConfig(t, "partial.yaml", `
simulation:
  name: partial
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("ToScenarioConfig failed: %v", err)
	}

	// Reference defaults: type [1,3], generation 500-1500ms,
	// processing 2000-4000ms.
	if sc.TypeRange.Min != 1 || sc.TypeRange.Max != 3 {
		t.Errorf("unexpected default type range %+v", sc.TypeRange)
	}
	if sc.GenInterval.Min != 500 || sc.GenInterval.Max != 1500 {
		t.Errorf("unexpected default generation interval %+v", sc.GenInterval)
	}
	if sc.ProcessingTime.Min != 2000 || sc.ProcessingTime.Max != 4000 {
		t.Errorf("unexpected default processing time %+v", sc.ProcessingTime)
	}
	if sc.Capacity <= 0 || sc.NumGroups <= 0 {
		t.Errorf("defaults must provide a usable queue: %d/%d", sc.Capacity, sc.NumGroups)
	}
}

func TestExplicitZeroFallsBackToDefault(t *testing.T) {
	// 省略されたフィールドはゼロ値に unmarshal されるため、
	// 明示的な 0 も「未設定」として扱いデフォルトへフォールバックする
	path := writeTempConfig(t, "zero.yaml", `
simulation:
  name: zero
  capacity: 0
  groups: 0
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if err := cfg.Validate(); err != nil {
		t.Fatalf("Validate rejected zero values: %v", err)
	}

	sc, err := cfg.ToScenarioConfig()
	if err != nil {
		t.Fatalf("ToScenarioConfig failed: %v", err)
	}
	if sc.Capacity <= 0 || sc.NumGroups <= 0 {
		t.Errorf("zero values must fall back to defaults: %d/%d", sc.Capacity, sc.NumGroups)
	}
}

func TestInvalidDuration(t *testing.T) {
	path := writeTempConfig(t, "bad.yaml", `
simulation:
  duration: not-a-duration
`)

	cfg, err := LoadFile(path)
	if err != nil {
		t.Fatalf("LoadFile failed: %v", err)
	}
	if _, err := cfg.ToScenarioConfig(); err == nil {
		t.Error("expected error for invalid duration")
	}
}

func TestValidateRejectsInvertedRange(t *testing.T) {
	cfg := &FileConfig{}
	cfg.Simulation.RequestType = RangeConfig{Min: 5, Max: 1}

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for inverted range")
	}
}

func TestValidateRejectsNegativeCounts(t *testing.T) {
	cfg := &FileConfig{}
	cfg.Simulation.DevicesPerGroup = -1

	if err := cfg.Validate(); err == nil {
		t.Error("expected error for negative devices_per_group")
	}
}

func TestUnsupportedFormat(t *testing.T) {
	path := writeTempConfig(t, "sim.toml", "whatever")

	if _, err := LoadFile(path); err == nil {
		t.Error("expected error for unsupported format")
	}
}

func TestMissingFile(t *testing.T) {
	if _, err := LoadFile("/nonexistent/sim.yaml"); err == nil {
		t.Error("expected error for missing file")
	}
}
