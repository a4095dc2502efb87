package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"queuesim/internal/scenario"
	"queuesim/internal/simrand"

	"gopkg.in/yaml.v3"
)

// FileConfig は設定ファイルの構造
type FileConfig struct {
	Simulation SimulationConfig `yaml:"simulation" json:"simulation"`
}

// SimulationConfig はシミュレーション設定
type SimulationConfig struct {
	Name        string `yaml:"name" json:"name"`
	Description string `yaml:"description" json:"description"`
	Duration    string `yaml:"duration" json:"duration"`

	Capacity        int `yaml:"capacity" json:"capacity"`
	Groups          int `yaml:"groups" json:"groups"`
	DevicesPerGroup int `yaml:"devices_per_group" json:"devices_per_group"`

	RequestType        RangeConfig `yaml:"request_type" json:"request_type"`
	GenerationInterval RangeConfig `yaml:"generation_interval" json:"generation_interval"`
	ProcessingTime     RangeConfig `yaml:"processing_time" json:"processing_time"`

	Seed int64 `yaml:"seed" json:"seed"`
}

// RangeConfig は閉区間設定
type RangeConfig struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// isSet は区間が明示されているかどうかを返す
func (r RangeConfig) isSet() bool {
	return r.Min != 0 || r.Max != 0
}

func (r RangeConfig) toRange() simrand.Range {
	return simrand.Range{Min: r.Min, Max: r.Max}
}

// LoadFile は設定ファイルを読み込む
func LoadFile(path string) (*FileConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config FileConfig
	ext := strings.ToLower(filepath.Ext(path))

	switch ext {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse YAML: %w", err)
		}
	case ".json":
		if err := json.Unmarshal(data, &config); err != nil {
			return nil, fmt.Errorf("failed to parse JSON: %w", err)
		}
	default:
		return nil, fmt.Errorf("unsupported config format: %s", ext)
	}

	return &config, nil
}

// ToScenarioConfig はFileConfigをscenario.Configに変換する
func (f *FileConfig) ToScenarioConfig() (scenario.Config, error) {
	sc := f.Simulation

	// デフォルト値の設定
	config := scenario.DefaultConfig()

	if sc.Name != "" {
		config.Name = sc.Name
	}
	if sc.Description != "" {
		config.Description = sc.Description
	}
	if sc.Duration != "" {
		d, err := time.ParseDuration(sc.Duration)
		if err != nil {
			return config, fmt.Errorf("invalid duration: %w", err)
		}
		config.Duration = d
	}
	if sc.Capacity > 0 {
		config.Capacity = sc.Capacity
	}
	if sc.Groups > 0 {
		config.NumGroups = sc.Groups
	}
	if sc.DevicesPerGroup > 0 {
		config.DevicesPerGroup = sc.DevicesPerGroup
	}
	if sc.RequestType.isSet() {
		config.TypeRange = sc.RequestType.toRange()
	}
	if sc.GenerationInterval.isSet() {
		config.GenInterval = sc.GenerationInterval.toRange()
	}
	if sc.ProcessingTime.isSet() {
		config.ProcessingTime = sc.ProcessingTime.toRange()
	}
	if sc.Seed != 0 {
		config.Seed = sc.Seed
	}

	return config, nil
}

// Validate は設定を検証する
// コアは容量0やグループ0を拒否しないため、外部入力の検証はここで行う
func (f *FileConfig) Validate() error {
	sc := f.Simulation

	if sc.Capacity < 0 {
		return fmt.Errorf("capacity must be non-negative")
	}
	if sc.Groups < 0 {
		return fmt.Errorf("groups must be non-negative")
	}
	if sc.DevicesPerGroup < 0 {
		return fmt.Errorf("devices_per_group must be non-negative")
	}

	ranges := []struct {
		name string
		r    RangeConfig
	}{
		{"request_type", sc.RequestType},
		{"generation_interval", sc.GenerationInterval},
		{"processing_time", sc.ProcessingTime},
	}
	for _, rc := range ranges {
		if rc.r.isSet() && !rc.r.toRange().Valid() {
			return fmt.Errorf("%s: min must be in [0, max]", rc.name)
		}
	}

	return nil
}
