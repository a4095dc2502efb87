package scenario

import (
	"time"

	"queuesim/internal/simrand"
)

// BasicScenario は基本的なシナリオ設定を返す
// 元のシミュレーションの定数そのままの中規模構成
func BasicScenario() Config {
	return Config{
		Name:            "basic",
		Description:     "Reference configuration with default timing",
		Duration:        30 * time.Second,
		Capacity:        10,
		NumGroups:       3,
		DevicesPerGroup: 2,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 500, Max: 1500},
		ProcessingTime:  simrand.Range{Min: 2000, Max: 4000},
	}
}

// ContentionScenario は小容量キューを多数のデバイスで取り合う構成を返す
// ゲートの起床・再評価が最も激しく観察できる
func ContentionScenario() Config {
	return Config{
		Name:            "contention",
		Description:     "Tiny queue, many devices fighting over the gate",
		Duration:        20 * time.Second,
		Capacity:        2,
		NumGroups:       2,
		DevicesPerGroup: 5,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 50, Max: 150},
		ProcessingTime:  simrand.Range{Min: 200, Max: 600},
	}
}

// WideScenario は多グループ・各1台の構成を返す
// グループ間の独立性（他グループのpopに影響されないこと）の確認用
func WideScenario() Config {
	return Config{
		Name:            "wide",
		Description:     "Many groups with a single device each",
		Duration:        20 * time.Second,
		Capacity:        16,
		NumGroups:       8,
		DevicesPerGroup: 1,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 100, Max: 300},
		ProcessingTime:  simrand.Range{Min: 1000, Max: 2000},
	}
}

// BurstScenario は生成が処理より速い構成を返す
// キューが満杯に張り付き、プロデューサが待たされ続ける
func BurstScenario() Config {
	return Config{
		Name:            "burst",
		Description:     "Generation outpaces processing, producer blocks on capacity",
		Duration:        20 * time.Second,
		Capacity:        5,
		NumGroups:       2,
		DevicesPerGroup: 1,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 10, Max: 50},
		ProcessingTime:  simrand.Range{Min: 2000, Max: 4000},
	}
}

// QuickScenario はクイックテスト用シナリオを返す
// 短時間での動作確認用
func QuickScenario() Config {
	return Config{
		Name:            "quick",
		Description:     "Quick test for verification",
		Duration:        5 * time.Second,
		Capacity:        4,
		NumGroups:       2,
		DevicesPerGroup: 2,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 50, Max: 200},
		ProcessingTime:  simrand.Range{Min: 100, Max: 400},
	}
}

// GetPreset は名前からプリセットシナリオを取得する
func GetPreset(name string) (Config, bool) {
	presets := map[string]func() Config{
		"basic":      BasicScenario,
		"contention": ContentionScenario,
		"wide":       WideScenario,
		"burst":      BurstScenario,
		"quick":      QuickScenario,
	}

	if fn, ok := presets[name]; ok {
		return fn(), true
	}
	return Config{}, false
}

// ListPresets は利用可能なプリセット名を返す
func ListPresets() []string {
	return []string{"basic", "contention", "wide", "burst", "quick"}
}
