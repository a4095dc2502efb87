// Package main is the entry point for QueueSim.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"queuesim/internal/api"
	"queuesim/internal/config"
	"queuesim/internal/logger"
	"queuesim/internal/scenario"
)

var (
	version = "dev"
)

func main() {
	// フラグ定義
	var (
		configFile  = flag.String("config", "", "設定ファイルパス (YAML/JSON)")
		presetName  = flag.String("preset", "", "プリセットシナリオ名 (basic, contention, wide, burst, quick)")
		duration    = flag.Duration("duration", 0, "シミュレーション実行時間 (例: 30s, 1m。0でCtrl+Cまで実行)")
		capacity    = flag.Int("capacity", 0, "キュー容量")
		groups      = flag.Int("groups", 0, "グループ数")
		devices     = flag.Int("devices", -1, "グループあたりのデバイス数")
		seed        = flag.Int64("seed", 0, "乱数シード (0で時刻シード)")
		listPresets = flag.Bool("list-presets", false, "利用可能なプリセットを表示")
		showVersion = flag.Bool("version", false, "バージョンを表示")
		serverMode  = flag.Bool("server", false, "Web UI サーバーモードで起動")
		serverAddr  = flag.String("addr", ":8080", "サーバーアドレス (例: :8080, 0.0.0.0:3000)")
	)

	flag.Usage = func() {
		fmt.Fprintf(os.Stderr, `QueueSim - Bounded Priority-Queue Simulator

Usage:
  queuesim [options]

Options:
`)
		flag.PrintDefaults()
		fmt.Fprintf(os.Stderr, `
Examples:
  # プリセットシナリオを実行
  queuesim --preset quick

  # 設定ファイルから実行
  queuesim --config simulation.yaml

  # フラグでカスタマイズ
  queuesim --preset basic --capacity 10 --groups 3 --devices 2

  # Ctrl+Cで止めるまで実行
  queuesim --preset basic --duration 0

  # プリセット一覧を表示
  queuesim --list-presets

  # Web UIサーバーモードで起動
  queuesim --server --addr :3000
`)
	}

	flag.Parse()

	// バージョン表示
	if *showVersion {
		fmt.Printf("queuesim version %s\n", version)
		return
	}

	// プリセット一覧表示
	if *listPresets {
		printPresets()
		return
	}

	// Web UIサーバーモード
	if *serverMode {
		if err := runServer(*serverAddr); err != nil {
			logger.Error("", "サーバーエラー: %v", err)
			os.Exit(1)
		}
		return
	}

	// シナリオ設定の決定
	scenarioConfig, err := buildScenarioConfig(
		*configFile, *presetName, *duration, *capacity, *groups, *devices, *seed,
	)
	if err != nil {
		logger.Error("", "設定エラー: %v", err)
		os.Exit(1)
	}

	// シナリオ実行
	if err := runScenario(scenarioConfig); err != nil {
		logger.Error("", "シナリオ実行エラー: %v", err)
		os.Exit(1)
	}
}

// buildScenarioConfig はシナリオ設定を構築する
func buildScenarioConfig(
	configFile, presetName string,
	duration time.Duration, capacity, groups, devices int, seed int64,
) (scenario.Config, error) {
	var cfg scenario.Config

	// 1. 設定ファイルから読み込み
	if configFile != "" {
		fileConfig, err := config.LoadFile(configFile)
		if err != nil {
			return cfg, fmt.Errorf("設定ファイル読み込みエラー: %w", err)
		}
		if err := fileConfig.Validate(); err != nil {
			return cfg, fmt.Errorf("設定検証エラー: %w", err)
		}
		cfg, err = fileConfig.ToScenarioConfig()
		if err != nil {
			return cfg, fmt.Errorf("設定変換エラー: %w", err)
		}
	} else if presetName != "" {
		// 2. プリセットから読み込み
		preset, ok := scenario.GetPreset(presetName)
		if !ok {
			return cfg, fmt.Errorf("不明なプリセット: %s (利用可能: %v)", presetName, scenario.ListPresets())
		}
		cfg = preset
	} else {
		// 3. デフォルト（quickシナリオ）
		cfg = scenario.QuickScenario()
	}

	// フラグでオーバーライド
	if duration != 0 {
		cfg.Duration = duration
	}
	if capacity > 0 {
		cfg.Capacity = capacity
	}
	if groups > 0 {
		cfg.NumGroups = groups
	}
	if devices >= 0 {
		cfg.DevicesPerGroup = devices
	}
	if seed != 0 {
		cfg.Seed = seed
	}

	return cfg, nil
}

// runScenario はシナリオを実行する
func runScenario(cfg scenario.Config) error {
	fmt.Println("QueueSim - Bounded Priority-Queue Simulator")
	fmt.Println("===========================================")
	fmt.Printf("Scenario: %s\n", cfg.Name)
	if cfg.Duration > 0 {
		fmt.Printf("Duration: %v\n", cfg.Duration)
	} else {
		fmt.Println("Duration: until interrupted (Ctrl+C)")
	}
	fmt.Printf("Capacity: %d, Groups: %d, Devices/group: %d\n",
		cfg.Capacity, cfg.NumGroups, cfg.DevicesPerGroup)
	fmt.Println("===========================================")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n中断シグナルを受信、シミュレーションを終了中...")
		cancel()
	}()

	// シナリオ実行
	engine := scenario.New(cfg)
	result, err := engine.Run(ctx)
	if err != nil {
		return err
	}

	// レポート出力
	fmt.Println(result.Report())

	return nil
}

// printPresets は利用可能なプリセットを表示する
func printPresets() {
	fmt.Println("利用可能なプリセットシナリオ:")
	fmt.Println()

	for _, name := range scenario.ListPresets() {
		if cfg, ok := scenario.GetPreset(name); ok {
			fmt.Printf("  %-12s %s\n", name, cfg.Description)
		}
	}

	fmt.Println()
	fmt.Println("使用例: queuesim --preset quick")
}

// runServer はWeb UIサーバーを起動する
func runServer(addr string) error {
	fmt.Println("QueueSim - Web UI Server")
	fmt.Println("========================")
	fmt.Printf("Starting server on http://%s\n", addr)
	fmt.Println("Press Ctrl+C to stop")
	fmt.Println()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// シグナルハンドリング
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		<-sigCh
		fmt.Println("\n中断シグナルを受信、サーバーを終了中...")
		cancel()
	}()

	server := api.NewServer(addr)
	return server.Start(ctx)
}
