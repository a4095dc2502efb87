package scenario

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"queuesim/internal/device"
	"queuesim/internal/events"
	"queuesim/internal/gate"
	"queuesim/internal/generator"
	"queuesim/internal/logger"
	"queuesim/internal/metrics"
	"queuesim/internal/queue"
	"queuesim/internal/simrand"
)

// Config はシナリオの設定
type Config struct {
	Name        string        // シナリオ名
	Description string        // 説明
	Duration    time.Duration // 実行時間（0で割り込みまで実行）

	// キュー設定
	Capacity        int // キュー容量
	NumGroups       int // グループ数
	DevicesPerGroup int // グループあたりのデバイス数

	// 乱数設定（ミリ秒区間と要求タイプ区間）
	TypeRange      simrand.Range // 要求タイプ（優先度）の範囲
	GenInterval    simrand.Range // 生成間隔
	ProcessingTime simrand.Range // デバイス処理時間
	Seed           int64         // 乱数シード（0で時刻シード）
}

// DefaultConfig はデフォルト設定を返す
// 各区間の既定値は元のシミュレーションの定数
func DefaultConfig() Config {
	return Config{
		Name:            "default",
		Description:     "Default simulation",
		Duration:        10 * time.Second,
		Capacity:        10,
		NumGroups:       3,
		DevicesPerGroup: 2,
		TypeRange:       simrand.Range{Min: 1, Max: 3},
		GenInterval:     simrand.Range{Min: 500, Max: 1500},
		ProcessingTime:  simrand.Range{Min: 2000, Max: 4000},
	}
}

// Result はシナリオ実行結果
type Result struct {
	ScenarioName string
	StartTime    time.Time
	EndTime      time.Time
	Duration     time.Duration

	// メトリクス
	TotalGenerated uint64
	TotalProcessed uint64
	Discarded      int // シャットダウン時にキューに残っていた要求数
	PeakQueueSize  int
	Throughput     float64
	PopsByGroup    map[int]uint64
	PopsByType     map[int]uint64

	// 構成
	Capacity  int
	NumGroups int
	Devices   int
}

// Engine はシナリオ実行エンジン
type Engine struct {
	config   Config
	eventBus *events.Bus

	gate    *gate.Gate
	gen     *generator.Generator
	pool    *device.Pool
	metrics *metrics.Metrics

	mu      sync.RWMutex
	running bool
}

// New は新しいEngineを作成する
func New(config Config) *Engine {
	return &Engine{
		config: config,
	}
}

// SetEventBus はイベントバスを設定する
func (e *Engine) SetEventBus(bus *events.Bus) {
	e.eventBus = bus
}

// Config は設定を返す
func (e *Engine) Config() Config {
	return e.config
}

// Run はシナリオを実行する
// Durationが正ならその時間で、0なら親コンテキストの取り消しまで
// 走り、連携シャットダウン後に結果を返す
func (e *Engine) Run(ctx context.Context) (*Result, error) {
	e.mu.Lock()
	if e.running {
		e.mu.Unlock()
		return nil, fmt.Errorf("scenario is already running")
	}
	e.running = true
	e.mu.Unlock()

	defer func() {
		e.mu.Lock()
		e.running = false
		e.mu.Unlock()
	}()

	logger.Info("", "=== Scenario '%s' started ===", e.config.Name)
	logger.Info("", "Description: %s", e.config.Description)

	result := &Result{
		ScenarioName: e.config.Name,
		StartTime:    time.Now(),
	}

	e.setup()

	scenarioCtx := ctx
	var cancel context.CancelFunc
	if e.config.Duration > 0 {
		scenarioCtx, cancel = context.WithTimeout(ctx, e.config.Duration)
		defer cancel()
	}

	// 外部シグナル（コンテキスト取り消し/タイムアウト）をゲートの
	// シャットダウン要求に変換する監視goroutine
	watcherDone := make(chan struct{})
	go func() {
		defer close(watcherDone)
		<-scenarioCtx.Done()
		logger.Info("", "Shutdown requested, waking all loops...")
		if e.eventBus != nil {
			e.eventBus.Publish(events.NewShutdownRequestedEvent(scenarioCtx.Err().Error()))
		}
		e.gate.RequestShutdown()
	}()

	eg, loopCtx := errgroup.WithContext(scenarioCtx)
	eg.Go(func() error {
		return e.gen.Run(loopCtx)
	})
	eg.Go(func() error {
		return e.pool.Run(loopCtx)
	})

	if err := eg.Wait(); err != nil {
		return nil, fmt.Errorf("simulation loops failed: %w", err)
	}
	<-watcherDone

	result.EndTime = time.Now()
	result.Duration = result.EndTime.Sub(result.StartTime)
	e.collectResults(result)

	logger.Info("", "=== Scenario '%s' completed ===", e.config.Name)

	return result, nil
}

// setup は共有キューと各ループを構築する
// フィールドへの代入はロック下で行う（ダッシュボードが並行に読む）
func (e *Engine) setup() {
	var rng simrand.Source
	if e.config.Seed != 0 {
		rng = simrand.NewSeededSource(e.config.Seed)
	} else {
		rng = simrand.NewSource()
	}

	m := metrics.New()
	g := gate.New(queue.New(e.config.Capacity, e.config.NumGroups))

	gen := generator.New(g, generator.Config{
		NumGroups: e.config.NumGroups,
		TypeRange: e.config.TypeRange,
		Interval:  e.config.GenInterval,
	}, rng)
	gen.SetMetrics(m)

	pool := device.NewPool(g, e.config.NumGroups, e.config.DevicesPerGroup,
		device.Config{ProcessingTime: e.config.ProcessingTime}, rng)
	pool.SetMetrics(m)

	if e.eventBus != nil {
		gen.SetEventBus(e.eventBus)
		pool.SetEventBus(e.eventBus)
	}

	e.mu.Lock()
	e.metrics = m
	e.gate = g
	e.gen = gen
	e.pool = pool
	e.mu.Unlock()

	logger.Info("", "Queue capacity: %d, groups: %d, devices: %d",
		e.config.Capacity, e.config.NumGroups, pool.Size())
}

// collectResults は結果を収集する
func (e *Engine) collectResults(result *Result) {
	snapshot := e.metrics.Snapshot()
	result.TotalGenerated = snapshot.TotalPushed
	result.TotalProcessed = snapshot.TotalPopped
	result.PeakQueueSize = snapshot.PeakSize
	result.Throughput = snapshot.Throughput
	result.PopsByGroup = snapshot.PopsByGroup
	result.PopsByType = snapshot.PopsByType

	// シャットダウン時にキューへ残った要求は破棄する
	result.Discarded = e.gate.Size()

	result.Capacity = e.config.Capacity
	result.NumGroups = e.config.NumGroups
	result.Devices = e.pool.Size()
}

// IsRunning は実行中かどうかを返す
func (e *Engine) IsRunning() bool {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.running
}

// Metrics は現在のメトリクスのスナップショットを返す
func (e *Engine) Metrics() *metrics.Snapshot {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.metrics == nil {
		return nil
	}
	snapshot := e.metrics.Snapshot()
	return &snapshot
}

// QueueSizes は現在のグループごとのキューサイズを返す
func (e *Engine) QueueSizes() []int {
	e.mu.RLock()
	defer e.mu.RUnlock()
	if e.gate == nil {
		return nil
	}
	return e.gate.GroupSizes()
}

// Report は結果をフォーマットして返す
func (r *Result) Report() string {
	var sb strings.Builder

	fmt.Fprintf(&sb, `
================================================================================
                         SIMULATION REPORT: %s
================================================================================

EXECUTION SUMMARY
-----------------
  Start Time:     %s
  End Time:       %s
  Duration:       %v

QUEUE METRICS
-------------
  Generated:        %d
  Processed:        %d
  Discarded:        %d
  Peak Queue Size:  %d (capacity %d)
  Throughput:       %.2f req/s

CONFIGURATION
-------------
  Groups:           %d
  Devices:          %d

PROCESSED BY GROUP
------------------
`,
		r.ScenarioName,
		r.StartTime.Format("2006-01-02 15:04:05"),
		r.EndTime.Format("2006-01-02 15:04:05"),
		r.Duration.Round(time.Millisecond),
		r.TotalGenerated,
		r.TotalProcessed,
		r.Discarded,
		r.PeakQueueSize,
		r.Capacity,
		r.Throughput,
		r.NumGroups,
		r.Devices,
	)

	for _, g := range sortedKeys(r.PopsByGroup) {
		fmt.Fprintf(&sb, "  group %-13d %d\n", g+1, r.PopsByGroup[g])
	}

	sb.WriteString("\nPROCESSED BY TYPE\n-----------------\n")
	for _, tp := range sortedKeys(r.PopsByType) {
		fmt.Fprintf(&sb, "  type %-14d %d\n", tp, r.PopsByType[tp])
	}

	sb.WriteString("\n================================================================================")

	return sb.String()
}

func sortedKeys(m map[int]uint64) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}
