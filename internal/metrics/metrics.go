package metrics

import (
	"sync"
	"sync/atomic"
	"time"
)

// Metrics はシミュレーション実行のメトリクスを収集する
type Metrics struct {
	totalPushed atomic.Uint64
	totalPopped atomic.Uint64

	mu          sync.RWMutex
	startTime   time.Time
	peakSize    int
	popsByGroup map[int]uint64
	popsByType  map[int]uint64
}

// New は新しいメトリクスを作成する
func New() *Metrics {
	return &Metrics{
		startTime:   time.Now(),
		popsByGroup: make(map[int]uint64),
		popsByType:  make(map[int]uint64),
	}
}

// RecordPush はpush完了を記録する（sizeはpush後のキューサイズ）
func (m *Metrics) RecordPush(size int) {
	m.totalPushed.Add(1)

	m.mu.Lock()
	if size > m.peakSize {
		m.peakSize = size
	}
	m.mu.Unlock()
}

// RecordPop はpop完了を記録する
func (m *Metrics) RecordPop(groupID, requestType int) {
	m.totalPopped.Add(1)

	m.mu.Lock()
	m.popsByGroup[groupID]++
	m.popsByType[requestType]++
	m.mu.Unlock()
}

// TotalPushed は生成された要求の総数を返す
func (m *Metrics) TotalPushed() uint64 {
	return m.totalPushed.Load()
}

// TotalPopped は処理された要求の総数を返す
func (m *Metrics) TotalPopped() uint64 {
	return m.totalPopped.Load()
}

// Pending は生成済みで未処理の要求数を返す
func (m *Metrics) Pending() uint64 {
	return m.totalPushed.Load() - m.totalPopped.Load()
}

// PeakSize は観測された最大キューサイズを返す
func (m *Metrics) PeakSize() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.peakSize
}

// Throughput は開始からの処理スループット（要求/秒）を返す
func (m *Metrics) Throughput() float64 {
	m.mu.RLock()
	start := m.startTime
	m.mu.RUnlock()

	elapsed := time.Since(start).Seconds()
	if elapsed == 0 {
		return 0
	}
	return float64(m.totalPopped.Load()) / elapsed
}

// Snapshot はメトリクスのスナップショット
type Snapshot struct {
	TotalPushed uint64         `json:"total_pushed"`
	TotalPopped uint64         `json:"total_popped"`
	Pending     uint64         `json:"pending"`
	PeakSize    int            `json:"peak_size"`
	Throughput  float64        `json:"throughput"`
	PopsByGroup map[int]uint64 `json:"pops_by_group"`
	PopsByType  map[int]uint64 `json:"pops_by_type"`
	Elapsed     time.Duration  `json:"elapsed"`
}

// Snapshot は現在のメトリクスのスナップショットを返す
func (m *Metrics) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()

	byGroup := make(map[int]uint64, len(m.popsByGroup))
	for g, n := range m.popsByGroup {
		byGroup[g] = n
	}
	byType := make(map[int]uint64, len(m.popsByType))
	for tp, n := range m.popsByType {
		byType[tp] = n
	}

	pushed := m.totalPushed.Load()
	popped := m.totalPopped.Load()
	elapsed := time.Since(m.startTime)

	var throughput float64
	if s := elapsed.Seconds(); s > 0 {
		throughput = float64(popped) / s
	}

	return Snapshot{
		TotalPushed: pushed,
		TotalPopped: popped,
		Pending:     pushed - popped,
		PeakSize:    m.peakSize,
		Throughput:  throughput,
		PopsByGroup: byGroup,
		PopsByType:  byType,
		Elapsed:     elapsed,
	}
}
