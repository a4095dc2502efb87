package device

import (
	"context"
	"fmt"
	"time"

	"queuesim/internal/events"
	"queuesim/internal/gate"
	"queuesim/internal/logger"
	"queuesim/internal/metrics"
	"queuesim/internal/simrand"
)

// Device は1つのワーカースロットの不変な識別子
type Device struct {
	GroupID int // 担当グループ
	ID      int // 全体で一意な装置番号
}

// Label はログ・イベントで使う主体名を返す
func (d Device) Label() string {
	return fmt.Sprintf("device-%d", d.ID+1)
}

// Config はデバイスループの設定
type Config struct {
	ProcessingTime simrand.Range // 処理時間（ミリ秒）
}

// DefaultConfig はデフォルト設定を返す
// 範囲の既定値は元のシミュレーションの定数に合わせてある
func DefaultConfig() Config {
	return Config{
		ProcessingTime: simrand.Range{Min: 2000, Max: 4000},
	}
}

// Loop は1デバイス分の消費ループ
type Loop struct {
	device  Device
	config  Config
	gate    *gate.Gate
	rng     simrand.Source
	metrics *metrics.Metrics
	bus     *events.Bus
}

// NewLoop は新しいLoopを作成する
func NewLoop(d Device, g *gate.Gate, config Config, rng simrand.Source) *Loop {
	return &Loop{
		device: d,
		config: config,
		gate:   g,
		rng:    rng,
	}
}

// Device はこのループの識別子を返す
func (l *Loop) Device() Device {
	return l.device
}

// SetMetrics はメトリクスを設定する
func (l *Loop) SetMetrics(m *metrics.Metrics) {
	l.metrics = m
}

// SetEventBus はイベントバスを設定する
func (l *Loop) SetEventBus(bus *events.Bus) {
	l.bus = bus
}

// Run は消費ループを実行する
// 担当グループの最優先要求を取り出し、ロックの外で処理時間分
// スリープする。ゲートのキャンセルを観測したら終了する
func (l *Loop) Run(ctx context.Context) error {
	actor := l.device.Label()

	for {
		req, ok := l.gate.Pop(l.device.GroupID)
		if !ok {
			break
		}

		sleep := l.config.ProcessingTime.Duration(l.rng)
		logger.Info(actor, "Device %d (group %d) is processing the request (type %d) from group %d, awakening after %v",
			l.device.ID+1, l.device.GroupID+1, req.Type, req.GroupID+1, sleep)

		if l.metrics != nil {
			l.metrics.RecordPop(req.GroupID, req.Type)
		}
		if l.bus != nil {
			l.bus.Publish(events.NewRequestPoppedEvent(actor, l.device.ID, req.GroupID, req.Type, sleep))
		}

		// 処理のシミュレーションはロックの外で行う
		time.Sleep(sleep)
	}

	logger.Info(actor, "Device %d thread is terminating", l.device.ID+1)
	if l.bus != nil {
		l.bus.Publish(events.NewDeviceStoppedEvent(actor, l.device.ID, l.device.GroupID))
	}
	return nil
}
