package generator

import (
	"context"
	"time"

	"queuesim/internal/events"
	"queuesim/internal/gate"
	"queuesim/internal/logger"
	"queuesim/internal/metrics"
	"queuesim/internal/queue"
	"queuesim/internal/simrand"
)

// actorLabel はログ・イベントで使う主体名
const actorLabel = "generator"

// Config はGeneratorの設定
type Config struct {
	NumGroups int           // 宛先グループ数
	TypeRange simrand.Range // 要求タイプ（＝優先度）の範囲
	Interval  simrand.Range // 生成間隔（ミリ秒）
}

// DefaultConfig はデフォルト設定を返す
// 範囲の既定値は元のシミュレーションの定数に合わせてある
func DefaultConfig() Config {
	return Config{
		NumGroups: 1,
		TypeRange: simrand.Range{Min: 1, Max: 3},
		Interval:  simrand.Range{Min: 500, Max: 1500},
	}
}

// Generator は要求を生成し続ける単一のプロデューサ
type Generator struct {
	config  Config
	gate    *gate.Gate
	rng     simrand.Source
	metrics *metrics.Metrics
	bus     *events.Bus
}

// New は新しいGeneratorを作成する
func New(g *gate.Gate, config Config, rng simrand.Source) *Generator {
	return &Generator{
		config: config,
		gate:   g,
		rng:    rng,
	}
}

// SetMetrics はメトリクスを設定する
func (g *Generator) SetMetrics(m *metrics.Metrics) {
	g.metrics = m
}

// SetEventBus はイベントバスを設定する
func (g *Generator) SetEventBus(bus *events.Bus) {
	g.bus = bus
}

// Run は生成ループを実行する
// ゲートのキャンセルを観測するまで戻らない。グループ数が0の場合は
// 生成するものがないため即座にアイドル終了する
func (g *Generator) Run(ctx context.Context) error {
	if g.config.NumGroups <= 0 {
		logger.Info(actorLabel, "No destination groups, generator is idle")
		g.waitCancelled(ctx)
		g.terminate()
		return nil
	}

	for {
		req := queue.Request{
			GroupID: g.rng.IntBetween(0, g.config.NumGroups-1),
			Type:    g.config.TypeRange.Pick(g.rng),
		}

		size, ok := g.gate.Push(req)
		if !ok {
			break
		}

		logger.Info(actorLabel, "Queue size: %d", size)
		if g.metrics != nil {
			g.metrics.RecordPush(size)
		}
		if g.bus != nil {
			g.bus.Publish(events.NewRequestPushedEvent(req.GroupID, req.Type, size))
		}

		// 次の生成までロックの外でスリープする
		time.Sleep(g.config.Interval.Duration(g.rng))
	}

	g.terminate()
	return nil
}

// waitCancelled はキャンセルされるまで待つ（アイドル時用）
func (g *Generator) waitCancelled(ctx context.Context) {
	for !g.gate.Cancelled() {
		select {
		case <-ctx.Done():
			return
		case <-time.After(50 * time.Millisecond):
		}
	}
}

// terminate は終了を記録する
func (g *Generator) terminate() {
	logger.Info(actorLabel, "Generator thread is terminating")
	if g.bus != nil {
		g.bus.Publish(events.NewGeneratorStoppedEvent())
	}
}
