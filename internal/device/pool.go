package device

import (
	"context"

	"golang.org/x/sync/errgroup"

	"queuesim/internal/events"
	"queuesim/internal/gate"
	"queuesim/internal/metrics"
	"queuesim/internal/simrand"
)

// Pool はグループ数×グループあたり台数のデバイスループをまとめる
type Pool struct {
	loops []*Loop
}

// NewPool はグループごとにdevicesPerGroup台のループを作成する
// 装置番号は groupID*devicesPerGroup+slot で全体一意に振る
func NewPool(g *gate.Gate, numGroups, devicesPerGroup int, config Config, rng simrand.Source) *Pool {
	loops := make([]*Loop, 0, numGroups*devicesPerGroup)
	for group := 0; group < numGroups; group++ {
		for slot := 0; slot < devicesPerGroup; slot++ {
			d := Device{
				GroupID: group,
				ID:      group*devicesPerGroup + slot,
			}
			loops = append(loops, NewLoop(d, g, config, rng))
		}
	}
	return &Pool{loops: loops}
}

// Size はデバイス数を返す
func (p *Pool) Size() int {
	return len(p.loops)
}

// SetMetrics は全ループにメトリクスを設定する
func (p *Pool) SetMetrics(m *metrics.Metrics) {
	for _, l := range p.loops {
		l.SetMetrics(m)
	}
}

// SetEventBus は全ループにイベントバスを設定する
func (p *Pool) SetEventBus(bus *events.Bus) {
	for _, l := range p.loops {
		l.SetEventBus(bus)
	}
}

// Run は全ループを起動し、全てが終了するまで待つ
// 各ループはゲートのキャンセルを観測して自発的に終了する
func (p *Pool) Run(ctx context.Context) error {
	eg, ctx := errgroup.WithContext(ctx)
	for _, l := range p.loops {
		l := l
		eg.Go(func() error {
			return l.Run(ctx)
		})
	}
	return eg.Wait()
}
