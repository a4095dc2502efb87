package gate

import (
	"sync"
	"sync/atomic"

	"queuesim/internal/queue"
)

// Gate は共有キューへの全アクセスを直列化する調停ゲート
type Gate struct {
	mu        sync.Mutex
	cond      *sync.Cond
	queue     *queue.RequestQueue
	cancelled atomic.Bool
}

// New は指定キューを包む新しいGateを作成する
func New(q *queue.RequestQueue) *Gate {
	g := &Gate{queue: q}
	g.cond = sync.NewCond(&g.mu)
	return g
}

// Push は空きができるまでブロックしてから要求を追加する
// 追加後のキューサイズを返す。シャットダウン時は ok=false を返し
// キューには触れない
func (g *Gate) Push(req queue.Request) (size int, ok bool) {
	g.mu.Lock()
	for g.queue.IsFull() && !g.cancelled.Load() {
		g.cond.Wait()
	}
	if g.cancelled.Load() {
		g.mu.Unlock()
		return 0, false
	}

	g.queue.Push(req)
	size = g.queue.Size()
	g.mu.Unlock()

	// pushは任意のコンシューマ述語を成立させうるため全員を起こす
	g.cond.Broadcast()
	return size, true
}

// Pop は指定グループに要求が入るまでブロックしてから最優先の
// 要求を取り出す。シャットダウン時は ok=false を返す
func (g *Gate) Pop(groupID int) (req queue.Request, ok bool) {
	g.mu.Lock()
	for g.queue.IsEmpty(groupID) && !g.cancelled.Load() {
		g.cond.Wait()
	}
	if g.cancelled.Load() {
		g.mu.Unlock()
		return queue.Request{}, false
	}

	req = g.queue.PopHighest(groupID)
	g.mu.Unlock()

	// popでプロデューサ述語が成立しうるため全員を起こす
	g.cond.Broadcast()
	return req, true
}

// RequestShutdown はキャンセルフラグを立てて全ウェイタを起こす
// ロックは取らない。フラグは単調（一度trueになれば戻らない）で、
// 各ウェイタは起床のたびに述語を再評価するため取りこぼしはない
func (g *Gate) RequestShutdown() {
	g.cancelled.Store(true)
	g.cond.Broadcast()
}

// Cancelled はシャットダウンが要求済みかどうかを返す
func (g *Gate) Cancelled() bool {
	return g.cancelled.Load()
}

// Size は現在のキューサイズを返す
func (g *Gate) Size() int {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queue.Size()
}

// IsFull はキューが満杯かどうかを返す
func (g *Gate) IsFull() bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queue.IsFull()
}

// IsEmpty は指定グループが空かどうかを返す
func (g *Gate) IsEmpty(groupID int) bool {
	g.mu.Lock()
	defer g.mu.Unlock()
	return g.queue.IsEmpty(groupID)
}

// GroupSizes は全グループの現在サイズを返す
func (g *Gate) GroupSizes() []int {
	g.mu.Lock()
	defer g.mu.Unlock()

	sizes := make([]int, g.queue.NumGroups())
	for i := range sizes {
		sizes[i] = g.queue.GroupSize(i)
	}
	return sizes
}
