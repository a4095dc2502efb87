package queue

import "fmt"

// Request は1つの処理要求を表す不変値
// Type が優先度で、大きいほど先に処理される
type Request struct {
	GroupID int // 宛先グループ（0〜G-1）
	Type    int // 要求タイプ＝優先度
}

// RequestQueue はグループごとの最大ヒープを持つ容量制限付きキュー
// 内部ロックは持たない（呼び出し側がゲートのロックを保持すること）
type RequestQueue struct {
	capacity int
	current  int
	groups   [][]Request
}

// New は新しいRequestQueueを作成する
func New(capacity, numGroups int) *RequestQueue {
	groups := make([][]Request, numGroups)
	for i := range groups {
		groups[i] = make([]Request, 0)
	}
	return &RequestQueue{
		capacity: capacity,
		groups:   groups,
	}
}

// Size は全グループ合計の現在サイズを返す
func (q *RequestQueue) Size() int {
	return q.current
}

// Capacity は容量を返す
func (q *RequestQueue) Capacity() int {
	return q.capacity
}

// NumGroups はグループ数を返す
func (q *RequestQueue) NumGroups() int {
	return len(q.groups)
}

// GroupSize は指定グループの現在サイズを返す
func (q *RequestQueue) GroupSize(groupID int) int {
	return len(q.groups[groupID])
}

// IsFull は容量いっぱいかどうかを返す
func (q *RequestQueue) IsFull() bool {
	return q.current == q.capacity
}

// IsEmpty は指定グループが空かどうかを返す
func (q *RequestQueue) IsEmpty(groupID int) bool {
	return len(q.groups[groupID]) == 0
}

// Push は要求を宛先グループのヒープに追加する
// 満杯時の呼び出しは契約違反としてpanicする
func (q *RequestQueue) Push(req Request) {
	if q.IsFull() {
		panic(fmt.Sprintf("queue: push on full queue (capacity %d)", q.capacity))
	}
	heap := q.groups[req.GroupID]
	heap = append(heap, req)
	q.groups[req.GroupID] = heap
	q.siftUp(req.GroupID, len(heap)-1)
	q.current++
}

// PeekHighest は指定グループの最優先要求を取り出さずに返す
func (q *RequestQueue) PeekHighest(groupID int) Request {
	if q.IsEmpty(groupID) {
		panic(fmt.Sprintf("queue: peek on empty group %d", groupID))
	}
	return q.groups[groupID][0]
}

// PopHighest は指定グループの最優先要求を取り出して返す
// 空グループへの呼び出しは契約違反としてpanicする
func (q *RequestQueue) PopHighest(groupID int) Request {
	if q.IsEmpty(groupID) {
		panic(fmt.Sprintf("queue: pop on empty group %d", groupID))
	}
	heap := q.groups[groupID]
	top := heap[0]
	heap[0] = heap[len(heap)-1]
	q.groups[groupID] = heap[:len(heap)-1]
	q.siftDown(groupID, 0)
	q.current--
	return top
}

// siftUp は末尾に追加した要素をヒープ条件を満たす位置まで引き上げる
func (q *RequestQueue) siftUp(groupID int, index int) {
	if index == 0 {
		return
	}
	heap := q.groups[groupID]
	parent := (index - 1) / 2
	if heap[parent].Type >= heap[index].Type {
		return
	}
	heap[parent], heap[index] = heap[index], heap[parent]
	q.siftUp(groupID, parent)
}

// siftDown は根に置いた要素をヒープ条件を満たす位置まで押し下げる
func (q *RequestQueue) siftDown(groupID int, index int) {
	heap := q.groups[groupID]
	largest := index
	left := 2*index + 1
	right := 2*index + 2

	if left < len(heap) && heap[left].Type > heap[largest].Type {
		largest = left
	}
	if right < len(heap) && heap[right].Type > heap[largest].Type {
		largest = right
	}
	if largest == index {
		return
	}
	heap[index], heap[largest] = heap[largest], heap[index]
	q.siftDown(groupID, largest)
}
