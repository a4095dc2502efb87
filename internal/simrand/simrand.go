package simrand

import (
	"math/rand"
	"sync"
	"time"
)

// Source は一様乱数の供給元
type Source interface {
	// IntBetween は [lo, hi] の一様乱数を返す（両端を含む）
	IntBetween(lo, hi int) int
}

// Range は整数の閉区間 [Min, Max]
type Range struct {
	Min int `yaml:"min" json:"min"`
	Max int `yaml:"max" json:"max"`
}

// Pick はこの区間から一様に1つ選ぶ
func (r Range) Pick(src Source) int {
	return src.IntBetween(r.Min, r.Max)
}

// Duration はこの区間をミリ秒として一様に1つ選ぶ
func (r Range) Duration(src Source) time.Duration {
	return time.Duration(src.IntBetween(r.Min, r.Max)) * time.Millisecond
}

// Valid は Min <= Max かつ Min >= 0 かどうかを返す
func (r Range) Valid() bool {
	return r.Min >= 0 && r.Min <= r.Max
}

// lockedSource は複数goroutineから安全に使えるデフォルト実装
type lockedSource struct {
	mu  sync.Mutex
	rng *rand.Rand
}

// NewSource は時刻シードのスレッドセーフなSourceを作成する
func NewSource() Source {
	return NewSeededSource(time.Now().UnixNano())
}

// NewSeededSource は指定シードのスレッドセーフなSourceを作成する
// テストでの再現用
func NewSeededSource(seed int64) Source {
	return &lockedSource{rng: rand.New(rand.NewSource(seed))}
}

func (s *lockedSource) IntBetween(lo, hi int) int {
	if hi <= lo {
		return lo
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	return lo + s.rng.Intn(hi-lo+1)
}
