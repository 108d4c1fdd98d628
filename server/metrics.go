package server

import (
	"sync/atomic"
)

// RoomMetrics 记录房间运行期的关键指标（用于监控与调试）
type RoomMetrics struct {
	TickCount    int64 // 推进的 Tick 次数
	TotalTickNs  int64 // Tick 累计耗时（纳秒）
	Goals        int64 // 进球数
	PaddleHits   int64 // 击球数
	Broadcasts   int64 // 房间广播次数
	SendsDropped int64 // 因发送队列满被丢弃的消息数
}

func (m *RoomMetrics) AddGoal() { atomic.AddInt64(&m.Goals, 1) }
func (m *RoomMetrics) AddPaddleHits(n int) { atomic.AddInt64(&m.PaddleHits, int64(n)) }
func (m *RoomMetrics) IncBroadcast() { atomic.AddInt64(&m.Broadcasts, 1) }
func (m *RoomMetrics) IncSendDropped() { atomic.AddInt64(&m.SendsDropped, 1) }
func (m *RoomMetrics) AddTick(ns int64) {
	atomic.AddInt64(&m.TickCount, 1)
	atomic.AddInt64(&m.TotalTickNs, ns)
}

// Snapshot 返回只读副本，便于 HTTP 输出
func (m *RoomMetrics) Snapshot() map[string]any {
	tick := atomic.LoadInt64(&m.TickCount)
	total := atomic.LoadInt64(&m.TotalTickNs)
	var avgMs float64
	if tick > 0 {
		avgMs = float64(total) / float64(tick) / 1e6
	}
	return map[string]any{
		"tick_count":    tick,
		"goals":         atomic.LoadInt64(&m.Goals),
		"paddle_hits":   atomic.LoadInt64(&m.PaddleHits),
		"broadcasts":    atomic.LoadInt64(&m.Broadcasts),
		"sends_dropped": atomic.LoadInt64(&m.SendsDropped),
		"avg_tick_ms":   avgMs,
	}
}
