package server

import "time"

const (
	// TicksPerSecond 世界推进频率（60 TPS）
	TicksPerSecond = 60
)

var tickInterval = time.Second / TicksPerSecond

// engine 一局比赛的 Tick 循环；每次开局新建，停止后不可复用
type engine struct {
	stop chan struct{}
	done chan struct{}
}

// wait 等待 Tick 协程退出；nil 安全
func (e *engine) wait() {
	if e == nil {
		return
	}
	<-e.done
}

// startEngineLocked 启动房间的 Tick 循环，调用方持有 r.mu
func (r *Room) startEngineLocked() {
	if r.engine != nil {
		return
	}
	e := &engine{stop: make(chan struct{}), done: make(chan struct{})}
	r.engine = e
	go r.run(e)
}

// stopEngineLocked 发出停止信号并返回被停止的引擎，调用方释放锁后 wait
func (r *Room) stopEngineLocked() *engine {
	e := r.engine
	if e == nil {
		return nil
	}
	close(e.stop)
	r.engine = nil
	return e
}

func (r *Room) run(e *engine) {
	defer close(e.done)
	ticker := time.NewTicker(r.tickInterval)
	defer ticker.Stop()
	for {
		select {
		case <-e.stop:
			return
		case <-ticker.C:
			if !r.tick(e) {
				return
			}
		}
	}
}

// tick 核心循环：检查是否仍在对局 → 推进物理 → 广播结果
// 返回 false 表示本局已结束，循环应退出
func (r *Room) tick(e *engine) bool {
	start := time.Now()
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.engine != e || !r.playing || r.active < len(r.players) {
		return false
	}

	res := step(&r.ball, &r.players, r.rng)
	if res.PaddleHits > 0 {
		r.metrics.AddPaddleHits(res.PaddleHits)
	}
	if res.Scorer != "" {
		r.metrics.AddGoal()
		r.log.Debugw("goal", "scorer", res.Scorer, "scores", r.scoresLocked())
	}
	r.broadcast(EventGameStateUpdate, r.snapshotLocked())
	r.metrics.AddTick(time.Since(start).Nanoseconds())
	return true
}
