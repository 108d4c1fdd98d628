package server

import (
	"errors"
	"math/rand"
	"sync"
	"time"

	"go.uber.org/zap"
)

var (
	ErrRoomNotFound = errors.New("room not found")
	ErrRoomFull     = errors.New("room full")
	// errNotSeated 连接不在该房间的座位上（过期或未绑定的消息）
	errNotSeated = errors.New("connection not seated in room")
)

// Room 一局比赛的隔离单元：最多两名玩家和一份权威状态
// players/ball/playing/engine 全部由 mu 保护，Tick 与 join/move/leave 互斥
type Room struct {
	ID RoomID

	mu      sync.Mutex
	players [2]*Player
	active  int
	ball    Ball
	playing bool
	closed  bool // 已从注册表移除或服务器关闭，拒绝再加入
	engine  *engine
	rng     randSource

	createdAt time.Time

	tickInterval time.Duration
	metrics      *RoomMetrics
	log          *zap.SugaredLogger
}

// RoomInfo 房间概要，用于管理接口
type RoomInfo struct {
	ID        RoomID       `json:"roomId"`
	Active    int          `json:"playerCount"`
	IsPlaying bool         `json:"isPlaying"`
	Scores    map[Slot]int `json:"scores"`
}

// NewRoom 创建空房间，初始化数据结构
func NewRoom(id RoomID, log *zap.SugaredLogger) *Room {
	return &Room{
		ID:           id,
		ball:         newBall(),
		createdAt:    time.Now(),
		rng:          rand.New(rand.NewSource(time.Now().UnixNano())),
		tickInterval: tickInterval,
		metrics:      &RoomMetrics{},
		log:          log.With("room", string(id)),
	}
}

// join 为连接分配下一个空座位并广播加入事件；满两人时开局
func (r *Room) join(c Client) (Slot, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if r.closed {
		return "", ErrRoomNotFound
	}
	if r.active >= len(r.players) {
		return "", ErrRoomFull
	}

	var slot Slot
	for i, p := range r.players {
		if p == nil {
			slot = slots[i]
			break
		}
	}
	r.players[slot.index()] = &Player{Conn: c, Slot: slot, Y: centerPaddle()}
	r.active++

	emit(c, EventPlayerAssigned, PlayerAssigned{
		Slot:      slot,
		GameState: r.snapshotLocked(),
		RoomID:    r.ID,
	})
	r.broadcast(EventPlayerJoined, PlayerJoined{Slot: slot, PlayerCount: r.active})
	r.broadcast(EventGameStateUpdate, r.snapshotLocked())
	r.log.Infow("player joined", "slot", slot, "conn", c.ID(), "active", r.active)

	if r.active == len(r.players) {
		r.playing = true
		serve(&r.ball, r.rng)
		r.broadcast(EventGameStart, r.snapshotLocked())
		r.startEngineLocked()
		r.log.Info("round started")
	}
	return slot, nil
}

// resync 向已在座的连接重发 playerAssigned，用于客户端重新同步
func (r *Room) resync(c Client, slot Slot) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.players[slot.index()]
	if r.closed || p == nil || p.Conn != c {
		return errNotSeated
	}
	emit(c, EventPlayerAssigned, PlayerAssigned{
		Slot:      slot,
		GameState: r.snapshotLocked(),
		RoomID:    r.ID,
	})
	return nil
}

// move 更新玩家球拍位置（钳制到场地内）并广播
func (r *Room) move(c Client, slot Slot, y float64) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	p := r.players[slot.index()]
	if r.closed || p == nil || p.Conn != c {
		return errNotSeated
	}
	p.Y = clampPaddle(y)
	r.broadcast(EventGameStateUpdate, r.snapshotLocked())
	return nil
}

// leave 清空座位并通知剩余玩家；返回房间是否已空
// 引擎在锁内收到停止信号，锁外等待其退出，保证返回后不再有 Tick 写入
func (r *Room) leave(c Client, slot Slot) (empty bool, err error) {
	r.mu.Lock()
	p := r.players[slot.index()]
	if r.closed || p == nil || p.Conn != c {
		r.mu.Unlock()
		return false, errNotSeated
	}

	r.players[slot.index()] = nil
	r.active--
	r.playing = false
	eng := r.stopEngineLocked()
	r.broadcast(EventPlayerDisconnected, slot)
	if r.active == 0 {
		r.closed = true
	}
	empty = r.closed
	r.log.Infow("player left", "slot", slot, "conn", c.ID(), "active", r.active)
	r.mu.Unlock()

	eng.wait()
	return empty, nil
}

// close 关闭房间（服务器退出时），停止引擎
func (r *Room) close() {
	r.mu.Lock()
	r.closed = true
	r.playing = false
	eng := r.stopEngineLocked()
	r.mu.Unlock()
	eng.wait()
}

// closeIfIdle 创建早于 cutoff 且从未有人在座的房间标记为关闭
func (r *Room) closeIfIdle(cutoff time.Time) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.closed || r.active > 0 || !r.createdAt.Before(cutoff) {
		return false
	}
	r.closed = true
	return true
}

// State 返回当前快照
func (r *Room) State() GameState {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snapshotLocked()
}

// Info 返回房间概要
func (r *Room) Info() RoomInfo {
	r.mu.Lock()
	defer r.mu.Unlock()
	return RoomInfo{
		ID:        r.ID,
		Active:    r.active,
		IsPlaying: r.playing,
		Scores:    r.scoresLocked(),
	}
}

// Active 当前在座人数
func (r *Room) Active() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.active
}

// IsPlaying 本局是否进行中
func (r *Room) IsPlaying() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.playing
}

// EngineRunning 是否存在运行中的模拟引擎
func (r *Room) EngineRunning() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.engine != nil
}

// Metrics 房间运行指标
func (r *Room) Metrics() *RoomMetrics {
	return r.metrics
}

// snapshotLocked 由玩家记录（得分的唯一来源）构造快照
func (r *Room) snapshotLocked() GameState {
	gs := GameState{
		Ball:         r.ball,
		Players:      make(map[Slot]PlayerState, r.active),
		Scores:       r.scoresLocked(),
		PaddleHeight: PaddleHeight,
		PaddleWidth:  PaddleWidth,
		CanvasWidth:  CanvasWidth,
		CanvasHeight: CanvasHeight,
		IsPlaying:    r.playing,
	}
	for _, p := range r.players {
		if p != nil {
			gs.Players[p.Slot] = PlayerState{Y: p.Y, Score: p.Score}
		}
	}
	return gs
}

func (r *Room) scoresLocked() map[Slot]int {
	scores := make(map[Slot]int, len(slots))
	for i, s := range slots {
		if p := r.players[i]; p != nil {
			scores[s] = p.Score
		} else {
			scores[s] = 0
		}
	}
	return scores
}
