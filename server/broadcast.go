package server

import (
	"encoding/json"
)

// 出站事件名
const (
	EventRoomCreated        = "roomCreated"
	EventRoomNotFound       = "roomNotFound"
	EventRoomFull           = "roomFull"
	EventPlayerAssigned     = "playerAssigned"
	EventPlayerJoined       = "playerJoined"
	EventGameStart          = "gameStart"
	EventGameStateUpdate    = "gameStateUpdate"
	EventPlayerDisconnected = "playerDisconnected"
)

// Envelope 收发双向共用的消息外壳：{"event":"...","data":...}
type Envelope struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// outbound 出站消息，Data 在编码时序列化
type outbound struct {
	Event string `json:"event"`
	Data  any    `json:"data,omitempty"`
}

// PlayerAssigned 仅发给刚加入的连接
type PlayerAssigned struct {
	Slot      Slot      `json:"slot"`
	GameState GameState `json:"gameState"`
	RoomID    RoomID    `json:"roomId"`
}

// PlayerJoined 房间内任意玩家加入时广播
type PlayerJoined struct {
	Slot        Slot `json:"slot"`
	PlayerCount int  `json:"playerCount"`
}

func encode(event string, data any) []byte {
	b, err := json.Marshal(outbound{Event: event, Data: data})
	if err != nil {
		// 载荷均为本包内的纯数据类型，失败只可能是编程错误
		panic("encode " + event + ": " + err.Error())
	}
	return b
}

// emit 单播给一个连接
func emit(c Client, event string, data any) {
	c.Enqueue(encode(event, data))
}

// broadcast 发给房间内所有在座连接；调用方须持有 r.mu，保证房间内事件全序
func (r *Room) broadcast(event string, data any) {
	b := encode(event, data)
	r.metrics.IncBroadcast()
	for _, p := range r.players {
		if p != nil && !p.Conn.Enqueue(b) {
			r.metrics.IncSendDropped()
			r.log.Warnw("send queue full, message dropped", "event", event, "conn", p.Conn.ID())
		}
	}
}
