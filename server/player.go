package server

// Slot 房间内的座位：first 固定在左侧，second 固定在右侧
type Slot string

const (
	SlotFirst  Slot = "player1"
	SlotSecond Slot = "player2"
)

// slots 按分配顺序排列
var slots = [2]Slot{SlotFirst, SlotSecond}

func (s Slot) index() int {
	if s == SlotSecond {
		return 1
	}
	return 0
}

// Client 传输层连接的发送端；Session 只通过它寻址和投递消息
type Client interface {
	ID() string
	Enqueue(b []byte) bool // 发送队列已满时丢弃并返回 false
}

// Player 房间内的玩家实体（服务端权威状态）
type Player struct {
	Conn  Client
	Slot  Slot
	Y     float64 // 球拍上沿，只由该玩家的 paddleMove 修改
	Score int
}

// PlayerState 为广播给客户端的公开字段
type PlayerState struct {
	Y     float64 `json:"y"`
	Score int     `json:"score"`
}
