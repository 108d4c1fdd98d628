package server

import (
	"encoding/json"
	"errors"
	"fmt"
)

// 入站事件名
const (
	EventCreateRoom = "createRoom"
	EventJoinRoom   = "joinRoom"
	EventPaddleMove = "paddleMove"
	EventLeaveRoom  = "leaveRoom"
)

// errUnknownEvent 未知的入站事件，连接保持可用
var errUnknownEvent = errors.New("unknown event")

// PaddleMove 球拍移动意图，y 为球拍上沿
// 示例：{"event":"paddleMove","data":{"y":240}}
type PaddleMove struct {
	Y float64 `json:"y"`
}

// joinRequest 兼容两种写法：{"data":"AB12CD"} 与 {"data":{"roomId":"AB12CD"}}
type joinRequest struct {
	RoomID string `json:"roomId"`
}

func parseJoin(data json.RawMessage) (RoomID, error) {
	var id string
	if err := json.Unmarshal(data, &id); err == nil {
		return ParseRoomID(id), nil
	}
	var req joinRequest
	if err := json.Unmarshal(data, &req); err != nil {
		return "", fmt.Errorf("decode joinRoom: %w", err)
	}
	return ParseRoomID(req.RoomID), nil
}

// Dispatch 解析一条文本消息并交给会话处理
// 房间不存在/已满等业务结果通过出站事件通知，不作为错误返回
func (s *Session) Dispatch(payload []byte) error {
	var env Envelope
	if err := json.Unmarshal(payload, &env); err != nil {
		return fmt.Errorf("decode envelope: %w", err)
	}

	switch env.Event {
	case EventCreateRoom:
		_, err := s.CreateRoom()
		return err
	case EventJoinRoom:
		id, err := parseJoin(env.Data)
		if err != nil {
			return err
		}
		_, _ = s.Join(id)
	case EventPaddleMove:
		var mv PaddleMove
		if err := json.Unmarshal(env.Data, &mv); err != nil {
			return fmt.Errorf("decode paddleMove: %w", err)
		}
		s.Move(mv.Y)
	case EventLeaveRoom:
		s.Leave()
	default:
		return fmt.Errorf("%w: %q", errUnknownEvent, env.Event)
	}
	return nil
}
