package server

import (
	"errors"
	"sync"

	"go.uber.org/zap"
)

// SessionManager 把入站连接绑定到房间与座位
type SessionManager struct {
	rooms *RoomManager
	log   *zap.SugaredLogger
}

// NewSessionManager 基于给定的房间注册表创建会话管理器
func NewSessionManager(rooms *RoomManager, log *zap.SugaredLogger) *SessionManager {
	return &SessionManager{rooms: rooms, log: log}
}

// Open 为新连接创建会话；连接关闭时须调用 Session.Leave
func (sm *SessionManager) Open(c Client) *Session {
	return &Session{sm: sm, conn: c}
}

// Session 单个连接的绑定状态 (room, slot)
// mu 串行化同一连接上的操作；锁顺序为 Session.mu → Room.mu → RoomManager.mu
type Session struct {
	sm   *SessionManager
	conn Client

	mu   sync.Mutex
	room *Room
	slot Slot
}

// Binding 返回当前绑定的房间码与座位，未绑定时 ok 为 false
func (s *Session) Binding() (id RoomID, slot Slot, ok bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return "", "", false
	}
	return s.room.ID, s.slot, true
}

// CreateRoom 新建房间并把房间码发给请求方
func (s *Session) CreateRoom() (RoomID, error) {
	r, err := s.sm.rooms.CreateRoom()
	if err != nil {
		s.sm.log.Errorw("create room failed", "conn", s.conn.ID(), "error", err)
		return "", err
	}
	emit(s.conn, EventRoomCreated, r.ID)
	return r.ID, nil
}

// Join 加入房间；房间不存在或已满时只向请求方回送对应事件
// 已在其他房间的连接在成功加入新房间后离开旧房间；重复加入当前房间只重发 playerAssigned
func (s *Session) Join(id RoomID) (Slot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.room != nil && s.room.ID == id {
		if err := s.room.resync(s.conn, s.slot); err != nil {
			s.sm.log.Debugw("resync ignored", "conn", s.conn.ID(), "room", string(id), "error", err)
		}
		return s.slot, nil
	}

	r, err := s.sm.rooms.GetRoom(id)
	if err != nil {
		emit(s.conn, EventRoomNotFound, nil)
		return "", err
	}
	slot, err := r.join(s.conn)
	switch {
	case errors.Is(err, ErrRoomNotFound):
		emit(s.conn, EventRoomNotFound, nil)
		return "", err
	case errors.Is(err, ErrRoomFull):
		emit(s.conn, EventRoomFull, nil)
		return "", err
	case err != nil:
		return "", err
	}

	s.leaveLocked()
	s.room, s.slot = r, slot
	return slot, nil
}

// Move 更新自己的球拍位置；未绑定房间时静默忽略
func (s *Session) Move(y float64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.room == nil {
		return
	}
	if err := s.room.move(s.conn, s.slot, y); err != nil {
		s.sm.log.Debugw("paddle move ignored", "conn", s.conn.ID(), "error", err)
	}
}

// Leave 离开当前房间（主动离开或断线）；房间清空时从注册表删除
func (s *Session) Leave() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.leaveLocked()
}

func (s *Session) leaveLocked() {
	r, slot := s.room, s.slot
	if r == nil {
		return
	}
	s.room, s.slot = nil, ""

	empty, err := r.leave(s.conn, slot)
	if err != nil {
		s.sm.log.Debugw("leave ignored", "conn", s.conn.ID(), "room", string(r.ID), "error", err)
		return
	}
	if empty {
		s.sm.rooms.deleteRoom(r)
	}
}
