package server

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ErrIDSpace 连续多次生成的房间码都已被占用
var ErrIDSpace = errors.New("room id space exhausted")

// maxIDAttempts 生成房间码时的最大重试次数
const maxIDAttempts = 16

// RoomManager 管理多个房间的生命周期
// mu 只保护 rooms 映射本身，与各房间内部的锁相互独立
type RoomManager struct {
	mu    sync.RWMutex
	rooms map[RoomID]*Room
	log   *zap.SugaredLogger

	newID func() RoomID
}

// NewRoomManager 创建空的房间注册表
func NewRoomManager(log *zap.SugaredLogger) *RoomManager {
	return &RoomManager{
		rooms: make(map[RoomID]*Room),
		log:   log,
		newID: NewRoomID,
	}
}

// CreateRoom 分配新房间码并插入空房间；房间码冲突时重新生成
func (m *RoomManager) CreateRoom() (*Room, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for i := 0; i < maxIDAttempts; i++ {
		id := m.newID()
		if _, taken := m.rooms[id]; taken {
			m.log.Warnw("room id collision", "room", string(id))
			continue
		}
		r := NewRoom(id, m.log)
		m.rooms[id] = r
		m.log.Infow("room created", "room", string(id), "rooms", len(m.rooms))
		return r, nil
	}
	return nil, fmt.Errorf("create room after %d attempts: %w", maxIDAttempts, ErrIDSpace)
}

// GetRoom 按房间码查找
func (m *RoomManager) GetRoom(id RoomID) (*Room, error) {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrRoomNotFound, id)
	}
	return r, nil
}

// DeleteRoom 关闭并移除房间；持有旧指针的加入请求随后得到 ErrRoomNotFound
func (m *RoomManager) DeleteRoom(id RoomID) {
	m.mu.RLock()
	r, ok := m.rooms[id]
	m.mu.RUnlock()
	if !ok {
		return
	}
	m.deleteRoom(r)
}

// deleteRoom 先关闭房间再移除映射，且仅当映射中仍是同一个房间实例时才移除
// 调用方不得持有 r.mu
func (m *RoomManager) deleteRoom(r *Room) {
	r.close()

	m.mu.Lock()
	defer m.mu.Unlock()
	if cur, ok := m.rooms[r.ID]; ok && cur == r {
		delete(m.rooms, r.ID)
		m.log.Infow("room deleted", "room", string(r.ID), "rooms", len(m.rooms))
	}
}

// Reap 清理创建后超过 maxIdle 仍无人加入的空房间，返回清理数量
func (m *RoomManager) Reap(maxIdle time.Duration) int {
	cutoff := time.Now().Add(-maxIdle)
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	n := 0
	for _, r := range rooms {
		if r.closeIfIdle(cutoff) {
			m.deleteRoom(r)
			n++
		}
	}
	return n
}

// RunReaper 周期性调用 Reap，直到 ctx 取消
func (m *RoomManager) RunReaper(ctx context.Context, every, maxIdle time.Duration) {
	ticker := time.NewTicker(every)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if n := m.Reap(maxIdle); n > 0 {
				m.log.Infow("idle rooms reaped", "count", n)
			}
		}
	}
}

// Count 当前房间数
func (m *RoomManager) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.rooms)
}

// Snapshot 所有房间的概要，按房间码排序
func (m *RoomManager) Snapshot() []RoomInfo {
	m.mu.RLock()
	rooms := make([]*Room, 0, len(m.rooms))
	for _, r := range m.rooms {
		rooms = append(rooms, r)
	}
	m.mu.RUnlock()

	infos := make([]RoomInfo, 0, len(rooms))
	for _, r := range rooms {
		infos = append(infos, r.Info())
	}
	sort.Slice(infos, func(i, j int) bool { return infos[i].ID < infos[j].ID })
	return infos
}

// Shutdown 关闭并丢弃所有房间，等待各自的引擎退出
func (m *RoomManager) Shutdown() {
	m.mu.Lock()
	rooms := m.rooms
	m.rooms = make(map[RoomID]*Room)
	m.mu.Unlock()

	for _, r := range rooms {
		r.close()
	}
	m.log.Infow("room manager stopped", "closed", len(rooms))
}
