package server

import (
	"encoding/json"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func testLogger() *zap.SugaredLogger {
	return zap.NewNop().Sugar()
}

// fakeClient 记录收到的所有出站事件
type fakeClient struct {
	id string

	mu   sync.Mutex
	msgs []Envelope
}

func newFakeClient(id string) *fakeClient {
	return &fakeClient{id: id}
}

func (c *fakeClient) ID() string { return c.id }

func (c *fakeClient) Enqueue(b []byte) bool {
	var env Envelope
	if err := json.Unmarshal(b, &env); err != nil {
		panic(err)
	}
	c.mu.Lock()
	c.msgs = append(c.msgs, env)
	c.mu.Unlock()
	return true
}

func (c *fakeClient) events() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, 0, len(c.msgs))
	for _, m := range c.msgs {
		out = append(out, m.Event)
	}
	return out
}

func (c *fakeClient) count(event string) int {
	n := 0
	for _, e := range c.events() {
		if e == event {
			n++
		}
	}
	return n
}

// last 解码最近一次 event 的载荷
func (c *fakeClient) last(t *testing.T, event string, v any) {
	t.Helper()
	c.mu.Lock()
	defer c.mu.Unlock()
	for i := len(c.msgs) - 1; i >= 0; i-- {
		if c.msgs[i].Event == event {
			if v != nil {
				require.NoError(t, json.Unmarshal(c.msgs[i].Data, v))
			}
			return
		}
	}
	t.Fatalf("no %s event received", event)
}

func (c *fakeClient) reset() {
	c.mu.Lock()
	c.msgs = nil
	c.mu.Unlock()
}

// seqRand 按固定序列循环返回的随机源
type seqRand struct {
	vals []float64
	i    int
}

func (s *seqRand) Float64() float64 {
	v := s.vals[s.i%len(s.vals)]
	s.i++
	return v
}

func newTestRooms(t *testing.T) *RoomManager {
	t.Helper()
	m := NewRoomManager(testLogger())
	t.Cleanup(m.Shutdown)
	return m
}

// newTestRoom 创建房间并把 Tick 间隔调大，避免后台 Tick 干扰事件顺序断言
func newTestRoom(t *testing.T, m *RoomManager) *Room {
	t.Helper()
	r, err := m.CreateRoom()
	require.NoError(t, err)
	r.tickInterval = time.Hour
	return r
}
