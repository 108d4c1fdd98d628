package server

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewRoomID(t *testing.T) {
	re := regexp.MustCompile(`^[A-Z0-9]{6}$`)
	for i := 0; i < 200; i++ {
		id := NewRoomID()
		require.Regexp(t, re, string(id))
	}
}

func TestParseRoomID(t *testing.T) {
	assert.Equal(t, RoomID("AB12CD"), ParseRoomID("  ab12cd "))
}

func TestRoomManager_CreateAndGet(t *testing.T) {
	m := newTestRooms(t)
	assert.Zero(t, m.Count())

	r, err := m.CreateRoom()
	require.NoError(t, err)
	assert.Zero(t, r.Active())
	assert.False(t, r.IsPlaying())

	got, err := m.GetRoom(r.ID)
	require.NoError(t, err)
	assert.Same(t, r, got)

	_, err = m.GetRoom("ZZZZZZ")
	assert.True(t, errors.Is(err, ErrRoomNotFound))
}

func TestRoomManager_RegeneratesOnCollision(t *testing.T) {
	m := newTestRooms(t)
	ids := []RoomID{"AAAAAA", "AAAAAA", "AAAAAA", "BBBBBB"}
	m.newID = func() RoomID {
		id := ids[0]
		ids = ids[1:]
		return id
	}

	r1, err := m.CreateRoom()
	require.NoError(t, err)
	r2, err := m.CreateRoom()
	require.NoError(t, err)

	assert.Equal(t, RoomID("AAAAAA"), r1.ID)
	assert.Equal(t, RoomID("BBBBBB"), r2.ID)
	assert.Equal(t, 2, m.Count())
}

func TestRoomManager_IDSpaceExhausted(t *testing.T) {
	m := newTestRooms(t)
	m.newID = func() RoomID { return "AAAAAA" }

	_, err := m.CreateRoom()
	require.NoError(t, err)
	_, err = m.CreateRoom()
	assert.True(t, errors.Is(err, ErrIDSpace))
	assert.Equal(t, 1, m.Count())
}

func TestRoomManager_ConcurrentCreateDelete(t *testing.T) {
	m := newTestRooms(t)

	const n = 100
	var wg sync.WaitGroup
	created := make(chan RoomID, n)
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			r, err := m.CreateRoom()
			if assert.NoError(t, err) {
				created <- r.ID
			}
		}()
	}
	wg.Wait()
	close(created)
	assert.Equal(t, n, m.Count())

	var ids []RoomID
	for id := range created {
		ids = append(ids, id)
	}
	for i, id := range ids {
		if i%2 == 0 {
			wg.Add(1)
			go func(id RoomID) {
				defer wg.Done()
				m.DeleteRoom(id)
			}(id)
		}
	}
	wg.Wait()
	assert.Equal(t, n/2, m.Count())
	assert.Len(t, m.Snapshot(), n/2)
}

func TestRoomManager_Reap(t *testing.T) {
	m := newTestRooms(t)
	sm := NewSessionManager(m, testLogger())

	idle := newTestRoom(t, m)
	busy := newTestRoom(t, m)
	_, err := sm.Open(newFakeClient("a")).Join(busy.ID)
	require.NoError(t, err)

	assert.Zero(t, m.Reap(time.Hour))
	assert.Equal(t, 1, m.Reap(0))

	_, err = m.GetRoom(idle.ID)
	assert.True(t, errors.Is(err, ErrRoomNotFound))
	_, err = m.GetRoom(busy.ID)
	assert.NoError(t, err)

	_, err = idle.join(newFakeClient("late"))
	assert.True(t, errors.Is(err, ErrRoomNotFound))
}

func TestRoomManager_ShutdownStopsEngines(t *testing.T) {
	m := NewRoomManager(testLogger())
	sm := NewSessionManager(m, testLogger())
	r, err := m.CreateRoom()
	require.NoError(t, err)
	r.tickInterval = time.Millisecond

	a, b := newFakeClient("a"), newFakeClient("b")
	_, err = sm.Open(a).Join(r.ID)
	require.NoError(t, err)
	_, err = sm.Open(b).Join(r.ID)
	require.NoError(t, err)
	require.True(t, r.EngineRunning())

	m.Shutdown()
	assert.Zero(t, m.Count())
	assert.False(t, r.EngineRunning())
	assert.False(t, r.IsPlaying())

	before := a.count(EventGameStateUpdate)
	time.Sleep(20 * time.Millisecond)
	assert.Equal(t, before, a.count(EventGameStateUpdate))
}

func TestRoomManager_DeleteRoomClosesHeldRoom(t *testing.T) {
	m := newTestRooms(t)
	r := newTestRoom(t, m)

	held, err := m.GetRoom(r.ID)
	require.NoError(t, err)
	m.DeleteRoom(r.ID)
	assert.Zero(t, m.Count())

	c := newFakeClient("late")
	_, err = held.join(c)
	assert.True(t, errors.Is(err, ErrRoomNotFound))
	assert.Zero(t, held.Active())
	assert.Empty(t, c.events())

	// 重复删除无副作用
	m.DeleteRoom(r.ID)
}
