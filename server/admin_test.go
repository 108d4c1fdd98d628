package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAdmin_Endpoints(t *testing.T) {
	rooms := newTestRooms(t)
	sm := NewSessionManager(rooms, testLogger())
	admin := NewAdmin(rooms)

	r := newTestRoom(t, rooms)
	_, err := sm.Open(newFakeClient("a")).Join(r.ID)
	require.NoError(t, err)
	_, err = sm.Open(newFakeClient("b")).Join(r.ID)
	require.NoError(t, err)
	newTestRoom(t, rooms)

	tests := []struct {
		name     string
		handler  http.HandlerFunc
		method   string
		target   string
		wantCode int
		check    func(t *testing.T, body map[string]any)
	}{
		{
			name:     "list rooms",
			handler:  admin.HandleRooms,
			method:   http.MethodGet,
			target:   "/rooms",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.EqualValues(t, 2, body["count"])
				assert.Len(t, body["rooms"], 2)
			},
		},
		{
			name:     "summary metrics",
			handler:  admin.HandleMetrics,
			method:   http.MethodGet,
			target:   "/metrics",
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.EqualValues(t, 2, body["rooms"])
				assert.EqualValues(t, 1, body["rooms_playing"])
				assert.EqualValues(t, 2, body["players"])
			},
		},
		{
			name:     "room metrics",
			handler:  admin.HandleMetrics,
			method:   http.MethodGet,
			target:   "/metrics?room=" + string(r.ID),
			wantCode: http.StatusOK,
			check: func(t *testing.T, body map[string]any) {
				assert.Equal(t, string(r.ID), body["room"])
				assert.Equal(t, true, body["isPlaying"])
				assert.Contains(t, body["metrics"], "tick_count")
			},
		},
		{
			name:     "unknown room",
			handler:  admin.HandleMetrics,
			method:   http.MethodGet,
			target:   "/metrics?room=NOROOM",
			wantCode: http.StatusNotFound,
		},
		{
			name:     "wrong method",
			handler:  admin.HandleRooms,
			method:   http.MethodPost,
			target:   "/rooms",
			wantCode: http.StatusMethodNotAllowed,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			tt.handler(rec, httptest.NewRequest(tt.method, tt.target, nil))
			require.Equal(t, tt.wantCode, rec.Code)
			if tt.check == nil {
				return
			}
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			tt.check(t, body)
		})
	}
}

func TestAdmin_Health(t *testing.T) {
	rec := httptest.NewRecorder()
	NewAdmin(newTestRooms(t)).HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	assert.Equal(t, http.StatusOK, rec.Code)
	assert.Equal(t, "ok", rec.Body.String())
}
