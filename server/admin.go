package server

import (
	"encoding/json"
	"net/http"
)

// Admin 管理与监控接口
type Admin struct {
	rooms *RoomManager
}

func NewAdmin(rooms *RoomManager) *Admin {
	return &Admin{rooms: rooms}
}

// HandleRooms 列出当前所有房间
// GET /rooms
func (a *Admin) HandleRooms(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	writeJSON(w, map[string]any{
		"count": a.rooms.Count(),
		"rooms": a.rooms.Snapshot(),
	})
}

// HandleMetrics 输出指定房间的运行指标；不带 room 参数时输出汇总
// GET /metrics?room=AB12CD
func (a *Admin) HandleMetrics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	q := r.URL.Query().Get("room")
	if q == "" {
		rooms := a.rooms.Snapshot()
		players, playing := 0, 0
		for _, info := range rooms {
			players += info.Active
			if info.IsPlaying {
				playing++
			}
		}
		writeJSON(w, map[string]any{
			"rooms":         len(rooms),
			"rooms_playing": playing,
			"players":       players,
		})
		return
	}

	room, err := a.rooms.GetRoom(ParseRoomID(q))
	if err != nil {
		http.Error(w, "room not found", http.StatusNotFound)
		return
	}
	info := room.Info()
	writeJSON(w, map[string]any{
		"room":      info.ID,
		"players":   info.Active,
		"isPlaying": info.IsPlaying,
		"metrics":   room.Metrics().Snapshot(),
	})
}

// HandleHealth 存活探针
func (a *Admin) HandleHealth(w http.ResponseWriter, r *http.Request) {
	_, _ = w.Write([]byte("ok"))
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}
