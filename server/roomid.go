package server

import (
	"crypto/rand"
	"math/big"
	"strings"
)

// RoomID 房间短码，6 位大写字母数字，便于口头/手动输入
type RoomID string

const (
	roomIDLength   = 6
	roomIDAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
)

// NewRoomID 生成随机房间码；不保证唯一，由 RoomManager 负责查重
func NewRoomID() RoomID {
	b := make([]byte, roomIDLength)
	max := big.NewInt(int64(len(roomIDAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			// crypto/rand 不可用时退化为固定字符，查重逻辑会继续重试
			b[i] = roomIDAlphabet[i%len(roomIDAlphabet)]
			continue
		}
		b[i] = roomIDAlphabet[n.Int64()]
	}
	return RoomID(b)
}

// ParseRoomID 规范化客户端输入的房间码（去空白、转大写）
func ParseRoomID(s string) RoomID {
	return RoomID(strings.ToUpper(strings.TrimSpace(s)))
}
