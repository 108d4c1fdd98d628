package server

import (
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"
	"go.uber.org/zap"
)

const (
	sendQueueSize = 256
	writeWait     = 10 * time.Second
	pongWait      = 60 * time.Second
	pingPeriod    = 54 * time.Second
	maxMessage    = 1 << 20 // 1MB
)

// ClientConn 负责发送（写）数据到客户端的轻量包装
type ClientConn struct {
	id   string
	ws   *websocket.Conn
	send chan []byte

	mu     sync.Mutex
	closed bool
}

func NewClientConn(ws *websocket.Conn) *ClientConn {
	return &ClientConn{
		id:   uuid.NewString(),
		ws:   ws,
		send: make(chan []byte, sendQueueSize),
	}
}

// ID 连接唯一标识
func (c *ClientConn) ID() string { return c.id }

// Enqueue 将要发送的消息压入队列（非阻塞，满则丢弃并返回 false）
func (c *ClientConn) Enqueue(b []byte) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.closed {
		return false
	}
	select {
	case c.send <- b:
		return true
	default:
		return false
	}
}

// Close 关闭发送队列，写协程随后发送关闭帧并断开
func (c *ClientConn) Close() {
	c.mu.Lock()
	defer c.mu.Unlock()
	if !c.closed {
		c.closed = true
		close(c.send)
	}
}

// writePump 独立协程，负责从 send 队列写出到 WS，并定期 ping
func (c *ClientConn) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		_ = c.ws.Close()
	}()
	for {
		select {
		case msg, ok := <-c.send:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if !ok {
				_ = c.ws.WriteMessage(websocket.CloseMessage,
					websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
				return
			}
			if err := c.ws.WriteMessage(websocket.TextMessage, msg); err != nil {
				return
			}
		case <-ticker.C:
			_ = c.ws.SetWriteDeadline(time.Now().Add(writeWait))
			if err := c.ws.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// readPump 读取客户端消息并交给会话；退出即视为断线
func (c *ClientConn) readPump(s *Session, log *zap.SugaredLogger) {
	defer func() {
		s.Leave()
		c.Close()
		log.Infow("connection closed", "conn", c.id)
	}()
	c.ws.SetReadLimit(maxMessage)
	_ = c.ws.SetReadDeadline(time.Now().Add(pongWait))
	c.ws.SetPongHandler(func(string) error {
		return c.ws.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		mt, payload, err := c.ws.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Warnw("websocket read error", "conn", c.id, "error", err)
			}
			return
		}
		if mt != websocket.TextMessage {
			continue
		}
		if err := s.Dispatch(payload); err != nil {
			log.Debugw("message ignored", "conn", c.id, "error", err)
		}
	}
}

// Gateway WebSocket 接入层：把连接交给 SessionManager
type Gateway struct {
	sessions *SessionManager
	log      *zap.SugaredLogger
	upgrader websocket.Upgrader
}

func NewGateway(sessions *SessionManager, log *zap.SugaredLogger) *Gateway {
	return &Gateway{
		sessions: sessions,
		log:      log,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			// 静态页面可能由其他域名托管
			CheckOrigin: func(r *http.Request) bool { return true },
		},
	}
}

// ServeHTTP 升级为 WebSocket 并启动读写协程
func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	ws, err := g.upgrader.Upgrade(w, r, nil)
	if err != nil {
		g.log.Warnw("upgrade error", "error", err)
		return
	}

	client := NewClientConn(ws)
	session := g.sessions.Open(client)
	g.log.Infow("connection opened", "conn", client.ID(), "remote", r.RemoteAddr)

	go client.writePump()
	go client.readPump(session, g.log)
}
