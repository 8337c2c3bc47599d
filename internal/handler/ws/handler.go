package ws

import (
	"context"
	"log"
	"net/http"
	"sync"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/zhouzirui/culinary-craft/backend/internal/handler/httperr"
	"github.com/zhouzirui/culinary-craft/backend/internal/model/chat"
	chatservice "github.com/zhouzirui/culinary-craft/backend/internal/service/chat"
)

const (
	readTimeout  = 60 * time.Second
	pingInterval = 54 * time.Second
	writeTimeout = 10 * time.Second
)

// Handler WebSocket 对话处理器
type Handler struct {
	chatSvc     *chatservice.Service
	upgrader    websocket.Upgrader
	readTimeout time.Duration
}

// New 创建WebSocket处理器
func New(chatSvc *chatservice.Service) *Handler {
	return &Handler{
		chatSvc:     chatSvc,
		readTimeout: readTimeout,
		upgrader: websocket.Upgrader{
			CheckOrigin: func(r *http.Request) bool {
				return true
			},
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
		},
	}
}

// RegisterRoutes 注册WebSocket路由
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Get("/ws/{sessionID}", h.handleWebSocket)
}

// Inbound types.
const (
	TypeText = "text"
	TypeSave = "save"
)

type inboundMessage struct {
	Type string `json:"type"`
	Text string `json:"text"`
}

type outgoingMessage struct {
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Timestamp int64       `json:"timestamp"`
}

// conn serializes writes; gorilla allows one concurrent writer.
type conn struct {
	*websocket.Conn
	sessionID string
	mu        sync.Mutex
}

func (c *conn) send(msgType string, data interface{}) {
	c.mu.Lock()
	defer c.mu.Unlock()

	_ = c.SetWriteDeadline(time.Now().Add(writeTimeout))
	msg := outgoingMessage{
		Type:      msgType,
		SessionID: c.sessionID,
		Data:      data,
		Timestamp: time.Now().Unix(),
	}
	if err := c.WriteJSON(msg); err != nil {
		log.Printf("[ws] write %s failed: %v", msgType, err)
	}
}

func (c *conn) ping() error {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.WriteControl(websocket.PingMessage, nil, time.Now().Add(writeTimeout))
}

// handleWebSocket 处理WebSocket连接
func (h *Handler) handleWebSocket(w http.ResponseWriter, r *http.Request) {
	sessionID := chi.URLParam(r, "sessionID")
	if _, err := h.chatSvc.GetSession(r.Context(), sessionID); err != nil {
		httperr.Respond(w, err)
		return
	}

	raw, err := h.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("[ws] upgrade failed: %v", err)
		return
	}
	c := &conn{Conn: raw, sessionID: sessionID}
	defer c.Close()

	log.Printf("[ws] new connection for session: %s", sessionID)

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	_ = c.SetReadDeadline(time.Now().Add(h.readTimeout))
	c.SetPongHandler(func(string) error {
		return c.SetReadDeadline(time.Now().Add(h.readTimeout))
	})

	go pingLoop(ctx, c)

	if snapshot, err := h.chatSvc.Snapshot(ctx, sessionID); err == nil {
		c.send("snapshot", snapshot)
	}

	for {
		var msg inboundMessage
		if err := c.ReadJSON(&msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				log.Printf("[ws] read error: %v", err)
			}
			return
		}
		// Replies are appended even if the socket closes mid-call.
		h.handleMessage(context.WithoutCancel(ctx), c, msg)

		// Pongs are not read during an agent call.
		_ = c.SetReadDeadline(time.Now().Add(h.readTimeout))
	}
}

func (h *Handler) handleMessage(ctx context.Context, c *conn, msg inboundMessage) {
	switch msg.Type {
	case TypeText:
		c.send("thinking", nil)
		reply, err := h.chatSvc.SendMessage(ctx, c.sessionID, msg.Text, nil)
		if err != nil {
			c.sendError(err)
			return
		}
		if reply.Role == chat.RoleError {
			c.send("error", map[string]any{"message": reply.Content, "entry": reply})
			return
		}
		c.send("message", reply)
	case TypeSave:
		c.send("thinking", nil)
		result, err := h.chatSvc.RequestSave(ctx, c.sessionID)
		if err != nil {
			c.sendError(err)
			return
		}
		if result.Review != nil {
			c.send("review", result.Review)
			return
		}
		if result.Message != nil && result.Message.Role == chat.RoleError {
			c.send("error", map[string]any{"message": result.Message.Content, "entry": result.Message})
			return
		}
		c.send("message", result.Message)
	default:
		c.send("error", map[string]any{"message": "unsupported message type: " + msg.Type})
	}
}

func (c *conn) sendError(err error) {
	c.send("error", map[string]any{
		"message": err.Error(),
		"status":  httperr.Status(err),
	})
}

// pingLoop 定期发送ping消息
func pingLoop(ctx context.Context, c *conn) {
	ticker := time.NewTicker(pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			if err := c.ping(); err != nil {
				return
			}
		}
	}
}
