package tools

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/bbernstein/lacylights-mcp/internal/logger"
	"github.com/bbernstein/lacylights-mcp/internal/services/pubsub"
)

const (
	wsWriteWait  = 10 * time.Second
	wsPongWait   = 60 * time.Second
	wsPingEvery  = (wsPongWait * 9) / 10
	wsSendBuffer = 32
	wsEventQueue = 16
)

var wsUpgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(_ *http.Request) bool {
		return true // Allow all origins for WebSocket
	},
}

// Inbound message types.
const (
	wsCall        = "call"
	wsSubscribe   = "subscribe"
	wsUnsubscribe = "unsubscribe"
)

type wsInbound struct {
	ID        string          `json:"id,omitempty"`
	Type      string          `json:"type"`
	Tool      string          `json:"tool,omitempty"`
	Arguments json.RawMessage `json:"arguments,omitempty"`
	Topic     string          `json:"topic,omitempty"`
	ProjectID string          `json:"projectId,omitempty"`
}

type wsOutbound struct {
	ID        string      `json:"id,omitempty"`
	Type      string      `json:"type"`
	SessionID string      `json:"sessionId,omitempty"`
	Topic     string      `json:"topic,omitempty"`
	ProjectID string      `json:"projectId,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	Payload   interface{} `json:"payload,omitempty"`
	Error     string      `json:"error,omitempty"`
	Status    int         `json:"status,omitempty"`
}

// wsSession is one WebSocket connection.
type wsSession struct {
	id     string
	server *Server
	out    chan wsOutbound

	mu   sync.Mutex
	subs map[pubsub.Topic]*pubsub.Subscriber
}

// ServeWS upgrades the connection and serves tool calls and event subscriptions.
func (s *Server) ServeWS(w http.ResponseWriter, r *http.Request) {
	conn, err := wsUpgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	defer func() { _ = conn.Close() }()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()

	sess := &wsSession{
		id:     uuid.NewString(),
		server: s,
		out:    make(chan wsOutbound, wsSendBuffer),
		subs:   make(map[pubsub.Topic]*pubsub.Subscriber),
	}
	defer sess.unsubscribeAll()

	s.log.Info("🔌 WebSocket session opened", logger.Fields{"session": sess.id})
	defer s.log.Info("🔌 WebSocket session closed", logger.Fields{"session": sess.id})

	if err := conn.SetReadDeadline(time.Now().Add(wsPongWait)); err != nil {
		return
	}
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(wsPongWait))
	})

	writerDone := make(chan struct{})
	go func() {
		defer close(writerDone)
		sess.writeLoop(ctx, conn)
	}()

	sess.send(ctx, wsOutbound{Type: "session", SessionID: sess.id})

	var calls sync.WaitGroup
	for {
		var msg wsInbound
		if err := conn.ReadJSON(&msg); err != nil {
			var syntaxErr *json.SyntaxError
			if errors.As(err, &syntaxErr) {
				sess.send(ctx, wsOutbound{Type: "error", Error: "malformed message", Status: http.StatusBadRequest})
				continue
			}
			break
		}
		switch msg.Type {
		case wsCall:
			calls.Add(1)
			go func(msg wsInbound) {
				defer calls.Done()
				sess.call(ctx, msg)
			}(msg)
		case wsSubscribe:
			sess.subscribe(ctx, msg)
		case wsUnsubscribe:
			sess.unsubscribe(ctx, msg)
		default:
			sess.send(ctx, wsOutbound{
				ID:     msg.ID,
				Type:   "error",
				Error:  fmt.Sprintf("unknown message type %q", msg.Type),
				Status: http.StatusBadRequest,
			})
		}
	}

	cancel()
	calls.Wait()
	<-writerDone
}

func (sess *wsSession) writeLoop(ctx context.Context, conn *websocket.Conn) {
	ticker := time.NewTicker(wsPingEvery)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case msg := <-sess.out:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteJSON(msg); err != nil {
				return
			}
		case <-ticker.C:
			if err := conn.SetWriteDeadline(time.Now().Add(wsWriteWait)); err != nil {
				return
			}
			if err := conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}

// send queues a message unless the session is closing.
func (sess *wsSession) send(ctx context.Context, msg wsOutbound) {
	select {
	case sess.out <- msg:
	case <-ctx.Done():
	}
}

func (sess *wsSession) call(ctx context.Context, msg wsInbound) {
	callCtx := ctx
	if d := sess.server.callTimeout; d > 0 {
		var cancel context.CancelFunc
		callCtx, cancel = context.WithTimeout(ctx, d)
		defer cancel()
	}
	result, err := sess.server.registry.Call(callCtx, msg.Tool, msg.Arguments)
	if err != nil {
		sess.send(ctx, wsOutbound{ID: msg.ID, Type: "error", Error: err.Error(), Status: StatusCode(err)})
		return
	}
	sess.send(ctx, wsOutbound{ID: msg.ID, Type: "result", Result: result})
}

func (sess *wsSession) subscribe(ctx context.Context, msg wsInbound) {
	topic, ok := pubsub.ParseTopic(msg.Topic)
	if !ok || sess.server.events == nil {
		sess.send(ctx, wsOutbound{
			ID:     msg.ID,
			Type:   "error",
			Error:  fmt.Sprintf("unknown topic %q", msg.Topic),
			Status: http.StatusBadRequest,
		})
		return
	}

	sess.mu.Lock()
	if old, exists := sess.subs[topic]; exists {
		sess.server.events.Unsubscribe(old)
	}
	sub := sess.server.events.Subscribe(topic, msg.ProjectID, wsEventQueue)
	sess.subs[topic] = sub
	sess.mu.Unlock()

	go func() {
		for ev := range sub.Channel {
			sess.send(ctx, wsOutbound{
				Type:      "event",
				Topic:     string(ev.Topic),
				ProjectID: ev.ProjectID,
				Payload:   ev.Payload,
			})
		}
	}()

	sess.send(ctx, wsOutbound{ID: msg.ID, Type: "subscribed", Topic: string(topic), ProjectID: msg.ProjectID})
}

func (sess *wsSession) unsubscribe(ctx context.Context, msg wsInbound) {
	topic, ok := pubsub.ParseTopic(msg.Topic)
	if ok {
		sess.mu.Lock()
		if sub, exists := sess.subs[topic]; exists {
			sess.server.events.Unsubscribe(sub)
			delete(sess.subs, topic)
		}
		sess.mu.Unlock()
	}
	sess.send(ctx, wsOutbound{ID: msg.ID, Type: "unsubscribed", Topic: msg.Topic})
}

func (sess *wsSession) unsubscribeAll() {
	sess.mu.Lock()
	defer sess.mu.Unlock()
	for topic, sub := range sess.subs {
		sess.server.events.Unsubscribe(sub)
		delete(sess.subs, topic)
	}
}
