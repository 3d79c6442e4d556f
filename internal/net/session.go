// Package net hosts the websocket transport: one goroutine pair per
// connection reading and writing framed binary messages, a heartbeat
// watchdog, and the dispatch table translating wire opcodes into
// session.Registry calls.
package net

import (
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
	"go.uber.org/zap"

	"github.com/larrybui/tichu-server/internal/config"
	"github.com/larrybui/tichu-server/internal/session"
)

// Conn represents a single client's websocket connection. Reads and
// writes each run in their own goroutine; conn is only ever written to
// from writeLoop, matching gorilla/websocket's single-writer rule.
type Conn struct {
	ws       *websocket.Conn
	registry *session.Registry
	cfg      config.NetworkConfig
	log      *zap.Logger

	userID string
	out    chan session.Outbound

	lastActivity atomic.Int64 // unix nanos, updated by readLoop

	closeCh   chan struct{}
	closeOnce sync.Once
	closed    atomic.Bool
}

// NewConn wraps an accepted websocket connection. The caller must call
// Start to begin the connection's goroutines.
func NewConn(ws *websocket.Conn, registry *session.Registry, cfg config.NetworkConfig, log *zap.Logger) *Conn {
	return &Conn{
		ws:       ws,
		registry: registry,
		cfg:      cfg,
		log:      log,
		out:      make(chan session.Outbound, cfg.OutQueueSize),
		closeCh:  make(chan struct{}),
	}
}

// Start registers the connection with the registry (assigning a fresh
// user id if clientUserID is unknown) and launches the read, write, and
// heartbeat loops.
func (c *Conn) Start(clientUserID string) {
	c.userID = c.registry.Connect(clientUserID, c.out)
	c.touch()

	go c.writeLoop()
	go c.heartbeatLoop()
	c.readLoop()
}

func (c *Conn) touch() {
	c.lastActivity.Store(time.Now().UnixNano())
}

// readLoop blocks on incoming frames until the connection dies, then
// tears everything down. It runs on the goroutine that called Start,
// matching gorilla/websocket's single-reader rule.
func (c *Conn) readLoop() {
	defer c.Close()

	for {
		msgType, data, err := c.ws.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.log.Debug("read error", zap.String("user_id", c.userID), zap.Error(err))
			}
			return
		}
		if msgType != websocket.BinaryMessage {
			continue
		}
		c.touch()

		if err := dispatch(c.registry, c.userID, data); err != nil {
			c.out <- session.Outbound{Event: session.Event{
				Kind: session.EventUnexpectedMessage,
				Text: err.Error(),
			}}
		}
	}
}

// writeLoop is the connection's sole writer: every outbound message,
// whether produced by the registry or by dispatch's own error replies,
// passes through here.
func (c *Conn) writeLoop() {
	defer c.Close()

	for {
		select {
		case ob := <-c.out:
			frame := encodeOutbound(ob)
			c.ws.SetWriteDeadline(time.Now().Add(c.cfg.WriteTimeout))
			if err := c.ws.WriteMessage(websocket.BinaryMessage, frame); err != nil {
				if !c.closed.Load() {
					c.log.Debug("write error", zap.String("user_id", c.userID), zap.Error(err))
				}
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

// heartbeatLoop closes the connection if no inbound frame has arrived
// within HeartbeatTimeout. Clients are expected to send Ping roughly
// every HeartbeatInterval; any frame at all resets the clock.
func (c *Conn) heartbeatLoop() {
	ticker := time.NewTicker(c.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			last := time.Unix(0, c.lastActivity.Load())
			if time.Since(last) > c.cfg.HeartbeatTimeout {
				c.log.Info("heartbeat timeout", zap.String("user_id", c.userID))
				c.Close()
				return
			}
		case <-c.closeCh:
			return
		}
	}
}

// Close tears down the connection and disconnects it from the registry.
func (c *Conn) Close() {
	c.closeOnce.Do(func() {
		c.closed.Store(true)
		close(c.closeCh)
		c.ws.Close()
		if c.userID != "" {
			c.registry.Disconnect(c.userID)
		}
	})
}
