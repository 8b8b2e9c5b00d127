// Syzygy - Satellite Telemetry Security and Attack Simulation
// Copyright 2026 Tom F. (tomtom215)
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/tomtom215/syzygy

package hub

import (
	"errors"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/tomtom215/syzygy/internal/logging"
)

const (
	writeWait      = 10 * time.Second
	pongWait       = 60 * time.Second
	pingPeriod     = (pongWait * 9) / 10
	maxMessageSize = 4 * 1024 // Inbound frames are control traffic only
)

// ErrClientGone is returned by Send once the client is closed or its
// outbound queue is full.
var ErrClientGone = errors.New("hub: client gone")

// Client adapts a websocket connection to the Subscriber interface.
// Frames queue on a buffered channel; a client whose queue is full at
// send time is treated as gone and dropped by the hub.
type Client struct {
	channel string
	hub     *Hub
	conn    *websocket.Conn
	send    chan []byte

	closeOnce sync.Once
	done      chan struct{}
}

// NewClient wraps conn as a subscriber on the given channel.
func NewClient(h *Hub, channel string, conn *websocket.Conn, sendBuffer int) *Client {
	if sendBuffer <= 0 {
		sendBuffer = 256
	}
	return &Client{
		channel: channel,
		hub:     h,
		conn:    conn,
		send:    make(chan []byte, sendBuffer),
		done:    make(chan struct{}),
	}
}

// Send queues one frame for delivery. It never blocks: a full queue
// means the client cannot keep up and the frame is refused.
func (c *Client) Send(data []byte) error {
	select {
	case <-c.done:
		return ErrClientGone
	default:
	}

	select {
	case c.send <- data:
		return nil
	default:
		return ErrClientGone
	}
}

// Close tears the client down. Safe to call multiple times.
func (c *Client) Close() {
	c.closeOnce.Do(func() {
		close(c.done)
		_ = c.conn.Close()
	})
}

// Start begins the read and write pumps. It subscribes the client to its
// channel and returns immediately; the pumps detach it on disconnect.
func (c *Client) Start() error {
	if err := c.hub.Subscribe(c.channel, c); err != nil {
		return err
	}
	go c.writePump()
	go c.readPump()
	return nil
}

// readPump drains the connection for control frames and detects
// disconnects. Subscribers are read-only consumers; inbound data frames
// are discarded.
func (c *Client) readPump() {
	defer func() {
		_ = c.hub.Unsubscribe(c.channel, c)
	}()

	c.conn.SetReadLimit(maxMessageSize)
	if err := c.conn.SetReadDeadline(time.Now().Add(pongWait)); err != nil {
		logging.Error().Err(err).Msg("failed to set read deadline")
		return
	}
	c.conn.SetPongHandler(func(string) error {
		return c.conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				logging.Debug().Err(err).Str("channel", c.channel).Msg("websocket closed unexpectedly")
			}
			return
		}
	}
}

// writePump drains the outbound queue to the connection and keeps the
// connection alive with pings.
func (c *Client) writePump() {
	ticker := time.NewTicker(pingPeriod)
	defer func() {
		ticker.Stop()
		c.Close()
	}()

	for {
		select {
		case <-c.done:
			_ = c.conn.SetWriteDeadline(time.Now().Add(writeWait))
			_ = c.conn.WriteMessage(websocket.CloseMessage,
				websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
			return

		case data := <-c.send:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.TextMessage, data); err != nil {
				return
			}

		case <-ticker.C:
			if err := c.conn.SetWriteDeadline(time.Now().Add(writeWait)); err != nil {
				return
			}
			if err := c.conn.WriteMessage(websocket.PingMessage, nil); err != nil {
				return
			}
		}
	}
}
