// Copyright 2016 The Gofem Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package chn

import (
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/cpmech/gosl/chk"
	"github.com/gorilla/websocket"
)

// WebSocketPath is the HTTP path served by ListenWebSocket
const WebSocketPath = "/soe"

// WebSocket implements Channel with one binary WebSocket message per block
type WebSocket struct {
	conn *websocket.Conn
}

// NewWebSocket wraps an established connection
func NewWebSocket(conn *websocket.Conn) *WebSocket {
	return &WebSocket{conn}
}

// DialWebSocket connects to a WebSocket endpoint; e.g. "ws://host:7702/soe"
func DialWebSocket(url string) (ch *WebSocket, err error) {
	var conn *websocket.Conn
	for i := 0; i < DialAttempts; i++ {
		conn, _, err = websocket.DefaultDialer.Dial(url, nil)
		if err == nil {
			return NewWebSocket(conn), nil
		}
		time.Sleep(DialWait)
	}
	return nil, chk.Err("websocket: cannot connect to %q after %d attempts:\n%v", url, DialAttempts, err)
}

// SendInts sends a block of integers
func (o *WebSocket) SendInts(vals []int) (err error) {
	return o.write(encodeInts(vals))
}

// SendDoubles sends a block of float64 values
func (o *WebSocket) SendDoubles(vals []float64) (err error) {
	return o.write(encodeDoubles(vals))
}

// RecvInts receives exactly len(vals) integers
func (o *WebSocket) RecvInts(vals []int) (err error) {
	payload, err := o.read(KindInts, len(vals))
	if err != nil {
		return
	}
	decodeInts(payload, vals)
	return
}

// RecvDoubles receives exactly len(vals) float64 values
func (o *WebSocket) RecvDoubles(vals []float64) (err error) {
	payload, err := o.read(KindDoubles, len(vals))
	if err != nil {
		return
	}
	decodeDoubles(payload, vals)
	return
}

// Close sends a close message and closes the connection
func (o *WebSocket) Close() (err error) {
	o.conn.WriteMessage(websocket.CloseMessage, websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	return o.conn.Close()
}

func (o *WebSocket) write(frame []byte) (err error) {
	if err = o.conn.WriteMessage(websocket.BinaryMessage, frame); err != nil {
		return fmt.Errorf("websocket: send failed: %w", err)
	}
	return
}

func (o *WebSocket) read(kind byte, count int) (payload []byte, err error) {
	typ, msg, err := o.conn.ReadMessage()
	if err != nil {
		if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
			err = io.EOF
		}
		return nil, fmt.Errorf("websocket: receive failed: %w", err)
	}
	if typ != websocket.BinaryMessage || len(msg) < headerLen {
		return nil, fmt.Errorf("websocket: malformed message (type=%d, len=%d): %w", typ, len(msg), ErrKindMismatch)
	}
	if err = checkHeader(msg, kind, count); err != nil {
		return nil, fmt.Errorf("websocket: %w", err)
	}
	if len(msg) != headerLen+8*count {
		return nil, fmt.Errorf("websocket: message carries %d bytes for %d %s: %w", len(msg)-headerLen, count, kindName(kind), ErrSizeMismatch)
	}
	return msg[headerLen:], nil
}

// WsListener accepts WebSocket channels on WebSocketPath
type WsListener struct {
	ln    net.Listener
	srv   *http.Server
	conns chan *WebSocket
}

// ListenWebSocket starts an HTTP server upgrading requests on WebSocketPath
func ListenWebSocket(addr string) (o *WsListener, err error) {
	ln, err := net.Listen("tcp", addr)
	if err != nil {
		return nil, chk.Err("websocket: cannot listen on %q:\n%v", addr, err)
	}
	o = &WsListener{ln: ln, conns: make(chan *WebSocket, 64)}
	mux := http.NewServeMux()
	mux.Handle(WebSocketPath, WebSocketHandler(func(ch *WebSocket) { o.conns <- ch }))
	o.srv = &http.Server{Handler: mux}
	go o.srv.Serve(ln)
	return
}

// WebSocketHandler returns an http.Handler that upgrades requests and hands the
// resulting channels to accept
func WebSocketHandler(accept func(ch *WebSocket)) http.Handler {
	upgrader := websocket.Upgrader{
		ReadBufferSize:  1 << 16,
		WriteBufferSize: 1 << 16,
	}
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		accept(NewWebSocket(conn))
	})
}

// Accept waits for the next peer
func (o *WsListener) Accept() (ch Channel, err error) {
	ws, ok := <-o.conns
	if !ok {
		return nil, chk.Err("websocket: listener closed")
	}
	return ws, nil
}

// Addr returns the address the listener is bound to
func (o *WsListener) Addr() string {
	return o.ln.Addr().String()
}

// URL returns the address peers must dial
func (o *WsListener) URL() string {
	return "ws://" + o.Addr() + WebSocketPath
}

// Close shuts the HTTP server down; upgraded connections are not affected
func (o *WsListener) Close() error {
	return o.srv.Close()
}
