package transport

import (
	"fmt"
	"net/http"
	"time"

	"github.com/decred/slog"
	"github.com/gorilla/websocket"

	"github.com/jordan-wolfaardt/screw/pkg/wire"
)

// dialRetries and dialDelay pace connection attempts while player
// processes come up.
const (
	dialRetries = 30
	dialDelay   = time.Second
)

// WSRouter is the engine side of the wire: one websocket connection per
// player, each frame routed to its recipient and answered in place.
type WSRouter struct {
	conns []*websocket.Conn
	log   slog.Logger
}

// DialPlayers connects to every player endpoint, retrying while the
// player processes start up.
func DialPlayers(endpoints []string, log slog.Logger) (*WSRouter, error) {
	r := &WSRouter{conns: make([]*websocket.Conn, len(endpoints)), log: log}
	for i, endpoint := range endpoints {
		conn, err := dial(endpoint)
		if err != nil {
			r.Close()
			return nil, fmt.Errorf("transport: dial player %d at %s: %w", i, endpoint, err)
		}
		log.Infof("connected to player %d at %s", i, endpoint)
		r.conns[i] = conn
	}
	return r, nil
}

func dial(endpoint string) (*websocket.Conn, error) {
	var lastErr error
	for attempt := 0; attempt < dialRetries; attempt++ {
		conn, _, err := websocket.DefaultDialer.Dial(endpoint, nil)
		if err == nil {
			return conn, nil
		}
		lastErr = err
		time.Sleep(dialDelay)
	}
	return nil, lastErr
}

// Roundtrip writes the frame to the addressed player's connection and
// blocks for the single reply.
func (r *WSRouter) Roundtrip(body []byte) ([]byte, error) {
	env, err := wire.DecodeEnvelope(body)
	if err != nil {
		return nil, err
	}
	if env.Recipient < 0 || env.Recipient >= len(r.conns) {
		return nil, fmt.Errorf("transport: no player %d", env.Recipient)
	}
	conn := r.conns[env.Recipient]
	if err := conn.WriteMessage(websocket.TextMessage, body); err != nil {
		return nil, err
	}
	_, reply, err := conn.ReadMessage()
	if err != nil {
		return nil, err
	}
	return reply, nil
}

// Close tears down every player connection.
func (r *WSRouter) Close() {
	for _, conn := range r.conns {
		if conn != nil {
			conn.Close()
		}
	}
}

// Listener is the player side of the wire: it accepts the engine's
// connection and feeds each frame to the handler.
type Listener struct {
	addr    string
	handler Handler
	log     slog.Logger
}

// NewListener creates a listener serving the handler on addr.
func NewListener(addr string, handler Handler, log slog.Logger) *Listener {
	return &Listener{addr: addr, handler: handler, log: log}
}

// ListenAndServe blocks serving the engine connection until it closes.
// A normal close (the engine finished the match) returns nil.
func (l *Listener) ListenAndServe() error {
	upgrader := websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool { return true },
	}
	done := make(chan error, 1)

	mux := http.NewServeMux()
	mux.HandleFunc("/", func(w http.ResponseWriter, req *http.Request) {
		conn, err := upgrader.Upgrade(w, req, nil)
		if err != nil {
			done <- err
			return
		}
		defer conn.Close()
		l.log.Infof("engine connected from %s", req.RemoteAddr)
		done <- l.serveConn(conn)
	})

	srv := &http.Server{Addr: l.addr, Handler: mux}
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			done <- err
		}
	}()

	err := <-done
	srv.Close()
	return err
}

func (l *Listener) serveConn(conn *websocket.Conn) error {
	for {
		_, msg, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsCloseError(err,
				websocket.CloseNormalClosure,
				websocket.CloseGoingAway,
				websocket.CloseAbnormalClosure) {
				return nil
			}
			return err
		}
		reply, err := l.handler(msg)
		if err != nil {
			return err
		}
		if err := conn.WriteMessage(websocket.TextMessage, reply); err != nil {
			return err
		}
	}
}
