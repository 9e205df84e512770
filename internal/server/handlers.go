package server

import (
	"context"
	"log"
	"net/http"

	"disposechat/internal/metrics"
	"disposechat/internal/session"
	"disposechat/internal/wshub"

	"github.com/coder/websocket"
	"github.com/google/uuid"
)

type Server struct {
	Router        *session.Router
	Hub           *wshub.Hub
	AllowedOrigin string
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	opts := &websocket.AcceptOptions{}
	switch s.AllowedOrigin {
	case "*":
		opts.InsecureSkipVerify = true
	case "":
		// same-origin only
	default:
		opts.OriginPatterns = []string{s.AllowedOrigin}
	}

	conn, err := websocket.Accept(w, r, opts)
	if err != nil {
		log.Printf("[Handle:WS] Accept error: %v\n", err)
		return
	}

	client := &wshub.Client{
		ID:   uuid.New().String(),
		Conn: conn,
		Send: make(chan []byte, 64),
	}
	s.Hub.Register(client)
	metrics.ConnectedClients.Inc()

	ctx, cancel := context.WithCancel(r.Context())
	defer cancel()
	go client.WritePump(ctx)

	for {
		_, data, err := conn.Read(ctx)
		if err != nil {
			break
		}
		s.Router.HandleEvent(client.ID, data)
	}

	// Connection gone, graceful or not: resolve to the leave path before
	// dropping the registration, so no phantom member lingers.
	s.Router.HandleDisconnect(client.ID)
	s.Hub.Unregister(client.ID)
	metrics.ConnectedClients.Dec()
	conn.Close(websocket.StatusNormalClosure, "")
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	if _, err := w.Write([]byte("ok")); err != nil {
		log.Println(err)
	}
}
