// Package metrics exposes prometheus collectors for the room engine.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	RoomsCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disposechat_rooms_created_total",
		Help: "Rooms created since process start.",
	})
	RoomsExpired = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disposechat_rooms_expired_total",
		Help: "Rooms destroyed by their expiry countdown.",
	})
	RoomsEmptied = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disposechat_rooms_emptied_total",
		Help: "Rooms destroyed early because the last member left.",
	})
	MessagesSent = promauto.NewCounter(prometheus.CounterOpts{
		Name: "disposechat_messages_sent_total",
		Help: "Chat messages broadcast to rooms.",
	})
	ActiveRooms = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "disposechat_active_rooms",
		Help: "Rooms currently registered.",
	})
	ConnectedClients = promauto.NewGauge(prometheus.GaugeOpts{
		Name: "disposechat_connected_clients",
		Help: "Live WebSocket connections.",
	})
)
