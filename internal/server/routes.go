package server

import (
	"fmt"
	"log"
	"net/http"
	"time"

	"disposechat/internal/chat"
	"disposechat/internal/config"
	"disposechat/internal/db"
	"disposechat/internal/expiry"
	"disposechat/internal/session"
	"disposechat/internal/wshub"

	"github.com/prometheus/client_golang/prometheus/promhttp"
)

func Run() error {
	cfg := config.Load()

	sched := expiry.NewTimerScheduler()
	store := chat.NewStore(sched, time.Duration(cfg.RoomTTL)*time.Second, cfg.HistoryLimit)
	hub := wshub.NewHub()
	router := session.NewRouter(store, hub)

	srv := &Server{
		Router:        router,
		Hub:           hub,
		AllowedOrigin: cfg.AllowedOrigin,
	}

	// Optional database connection
	if cfg.DatabaseURL != "" {
		database, err := db.Connect(cfg.DatabaseURL)
		if err != nil {
			log.Printf("[DB] Failed to connect: %v (running without database)\n", err)
		} else {
			if err := database.Migrate(); err != nil {
				log.Printf("[DB] Migration failed: %v\n", err)
			}
			router.DB = database
			router.MsgBuffer = make(chan db.MessageEvent, 1000)
			go messageBatchWriter(database, router.MsgBuffer)
			log.Println("[DB] Database connected and migrations applied")
		}
	} else {
		log.Println("[DB] DATABASE_URL not set, running without database")
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/ws", srv.handleWS)
	mux.HandleFunc("/health", srv.handleHealth)
	mux.Handle("/metrics", promhttp.Handler())

	addr := "0.0.0.0:" + cfg.Port
	fmt.Printf("Server listening on http://localhost:%s\n", cfg.Port)
	return http.ListenAndServe(addr, mux)
}

func messageBatchWriter(database *db.DB, buffer chan db.MessageEvent) {
	ticker := time.NewTicker(500 * time.Millisecond)
	defer ticker.Stop()

	batch := make([]db.MessageEvent, 0, 50)

	for {
		select {
		case ev := <-buffer:
			batch = append(batch, ev)
			if len(batch) >= 50 {
				if err := database.BatchRecordMessages(batch); err != nil {
					log.Printf("[DB] BatchRecordMessages error: %v\n", err)
				}
				batch = batch[:0]
			}
		case <-ticker.C:
			if len(batch) > 0 {
				if err := database.BatchRecordMessages(batch); err != nil {
					log.Printf("[DB] BatchRecordMessages error: %v\n", err)
				}
				batch = batch[:0]
			}
		}
	}
}
