package db

import (
	"fmt"
	"time"
)

// MessageEvent is the analytics record for one sent message. Bodies are
// never stored.
type MessageEvent struct {
	RoomCode string
	Username string
	SentAt   time.Time
}

func (d *DB) RecordMessage(ev MessageEvent) error {
	_, err := d.conn.Exec(`
		INSERT INTO room_messages (room_code, username, sent_at)
		VALUES ($1, $2, $3)
	`, ev.RoomCode, ev.Username, ev.SentAt)
	if err != nil {
		return fmt.Errorf("recording message: %w", err)
	}
	return nil
}

func (d *DB) BatchRecordMessages(events []MessageEvent) error {
	tx, err := d.conn.Begin()
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.Prepare(`
		INSERT INTO room_messages (room_code, username, sent_at)
		VALUES ($1, $2, $3)
	`)
	if err != nil {
		return fmt.Errorf("preparing statement: %w", err)
	}
	defer stmt.Close()

	for _, ev := range events {
		if _, err := stmt.Exec(ev.RoomCode, ev.Username, ev.SentAt); err != nil {
			return fmt.Errorf("recording message in batch: %w", err)
		}
	}

	return tx.Commit()
}
