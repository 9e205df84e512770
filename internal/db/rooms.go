package db

import (
	"fmt"
	"time"
)

// RecordRoomCreated inserts the lifecycle row for a freshly created
// room. Codes recycle over time, so rooms are keyed by a surrogate id
// and the live row is the one without a destroyed_at.
func (d *DB) RecordRoomCreated(code string, createdAt time.Time) error {
	_, err := d.conn.Exec(`
		INSERT INTO rooms (code, created_at)
		VALUES ($1, $2)
	`, code, createdAt)
	if err != nil {
		return fmt.Errorf("recording room creation: %w", err)
	}
	return nil
}

// RecordRoomDestroyed closes out the live lifecycle row for code.
// Reason is "expired" or "emptied".
func (d *DB) RecordRoomDestroyed(code, reason string, peakMembers, messageCount int) error {
	_, err := d.conn.Exec(`
		UPDATE rooms
		SET destroyed_at = now(), destroy_reason = $2, peak_members = $3, message_count = $4
		WHERE code = $1 AND destroyed_at IS NULL
	`, code, reason, peakMembers, messageCount)
	if err != nil {
		return fmt.Errorf("recording room destruction: %w", err)
	}
	return nil
}
