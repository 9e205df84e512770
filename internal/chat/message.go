package chat

import "time"

// Message is a single chat message, in the shape it takes both on the
// wire and in a room's bounded history. Immutable once created.
type Message struct {
	Username  string `json:"username"`
	Body      string `json:"message"`
	Timestamp int64  `json:"timestamp"` // unix milliseconds
}

func newMessage(username, body string) Message {
	return Message{
		Username:  username,
		Body:      body,
		Timestamp: time.Now().UnixMilli(),
	}
}
