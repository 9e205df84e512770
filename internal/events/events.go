package events

import (
	"encoding/json"
	"log"

	"disposechat/internal/chat"
)

// Event names, matching the reference client protocol.
const (
	TypeCreateRoom = "createRoom"
	TypeJoinRoom   = "joinRoom"
	TypeMessage    = "message"
	TypeLeaveRoom  = "leaveRoom"

	TypeRoomCreated    = "roomCreated"
	TypeMessageHistory = "messageHistory"
	TypeUserJoined     = "userJoined"
	TypeNewMessage     = "newMessage"
	TypeUserLeft       = "userLeft"
	TypeRoomDestroyed  = "roomDestroyed"
	TypeError          = "error"
)

// ClientEvent is the envelope received from clients. Payload stays raw
// until Type is known, then decodes into the matching payload struct.
type ClientEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload"`
}

type CreateRoomPayload struct {
	Username string `json:"username"`
}

type JoinRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

type MessagePayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
	Message  string `json:"message"`
}

type LeaveRoomPayload struct {
	RoomID   string `json:"roomId"`
	Username string `json:"username"`
}

// ServerEvent is the envelope sent to clients.
type ServerEvent struct {
	Type    string `json:"type"`
	Payload any    `json:"payload,omitempty"`
}

type RoomCreatedPayload struct {
	RoomID string `json:"roomId"`
}

// MembersPayload carries the affected username plus the member list
// after the change, for both userJoined and userLeft.
type MembersPayload struct {
	Username string   `json:"username"`
	Members  []string `json:"members"`
}

type ErrorPayload struct {
	Message string `json:"message"`
}

func marshal(typ string, payload any) []byte {
	data, err := json.Marshal(ServerEvent{Type: typ, Payload: payload})
	if err != nil {
		log.Printf("[Events] Marshal error: %v\n", err)
		return nil
	}
	return data
}

func RoomCreated(roomID string) []byte {
	return marshal(TypeRoomCreated, RoomCreatedPayload{RoomID: roomID})
}

func MessageHistory(history []chat.Message) []byte {
	if history == nil {
		history = []chat.Message{}
	}
	return marshal(TypeMessageHistory, history)
}

func UserJoined(username string, members []string) []byte {
	return marshal(TypeUserJoined, MembersPayload{Username: username, Members: members})
}

func NewMessage(msg chat.Message) []byte {
	return marshal(TypeNewMessage, msg)
}

func UserLeft(username string, members []string) []byte {
	return marshal(TypeUserLeft, MembersPayload{Username: username, Members: members})
}

func RoomDestroyed() []byte {
	return marshal(TypeRoomDestroyed, struct{}{})
}

func Error(message string) []byte {
	return marshal(TypeError, ErrorPayload{Message: message})
}
