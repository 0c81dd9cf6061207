package entity

import "time"

type Message struct {
	ID         int64     `json:"id"`
	SenderID   int64     `json:"sender_id"`
	ReceiverID int64     `json:"receiver_id"`
	Content    string    `json:"content"`
	SentAt     time.Time `json:"sent_at"`
}

// MessageView is a message with the sender resolved for display.
type MessageView struct {
	Message
	SenderName     string
	SenderUsername string
}
