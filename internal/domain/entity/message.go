package entity

import "time"

const (
	MessageTypeText   = "text"
	MessageTypeSystem = "system"

	SystemSenderID = "system"
)

type Message struct {
	ID        string                 `json:"id" firestore:"id"`
	ChatID    string                 `json:"chat_id" firestore:"chatId"`
	SenderID  string                 `json:"sender_id" firestore:"senderId"`
	Content   string                 `json:"content" firestore:"content"`
	Type      string                 `json:"type" firestore:"type"`
	Metadata  map[string]interface{} `json:"metadata,omitempty" firestore:"metadata,omitempty"`
	CreatedAt time.Time              `json:"created_at" firestore:"createdAt"`
}
