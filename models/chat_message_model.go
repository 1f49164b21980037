package models

import (
	"time"

	"github.com/google/uuid"
)

// ChatMessage content is stored already redacted. Seq is the replay cursor.
type ChatMessage struct {
	Seq        int64     `gorm:"primaryKey;autoIncrement" json:"seq"`
	ID         string    `gorm:"size:64;not null;uniqueIndex:idx_chat_channel_message" json:"id"`
	ChannelKey string    `gorm:"size:255;not null;uniqueIndex:idx_chat_channel_message;index" json:"channel_key"`
	SenderID   uuid.UUID `gorm:"type:uuid;not null" json:"sender_id"`
	Content    string    `gorm:"type:text;not null" json:"content"`
	CreatedAt  time.Time `json:"created_at"`
}
