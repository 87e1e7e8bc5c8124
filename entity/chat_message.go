package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatMessage is the durable copy of a message that was already delivered
// through the XMPP room. EditedAt is only present after an edit.
type ChatMessage struct {
	ID       primitive.ObjectID `bson:"_id,omitempty" json:"messageId"`
	ChatID   string             `bson:"chat_id" json:"chatId"`
	SenderID string             `bson:"sender_id" json:"senderId"`
	Content  string             `bson:"content" json:"content"`
	SentAt   time.Time          `bson:"sentAt" json:"sentAt"`
	EditedAt *time.Time         `bson:"editedAt,omitempty" json:"editedAt,omitempty"`
}
