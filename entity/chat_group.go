package entity

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

// ChatGroup is the metadata-store record for a group chat. The authoritative
// member list lives in the XMPP room's affiliations; Users is a denormalized
// cache kept for listing and may transiently diverge from the room.
type ChatGroup struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"chatId"`
	GroupName string             `bson:"groupName" json:"groupName"`
	Users     []string           `bson:"users,omitempty" json:"users,omitempty"`
	CreatedAt time.Time          `bson:"createdAt" json:"createdAt"`
}
