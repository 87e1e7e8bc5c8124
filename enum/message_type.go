package enum

// MessageType is the XMPP stanza type used when sending through the room
// directory. Group chats always use MessageTypeGroupChat.
type MessageType string

const (
	MessageTypeChat      MessageType = "chat"
	MessageTypeGroupChat MessageType = "groupchat"
)
