package usecase

import (
	"context"

	"chat-group-service/dto/res"
)

// ChatMessageUsecase routes messages through the room directory and keeps a
// durable copy in the metadata store, verifying each write by re-reading it.
type ChatMessageUsecase interface {
	SendMessage(ctx context.Context, chatID, senderID, content string) (*res.MessageResponse, error)
	GetMessage(ctx context.Context, messageID string) (*res.MessageResponse, error)
	EditMessage(ctx context.Context, chatID, messageID, newContent string) (*res.MessageResponse, error)
	DeleteMessage(ctx context.Context, chatID, messageID string) (bool, error)
	ListMessages(ctx context.Context, chatID string, page, limit int) (*res.MessageHistoryResponse, error)
}
