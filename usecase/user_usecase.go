package usecase

import (
	"context"

	"chat-group-service/dto/res"
)

// UserUsecase answers "which chat groups is this user in": membership comes
// from the room directory (authoritative), names from the metadata store
// (best effort).
type UserUsecase interface {
	GetChatList(ctx context.Context, userID string, page, limit int) (*res.ChatListResponse, error)
}
