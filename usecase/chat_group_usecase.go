package usecase

import (
	"context"

	"chat-group-service/dto/res"
)

// ChatGroupUsecase orchestrates group lifecycle across the metadata store and
// the room directory, with post-write verification reads. Neither error kind
// triggers a retry here; compensation is the caller's business.
type ChatGroupUsecase interface {
	CreateGroup(ctx context.Context, groupName string, users []string) (*res.GroupResponse, error)
	RenameGroup(ctx context.Context, chatID, newName string) (*res.GroupResponse, error)
	DeleteGroup(ctx context.Context, chatID string) (bool, error)
	AddMembers(ctx context.Context, chatID string, userIDs []string, verify bool) ([]string, error)
	RemoveMembers(ctx context.Context, chatID string, userIDs []string, verify bool) ([]string, error)
	GetChatUsers(ctx context.Context, chatID string) ([]string, error)
	GetChatGroupsForUser(ctx context.Context, userID string, page, limit int) ([]res.GroupResponse, error)
}
