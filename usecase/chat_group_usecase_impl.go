package usecase

import (
	"context"
	"strings"

	"github.com/samber/lo"
	"github.com/sirupsen/logrus"

	"chat-group-service/dto/res"
	"chat-group-service/errors"
	"chat-group-service/repository"
	"chat-group-service/validation"
	"chat-group-service/xmpp"
)

type ChatGroupUsecaseImpl struct {
	Groups    repository.GroupRepository
	Rooms     xmpp.RoomDirectory
	Registrar xmpp.Registrar
	Log       *logrus.Logger
}

func NewChatGroupUsecase(groups repository.GroupRepository, rooms xmpp.RoomDirectory, registrar xmpp.Registrar, log *logrus.Logger) *ChatGroupUsecaseImpl {
	return &ChatGroupUsecaseImpl{Groups: groups, Rooms: rooms, Registrar: registrar, Log: log}
}

// CreateGroup writes the metadata record first and the MUC room second. When
// room creation fails the metadata record is left orphaned on purpose: a
// dangling row is harmless, an untracked live room is a leaked resource.
func (uc *ChatGroupUsecaseImpl) CreateGroup(ctx context.Context, groupName string, users []string) (*res.GroupResponse, error) {
	if err := validation.GroupName(groupName); err != nil {
		return nil, err
	}
	if err := validation.Users(users); err != nil {
		return nil, err
	}

	group, err := uc.Groups.CreateGroup(ctx, groupName, users)
	if err != nil {
		return nil, err
	}
	chatID := group.ID.Hex()

	stored, err := uc.Groups.GetGroup(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.NewConsistency("chat group %s missing immediately after create", chatID)
	}
	if stored.GroupName != groupName {
		return nil, errors.NewConsistency("chat group %s stored name %q does not match %q", chatID, stored.GroupName, groupName)
	}

	if err := uc.Registrar.EnsureUsersRegistered(ctx, users); err != nil {
		return nil, errors.NewExternalService("ensure users registered", err)
	}

	ok, err := uc.Rooms.CreateRoom(ctx, chatID, users)
	if err != nil {
		return nil, errors.NewExternalService("create room", err)
	}
	if !ok {
		uc.Log.Warnf("Room creation rejected for chat %s; metadata record is orphaned", chatID)
		return nil, errors.NewExternalService("create room", nil)
	}

	affiliated, err := uc.Rooms.GetRoomAffiliatedUsers(ctx, chatID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, errors.NewConsistency("room %s missing immediately after create", chatID)
		}
		return nil, errors.NewExternalService("verify room affiliations", err)
	}
	missing, _ := lo.Difference(lo.Uniq(users), affiliated)
	if len(missing) > 0 {
		return nil, errors.NewConsistency("users %s missing from room %s after create", strings.Join(missing, ", "), chatID)
	}

	return &res.GroupResponse{
		ChatID:    chatID,
		GroupName: stored.GroupName,
		Users:     users,
		CreatedAt: stored.CreatedAt,
	}, nil
}

func (uc *ChatGroupUsecaseImpl) RenameGroup(ctx context.Context, chatID, newName string) (*res.GroupResponse, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}
	if err := validation.GroupName(newName); err != nil {
		return nil, err
	}

	if _, err := uc.Groups.UpdateGroupName(ctx, chatID, newName); err != nil {
		return nil, err
	}

	// The update result is deliberately ignored: the re-read is the check.
	group, err := uc.Groups.GetGroup(ctx, chatID)
	if err != nil {
		return nil, err
	}
	if group == nil {
		return nil, errors.NewNotFound("chat group %s not found", chatID)
	}
	if group.GroupName != newName {
		return nil, errors.NewConsistency("chat group %s name not updated to %q", chatID, newName)
	}

	return &res.GroupResponse{
		ChatID:    chatID,
		GroupName: group.GroupName,
		CreatedAt: group.CreatedAt,
	}, nil
}

// DeleteGroup destroys the room before the metadata row, so a crash
// mid-operation leaves a harmless dangling record rather than a live room.
func (uc *ChatGroupUsecaseImpl) DeleteGroup(ctx context.Context, chatID string) (bool, error) {
	if err := validation.ID(chatID); err != nil {
		return false, err
	}

	group, err := uc.Groups.GetGroup(ctx, chatID)
	if err != nil {
		return false, err
	}
	if group == nil {
		return false, errors.NewNotFound("chat group %s not found", chatID)
	}

	ok, err := uc.Rooms.DestroyRoom(ctx, chatID)
	if err != nil {
		return false, errors.NewExternalService("destroy room", err)
	}
	if !ok {
		return false, errors.NewExternalService("destroy room", nil)
	}

	deleted, err := uc.Groups.DeleteGroup(ctx, chatID)
	if err != nil {
		return false, err
	}
	if deleted != 1 {
		return false, errors.NewConsistency("chat group %s: expected 1 deleted record, got %d", chatID, deleted)
	}
	return true, nil
}

func (uc *ChatGroupUsecaseImpl) AddMembers(ctx context.Context, chatID string, userIDs []string, verify bool) ([]string, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}
	if err := validation.UserIDs(userIDs); err != nil {
		return nil, err
	}

	if err := uc.Registrar.EnsureUsersRegistered(ctx, userIDs); err != nil {
		return nil, errors.NewExternalService("ensure users registered", err)
	}
	if err := uc.Rooms.AddUsersToRoom(ctx, chatID, userIDs); err != nil {
		return nil, errors.NewExternalService("add users to room", err)
	}
	if err := uc.Groups.AddMembers(ctx, chatID, userIDs); err != nil {
		return nil, err
	}

	if verify {
		affiliated, err := uc.Rooms.GetRoomAffiliatedUsers(ctx, chatID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, err
			}
			return nil, errors.NewExternalService("verify room affiliations", err)
		}
		missing, _ := lo.Difference(lo.Uniq(userIDs), affiliated)
		if len(missing) > 0 {
			return nil, errors.NewConsistency("users %s not added to room %s", strings.Join(missing, ", "), chatID)
		}
	}
	return userIDs, nil
}

func (uc *ChatGroupUsecaseImpl) RemoveMembers(ctx context.Context, chatID string, userIDs []string, verify bool) ([]string, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}
	if err := validation.UserIDs(userIDs); err != nil {
		return nil, err
	}

	if err := uc.Rooms.RemoveUsersFromRoom(ctx, chatID, userIDs); err != nil {
		return nil, errors.NewExternalService("remove users from room", err)
	}
	if err := uc.Groups.RemoveMembers(ctx, chatID, userIDs); err != nil {
		return nil, err
	}

	if verify {
		affiliated, err := uc.Rooms.GetRoomAffiliatedUsers(ctx, chatID)
		if err != nil {
			if errors.IsNotFound(err) {
				return nil, err
			}
			return nil, errors.NewExternalService("verify room affiliations", err)
		}
		lingering := lo.Intersect(lo.Uniq(userIDs), affiliated)
		if len(lingering) > 0 {
			return nil, errors.NewConsistency("users %s not removed from room %s", strings.Join(lingering, ", "), chatID)
		}
	}
	return userIDs, nil
}

// GetChatUsers reads membership from the room directory only; the metadata
// cache is never consulted.
func (uc *ChatGroupUsecaseImpl) GetChatUsers(ctx context.Context, chatID string) ([]string, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}

	users, err := uc.Rooms.GetRoomAffiliatedUsers(ctx, chatID)
	if err != nil {
		if errors.IsNotFound(err) {
			return nil, err
		}
		return nil, errors.NewExternalService("get room affiliations", err)
	}
	return users, nil
}

// GetChatGroupsForUser lists groups from the metadata member cache, newest
// first. Unlike the chat-list read it never touches the room directory, so it
// can lag behind membership changes.
func (uc *ChatGroupUsecaseImpl) GetChatGroupsForUser(ctx context.Context, userID string, page, limit int) ([]res.GroupResponse, error) {
	if err := validation.ID(userID); err != nil {
		return nil, err
	}
	if err := validation.Pagination(page, limit); err != nil {
		return nil, err
	}

	offset := int64(page-1) * int64(limit)
	groups, err := uc.Groups.ListGroupsForUser(ctx, userID, offset, int64(limit))
	if err != nil {
		return nil, err
	}

	responses := make([]res.GroupResponse, 0, len(groups))
	for _, group := range groups {
		responses = append(responses, res.GroupResponse{
			ChatID:    group.ID.Hex(),
			GroupName: group.GroupName,
			Users:     group.Users,
			CreatedAt: group.CreatedAt,
		})
	}
	return responses, nil
}
