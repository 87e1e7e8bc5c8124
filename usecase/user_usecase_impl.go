package usecase

import (
	"context"
	"sort"

	"github.com/sirupsen/logrus"

	"chat-group-service/dto/res"
	"chat-group-service/errors"
	"chat-group-service/repository"
	"chat-group-service/validation"
	"chat-group-service/xmpp"
)

type UserUsecaseImpl struct {
	Groups repository.GroupRepository
	Rooms  xmpp.RoomDirectory
	Log    *logrus.Logger
}

func NewUserUsecase(groups repository.GroupRepository, rooms xmpp.RoomDirectory, log *logrus.Logger) *UserUsecaseImpl {
	return &UserUsecaseImpl{Groups: groups, Rooms: rooms, Log: log}
}

// GetChatList paginates the authoritative room-id list first and hydrates the
// page from the metadata store second. A metadata miss yields a stub entry
// with a null name rather than dropping the membership fact.
func (uc *UserUsecaseImpl) GetChatList(ctx context.Context, userID string, page, limit int) (*res.ChatListResponse, error) {
	if err := validation.ID(userID); err != nil {
		return nil, err
	}
	if err := validation.Pagination(page, limit); err != nil {
		return nil, err
	}

	roomIDs, err := uc.Rooms.GetUserRooms(ctx, userID)
	if err != nil {
		return nil, errors.NewExternalService("get user rooms", err)
	}
	// The admin API returns rooms in no particular order; sort for stable
	// pagination.
	sort.Strings(roomIDs)
	total := len(roomIDs)

	offset := (page - 1) * limit
	if offset > total {
		offset = total
	}
	end := offset + limit
	if end > total {
		end = total
	}

	groups := make([]res.ChatListItem, 0, end-offset)
	for _, chatID := range roomIDs[offset:end] {
		item := res.ChatListItem{ChatID: chatID}

		group, err := uc.Groups.GetGroup(ctx, chatID)
		if err != nil {
			return nil, err
		}
		if group != nil {
			name := group.GroupName
			item.GroupName = &name
		} else {
			uc.Log.Warnf("Room %s has no metadata record; returning stub entry", chatID)
		}
		groups = append(groups, item)
	}

	return &res.ChatListResponse{
		UserID: userID,
		Page:   page,
		Limit:  limit,
		Total:  total,
		Groups: groups,
	}, nil
}
