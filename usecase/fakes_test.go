package usecase

import (
	"context"
	"fmt"
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"

	"chat-group-service/entity"
	"chat-group-service/enum"
	"chat-group-service/errors"
	"chat-group-service/repository"
	"chat-group-service/validation"
	"chat-group-service/xmpp"
)

// In-memory fakes for the two backing stores. Knobs simulate rejections and
// divergence so the verification paths can be exercised.

type fakeGroupRepository struct {
	groups map[string]*entity.ChatGroup
	order  []string

	ignoreRename bool
}

var _ repository.GroupRepository = (*fakeGroupRepository)(nil)

func newFakeGroupRepository() *fakeGroupRepository {
	return &fakeGroupRepository{groups: make(map[string]*entity.ChatGroup)}
}

func (f *fakeGroupRepository) CreateGroup(_ context.Context, name string, users []string) (*entity.ChatGroup, error) {
	group := &entity.ChatGroup{
		ID:        primitive.NewObjectID(),
		GroupName: name,
		Users:     append([]string(nil), users...),
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}
	f.groups[group.ID.Hex()] = group
	f.order = append(f.order, group.ID.Hex())
	return group, nil
}

func (f *fakeGroupRepository) GetGroup(_ context.Context, chatID string) (*entity.ChatGroup, error) {
	group, ok := f.groups[chatID]
	if !ok {
		return nil, nil
	}
	clone := *group
	clone.Users = append([]string(nil), group.Users...)
	return &clone, nil
}

func (f *fakeGroupRepository) UpdateGroupName(_ context.Context, chatID, name string) (int64, error) {
	group, ok := f.groups[chatID]
	if !ok {
		return 0, nil
	}
	if !f.ignoreRename {
		group.GroupName = name
	}
	return 1, nil
}

func (f *fakeGroupRepository) DeleteGroup(_ context.Context, chatID string) (int64, error) {
	if _, ok := f.groups[chatID]; !ok {
		return 0, nil
	}
	delete(f.groups, chatID)
	return 1, nil
}

func (f *fakeGroupRepository) AddMembers(_ context.Context, chatID string, users []string) error {
	group, ok := f.groups[chatID]
	if !ok {
		return nil
	}
	for _, user := range users {
		exists := false
		for _, existing := range group.Users {
			if existing == user {
				exists = true
				break
			}
		}
		if !exists {
			group.Users = append(group.Users, user)
		}
	}
	return nil
}

func (f *fakeGroupRepository) RemoveMembers(_ context.Context, chatID string, users []string) error {
	group, ok := f.groups[chatID]
	if !ok {
		return nil
	}
	kept := group.Users[:0]
	for _, existing := range group.Users {
		remove := false
		for _, user := range users {
			if existing == user {
				remove = true
				break
			}
		}
		if !remove {
			kept = append(kept, existing)
		}
	}
	group.Users = kept
	return nil
}

func (f *fakeGroupRepository) ListGroupsForUser(_ context.Context, userID string, offset, limit int64) ([]entity.ChatGroup, error) {
	if offset < 0 || limit < 1 {
		return nil, errors.NewValidation("offset must be >= 0 and limit >= 1")
	}
	if err := validation.ID(userID); err != nil {
		return nil, err
	}

	var matched []entity.ChatGroup
	for i := len(f.order) - 1; i >= 0; i-- {
		group, ok := f.groups[f.order[i]]
		if !ok {
			continue
		}
		for _, user := range group.Users {
			if user == userID {
				matched = append(matched, *group)
				break
			}
		}
	}

	if offset >= int64(len(matched)) {
		return nil, nil
	}
	end := offset + limit
	if end > int64(len(matched)) {
		end = int64(len(matched))
	}
	return matched[offset:end], nil
}

type fakeMessageRepository struct {
	messages map[string]*entity.ChatMessage
	order    []string

	skipEditedAt bool
}

var _ repository.MessageRepository = (*fakeMessageRepository)(nil)

func newFakeMessageRepository() *fakeMessageRepository {
	return &fakeMessageRepository{messages: make(map[string]*entity.ChatMessage)}
}

func (f *fakeMessageRepository) InsertMessage(_ context.Context, chatID, senderID, content string) (*entity.ChatMessage, error) {
	message := &entity.ChatMessage{
		ID:       primitive.NewObjectID(),
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		SentAt:   time.Now().UTC().Truncate(time.Second),
	}
	f.messages[message.ID.Hex()] = message
	f.order = append(f.order, message.ID.Hex())
	return message, nil
}

func (f *fakeMessageRepository) FetchMessage(_ context.Context, messageID string) (*entity.ChatMessage, error) {
	message, ok := f.messages[messageID]
	if !ok {
		return nil, nil
	}
	clone := *message
	return &clone, nil
}

func (f *fakeMessageRepository) FetchMessages(_ context.Context, chatID string, offset, limit int64, _ string, _ int) ([]entity.ChatMessage, int64, error) {
	if offset < 0 || limit < 1 {
		return nil, 0, errors.NewValidation("offset must be >= 0 and limit >= 1")
	}

	// Newest first, matching the sentAt descending default.
	var matched []entity.ChatMessage
	for i := len(f.order) - 1; i >= 0; i-- {
		message, ok := f.messages[f.order[i]]
		if ok && message.ChatID == chatID {
			matched = append(matched, *message)
		}
	}

	total := int64(len(matched))
	if offset >= total {
		return nil, total, nil
	}
	end := offset + limit
	if end > total {
		end = total
	}
	return matched[offset:end], total, nil
}

func (f *fakeMessageRepository) UpdateMessage(_ context.Context, messageID, content string) (bool, error) {
	message, ok := f.messages[messageID]
	if !ok {
		return false, nil
	}
	message.Content = content
	if !f.skipEditedAt {
		editedAt := time.Now().UTC().Truncate(time.Second)
		message.EditedAt = &editedAt
	}
	return true, nil
}

func (f *fakeMessageRepository) DeleteMessage(_ context.Context, messageID string) (bool, error) {
	if _, ok := f.messages[messageID]; !ok {
		return false, nil
	}
	delete(f.messages, messageID)
	return true, nil
}

type fakeRoomDirectory struct {
	rooms map[string]map[string]enum.Affiliation

	rejectCreate      bool
	createErr         error
	affiliationErr    error
	rejectSend        bool
	sendErr           error
	userRoomsErr      error
	dropUsersOnCreate []string

	sendCalls int
}

var _ xmpp.RoomDirectory = (*fakeRoomDirectory)(nil)

func newFakeRoomDirectory() *fakeRoomDirectory {
	return &fakeRoomDirectory{rooms: make(map[string]map[string]enum.Affiliation)}
}

func (f *fakeRoomDirectory) CreateRoom(_ context.Context, roomID string, users []string) (bool, error) {
	if f.createErr != nil {
		return false, f.createErr
	}
	if f.rejectCreate {
		return false, nil
	}

	room := make(map[string]enum.Affiliation)
	for i, user := range users {
		dropped := false
		for _, drop := range f.dropUsersOnCreate {
			if user == drop {
				dropped = true
				break
			}
		}
		if dropped {
			continue
		}
		if i == 0 {
			room[user] = enum.AffiliationOwner
		} else {
			room[user] = enum.AffiliationMember
		}
	}
	f.rooms[roomID] = room
	return true, nil
}

func (f *fakeRoomDirectory) DestroyRoom(_ context.Context, roomID string) (bool, error) {
	if _, ok := f.rooms[roomID]; !ok {
		return false, nil
	}
	delete(f.rooms, roomID)
	return true, nil
}

func (f *fakeRoomDirectory) SetAffiliation(_ context.Context, roomID, userID string, affiliation enum.Affiliation) (bool, error) {
	if f.affiliationErr != nil {
		return false, f.affiliationErr
	}
	room, ok := f.rooms[roomID]
	if !ok {
		return false, nil
	}
	if affiliation == enum.AffiliationNone {
		delete(room, userID)
	} else {
		room[userID] = affiliation
	}
	return true, nil
}

func (f *fakeRoomDirectory) AddUsersToRoom(ctx context.Context, roomID string, users []string) error {
	for _, user := range users {
		ok, err := f.SetAffiliation(ctx, roomID, user, enum.AffiliationMember)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("affiliation rejected for %s in %s", user, roomID)
		}
	}
	return nil
}

func (f *fakeRoomDirectory) RemoveUsersFromRoom(ctx context.Context, roomID string, users []string) error {
	for _, user := range users {
		ok, err := f.SetAffiliation(ctx, roomID, user, enum.AffiliationNone)
		if err != nil {
			return err
		}
		if !ok {
			return fmt.Errorf("affiliation rejected for %s in %s", user, roomID)
		}
	}
	return nil
}

func (f *fakeRoomDirectory) GetRoomAffiliatedUsers(_ context.Context, roomID string) ([]string, error) {
	room, ok := f.rooms[roomID]
	if !ok {
		return nil, errors.NewNotFound("room %s not found", roomID)
	}
	users := make([]string, 0, len(room))
	for user := range room {
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeRoomDirectory) GetUserRooms(_ context.Context, userID string) ([]string, error) {
	if f.userRoomsErr != nil {
		return nil, f.userRoomsErr
	}
	var roomIDs []string
	for roomID, room := range f.rooms {
		if _, ok := room[userID]; ok {
			roomIDs = append(roomIDs, roomID)
		}
	}
	return roomIDs, nil
}

func (f *fakeRoomDirectory) SendMessage(_ context.Context, _, _ string, _ enum.MessageType, _, _ string) (bool, error) {
	if f.sendErr != nil {
		return false, f.sendErr
	}
	if f.rejectSend {
		return false, nil
	}
	f.sendCalls++
	return true, nil
}

type fakeRegistrar struct {
	registered map[string]bool
	ensureErr  error
}

var _ xmpp.Registrar = (*fakeRegistrar)(nil)

func newFakeRegistrar() *fakeRegistrar {
	return &fakeRegistrar{registered: make(map[string]bool)}
}

func (f *fakeRegistrar) RegisterUser(_ context.Context, userID, _ string) error {
	f.registered[userID] = true
	return nil
}

func (f *fakeRegistrar) UnregisterUser(_ context.Context, userID string) error {
	delete(f.registered, userID)
	return nil
}

func (f *fakeRegistrar) RegisteredUsers(_ context.Context) ([]string, error) {
	users := make([]string, 0, len(f.registered))
	for user := range f.registered {
		users = append(users, user)
	}
	return users, nil
}

func (f *fakeRegistrar) EnsureUsersRegistered(_ context.Context, users []string) error {
	if f.ensureErr != nil {
		return f.ensureErr
	}
	for _, user := range users {
		f.registered[user] = true
	}
	return nil
}
