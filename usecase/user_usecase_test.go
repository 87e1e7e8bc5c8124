package usecase

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"chat-group-service/errors"
)

func newUserFixture() (*UserUsecaseImpl, *fakeGroupRepository, *fakeRoomDirectory) {
	groups := newFakeGroupRepository()
	rooms := newFakeRoomDirectory()
	uc := NewUserUsecase(groups, rooms, testLog())
	return uc, groups, rooms
}

func TestGetChatListPaginatesWithoutOverlap(t *testing.T) {
	ctx := context.Background()
	uc, groups, rooms := newUserFixture()

	for i := 0; i < 10; i++ {
		group, err := groups.CreateGroup(ctx, fmt.Sprintf("Group %02d", i), []string{"alice", "bob"})
		require.NoError(t, err)
		ok, err := rooms.CreateRoom(ctx, group.ID.Hex(), []string{"alice", "bob"})
		require.NoError(t, err)
		require.True(t, ok)
	}

	seen := make(map[string]bool)
	for page := 1; page <= 2; page++ {
		list, err := uc.GetChatList(ctx, "alice", page, 5)
		require.NoError(t, err)
		assert.Equal(t, 10, list.Total)
		require.Len(t, list.Groups, 5)
		for _, item := range list.Groups {
			assert.False(t, seen[item.ChatID], "chat %s returned twice", item.ChatID)
			seen[item.ChatID] = true
			require.NotNil(t, item.GroupName)
		}
	}
	assert.Len(t, seen, 10)

	beyond, err := uc.GetChatList(ctx, "alice", 3, 5)
	require.NoError(t, err)
	assert.Empty(t, beyond.Groups)
	assert.Equal(t, 10, beyond.Total)
}

// A room with no metadata record still appears in the list, as a stub with a
// null name. Room membership is the authority; metadata only decorates it.
func TestGetChatListStubsMissingMetadata(t *testing.T) {
	ctx := context.Background()
	uc, groups, rooms := newUserFixture()

	group, err := groups.CreateGroup(ctx, "Documented", []string{"alice", "bob"})
	require.NoError(t, err)
	ok, err := rooms.CreateRoom(ctx, group.ID.Hex(), []string{"alice", "bob"})
	require.NoError(t, err)
	require.True(t, ok)

	ok, err = rooms.CreateRoom(ctx, "orphan-room", []string{"alice"})
	require.NoError(t, err)
	require.True(t, ok)

	list, err := uc.GetChatList(ctx, "alice", 1, 10)
	require.NoError(t, err)
	assert.Equal(t, 2, list.Total)
	require.Len(t, list.Groups, 2)

	byID := make(map[string]*string)
	for _, item := range list.Groups {
		byID[item.ChatID] = item.GroupName
	}
	require.Contains(t, byID, group.ID.Hex())
	require.NotNil(t, byID[group.ID.Hex()])
	assert.Equal(t, "Documented", *byID[group.ID.Hex()])

	require.Contains(t, byID, "orphan-room")
	assert.Nil(t, byID["orphan-room"])
}

func TestGetChatListEmptyForUnknownUser(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUserFixture()

	list, err := uc.GetChatList(ctx, "nobody", 1, 20)
	require.NoError(t, err)
	assert.Zero(t, list.Total)
	assert.Empty(t, list.Groups)
}

func TestGetChatListValidation(t *testing.T) {
	ctx := context.Background()
	uc, _, _ := newUserFixture()

	_, err := uc.GetChatList(ctx, "", 1, 20)
	assert.True(t, errors.IsValidation(err), "expected validation error, got %v", err)

	_, err = uc.GetChatList(ctx, "alice", 0, 20)
	assert.True(t, errors.IsValidation(err), "expected validation error, got %v", err)

	_, err = uc.GetChatList(ctx, "alice", 1, 0)
	assert.True(t, errors.IsValidation(err), "expected validation error, got %v", err)
}

func TestGetChatListDirectoryFailure(t *testing.T) {
	ctx := context.Background()
	uc, _, rooms := newUserFixture()
	rooms.userRoomsErr = assert.AnError

	_, err := uc.GetChatList(ctx, "alice", 1, 20)
	assert.True(t, errors.IsExternalService(err), "expected external service error, got %v", err)
}
