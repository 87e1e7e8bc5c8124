package validation

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"chat-group-service/errors"
)

func TestID(t *testing.T) {
	assert.NoError(t, ID("665f1c2d3a4b5c6d7e8f9a0b"))
	assert.True(t, errors.IsValidation(ID("")))
}

func TestGroupName(t *testing.T) {
	assert.NoError(t, GroupName("Weekend Plans"))
	assert.NoError(t, GroupName(strings.Repeat("a", MaxGroupNameLength)))
	assert.True(t, errors.IsValidation(GroupName("")))
	assert.True(t, errors.IsValidation(GroupName(strings.Repeat("a", MaxGroupNameLength+1))))
}

// The caps count characters, so multibyte names at the limit are legal.
func TestLengthCapsCountRunes(t *testing.T) {
	assert.NoError(t, GroupName(strings.Repeat("ü", MaxGroupNameLength)))
	assert.True(t, errors.IsValidation(GroupName(strings.Repeat("ü", MaxGroupNameLength+1))))

	assert.NoError(t, Users([]string{"alice", strings.Repeat("日", MaxUserIDLength)}))
	assert.True(t, errors.IsValidation(Users([]string{"alice", strings.Repeat("日", MaxUserIDLength+1)})))

	assert.NoError(t, MessageContent(strings.Repeat("é", MaxMessageLength)))
	assert.True(t, errors.IsValidation(MessageContent(strings.Repeat("é", MaxMessageLength+1))))
}

func TestUsers(t *testing.T) {
	assert.NoError(t, Users([]string{"alice", "bob"}))

	assert.True(t, errors.IsValidation(Users(nil)))
	assert.True(t, errors.IsValidation(Users([]string{"alice"})))
	assert.True(t, errors.IsValidation(Users([]string{"alice", ""})))
	assert.True(t, errors.IsValidation(Users([]string{"alice", strings.Repeat("b", MaxUserIDLength+1)})))

	many := make([]string, MaxUsersAllowed+1)
	for i := range many {
		many[i] = "user"
	}
	assert.True(t, errors.IsValidation(Users(many)))
	assert.NoError(t, Users(many[:MaxUsersAllowed]))
}

func TestUserIDs(t *testing.T) {
	// A single-user change is legal, unlike group creation.
	assert.NoError(t, UserIDs([]string{"alice"}))

	assert.True(t, errors.IsValidation(UserIDs(nil)))
	assert.True(t, errors.IsValidation(UserIDs([]string{""})))

	many := make([]string, MaxUsersAllowed+1)
	for i := range many {
		many[i] = "user"
	}
	assert.True(t, errors.IsValidation(UserIDs(many)))
}

func TestMessageContent(t *testing.T) {
	assert.NoError(t, MessageContent("hello"))
	assert.NoError(t, MessageContent(strings.Repeat("a", MaxMessageLength)))

	assert.True(t, errors.IsValidation(MessageContent("")))
	assert.True(t, errors.IsValidation(MessageContent("   \t\n")))
	assert.True(t, errors.IsValidation(MessageContent(strings.Repeat("a", MaxMessageLength+1))))
}

func TestPagination(t *testing.T) {
	assert.NoError(t, Pagination(1, 1))
	assert.NoError(t, Pagination(10, 100))

	assert.True(t, errors.IsValidation(Pagination(0, 20)))
	assert.True(t, errors.IsValidation(Pagination(1, 0)))
	assert.True(t, errors.IsValidation(Pagination(-1, -1)))
}
