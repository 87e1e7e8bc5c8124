package validation

import (
	"strings"
	"unicode/utf8"

	"chat-group-service/errors"
)

// Length caps count characters, not bytes.
const (
	MaxGroupNameLength = 25
	MinUsersRequired   = 2
	MaxUsersAllowed    = 20
	MaxUserIDLength    = 25
	MaxMessageLength   = 4096
)

// ID checks an opaque identifier (chat id, message id, user id).
func ID(id string) error {
	if id == "" {
		return errors.NewValidation("missing ID field")
	}
	return nil
}

func GroupName(name string) error {
	if name == "" {
		return errors.NewValidation("missing groupName field")
	}
	if utf8.RuneCountInString(name) > MaxGroupNameLength {
		return errors.NewValidation("groupName exceeds %d characters", MaxGroupNameLength)
	}
	return nil
}

func Users(users []string) error {
	if len(users) == 0 {
		return errors.NewValidation("missing users field")
	}
	if len(users) < MinUsersRequired {
		return errors.NewValidation("at least %d users required", MinUsersRequired)
	}
	if len(users) > MaxUsersAllowed {
		return errors.NewValidation("maximum %d users allowed", MaxUsersAllowed)
	}
	for _, user := range users {
		if user == "" {
			return errors.NewValidation("empty user ID")
		}
		if utf8.RuneCountInString(user) > MaxUserIDLength {
			return errors.NewValidation("user ID exceeds %d characters", MaxUserIDLength)
		}
	}
	return nil
}

// UserIDs checks a membership-change list. Unlike Users it has no minimum
// size: removing or adding a single member is legal.
func UserIDs(users []string) error {
	if len(users) == 0 {
		return errors.NewValidation("missing userIds field")
	}
	if len(users) > MaxUsersAllowed {
		return errors.NewValidation("maximum %d users allowed", MaxUsersAllowed)
	}
	for _, user := range users {
		if user == "" {
			return errors.NewValidation("empty user ID")
		}
		if utf8.RuneCountInString(user) > MaxUserIDLength {
			return errors.NewValidation("user ID exceeds %d characters", MaxUserIDLength)
		}
	}
	return nil
}

// MessageContent rejects content that is empty after trimming whitespace.
func MessageContent(content string) error {
	if strings.TrimSpace(content) == "" {
		return errors.NewValidation("missing content field")
	}
	if utf8.RuneCountInString(content) > MaxMessageLength {
		return errors.NewValidation("message content exceeds %d characters", MaxMessageLength)
	}
	return nil
}

func Pagination(page, limit int) error {
	if page < 1 || limit < 1 {
		return errors.NewValidation("page and limit must be greater than zero")
	}
	return nil
}
