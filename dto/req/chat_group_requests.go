package req

type CreateChatGroupRequest struct {
	GroupName string   `json:"groupName" validate:"required"`
	Users     []string `json:"users" validate:"required,min=1,dive,required"`
}

type UpdateChatGroupNameRequest struct {
	ChatID       string `json:"chatId" validate:"required"`
	NewGroupName string `json:"newGroupName" validate:"required"`
}

type DeleteChatGroupRequest struct {
	ChatID string `json:"chatId" validate:"required"`
}

type ChatGroupUsersRequest struct {
	ChatID  string   `json:"chatId" validate:"required"`
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required"`
}

type GetChatUsersRequest struct {
	ChatID string `json:"chatId" validate:"required"`
}
