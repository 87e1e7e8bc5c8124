package req

type ChatListRequest struct {
	UserID string `json:"userId" validate:"required"`
	Page   int    `json:"page" validate:"required,min=1"`
	Limit  int    `json:"limit" validate:"required,min=1"`
}

type JoinChatRequest struct {
	ChatID string `json:"chatId" validate:"required"`
}
