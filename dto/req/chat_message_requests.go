package req

type SendMessageRequest struct {
	ChatID   string `json:"chatId" validate:"required"`
	SenderID string `json:"senderId" validate:"required"`
	Content  string `json:"content" validate:"required"`
}

type EditMessageRequest struct {
	ChatID     string `json:"chatId" validate:"required"`
	MessageID  string `json:"messageId" validate:"required"`
	NewContent string `json:"newContent" validate:"required"`
}

type DeleteMessageRequest struct {
	ChatID    string `json:"chatId" validate:"required"`
	MessageID string `json:"messageId" validate:"required"`
}

type MessageHistoryRequest struct {
	ChatID string `json:"chatId" validate:"required"`
	Page   int    `json:"page" validate:"required,min=1"`
	Limit  int    `json:"limit" validate:"required,min=1"`
}
