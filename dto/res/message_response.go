package res

import "time"

type MessageResponse struct {
	MessageID string     `json:"messageId"`
	ChatID    string     `json:"chatId"`
	SenderID  string     `json:"senderId"`
	Content   string     `json:"content"`
	SentAt    time.Time  `json:"sentAt"`
	EditedAt  *time.Time `json:"editedAt,omitempty"`
}

type MessageHistoryResponse struct {
	ChatID   string            `json:"chatId"`
	Page     int               `json:"page"`
	Limit    int               `json:"limit"`
	Total    int64             `json:"total"`
	Messages []MessageResponse `json:"messages"`
}
