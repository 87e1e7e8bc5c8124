package res

import "time"

type GroupResponse struct {
	ChatID    string    `json:"chatId"`
	GroupName string    `json:"groupName"`
	Users     []string  `json:"users,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}
