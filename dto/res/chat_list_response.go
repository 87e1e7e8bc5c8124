package res

// ChatListItem hydrates one authoritative room id with metadata. GroupName is
// null when the metadata store has no record for the room; the membership
// fact still wins over the missing cache entry.
type ChatListItem struct {
	ChatID    string  `json:"chatId"`
	GroupName *string `json:"groupName"`
}

type ChatListResponse struct {
	UserID string         `json:"userId"`
	Page   int            `json:"page"`
	Limit  int            `json:"limit"`
	Total  int            `json:"total"`
	Groups []ChatListItem `json:"groups"`
}
