package usecase

import (
	"context"

	"github.com/sirupsen/logrus"

	"chat-group-service/dto/res"
	"chat-group-service/entity"
	"chat-group-service/enum"
	"chat-group-service/errors"
	"chat-group-service/repository"
	"chat-group-service/validation"
	"chat-group-service/xmpp"
)

type ChatMessageUsecaseImpl struct {
	Messages repository.MessageRepository
	Rooms    xmpp.RoomDirectory
	Log      *logrus.Logger
}

func NewChatMessageUsecase(messages repository.MessageRepository, rooms xmpp.RoomDirectory, log *logrus.Logger) *ChatMessageUsecaseImpl {
	return &ChatMessageUsecaseImpl{Messages: messages, Rooms: rooms, Log: log}
}

// SendMessage delivers through the room first and stores second. A crash
// between the two can deliver a message that was never recorded, but never
// records one that was never delivered.
func (uc *ChatMessageUsecaseImpl) SendMessage(ctx context.Context, chatID, senderID, content string) (*res.MessageResponse, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}
	if err := validation.ID(senderID); err != nil {
		return nil, err
	}
	if err := validation.MessageContent(content); err != nil {
		return nil, err
	}

	ok, err := uc.Rooms.SendMessage(ctx, senderID, chatID, enum.MessageTypeGroupChat, "", content)
	if err != nil {
		return nil, errors.NewExternalService("send message", err)
	}
	if !ok {
		// Transport rejected the message; no metadata row is written.
		return nil, errors.NewExternalService("send message", nil)
	}

	message, err := uc.Messages.InsertMessage(ctx, chatID, senderID, content)
	if err != nil {
		return nil, err
	}

	stored, err := uc.Messages.FetchMessage(ctx, message.ID.Hex())
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.NewConsistency("message %s missing immediately after insert", message.ID.Hex())
	}
	if stored.ChatID != chatID {
		return nil, errors.NewConsistency("chat ID mismatch in stored message %s", message.ID.Hex())
	}
	if stored.SenderID != senderID {
		return nil, errors.NewConsistency("sender ID mismatch in stored message %s", message.ID.Hex())
	}
	if stored.Content != content {
		return nil, errors.NewConsistency("content mismatch in stored message %s", message.ID.Hex())
	}

	return messageResponse(stored), nil
}

func (uc *ChatMessageUsecaseImpl) GetMessage(ctx context.Context, messageID string) (*res.MessageResponse, error) {
	if err := validation.ID(messageID); err != nil {
		return nil, err
	}

	message, err := uc.Messages.FetchMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if message == nil {
		return nil, errors.NewNotFound("message %s not found", messageID)
	}
	return messageResponse(message), nil
}

func (uc *ChatMessageUsecaseImpl) EditMessage(ctx context.Context, chatID, messageID, newContent string) (*res.MessageResponse, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}
	if err := validation.ID(messageID); err != nil {
		return nil, err
	}
	if err := validation.MessageContent(newContent); err != nil {
		return nil, err
	}

	updated, err := uc.Messages.UpdateMessage(ctx, messageID, newContent)
	if err != nil {
		return nil, err
	}
	if !updated {
		return nil, errors.NewNotFound("message %s not found", messageID)
	}

	stored, err := uc.Messages.FetchMessage(ctx, messageID)
	if err != nil {
		return nil, err
	}
	if stored == nil {
		return nil, errors.NewConsistency("message %s missing after update", messageID)
	}
	if stored.ChatID != chatID {
		return nil, errors.NewConsistency("chat ID mismatch in updated message %s", messageID)
	}
	if stored.Content != newContent {
		return nil, errors.NewConsistency("content mismatch in updated message %s", messageID)
	}
	if stored.EditedAt == nil {
		return nil, errors.NewConsistency("missing editedAt timestamp in updated message %s", messageID)
	}

	return messageResponse(stored), nil
}

// DeleteMessage hard-deletes the durable copy and confirms the record is
// gone. Nothing is retracted from the room; transport history is out of our
// hands.
func (uc *ChatMessageUsecaseImpl) DeleteMessage(ctx context.Context, chatID, messageID string) (bool, error) {
	if err := validation.ID(chatID); err != nil {
		return false, err
	}
	if err := validation.ID(messageID); err != nil {
		return false, err
	}

	deleted, err := uc.Messages.DeleteMessage(ctx, messageID)
	if err != nil {
		return false, err
	}
	if !deleted {
		return false, errors.NewNotFound("message %s not found or already deleted", messageID)
	}

	stored, err := uc.Messages.FetchMessage(ctx, messageID)
	if err != nil {
		return false, err
	}
	if stored != nil {
		return false, errors.NewConsistency("message %s still exists after deletion", messageID)
	}
	return true, nil
}

func (uc *ChatMessageUsecaseImpl) ListMessages(ctx context.Context, chatID string, page, limit int) (*res.MessageHistoryResponse, error) {
	if err := validation.ID(chatID); err != nil {
		return nil, err
	}
	if err := validation.Pagination(page, limit); err != nil {
		return nil, err
	}

	offset := int64(page-1) * int64(limit)
	messages, total, err := uc.Messages.FetchMessages(ctx, chatID, offset, int64(limit), "sentAt", -1)
	if err != nil {
		return nil, err
	}

	responses := make([]res.MessageResponse, 0, len(messages))
	for i := range messages {
		responses = append(responses, *messageResponse(&messages[i]))
	}

	return &res.MessageHistoryResponse{
		ChatID:   chatID,
		Page:     page,
		Limit:    limit,
		Total:    total,
		Messages: responses,
	}, nil
}

func messageResponse(message *entity.ChatMessage) *res.MessageResponse {
	return &res.MessageResponse{
		MessageID: message.ID.Hex(),
		ChatID:    message.ChatID,
		SenderID:  message.SenderID,
		Content:   message.Content,
		SentAt:    message.SentAt,
		EditedAt:  message.EditedAt,
	}
}
