package repository

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat-group-service/entity"
	"chat-group-service/errors"
)

// MessageRepository is the metadata-store adapter for durable message copies.
type MessageRepository interface {
	InsertMessage(ctx context.Context, chatID, senderID, content string) (*entity.ChatMessage, error)
	FetchMessage(ctx context.Context, messageID string) (*entity.ChatMessage, error)
	FetchMessages(ctx context.Context, chatID string, offset, limit int64, sortField string, sortOrder int) ([]entity.ChatMessage, int64, error)
	UpdateMessage(ctx context.Context, messageID, content string) (bool, error)
	DeleteMessage(ctx context.Context, messageID string) (bool, error)
}

type messageRepository struct {
	messages *mongo.Collection
	log      *logrus.Logger
}

func NewMessageRepository(db *mongo.Database, log *logrus.Logger) MessageRepository {
	return &messageRepository{messages: db.Collection("chat_messages"), log: log}
}

func (r *messageRepository) InsertMessage(ctx context.Context, chatID, senderID, content string) (*entity.ChatMessage, error) {
	message := &entity.ChatMessage{
		ChatID:   chatID,
		SenderID: senderID,
		Content:  content,
		SentAt:   time.Now().UTC().Truncate(time.Second),
	}

	result, err := r.messages.InsertOne(ctx, message)
	if err != nil {
		return nil, err
	}

	message.ID = result.InsertedID.(primitive.ObjectID)
	r.log.Infof("Inserted message from sender %q into chat %q with ID %s", senderID, chatID, message.ID.Hex())
	return message, nil
}

func (r *messageRepository) FetchMessage(ctx context.Context, messageID string) (*entity.ChatMessage, error) {
	objID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		r.log.Warnf("Invalid ObjectID for message fetch: %s", messageID)
		return nil, nil
	}

	var message entity.ChatMessage
	err = r.messages.FindOne(ctx, bson.M{"_id": objID}).Decode(&message)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &message, nil
}

func (r *messageRepository) FetchMessages(ctx context.Context, chatID string, offset, limit int64, sortField string, sortOrder int) ([]entity.ChatMessage, int64, error) {
	if offset < 0 || limit < 1 {
		return nil, 0, errors.NewValidation("offset must be >= 0 and limit >= 1")
	}
	if sortField == "" {
		sortField = "sentAt"
	}
	if sortOrder != 1 && sortOrder != -1 {
		sortOrder = -1
	}

	filter := bson.M{"chat_id": chatID}
	opts := options.Find().
		SetSort(bson.D{{Key: sortField, Value: sortOrder}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.messages.Find(ctx, filter, opts)
	if err != nil {
		return nil, 0, err
	}
	defer cursor.Close(ctx)

	var messages []entity.ChatMessage
	if err := cursor.All(ctx, &messages); err != nil {
		return nil, 0, err
	}

	total, err := r.messages.CountDocuments(ctx, filter)
	if err != nil {
		return nil, 0, err
	}
	return messages, total, nil
}

// UpdateMessage replaces the content and stamps editedAt. Returns false when
// no document matched.
func (r *messageRepository) UpdateMessage(ctx context.Context, messageID, content string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		r.log.Warnf("Invalid ObjectID for message update: %s", messageID)
		return false, nil
	}

	result, err := r.messages.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{
		"content":  content,
		"editedAt": time.Now().UTC().Truncate(time.Second),
	}})
	if err != nil {
		return false, err
	}
	return result.MatchedCount > 0, nil
}

func (r *messageRepository) DeleteMessage(ctx context.Context, messageID string) (bool, error) {
	objID, err := primitive.ObjectIDFromHex(messageID)
	if err != nil {
		r.log.Warnf("Invalid ObjectID for message deletion: %s", messageID)
		return false, nil
	}

	result, err := r.messages.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return false, err
	}
	return result.DeletedCount > 0, nil
}
