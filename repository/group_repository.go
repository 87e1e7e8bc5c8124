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
	"chat-group-service/validation"
)

// GroupRepository is the metadata-store adapter for chat group records.
// The Users field it maintains is a cache of the room's affiliations, never
// the authoritative membership.
type GroupRepository interface {
	CreateGroup(ctx context.Context, name string, users []string) (*entity.ChatGroup, error)
	GetGroup(ctx context.Context, chatID string) (*entity.ChatGroup, error)
	UpdateGroupName(ctx context.Context, chatID, name string) (int64, error)
	DeleteGroup(ctx context.Context, chatID string) (int64, error)
	AddMembers(ctx context.Context, chatID string, users []string) error
	RemoveMembers(ctx context.Context, chatID string, users []string) error
	ListGroupsForUser(ctx context.Context, userID string, offset, limit int64) ([]entity.ChatGroup, error)
}

type groupRepository struct {
	groups *mongo.Collection
	log    *logrus.Logger
}

func NewGroupRepository(db *mongo.Database, log *logrus.Logger) GroupRepository {
	return &groupRepository{groups: db.Collection("chat_groups"), log: log}
}

func (r *groupRepository) CreateGroup(ctx context.Context, name string, users []string) (*entity.ChatGroup, error) {
	group := &entity.ChatGroup{
		GroupName: name,
		Users:     users,
		CreatedAt: time.Now().UTC().Truncate(time.Second),
	}

	result, err := r.groups.InsertOne(ctx, group)
	if err != nil {
		return nil, err
	}

	group.ID = result.InsertedID.(primitive.ObjectID)
	r.log.Infof("Created chat group %q with ID %s", name, group.ID.Hex())
	return group, nil
}

func (r *groupRepository) GetGroup(ctx context.Context, chatID string) (*entity.ChatGroup, error) {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		r.log.Warnf("Invalid ObjectID: %s", chatID)
		return nil, nil
	}

	var group entity.ChatGroup
	err = r.groups.FindOne(ctx, bson.M{"_id": objID}).Decode(&group)
	if err == mongo.ErrNoDocuments {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &group, nil
}

func (r *groupRepository) UpdateGroupName(ctx context.Context, chatID, name string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		r.log.Warnf("Invalid ObjectID for update: %s", chatID)
		return 0, nil
	}

	result, err := r.groups.UpdateOne(ctx, bson.M{"_id": objID}, bson.M{"$set": bson.M{"groupName": name}})
	if err != nil {
		return 0, err
	}
	return result.MatchedCount, nil
}

func (r *groupRepository) DeleteGroup(ctx context.Context, chatID string) (int64, error) {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		r.log.Warnf("Invalid ObjectID for deletion: %s", chatID)
		return 0, nil
	}

	result, err := r.groups.DeleteOne(ctx, bson.M{"_id": objID})
	if err != nil {
		return 0, err
	}
	return result.DeletedCount, nil
}

// AddMembers unions users into the cached member list. Adding an existing
// member is a no-op.
func (r *groupRepository) AddMembers(ctx context.Context, chatID string, users []string) error {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil
	}

	_, err = r.groups.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$addToSet": bson.M{"users": bson.M{"$each": users}}})
	return err
}

// RemoveMembers subtracts users from the cached member list. Removing an
// absent member is a no-op.
func (r *groupRepository) RemoveMembers(ctx context.Context, chatID string, users []string) error {
	objID, err := primitive.ObjectIDFromHex(chatID)
	if err != nil {
		return nil
	}

	_, err = r.groups.UpdateOne(ctx, bson.M{"_id": objID},
		bson.M{"$pull": bson.M{"users": bson.M{"$in": users}}})
	return err
}

func (r *groupRepository) ListGroupsForUser(ctx context.Context, userID string, offset, limit int64) ([]entity.ChatGroup, error) {
	if offset < 0 || limit < 1 {
		return nil, errors.NewValidation("offset must be >= 0 and limit >= 1")
	}
	if err := validation.ID(userID); err != nil {
		return nil, err
	}

	opts := options.Find().
		SetSort(bson.D{{Key: "createdAt", Value: -1}}).
		SetSkip(offset).
		SetLimit(limit)

	cursor, err := r.groups.Find(ctx, bson.M{"users": userID}, opts)
	if err != nil {
		return nil, err
	}
	defer cursor.Close(ctx)

	var groups []entity.ChatGroup
	if err := cursor.All(ctx, &groups); err != nil {
		return nil, err
	}
	return groups, nil
}
