package config

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"chat-group-service/config/common"
)

type DBConfig struct {
	Client   *mongo.Client
	Database *mongo.Database
	Log      *logrus.Logger
}

func NewDB(config *common.Config, log *logrus.Logger) *DBConfig {
	uri, dbName := config.GetMongoConfig()

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	client, err := mongo.Connect(ctx, options.Client().ApplyURI(uri))
	if err != nil {
		panic("failed to connect to mongodb: " + err.Error())
	}
	if err := client.Ping(ctx, nil); err != nil {
		panic("failed to ping mongodb: " + err.Error())
	}

	db := client.Database(dbName)
	ensureIndexes(ctx, db, log)

	log.Infof("Connection opened to database %s", dbName)
	return &DBConfig{Client: client, Database: db, Log: log}
}

func (db *DBConfig) GetDB() *mongo.Database {
	return db.Database
}

func (db *DBConfig) Close(ctx context.Context) error {
	return db.Client.Disconnect(ctx)
}

// ensureIndexes creates the query and sort indexes both collections rely on.
// Index creation is idempotent on the server side.
func ensureIndexes(ctx context.Context, db *mongo.Database, log *logrus.Logger) {
	groupIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "groupName", Value: "text"}}},
		{Keys: bson.D{{Key: "createdAt", Value: -1}}},
		{Keys: bson.D{{Key: "users", Value: 1}}},
	}
	if _, err := db.Collection("chat_groups").Indexes().CreateMany(ctx, groupIndexes); err != nil {
		log.WithError(err).Error("Failed to create chat_groups indexes")
	}

	messageIndexes := []mongo.IndexModel{
		{Keys: bson.D{{Key: "chat_id", Value: 1}}},
		{Keys: bson.D{{Key: "sender_id", Value: 1}}},
		{Keys: bson.D{{Key: "sentAt", Value: -1}}},
	}
	if _, err := db.Collection("chat_messages").Indexes().CreateMany(ctx, messageIndexes); err != nil {
		log.WithError(err).Error("Failed to create chat_messages indexes")
	}
}
