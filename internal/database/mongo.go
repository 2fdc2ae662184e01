package database

import (
	"context"
	"fmt"
	"log/slog"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yukikurage/task-list-api/internal/config"
)

// Collection names used by the document store.
const (
	UsersCollection = "users"
	TasksCollection = "tasks"
)

// ConnectMongo connects to MongoDB, verifies the connection and returns the
// configured database.
func ConnectMongo(ctx context.Context, cfg *config.Config, log *slog.Logger) (*mongo.Client, *mongo.Database, error) {
	client, err := mongo.Connect(ctx, options.Client().ApplyURI(cfg.MongoURI))
	if err != nil {
		return nil, nil, fmt.Errorf("failed to connect to mongo: %w", err)
	}
	if err := client.Ping(ctx, nil); err != nil {
		_ = client.Disconnect(ctx)
		return nil, nil, fmt.Errorf("failed to ping mongo: %w", err)
	}

	log.Info("mongo connection established", slog.String("database", cfg.MongoDatabase))
	return client, client.Database(cfg.MongoDatabase), nil
}

// MigrateMongo creates the indexes the repositories rely on.
func MigrateMongo(ctx context.Context, db *mongo.Database) error {
	_, err := db.Collection(UsersCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "email", Value: 1}},
		Options: options.Index().SetUnique(true).SetName("uniq_users_email"),
	})
	if err != nil {
		return fmt.Errorf("failed to create users index: %w", err)
	}

	_, err = db.Collection(TasksCollection).Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys:    bson.D{{Key: "owner", Value: 1}, {Key: "createdAt", Value: -1}},
		Options: options.Index().SetName("idx_tasks_owner_created"),
	})
	if err != nil {
		return fmt.Errorf("failed to create tasks index: %w", err)
	}
	return nil
}
