package repository

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/yukikurage/task-list-api/internal/database"
	"github.com/yukikurage/task-list-api/internal/models"
)

// MongoUserRepository stores users as documents in the users collection.
type MongoUserRepository struct {
	coll *mongo.Collection
}

// NewMongoUserRepository creates a UserRepository backed by MongoDB
func NewMongoUserRepository(db *mongo.Database) UserRepository {
	return &MongoUserRepository{coll: db.Collection(database.UsersCollection)}
}

func (r *MongoUserRepository) Create(ctx context.Context, user *models.User) error {
	now := time.Now().UTC()
	if user.ID == "" {
		user.ID = models.NewID()
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	if _, err := r.coll.InsertOne(ctx, user); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return ErrDuplicate
		}
		return fmt.Errorf("create user: %w", err)
	}
	return nil
}

func (r *MongoUserRepository) FindByID(ctx context.Context, id string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"_id": id})
}

func (r *MongoUserRepository) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	return r.findOne(ctx, bson.M{"email": email})
}

func (r *MongoUserRepository) findOne(ctx context.Context, filter bson.M) (*models.User, error) {
	var user models.User
	if err := r.coll.FindOne(ctx, filter).Decode(&user); err != nil {
		return nil, translateMongoError(err)
	}
	return &user, nil
}

// MongoTaskRepository stores tasks as documents in the tasks collection.
type MongoTaskRepository struct {
	coll *mongo.Collection
}

// NewMongoTaskRepository creates a TaskRepository backed by MongoDB
func NewMongoTaskRepository(db *mongo.Database) TaskRepository {
	return &MongoTaskRepository{coll: db.Collection(database.TasksCollection)}
}

func (r *MongoTaskRepository) Create(ctx context.Context, task *models.Task) error {
	if task.ID == "" {
		task.ID = models.NewID()
	}
	if task.CreatedAt.IsZero() {
		task.CreatedAt = time.Now().UTC()
	}
	task.UpdatedAt = task.CreatedAt

	if _, err := r.coll.InsertOne(ctx, task); err != nil {
		return fmt.Errorf("create task: %w", err)
	}
	return nil
}

func (r *MongoTaskRepository) FindByID(ctx context.Context, id string) (*models.Task, error) {
	var task models.Task
	if err := r.coll.FindOne(ctx, bson.M{"_id": id}).Decode(&task); err != nil {
		return nil, translateMongoError(err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) List(ctx context.Context, filter TaskFilter) ([]models.Task, error) {
	cursor, err := r.coll.Find(ctx, taskQuery(filter), options.Find().SetSort(newestFirst))
	if err != nil {
		return nil, fmt.Errorf("list tasks: %w", err)
	}
	defer cursor.Close(ctx)

	tasks := []models.Task{}
	if err := cursor.All(ctx, &tasks); err != nil {
		return nil, fmt.Errorf("decode tasks: %w", err)
	}
	return tasks, nil
}

func (r *MongoTaskRepository) UpdateOwned(ctx context.Context, id, ownerID string, patch models.TaskPatch) (*models.Task, error) {
	set := bson.M{"updatedAt": time.Now().UTC()}
	if patch.Title != nil {
		set["title"] = *patch.Title
	}
	if patch.Completed != nil {
		set["completed"] = *patch.Completed
	}

	var task models.Task
	err := r.coll.FindOneAndUpdate(ctx,
		bson.M{"_id": id, "owner": ownerID},
		bson.M{"$set": set},
		options.FindOneAndUpdate().SetReturnDocument(options.After),
	).Decode(&task)
	if err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, classifyMiss(ctx, r, id)
		}
		return nil, fmt.Errorf("update task: %w", err)
	}
	return &task, nil
}

func (r *MongoTaskRepository) DeleteOwned(ctx context.Context, id, ownerID string) error {
	res, err := r.coll.DeleteOne(ctx, bson.M{"_id": id, "owner": ownerID})
	if err != nil {
		return fmt.Errorf("delete task: %w", err)
	}
	if res.DeletedCount == 0 {
		return classifyMiss(ctx, r, id)
	}
	return nil
}

// newestFirst sorts tasks by creation time, then by their time-ordered ID.
var newestFirst = bson.D{{Key: "createdAt", Value: -1}, {Key: "_id", Value: -1}}

// taskQuery builds the document filter for List from the closed set of
// supported options. The search term is quoted so it matches literally.
func taskQuery(filter TaskFilter) bson.M {
	query := bson.M{"owner": filter.OwnerID}
	if filter.Search != "" {
		query["title"] = primitive.Regex{Pattern: regexp.QuoteMeta(filter.Search), Options: "i"}
	}
	if filter.Completed != nil {
		query["completed"] = *filter.Completed
	}
	return query
}

func translateMongoError(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return ErrNotFound
	}
	return err
}
