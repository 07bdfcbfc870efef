package mongo

import (
	"context"
	"errors"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"

	"github.com/fastygo/timetracker/domain"
	"github.com/fastygo/timetracker/repository"
)

type taskDocument struct {
	ID          primitive.ObjectID `bson:"_id,omitempty"`
	UserID      primitive.ObjectID `bson:"userId"`
	Title       string             `bson:"title"`
	Description string             `bson:"description"`
	Status      string             `bson:"status"`
	CreatedAt   time.Time          `bson:"createdAt"`
	UpdatedAt   time.Time          `bson:"updatedAt"`
}

func (d taskDocument) toDomain() domain.Task {
	return domain.Task{
		ID:          d.ID.Hex(),
		UserID:      d.UserID.Hex(),
		Title:       d.Title,
		Description: d.Description,
		Status:      domain.TaskStatus(d.Status),
		CreatedAt:   d.CreatedAt,
		UpdatedAt:   d.UpdatedAt,
	}
}

type taskRepository struct {
	collection *mongo.Collection
}

// NewTaskRepository returns a MongoDB-backed implementation of TaskRepository.
func NewTaskRepository(db *mongo.Database) repository.TaskRepository {
	return &taskRepository{collection: db.Collection(tasksCollection)}
}

func (r *taskRepository) Create(ctx context.Context, task *domain.Task) (*domain.Task, error) {
	if task == nil {
		return nil, domain.ErrInvalidPayload
	}
	userID, ok := parseID(task.UserID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	if task.Status == "" {
		task.Status = domain.StatusPending
	}

	ts := now()
	doc := taskDocument{
		ID:          primitive.NewObjectID(),
		UserID:      userID,
		Title:       task.Title,
		Description: task.Description,
		Status:      string(task.Status),
		CreatedAt:   ts,
		UpdatedAt:   ts,
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *taskRepository) List(ctx context.Context, userID string) ([]domain.Task, error) {
	uid, ok := parseID(userID)
	if !ok {
		return []domain.Task{}, nil
	}

	opts := options.Find().SetSort(bson.D{{Key: "createdAt", Value: -1}})
	cursor, err := r.collection.Find(ctx, bson.M{"userId": uid}, opts)
	if err != nil {
		return nil, err
	}

	var docs []taskDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	tasks := make([]domain.Task, 0, len(docs))
	for _, doc := range docs {
		tasks = append(tasks, doc.toDomain())
	}
	return tasks, nil
}

func (r *taskRepository) GetByID(ctx context.Context, id, userID string) (*domain.Task, error) {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	var doc taskDocument
	if err := r.collection.FindOne(ctx, filter).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, domain.ErrTaskNotFound
		}
		return nil, err
	}
	task := doc.toDomain()
	return &task, nil
}

func (r *taskRepository) Update(ctx context.Context, id, userID string, update domain.TaskUpdate) error {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return domain.ErrTaskNotFound
	}

	set := bson.M{"updatedAt": now()}
	if update.Title != nil {
		set["title"] = *update.Title
	}
	if update.Description != nil {
		set["description"] = *update.Description
	}
	if update.Status != nil {
		set["status"] = string(*update.Status)
	}

	res, err := r.collection.UpdateOne(ctx, filter, bson.M{"$set": set})
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

func (r *taskRepository) Delete(ctx context.Context, id, userID string) error {
	filter, ok := ownedFilter(id, userID)
	if !ok {
		return domain.ErrTaskNotFound
	}

	res, err := r.collection.DeleteOne(ctx, filter)
	if err != nil {
		return err
	}
	if res.DeletedCount == 0 {
		return domain.ErrTaskNotFound
	}
	return nil
}

// ownedFilter matches a document by id and owner. Both must parse.
func ownedFilter(id, userID string) (bson.M, bool) {
	oid, ok := parseID(id)
	if !ok {
		return nil, false
	}
	uid, ok := parseID(userID)
	if !ok {
		return nil, false
	}
	return bson.M{"_id": oid, "userId": uid}, true
}
