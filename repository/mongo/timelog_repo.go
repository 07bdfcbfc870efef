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

type timeLogDocument struct {
	ID        primitive.ObjectID `bson:"_id,omitempty"`
	UserID    primitive.ObjectID `bson:"userId"`
	TaskID    primitive.ObjectID `bson:"taskId"`
	StartTime time.Time          `bson:"startTime"`
	EndTime   *time.Time         `bson:"endTime"`
	Duration  int64              `bson:"duration"`
	CreatedAt time.Time          `bson:"createdAt"`
}

func (d timeLogDocument) toDomain() domain.TimeLog {
	return domain.TimeLog{
		ID:        d.ID.Hex(),
		UserID:    d.UserID.Hex(),
		TaskID:    d.TaskID.Hex(),
		StartTime: d.StartTime,
		EndTime:   d.EndTime,
		Duration:  d.Duration,
		CreatedAt: d.CreatedAt,
	}
}

type timeLogRepository struct {
	collection *mongo.Collection
}

// NewTimeLogRepository returns a MongoDB-backed implementation of TimeLogRepository.
func NewTimeLogRepository(db *mongo.Database) repository.TimeLogRepository {
	return &timeLogRepository{collection: db.Collection(timeLogsCollection)}
}

func (r *timeLogRepository) Create(ctx context.Context, log *domain.TimeLog) (*domain.TimeLog, error) {
	if log == nil {
		return nil, domain.ErrInvalidPayload
	}
	userID, ok := parseID(log.UserID)
	if !ok {
		return nil, domain.ErrUserNotFound
	}
	taskID, ok := parseID(log.TaskID)
	if !ok {
		return nil, domain.ErrTaskNotFound
	}

	var endTime *time.Time
	if log.EndTime != nil {
		end := storedTime(*log.EndTime)
		endTime = &end
	}

	doc := timeLogDocument{
		ID:        primitive.NewObjectID(),
		UserID:    userID,
		TaskID:    taskID,
		StartTime: storedTime(log.StartTime),
		EndTime:   endTime,
		Duration:  log.Duration,
		CreatedAt: now(),
	}
	if _, err := r.collection.InsertOne(ctx, doc); err != nil {
		return nil, err
	}

	created := doc.toDomain()
	return &created, nil
}

func (r *timeLogRepository) FindActiveForUser(ctx context.Context, userID string) (*domain.TimeLog, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"userId": uid, "endTime": nil})
}

func (r *timeLogRepository) FindAllActiveForUser(ctx context.Context, userID string) ([]domain.TimeLog, error) {
	uid, ok := parseID(userID)
	if !ok {
		return []domain.TimeLog{}, nil
	}
	return r.find(ctx, bson.M{"userId": uid, "endTime": nil}, 1)
}

func (r *timeLogRepository) FindActiveForTask(ctx context.Context, userID, taskID string) (*domain.TimeLog, error) {
	uid, ok := parseID(userID)
	if !ok {
		return nil, nil
	}
	tid, ok := parseID(taskID)
	if !ok {
		return nil, nil
	}
	return r.findOne(ctx, bson.M{"userId": uid, "taskId": tid, "endTime": nil})
}

func (r *timeLogRepository) Stop(ctx context.Context, id string, endTime time.Time, duration int64) error {
	oid, ok := parseID(id)
	if !ok {
		return domain.ErrTimeLogNotFound
	}

	res, err := r.collection.UpdateOne(ctx,
		bson.M{"_id": oid},
		bson.M{"$set": bson.M{"endTime": storedTime(endTime), "duration": duration}},
	)
	if err != nil {
		return err
	}
	if res.MatchedCount == 0 {
		return domain.ErrTimeLogNotFound
	}
	return nil
}

func (r *timeLogRepository) ListByTask(ctx context.Context, taskID, userID string) ([]domain.TimeLog, error) {
	filter, ok := ownedTaskFilter(taskID, userID)
	if !ok {
		return []domain.TimeLog{}, nil
	}
	return r.find(ctx, filter, -1)
}

func (r *timeLogRepository) ListByDateRange(ctx context.Context, userID string, start, end time.Time) ([]domain.TimeLog, error) {
	uid, ok := parseID(userID)
	if !ok {
		return []domain.TimeLog{}, nil
	}
	filter := bson.M{
		"userId":    uid,
		"startTime": bson.M{"$gte": start, "$lte": end},
	}
	return r.find(ctx, filter, -1)
}

func (r *timeLogRepository) SumDurationForTask(ctx context.Context, taskID, userID string) (int64, error) {
	match, ok := ownedTaskFilter(taskID, userID)
	if !ok {
		return 0, nil
	}
	match["endTime"] = bson.M{"$ne": nil}

	pipeline := mongo.Pipeline{
		{{Key: "$match", Value: match}},
		{{Key: "$group", Value: bson.D{
			{Key: "_id", Value: nil},
			{Key: "totalDuration", Value: bson.D{{Key: "$sum", Value: "$duration"}}},
		}}},
	}

	cursor, err := r.collection.Aggregate(ctx, pipeline)
	if err != nil {
		return 0, err
	}

	var results []struct {
		TotalDuration int64 `bson:"totalDuration"`
	}
	if err := cursor.All(ctx, &results); err != nil {
		return 0, err
	}
	if len(results) == 0 {
		return 0, nil
	}
	return results[0].TotalDuration, nil
}

// findOne returns the oldest matching log, or nil when there is none.
func (r *timeLogRepository) findOne(ctx context.Context, filter bson.M) (*domain.TimeLog, error) {
	opts := options.FindOne().SetSort(bson.D{{Key: "startTime", Value: 1}})

	var doc timeLogDocument
	if err := r.collection.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		if errors.Is(err, mongo.ErrNoDocuments) {
			return nil, nil
		}
		return nil, err
	}
	log := doc.toDomain()
	return &log, nil
}

func (r *timeLogRepository) find(ctx context.Context, filter bson.M, order int) ([]domain.TimeLog, error) {
	opts := options.Find().SetSort(bson.D{{Key: "startTime", Value: order}})
	cursor, err := r.collection.Find(ctx, filter, opts)
	if err != nil {
		return nil, err
	}

	var docs []timeLogDocument
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}

	logs := make([]domain.TimeLog, 0, len(docs))
	for _, doc := range docs {
		logs = append(logs, doc.toDomain())
	}
	return logs, nil
}

func ownedTaskFilter(taskID, userID string) (bson.M, bool) {
	tid, ok := parseID(taskID)
	if !ok {
		return nil, false
	}
	uid, ok := parseID(userID)
	if !ok {
		return nil, false
	}
	return bson.M{"taskId": tid, "userId": uid}, true
}
