package mongo

import (
	"context"
	"errors"
	"testing"
	"time"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
	"go.mongodb.org/mongo-driver/mongo/integration/mtest"

	"github.com/fastygo/timetracker/domain"
)

func TestUserRepositoryCreate(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	user := &domain.User{Email: "ana@example.com", Name: "Ana", PasswordHash: "$2a$10$hash"}

	mt.Run("stores the hash under password", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateSuccessResponse())

		created, err := repo.Create(ctx, user)
		if err != nil {
			mt.Fatalf("create: %v", err)
		}
		if created.ID == "" || created.Email != user.Email {
			mt.Fatalf("unexpected user %+v", created)
		}
		doc := lastCommand(mt).Documents[0]
		if doc["password"] != user.PasswordHash || doc["email"] != user.Email {
			mt.Fatalf("unexpected document %v", doc)
		}
	})

	mt.Run("duplicate email is a conflict", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateWriteErrorsResponse(mtest.WriteError{
			Index:   0,
			Code:    11000,
			Message: "E11000 duplicate key error collection: timetracker.users index: email_1",
		}))

		_, err := repo.Create(ctx, user)
		if !errors.Is(err, domain.ErrUserExists) {
			mt.Fatalf("got %v, want ErrUserExists", err)
		}
		if !domain.IsDomainError(err, domain.ErrCodeConflict) {
			mt.Fatalf("expected a conflict, got %v", err)
		}
	})
}

func TestUserRepositoryLookups(t *testing.T) {
	mt := newMockT(t)
	ctx := context.Background()
	id := primitive.NewObjectID()

	mt.Run("by email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "timetracker.users", mtest.FirstBatch, bson.D{
			{Key: "_id", Value: id},
			{Key: "email", Value: "ana@example.com"},
			{Key: "password", Value: "$2a$10$hash"},
			{Key: "name", Value: "Ana"},
			{Key: "createdAt", Value: time.Date(2024, 3, 10, 9, 0, 0, 0, time.UTC)},
		}))

		user, err := repo.GetByEmail(ctx, "ana@example.com")
		if err != nil {
			mt.Fatalf("get: %v", err)
		}
		if user.ID != id.Hex() || user.PasswordHash != "$2a$10$hash" {
			mt.Fatalf("unexpected user %+v", user)
		}
		if filter := lastCommand(mt).Filter; filter["email"] != "ana@example.com" {
			mt.Fatalf("filter = %v", filter)
		}
	})

	mt.Run("unknown email", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		mt.AddMockResponses(mtest.CreateCursorResponse(0, "timetracker.users", mtest.FirstBatch))
		if _, err := repo.GetByEmail(ctx, "bob@example.com"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("got %v, want ErrUserNotFound", err)
		}
	})

	mt.Run("malformed id", func(mt *mtest.T) {
		repo := NewUserRepository(mt.DB)
		if _, err := repo.GetByID(ctx, "not-an-id"); !errors.Is(err, domain.ErrUserNotFound) {
			mt.Fatalf("got %v, want ErrUserNotFound", err)
		}
		if evt := mt.GetStartedEvent(); evt != nil {
			mt.Fatalf("unexpected %s command", evt.CommandName)
		}
	})
}
