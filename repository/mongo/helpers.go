package mongo

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

const (
	usersCollection    = "users"
	tasksCollection    = "tasks"
	timeLogsCollection = "timelogs"
)

// parseID converts a hex identifier. Malformed ids are reported as not ok so callers can
// answer exactly as they would for a missing document.
func parseID(id string) (primitive.ObjectID, bool) {
	oid, err := primitive.ObjectIDFromHex(id)
	if err != nil {
		return primitive.NilObjectID, false
	}
	return oid, true
}

func now() time.Time {
	return storedTime(time.Now())
}

// storedTime truncates to the millisecond precision BSON dates keep.
func storedTime(t time.Time) time.Time {
	return t.UTC().Truncate(time.Millisecond)
}
