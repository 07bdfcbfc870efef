package domain

import (
	"math"
	"time"
)

// TimeLog is one tracked interval of work on a task. A nil EndTime marks a running timer.
type TimeLog struct {
	ID        string     `json:"id"`
	UserID    string     `json:"userId"`
	TaskID    string     `json:"taskId"`
	StartTime time.Time  `json:"startTime"`
	EndTime   *time.Time `json:"endTime"`
	Duration  int64      `json:"duration"`
	CreatedAt time.Time  `json:"createdAt"`
}

// IsActive reports whether the log has not been stopped yet.
func (l *TimeLog) IsActive() bool {
	return l != nil && l.EndTime == nil
}

// ElapsedSeconds returns floor(now - start) in whole seconds. The result is negative
// when start lies in the future.
func ElapsedSeconds(start, now time.Time) int64 {
	return int64(math.Floor(now.Sub(start).Seconds()))
}
