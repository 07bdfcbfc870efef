package domain

// StatusBreakdown counts tasks per status bucket.
type StatusBreakdown map[TaskStatus]int

// NewStatusBreakdown returns a breakdown with every bucket present and zeroed.
func NewStatusBreakdown() StatusBreakdown {
	breakdown := make(StatusBreakdown, len(TaskStatuses))
	for _, status := range TaskStatuses {
		breakdown[status] = 0
	}
	return breakdown
}

// DailySummary is the per-day view of tracked work.
type DailySummary struct {
	Date            string          `json:"date"`
	TasksWorkedOn   []Task          `json:"tasksWorkedOn"`
	TotalTime       int64           `json:"totalTime"`
	StatusBreakdown StatusBreakdown `json:"statusBreakdown"`
	TimeLogs        []TimeLog       `json:"timeLogs"`
	ActiveTimer     *TimeLog        `json:"activeTimer"`
}
