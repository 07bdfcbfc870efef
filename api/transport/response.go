package transport

import "github.com/fastygo/timetracker/domain"

// ErrorResponse is the body of every non-2xx answer.
type ErrorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code,omitempty"`
}

// NewError returns an error body.
func NewError(code string, message string) ErrorResponse {
	return ErrorResponse{Error: message, Code: code}
}

type MessageResponse struct {
	Message string `json:"message"`
}

type UserResponse struct {
	User domain.PublicUser `json:"user"`
}

type TaskResponse struct {
	Task *domain.Task `json:"task"`
}

type TasksResponse struct {
	Tasks []domain.Task `json:"tasks"`
}

type TimeLogResponse struct {
	TimeLog *domain.TimeLog `json:"timeLog"`
}

type TimeLogsResponse struct {
	TimeLogs  []domain.TimeLog `json:"timeLogs"`
	TotalTime int64            `json:"totalTime"`
}

type ActiveTimerResponse struct {
	ActiveTimer  *domain.TimeLog  `json:"activeTimer"`
	ActiveTimers []domain.TimeLog `json:"activeTimers"`
}

type TimerStopResponse struct {
	Message  string         `json:"message"`
	Duration int64          `json:"duration"`
	TimeLog  domain.TimeLog `json:"timeLog"`
}

type HealthResponse struct {
	Status    string          `json:"status"`
	Services  map[string]bool `json:"services"`
	LastCheck string          `json:"lastCheck,omitempty"`
}
