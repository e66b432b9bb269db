package scheduler

import (
	"context"
	"time"
)

// Job represents a scheduled job
// ⭐ SSOT: 스케줄 작업 인터페이스는 여기서만 정의
type Job interface {
	// Name returns the job name
	Name() string

	// Run executes the job
	Run(ctx context.Context) error

	// Schedule returns the cron schedule expression (with seconds)
	// Examples: "0 0 9 * * 1" (every Monday at 09:00)
	//           "@weekly", "@daily"
	Schedule() string
}

// JobResult represents the result of a job execution
type JobResult struct {
	JobName   string        `json:"job_name"`
	StartTime time.Time     `json:"start_time"`
	EndTime   time.Time     `json:"end_time"`
	Duration  time.Duration `json:"duration"`
	Success   bool          `json:"success"`
	Error     string        `json:"error,omitempty"`
}

// JobHistory stores job execution history (최근 100건만 유지)
type JobHistory struct {
	Results []JobResult
}

// AddResult adds a job result to history
func (h *JobHistory) AddResult(result JobResult) {
	h.Results = append(h.Results, result)

	if len(h.Results) > 100 {
		h.Results = h.Results[len(h.Results)-100:]
	}
}

// Latest returns the most recent result, or nil when the job has
// never run
func (h *JobHistory) Latest() *JobResult {
	if len(h.Results) == 0 {
		return nil
	}
	return &h.Results[len(h.Results)-1]
}

// SuccessRate returns the success rate (0.0 - 1.0)
func (h *JobHistory) SuccessRate() float64 {
	if len(h.Results) == 0 {
		return 0.0
	}

	success := 0
	for _, result := range h.Results {
		if result.Success {
			success++
		}
	}
	return float64(success) / float64(len(h.Results))
}
