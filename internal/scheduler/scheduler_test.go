package scheduler

import (
	"context"
	"testing"
	"time"

	"github.com/wonny/valuesip/pkg/config"
	"github.com/wonny/valuesip/pkg/logger"
)

type stubJob struct {
	name     string
	schedule string
	err      error
	runs     int
}

func (j *stubJob) Name() string                  { return j.name }
func (j *stubJob) Schedule() string              { return j.schedule }
func (j *stubJob) Run(ctx context.Context) error { j.runs++; return j.err }

func testLogger() *logger.Logger {
	return logger.New(&config.Config{LogLevel: "error", LogFormat: "json"})
}

func TestAddJob(t *testing.T) {
	s := New(testLogger())

	job := &stubJob{name: "snapshot", schedule: "0 0 9 * * 1"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	if err := s.AddJob(job); err == nil {
		t.Error("duplicate job name should be rejected")
	}

	if jobs := s.GetAllJobs(); len(jobs) != 1 || jobs[0] != "snapshot" {
		t.Errorf("GetAllJobs = %v", jobs)
	}
}

func TestAddJobBadSchedule(t *testing.T) {
	s := New(testLogger())

	job := &stubJob{name: "broken", schedule: "not a cron spec"}
	if err := s.AddJob(job); err == nil {
		t.Error("invalid cron expression should be rejected")
	}
}

func TestRunJobRecordsHistory(t *testing.T) {
	s := New(testLogger())
	s.retryDelay = time.Millisecond

	job := &stubJob{name: "snapshot", schedule: "@weekly"}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	// runJob을 직접 호출 (RunJob은 고루틴으로 띄우므로 테스트에서 동기 실행)
	s.runJob(job)

	hist, err := s.GetJobHistory("snapshot")
	if err != nil {
		t.Fatalf("GetJobHistory: %v", err)
	}
	last := hist.Latest()
	if last == nil || !last.Success {
		t.Fatalf("expected one successful run, got %+v", last)
	}
	if job.runs != 1 {
		t.Errorf("job ran %d times, want 1 (no retries on success)", job.runs)
	}

	stats := s.GetJobStats()["snapshot"]
	if stats.TotalRuns != 1 || stats.SuccessCount != 1 || stats.SuccessRate != 1.0 {
		t.Errorf("stats = %+v", stats)
	}
	if stats.LastSuccess == nil || stats.LastFailure != nil {
		t.Errorf("stats timestamps wrong: %+v", stats)
	}
}

func TestRunJobRetriesOnFailure(t *testing.T) {
	s := New(testLogger())
	s.retryDelay = time.Millisecond
	s.maxRetries = 2

	job := &stubJob{name: "failing", schedule: "@weekly", err: context.DeadlineExceeded}
	if err := s.AddJob(job); err != nil {
		t.Fatalf("AddJob: %v", err)
	}

	s.runJob(job)

	if job.runs != 3 {
		t.Errorf("job ran %d times, want 3 (initial + 2 retries)", job.runs)
	}

	hist, _ := s.GetJobHistory("failing")
	last := hist.Latest()
	if last == nil || last.Success || last.Error == "" {
		t.Errorf("expected recorded failure, got %+v", last)
	}
}

func TestRunJobUnknown(t *testing.T) {
	s := New(testLogger())
	if err := s.RunJob("nope"); err == nil {
		t.Error("unknown job should error")
	}
}
