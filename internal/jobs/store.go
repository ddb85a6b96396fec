// Package jobs tracks the lifecycle of video-processing jobs in memory.
package jobs

import (
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/clipforge/clipforge/internal/types"
)

type State string

const (
	StateQueued      State = "queued"
	StateDownloading State = "downloading"
	StateAnalyzing   State = "analyzing"
	StateProcessing  State = "processing"
	StateCompleted   State = "completed"
	StateFailed      State = "failed"
)

var ErrNotFound = errors.New("job not found")

// Job is one processing request and its observable progress.
type Job struct {
	ID           string           `json:"job_id"`
	Status       State            `json:"status"`
	Progress     int              `json:"progress"`
	Message      string           `json:"message,omitempty"`
	URL          string           `json:"url"`
	ClipDuration int              `json:"duration"`
	ClipCount    int              `json:"clip_count"`
	Clips        []types.ClipInfo `json:"clips,omitempty"`
	Error        string           `json:"error,omitempty"`
	CreatedAt    time.Time        `json:"created_at"`
	CompletedAt  *time.Time       `json:"completed_at,omitempty"`
}

// Store is a concurrency-safe in-memory job registry. Production would
// put this behind Redis; one process is enough here.
type Store struct {
	mu   sync.RWMutex
	jobs map[string]*Job
}

func NewStore() *Store {
	return &Store{jobs: make(map[string]*Job)}
}

// Create registers a new queued job and returns its ID.
func (s *Store) Create(url string, clipDuration, clipCount int) *Job {
	job := &Job{
		ID:           uuid.NewString(),
		Status:       StateQueued,
		Message:      "Job queued for processing",
		URL:          url,
		ClipDuration: clipDuration,
		ClipCount:    clipCount,
		CreatedAt:    time.Now().UTC(),
	}
	s.mu.Lock()
	s.jobs[job.ID] = job
	s.mu.Unlock()
	return job
}

// Get returns a snapshot of the job.
func (s *Store) Get(id string) (Job, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	job, ok := s.jobs[id]
	if !ok {
		return Job{}, ErrNotFound
	}
	return *job, nil
}

// Update applies fn to the job under the store lock.
func (s *Store) Update(id string, fn func(*Job)) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return ErrNotFound
	}
	fn(job)
	return nil
}

// SetProgress moves a job through a pipeline stage.
func (s *Store) SetProgress(id string, state State, progress int, message string) {
	_ = s.Update(id, func(j *Job) {
		j.Status = state
		j.Progress = progress
		j.Message = message
	})
}

// Complete marks a job finished with its exported clips.
func (s *Store) Complete(id string, clips []types.ClipInfo, message string) {
	now := time.Now().UTC()
	_ = s.Update(id, func(j *Job) {
		j.Status = StateCompleted
		j.Progress = 100
		j.Message = message
		j.Clips = clips
		j.CompletedAt = &now
	})
}

// Fail marks a job failed with a human-readable cause.
func (s *Store) Fail(id string, cause string) {
	_ = s.Update(id, func(j *Job) {
		j.Status = StateFailed
		j.Progress = 0
		j.Error = cause
	})
}

// Delete removes a job from the registry.
func (s *Store) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.jobs[id]; !ok {
		return ErrNotFound
	}
	delete(s.jobs, id)
	return nil
}
