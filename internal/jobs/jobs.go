// Package jobs tracks background sync jobs triggered over the admin
// API. The registry is in-memory: job history lives for the life of
// the process, while the durable audit trail is the job log.
package jobs

import (
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
)

// Status is the lifecycle state of a job.
type Status string

const (
	StatusRunning   Status = "running"
	StatusCompleted Status = "completed"
	StatusFailed    Status = "failed"
)

// Job records one sync run.
type Job struct {
	ID         string     `json:"id"`
	Kind       string     `json:"kind"`
	Status     Status     `json:"status"`
	Processed  int        `json:"processed"`
	Error      string     `json:"error,omitempty"`
	StartedAt  time.Time  `json:"started_at"`
	FinishedAt *time.Time `json:"finished_at,omitempty"`
}

// Registry is a concurrency-safe job table. At most one job of a
// given kind may be running at a time; two syncs of the same dataset
// must never overlap.
type Registry struct {
	mu   sync.Mutex
	jobs map[string]*Job
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{jobs: make(map[string]*Job)}
}

// Start registers a new running job of the given kind. It fails when
// a job of the same kind is still running.
func (r *Registry) Start(kind string) (*Job, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, j := range r.jobs {
		if j.Kind == kind && j.Status == StatusRunning {
			return nil, eris.Errorf("jobs: a %s job is already running (%s)", kind, j.ID)
		}
	}

	job := &Job{
		ID:        uuid.NewString(),
		Kind:      kind,
		Status:    StatusRunning,
		StartedAt: time.Now().UTC(),
	}
	r.jobs[job.ID] = job
	return copyJob(job), nil
}

// Complete marks a job as finished with the number of units processed.
func (r *Registry) Complete(id string, processed int) {
	r.finish(id, StatusCompleted, processed, "")
}

// Fail marks a job as failed.
func (r *Registry) Fail(id string, err error) {
	msg := ""
	if err != nil {
		msg = err.Error()
	}
	r.finish(id, StatusFailed, 0, msg)
}

func (r *Registry) finish(id string, status Status, processed int, errMsg string) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok || job.Status != StatusRunning {
		return
	}
	now := time.Now().UTC()
	job.Status = status
	job.Processed = processed
	job.Error = errMsg
	job.FinishedAt = &now
}

// Get returns a snapshot of one job.
func (r *Registry) Get(id string) (*Job, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	job, ok := r.jobs[id]
	if !ok {
		return nil, false
	}
	return copyJob(job), true
}

// List returns snapshots of all jobs, newest first.
func (r *Registry) List() []*Job {
	r.mu.Lock()
	defer r.mu.Unlock()

	out := make([]*Job, 0, len(r.jobs))
	for _, j := range r.jobs {
		out = append(out, copyJob(j))
	}
	sort.Slice(out, func(i, j int) bool {
		if !out[i].StartedAt.Equal(out[j].StartedAt) {
			return out[i].StartedAt.After(out[j].StartedAt)
		}
		return out[i].ID < out[j].ID
	})
	return out
}

func copyJob(j *Job) *Job {
	cp := *j
	if j.FinishedAt != nil {
		t := *j.FinishedAt
		cp.FinishedAt = &t
	}
	return &cp
}
