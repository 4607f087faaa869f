package server

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/Typographe/internal/config"
	"github.com/FocuswithJustin/Typographe/internal/document"
	"github.com/FocuswithJustin/Typographe/internal/logging"
	"github.com/FocuswithJustin/Typographe/internal/validation"
)

// JobStatus represents the current state of a job.
type JobStatus string

const (
	JobStatusPending   JobStatus = "pending"
	JobStatusRunning   JobStatus = "running"
	JobStatusCompleted JobStatus = "completed"
	JobStatusFailed    JobStatus = "failed"
	JobStatusCancelled JobStatus = "cancelled"
)

// JobRequest is the request body for a directory check job.
type JobRequest struct {
	Root  string            `json:"root"`
	Rules map[string]string `json:"rules,omitempty"`
}

// JobResult summarizes a completed directory check.
type JobResult struct {
	Root     string         `json:"root"`
	Files    int            `json:"files"`
	Findings int            `json:"findings"`
	Changed  int            `json:"changed"` // files a fix pass would modify
	Errors   int            `json:"errors,omitempty"`
	Summary  map[string]int `json:"summary"`
	Duration string         `json:"duration"`
}

// Job represents an asynchronous directory check job.
type Job struct {
	ID          string             `json:"id"`
	Status      JobStatus          `json:"status"`
	Progress    int                `json:"progress"` // 0-100
	Result      *JobResult         `json:"result,omitempty"`
	Error       string             `json:"error,omitempty"`
	CreatedAt   string             `json:"created_at"`
	UpdatedAt   string             `json:"updated_at"`
	CompletedAt string             `json:"completed_at,omitempty"`
	Request     JobRequest         `json:"request"`
	ctx         context.Context    `json:"-"`
	cancel      context.CancelFunc `json:"-"`
}

// JobStore manages check jobs in memory.
type JobStore struct {
	jobs map[string]*Job
	mu   sync.RWMutex
}

// NewJobStore creates a new job store.
func NewJobStore() *JobStore {
	return &JobStore{
		jobs: make(map[string]*Job),
	}
}

var globalJobStore = NewJobStore()

// Create creates a new job and returns its ID.
func (s *JobStore) Create(req JobRequest) *Job {
	s.mu.Lock()
	defer s.mu.Unlock()

	ctx, cancel := context.WithCancel(context.Background())
	now := time.Now().UTC().Format(time.RFC3339)

	job := &Job{
		ID:        uuid.New().String(),
		Status:    JobStatusPending,
		Progress:  0,
		CreatedAt: now,
		UpdatedAt: now,
		Request:   req,
		ctx:       ctx,
		cancel:    cancel,
	}

	s.jobs[job.ID] = job
	return job
}

// Snapshot returns a copy of a job safe to marshal while the runner
// keeps updating the stored one.
func (s *JobStore) Snapshot(id string) (Job, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	job, exists := s.jobs[id]
	if !exists {
		return Job{}, false
	}
	return *job, true
}

// Update updates a job's status and progress.
func (s *JobStore) Update(id string, status JobStatus, progress int, result *JobResult, errMsg string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	job.Status = status
	job.Progress = progress
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)

	if result != nil {
		job.Result = result
	}

	if errMsg != "" {
		job.Error = errMsg
	}

	if status == JobStatusCompleted || status == JobStatusFailed || status == JobStatusCancelled {
		job.CompletedAt = time.Now().UTC().Format(time.RFC3339)
	}

	return nil
}

// Delete removes a job from the store.
func (s *JobStore) Delete(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	// Cancel if still running
	if job.Status == JobStatusRunning || job.Status == JobStatusPending {
		if job.cancel != nil {
			job.cancel()
		}
	}

	delete(s.jobs, id)
	return nil
}

// List returns all jobs.
func (s *JobStore) List() []*Job {
	s.mu.RLock()
	defer s.mu.RUnlock()

	jobs := make([]*Job, 0, len(s.jobs))
	for _, job := range s.jobs {
		jobs = append(jobs, job)
	}
	return jobs
}

// Cancel cancels a running job.
func (s *JobStore) Cancel(id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	job, exists := s.jobs[id]
	if !exists {
		return fmt.Errorf("job not found: %s", id)
	}

	if job.Status != JobStatusPending && job.Status != JobStatusRunning {
		return fmt.Errorf("job cannot be cancelled (status: %s)", job.Status)
	}

	if job.cancel != nil {
		job.cancel()
	}

	job.Status = JobStatusCancelled
	job.UpdatedAt = time.Now().UTC().Format(time.RFC3339)
	job.CompletedAt = time.Now().UTC().Format(time.RFC3339)

	return nil
}

// runJob walks the requested directory in a goroutine, checking every
// known file and broadcasting per-file progress over the hub. Files are
// never rewritten; the result reports what a fix pass would change.
func runJob(job *Job) {
	go func() {
		start := time.Now()
		globalJobStore.Update(job.ID, JobStatusRunning, 0, nil, "")
		logging.JobEvent(job.ID, "running", 0)

		proc, err := requestProcessor(job.Request.Rules)
		if err != nil {
			failJob(job.ID, err)
			return
		}

		files, err := document.ListFiles(job.Request.Root)
		if err != nil {
			failJob(job.ID, err)
			return
		}

		result := &JobResult{
			Root:    job.Request.Root,
			Files:   len(files),
			Summary: make(map[string]int),
		}

		for i, file := range files {
			select {
			case <-job.ctx.Done():
				globalJobStore.Update(job.ID, JobStatusCancelled, job.Progress, nil, "Job cancelled by user")
				logging.JobEvent(job.ID, "cancelled", job.Progress)
				return
			default:
			}

			res, err := proc.ProcessFile(file)
			if err != nil {
				result.Errors++
				logging.Warn("File check failed", "job_id", job.ID, "file", file, "error", err)
				continue
			}

			result.Findings += len(res.Diagnostics)
			if res.Changed {
				result.Changed++
			}
			for _, d := range res.Diagnostics {
				result.Summary[d.Rule]++
			}

			progress := (i + 1) * 100 / len(files)
			globalJobStore.Update(job.ID, JobStatusRunning, progress, nil, "")
			BroadcastJobProgress(job.ID, file, progress, len(res.Diagnostics))
		}

		result.Duration = time.Since(start).Round(time.Millisecond).String()
		globalJobStore.Update(job.ID, JobStatusCompleted, 100, result, "")
		logging.JobEvent(job.ID, "completed", 100)
		BroadcastJobComplete(job.ID, result)
	}()
}

func failJob(id string, err error) {
	globalJobStore.Update(id, JobStatusFailed, 100, nil, err.Error())
	logging.JobEvent(id, "failed", 100)
	BroadcastJobError(id, err.Error())
}

// handleJobs handles POST /v1/jobs - create a directory check job.
func handleJobs(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only POST is allowed")
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, validation.MaxRequestBytes)
	var req JobRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_JSON", "Invalid JSON body")
		return
	}

	if req.Root == "" {
		respondError(w, http.StatusBadRequest, "MISSING_PARAMS", "root is required")
		return
	}
	if err := validation.ValidatePath(req.Root); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_PATH", err.Error())
		return
	}
	if _, err := config.SeverityMap(req.Rules); err != nil {
		respondError(w, http.StatusBadRequest, "INVALID_RULES", err.Error())
		return
	}

	job := globalJobStore.Create(req)
	runJob(job)

	snap, _ := globalJobStore.Snapshot(job.ID)
	respond(w, http.StatusCreated, snap)
}

// handleJobByID handles GET /v1/jobs/{id} - job snapshot and DELETE /v1/jobs/{id} - cancel.
func handleJobByID(w http.ResponseWriter, r *http.Request) {
	id := strings.TrimPrefix(r.URL.Path, "/v1/jobs/")
	if id == "" {
		respondError(w, http.StatusBadRequest, "MISSING_ID", "Job ID is required")
		return
	}

	switch r.Method {
	case http.MethodGet:
		getJobHandler(w, r, id)
	case http.MethodDelete:
		cancelJobHandler(w, r, id)
	default:
		respondError(w, http.StatusMethodNotAllowed, "METHOD_NOT_ALLOWED", "Only GET and DELETE are allowed")
	}
}

// getJobHandler handles GET /v1/jobs/{id}.
func getJobHandler(w http.ResponseWriter, r *http.Request, id string) {
	snap, exists := globalJobStore.Snapshot(id)
	if !exists {
		respondError(w, http.StatusNotFound, "NOT_FOUND", "Job not found")
		return
	}

	respond(w, http.StatusOK, snap)
}

// cancelJobHandler handles DELETE /v1/jobs/{id}.
func cancelJobHandler(w http.ResponseWriter, r *http.Request, id string) {
	if err := globalJobStore.Cancel(id); err != nil {
		if strings.Contains(err.Error(), "not found") {
			respondError(w, http.StatusNotFound, "NOT_FOUND", err.Error())
			return
		}
		respondError(w, http.StatusBadRequest, "CANCEL_FAILED", err.Error())
		return
	}

	respond(w, http.StatusOK, map[string]string{"message": "Job cancelled"})
}
