// Package api implements the HTTP API for the layout service.
//
// The API exposes synchronous solve and validate endpoints plus an
// asynchronous job interface for long-running solves. Job progress is
// tracked in the job store and optionally streamed over Redis so clients
// can follow a solve live.
package api

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/matzehuels/roomforge/pkg/buildinfo"
	"github.com/matzehuels/roomforge/pkg/errors"
	"github.com/matzehuels/roomforge/pkg/geometry"
	"github.com/matzehuels/roomforge/pkg/layout"
	"github.com/matzehuels/roomforge/pkg/observability"
	"github.com/matzehuels/roomforge/pkg/pipeline"
	"github.com/matzehuels/roomforge/pkg/progress"
)

// jobTimeout bounds how long one asynchronous solve may run, independent of
// the per-request time budget.
const jobTimeout = 5 * time.Minute

// Server is the HTTP API server.
type Server struct {
	runner *pipeline.Runner
	jobs   JobStore
	redis  *redis.Client
	logger *log.Logger
}

// NewServer creates an API server. A nil jobs store falls back to the
// in-memory store; a nil redis client disables progress streaming.
func NewServer(runner *pipeline.Runner, jobs JobStore, redisClient *redis.Client, logger *log.Logger) *Server {
	if jobs == nil {
		jobs = NewMemoryJobStore()
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Server{runner: runner, jobs: jobs, redis: redisClient, logger: logger}
}

// Router builds the HTTP route tree.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(10 * time.Minute))

	r.Get("/health", s.handleHealth)
	r.Route("/v1", func(r chi.Router) {
		r.Post("/layouts/solve", s.handleSolve)
		r.Post("/layouts/validate", s.handleValidate)
		r.Post("/jobs", s.handleCreateJob)
		r.Get("/jobs/{id}", s.handleGetJob)
	})
	return r
}

// Close releases the job store.
func (s *Server) Close(ctx context.Context) error {
	return s.jobs.Close(ctx)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{
		"status":  "ok",
		"version": buildinfo.Version,
	})
}

// handleSolve runs the pipeline synchronously and returns the layouts.
func (s *Server) handleSolve(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}
	opts.Logger = s.logger

	result, err := s.runner.Execute(r.Context(), opts)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// validateRequest is the body of POST /v1/layouts/validate.
type validateRequest struct {
	Room       geometry.Plan      `json:"room"`
	Placements []layout.Placement `json:"placements"`
	Refresh    bool               `json:"refresh,omitempty"`
}

func (s *Server) handleValidate(w http.ResponseWriter, r *http.Request) {
	var req validateRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}

	result, err := s.runner.Validate(r.Context(), req.Room, req.Placements, req.Refresh)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// handleCreateJob accepts a solve request and runs it in the background,
// returning the job id immediately.
func (s *Server) handleCreateJob(w http.ResponseWriter, r *http.Request) {
	var opts pipeline.Options
	if err := json.NewDecoder(r.Body).Decode(&opts); err != nil {
		writeError(w, errors.Wrap(errors.ErrCodeInvalidInput, err, "decoding request body"))
		return
	}

	// Reject malformed requests before queueing: a queued job that can
	// never run is worse than an immediate 400.
	if err := opts.ValidateAndSetDefaults(); err != nil {
		writeError(w, err)
		return
	}

	job := &Job{
		ID:        uuid.NewString(),
		Status:    JobQueued,
		CreatedAt: time.Now().UTC(),
	}
	if err := s.jobs.Create(r.Context(), job); err != nil {
		writeError(w, err)
		return
	}

	go s.runJob(job.ID, opts)

	writeJSON(w, http.StatusAccepted, job)
}

func (s *Server) handleGetJob(w http.ResponseWriter, r *http.Request) {
	job, err := s.jobs.Get(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, job)
}

// runJob executes one queued solve. It owns the job's lifecycle: status
// transitions, progress updates, and the terminal result or error.
func (s *Server) runJob(jobID string, opts pipeline.Options) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	hooks := observability.Job()
	hooks.OnJobStart(ctx, jobID, "solve")
	start := time.Now()

	opts.Logger = s.logger.With("job_id", jobID)
	opts.Progress = s.progressFor(ctx, jobID)

	s.transition(ctx, jobID, func(job *Job) {
		job.Status = JobRunning
	})

	result, err := s.runner.Execute(ctx, opts)
	done := time.Now().UTC()

	s.transition(ctx, jobID, func(job *Job) {
		job.CompletedAt = &done
		if err != nil {
			job.Status = JobFailed
			job.Error = err.Error()
			job.ErrorCode = string(errors.GetCode(err))
			return
		}
		job.Status = JobCompleted
		job.Progress = 1
		job.Result = result
	})
	hooks.OnJobComplete(ctx, jobID, "solve", time.Since(start), err)
}

// progressFor builds the progress publisher for one job: job store updates
// always, Redis streaming when configured.
func (s *Server) progressFor(ctx context.Context, jobID string) progress.Publisher {
	var stream progress.Publisher = progress.Nop{}
	if s.redis != nil {
		stream = progress.NewRedis(s.redis, jobID)
	}
	return publisherFunc(func(pubCtx context.Context, fraction float64, message string) {
		stream.Publish(pubCtx, fraction, message)
		s.transition(ctx, jobID, func(job *Job) {
			job.Progress = fraction
			job.Message = message
		})
	})
}

// transition applies a mutation to the stored job. Store failures are
// logged, not returned: progress bookkeeping must never kill a solve.
func (s *Server) transition(ctx context.Context, jobID string, mutate func(*Job)) {
	job, err := s.jobs.Get(ctx, jobID)
	if err != nil {
		s.logger.Warn("job store read failed", "job_id", jobID, "err", err)
		return
	}
	mutate(job)
	if err := s.jobs.Update(ctx, job); err != nil {
		s.logger.Warn("job store update failed", "job_id", jobID, "err", err)
	}
}

// publisherFunc adapts a function to the progress.Publisher interface.
type publisherFunc func(ctx context.Context, fraction float64, message string)

func (f publisherFunc) Publish(ctx context.Context, fraction float64, message string) {
	f(ctx, fraction, message)
}
