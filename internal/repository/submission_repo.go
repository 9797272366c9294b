package repository

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"github.com/gocarina/gocsv"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/models"
)

// PersistenceError wraps a failed write to the backing file. Reads fail soft
// and never produce it.
type PersistenceError struct {
	Op  string
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("record store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error {
	return e.Err
}

// SubmissionRepository is the flat-file record store for contest entries.
type SubmissionRepository interface {
	List(ctx context.Context) ([]models.Submission, error)
	SaveAll(ctx context.Context, submissions []models.Submission) error
	Append(ctx context.Context, submission models.Submission) error
}

// csvSubmissionRepository persists submissions as CSV rows with a fixed
// header. All access is serialized behind a mutex so concurrent sessions in
// this process cannot lose each other's appends; the load-rewrite cycle is
// still racy across processes (no file lock), matching the original store.
type csvSubmissionRepository struct {
	path   string
	mu     sync.Mutex
	logger zerolog.Logger
}

// NewCSVSubmissionRepository constructs a repository backed by the CSV file
// at path. The file is created on first save.
func NewCSVSubmissionRepository(path string, logger zerolog.Logger) SubmissionRepository {
	return &csvSubmissionRepository{
		path:   path,
		logger: logger.With().Str("component", "submission_repository").Logger(),
	}
}

func (r *csvSubmissionRepository) List(_ context.Context) ([]models.Submission, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.loadLocked(), nil
}

func (r *csvSubmissionRepository) SaveAll(_ context.Context, submissions []models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	return r.saveLocked(submissions)
}

func (r *csvSubmissionRepository) Append(_ context.Context, submission models.Submission) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	submissions := r.loadLocked()
	submissions = append(submissions, submission)

	return r.saveLocked(submissions)
}

// loadLocked reads the full collection in file order. Any read error degrades
// to an empty collection so the contest keeps running on a damaged store.
func (r *csvSubmissionRepository) loadLocked() []models.Submission {
	file, err := os.Open(r.path)
	if err != nil {
		if !errors.Is(err, fs.ErrNotExist) {
			r.logger.Error().Err(err).Str("path", r.path).Msg("failed to open record store")
		}
		return []models.Submission{}
	}
	defer file.Close()

	var submissions []models.Submission
	if err := gocsv.UnmarshalFile(file, &submissions); err != nil {
		if !errors.Is(err, gocsv.ErrEmptyCSVFile) {
			r.logger.Error().Err(err).Str("path", r.path).Msg("failed to read record store")
		}
		return []models.Submission{}
	}

	if submissions == nil {
		submissions = []models.Submission{}
	}

	return submissions
}

func (r *csvSubmissionRepository) saveLocked(submissions []models.Submission) error {
	if dir := filepath.Dir(r.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return &PersistenceError{Op: "save", Err: err}
		}
	}

	file, err := os.Create(r.path)
	if err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	if err := gocsv.MarshalFile(&submissions, file); err != nil {
		file.Close()
		return &PersistenceError{Op: "save", Err: err}
	}

	if err := file.Close(); err != nil {
		return &PersistenceError{Op: "save", Err: err}
	}

	return nil
}
