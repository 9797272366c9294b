package service

import (
	"context"
	"encoding/base64"
	"errors"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"github.com/microcosm-cc/bluemonday"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/dto"
	"github.com/zukunftsstadt/contest-api/internal/fetcher"
	"github.com/zukunftsstadt/contest-api/internal/models"
	"github.com/zukunftsstadt/contest-api/internal/repository"
	"github.com/zukunftsstadt/contest-api/pkg/ai"
)

var (
	// ErrSessionNotFound indicates the supplied session ID is unknown.
	ErrSessionNotFound = errors.New("session not found")
	// ErrNoImagePending indicates a submit without a held, unsubmitted image.
	ErrNoImagePending = errors.New("no generated image pending submission")
	// ErrAlreadySubmitted indicates a generate on a submitted session; the
	// participant must reset first.
	ErrAlreadySubmitted = errors.New("entry already submitted, reset to start over")
)

// ContestService drives the submission workflow for participant sessions:
// generate and hold an image, then on an explicit submit action judge it and
// persist the finished entry.
type ContestService interface {
	Open(ctx context.Context, sessionID string) (dto.SessionResponse, error)
	Generate(ctx context.Context, sessionID string, req dto.GenerateRequest) (dto.SessionResponse, error)
	Submit(ctx context.Context, sessionID string) (dto.SubmitResponse, error)
	Reset(ctx context.Context, sessionID string) (dto.SessionResponse, error)
}

// ContestTimeouts bounds the remote calls made during the workflow and the
// lifetime of idle sessions.
type ContestTimeouts struct {
	Generation time.Duration
	Fetch      time.Duration
	Judge      time.Duration
	// SessionTTL is how long an idle session is retained before eviction;
	// zero selects the default.
	SessionTTL time.Duration
}

type contestService struct {
	repo        repository.SubmissionRepository
	generator   ai.Generator
	judge       ai.Judge
	fetcher     fetcher.Fetcher
	validate    *validator.Validate
	sanitizer   *bluemonday.Policy
	sessions    *sessionStore
	leaderboard LeaderboardInvalidator
	timeouts    ContestTimeouts
	logger      zerolog.Logger
	now         func() time.Time
}

// NewContestService constructs the workflow service. The leaderboard
// invalidator may be nil when no cached view needs refreshing.
func NewContestService(
	repo repository.SubmissionRepository,
	generator ai.Generator,
	judge ai.Judge,
	imageFetcher fetcher.Fetcher,
	validate *validator.Validate,
	leaderboard LeaderboardInvalidator,
	timeouts ContestTimeouts,
	logger zerolog.Logger,
) ContestService {
	return &contestService{
		repo:        repo,
		generator:   generator,
		judge:       judge,
		fetcher:     imageFetcher,
		validate:    validate,
		sanitizer:   bluemonday.StrictPolicy(),
		sessions:    newSessionStore(timeouts.SessionTTL),
		leaderboard: leaderboard,
		timeouts:    timeouts,
		logger:      logger.With().Str("component", "contest_service").Logger(),
	}
}

// Open returns the session for the given ID, creating a fresh one when the ID
// is empty or unknown.
func (s *contestService) Open(_ context.Context, sessionID string) (dto.SessionResponse, error) {
	session, ok := s.sessions.get(sessionID)
	if !ok {
		session = s.sessions.create()
		s.logger.Debug().Str("session_id", session.ID).Msg("session created")
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	return snapshotLocked(session), nil
}

func (s *contestService) Generate(ctx context.Context, sessionID string, req dto.GenerateRequest) (dto.SessionResponse, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State == StateSubmitted {
		return snapshotLocked(session), ErrAlreadySubmitted
	}

	// Sanitize before validating: a name that is only markup or whitespace
	// must fail the required check, otherwise an empty name reaches the
	// store. Validation failures must not trigger any remote call.
	cleaned := dto.GenerateRequest{
		Name:   strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(req.Name))),
		Prompt: strings.TrimSpace(s.sanitizer.Sanitize(strings.TrimSpace(req.Prompt))),
	}
	if err := s.validate.Struct(cleaned); err != nil {
		return snapshotLocked(session), err
	}

	session.Name = cleaned.Name
	session.Prompt = cleaned.Prompt
	session.State = StateGenerating

	genCtx, cancel := s.bounded(ctx, s.timeouts.Generation)
	ref, err := s.generator.Generate(genCtx, session.Prompt)
	cancel()
	if err != nil {
		// Back to the form with its fields intact so the participant can retry.
		session.State = StateIdle
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("image generation failed")
		return snapshotLocked(session), err
	}

	fetchCtx, cancel := s.bounded(ctx, s.timeouts.Fetch)
	image, err := s.fetcher.Fetch(fetchCtx, ref.URL)
	cancel()
	if err != nil {
		session.State = StateIdle
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("image download failed")
		return snapshotLocked(session), err
	}

	session.ImageURL = ref.URL
	session.ImageBytes = image.Bytes
	session.ImageMIME = image.MIME
	session.Evaluation = nil
	session.Submitted = false
	session.State = StateImageReady

	s.logger.Info().Str("session_id", session.ID).Int("bytes", len(image.Bytes)).Msg("image ready")

	return snapshotLocked(session), nil
}

func (s *contestService) Submit(ctx context.Context, sessionID string) (dto.SubmitResponse, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return dto.SubmitResponse{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	if session.State != StateImageReady || len(session.ImageBytes) == 0 {
		return dto.SubmitResponse{}, ErrNoImagePending
	}

	session.State = StateJudging
	encoded := base64.StdEncoding.EncodeToString(session.ImageBytes)

	judgeCtx, cancel := s.bounded(ctx, s.timeouts.Judge)
	evaluation, err := s.judge.Evaluate(judgeCtx, encoded, session.ImageMIME, session.Prompt)
	cancel()
	if err != nil {
		// The held image survives so submission can be retried without
		// regenerating.
		session.State = StateImageReady
		s.logger.Warn().Err(err).Str("session_id", session.ID).Msg("image evaluation failed")
		return dto.SubmitResponse{}, err
	}

	submission := models.Submission{
		Timestamp:      s.timestamp(),
		Name:           session.Name,
		Prompt:         session.Prompt,
		Image:          encoded,
		Creativity:     evaluation.Creativity,
		ThemeRelevance: evaluation.ThemeRelevance,
		VisionQuality:  evaluation.VisionQuality,
		TotalScore:     evaluation.TotalScore,
		Feedback:       evaluation.Feedback,
	}

	if err := s.repo.Append(ctx, submission); err != nil {
		session.State = StateImageReady
		s.logger.Error().Err(err).Str("session_id", session.ID).Msg("failed to persist submission")
		return dto.SubmitResponse{}, err
	}

	session.Evaluation = &evaluation
	session.Submitted = true
	session.State = StateSubmitted

	// The persisted entry changes the ranking, so cached views must go.
	if s.leaderboard != nil {
		s.leaderboard.Invalidate(ctx)
	}

	s.logger.Info().
		Str("session_id", session.ID).
		Str("name", session.Name).
		Int("total_score", evaluation.TotalScore).
		Msg("submission persisted")

	return dto.SubmitResponse{
		SessionID:  session.ID,
		Timestamp:  submission.Timestamp,
		Name:       submission.Name,
		Prompt:     submission.Prompt,
		Evaluation: evaluationResponse(evaluation),
	}, nil
}

func (s *contestService) Reset(_ context.Context, sessionID string) (dto.SessionResponse, error) {
	session, err := s.lookup(sessionID)
	if err != nil {
		return dto.SessionResponse{}, err
	}

	session.mu.Lock()
	defer session.mu.Unlock()

	session.reset()
	s.logger.Debug().Str("session_id", session.ID).Msg("session reset")

	return snapshotLocked(session), nil
}

func (s *contestService) lookup(sessionID string) (*Session, error) {
	session, ok := s.sessions.get(sessionID)
	if !ok {
		return nil, ErrSessionNotFound
	}
	return session, nil
}

func (s *contestService) bounded(ctx context.Context, timeout time.Duration) (context.Context, context.CancelFunc) {
	if timeout <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, timeout)
}

func (s *contestService) timestamp() string {
	now := time.Now
	if s.now != nil {
		now = s.now
	}
	return now().Format(models.TimestampLayout)
}

func snapshotLocked(session *Session) dto.SessionResponse {
	response := dto.SessionResponse{
		SessionID: session.ID,
		State:     string(session.State),
		Name:      session.Name,
		Prompt:    session.Prompt,
		ImageURL:  session.ImageURL,
		ImageMIME: session.ImageMIME,
		Submitted: session.Submitted,
	}

	if len(session.ImageBytes) > 0 {
		response.ImageBase64 = base64.StdEncoding.EncodeToString(session.ImageBytes)
	}

	if session.Submitted && session.Evaluation != nil {
		evaluation := evaluationResponse(*session.Evaluation)
		response.Evaluation = &evaluation
	}

	return response
}

func evaluationResponse(evaluation ai.Evaluation) dto.EvaluationResponse {
	return dto.EvaluationResponse{
		Creativity:     evaluation.Creativity,
		ThemeRelevance: evaluation.ThemeRelevance,
		VisionQuality:  evaluation.VisionQuality,
		TotalScore:     evaluation.TotalScore,
		Feedback:       evaluation.Feedback,
	}
}
