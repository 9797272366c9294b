package service

import (
	"context"
	"encoding/json"
	"sort"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/dto"
	"github.com/zukunftsstadt/contest-api/internal/models"
	"github.com/zukunftsstadt/contest-api/internal/repository"
)

const (
	leaderboardSize     = 10
	leaderboardCacheKey = "contest:leaderboard:top"
)

// LeaderboardInvalidator drops cached leaderboard state once a new entry has
// been persisted, so fresh submissions are not hidden for a cache TTL.
type LeaderboardInvalidator interface {
	Invalidate(ctx context.Context)
}

// LeaderboardService produces the award ceremony view: the ten best entries
// by total score, ties kept in store order.
type LeaderboardService interface {
	LeaderboardInvalidator
	Top(ctx context.Context) (dto.LeaderboardResponse, error)
}

type leaderboardService struct {
	repo     repository.SubmissionRepository
	cache    *redis.Client
	cacheTTL time.Duration
	logger   zerolog.Logger
}

// NewLeaderboardService constructs the leaderboard service. The cache client
// may be nil, in which case every call reads the record store.
func NewLeaderboardService(repo repository.SubmissionRepository, cache *redis.Client, ttl time.Duration, logger zerolog.Logger) LeaderboardService {
	return &leaderboardService{
		repo:     repo,
		cache:    cache,
		cacheTTL: ttl,
		logger:   logger.With().Str("component", "leaderboard_service").Logger(),
	}
}

func (s *leaderboardService) Top(ctx context.Context) (dto.LeaderboardResponse, error) {
	if s.cache != nil {
		if cached, err := s.cache.Get(ctx, leaderboardCacheKey).Result(); err == nil {
			var response dto.LeaderboardResponse
			if unmarshalErr := json.Unmarshal([]byte(cached), &response); unmarshalErr == nil {
				s.logger.Debug().Msg("leaderboard cache hit")
				return response, nil
			}
		} else if err != redis.Nil {
			s.logger.Warn().Err(err).Msg("failed to read leaderboard cache")
		}
	}

	submissions, err := s.repo.List(ctx)
	if err != nil {
		return dto.LeaderboardResponse{}, err
	}

	response := buildLeaderboard(submissions)

	if s.cache != nil {
		if payload, err := json.Marshal(response); err == nil {
			if err := s.cache.Set(ctx, leaderboardCacheKey, payload, s.cacheTTL).Err(); err != nil {
				s.logger.Warn().Err(err).Msg("failed to store leaderboard cache")
			}
		}
	}

	return response, nil
}

// Invalidate removes the cached ranking. Other processes sharing the cache
// still see stale data for at most the TTL.
func (s *leaderboardService) Invalidate(ctx context.Context) {
	if s.cache == nil {
		return
	}

	if err := s.cache.Del(ctx, leaderboardCacheKey).Err(); err != nil {
		s.logger.Warn().Err(err).Msg("failed to invalidate leaderboard cache")
	}
}

func buildLeaderboard(submissions []models.Submission) dto.LeaderboardResponse {
	ranked := append([]models.Submission(nil), submissions...)

	// Stable sort keeps the original load order for equal totals.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].TotalScore > ranked[j].TotalScore
	})

	if len(ranked) > leaderboardSize {
		ranked = ranked[:leaderboardSize]
	}

	entries := make([]dto.LeaderboardEntryResponse, 0, len(ranked))
	for i, submission := range ranked {
		entries = append(entries, dto.LeaderboardEntryResponse{
			Rank:           i + 1,
			Timestamp:      submission.Timestamp,
			Name:           submission.Name,
			Prompt:         submission.Prompt,
			ImageBase64:    submission.Image,
			Creativity:     submission.Creativity,
			ThemeRelevance: submission.ThemeRelevance,
			VisionQuality:  submission.VisionQuality,
			TotalScore:     submission.TotalScore,
			Feedback:       submission.Feedback,
		})
	}

	return dto.LeaderboardResponse{Entries: entries}
}
