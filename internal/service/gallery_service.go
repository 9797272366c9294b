package service

import (
	"context"
	"math"
	"sort"

	"github.com/rs/zerolog"

	"github.com/zukunftsstadt/contest-api/internal/dto"
	"github.com/zukunftsstadt/contest-api/internal/models"
	"github.com/zukunftsstadt/contest-api/internal/repository"
)

const (
	galleryRowSize        = 3
	galleryDefaultPerPage = 4
	galleryMaxPerPage     = 20
)

// GalleryService produces the gallery view: all entries newest first,
// arranged into grid rows of three.
type GalleryService interface {
	Page(ctx context.Context, page, rowsPerPage int) (dto.GalleryPageResponse, error)
}

type galleryService struct {
	repo   repository.SubmissionRepository
	logger zerolog.Logger
}

// NewGalleryService constructs the gallery service.
func NewGalleryService(repo repository.SubmissionRepository, logger zerolog.Logger) GalleryService {
	return &galleryService{
		repo:   repo,
		logger: logger.With().Str("component", "gallery_service").Logger(),
	}
}

func (s *galleryService) Page(ctx context.Context, page, rowsPerPage int) (dto.GalleryPageResponse, error) {
	if page <= 0 {
		page = 1
	}
	if rowsPerPage <= 0 {
		rowsPerPage = galleryDefaultPerPage
	}
	if rowsPerPage > galleryMaxPerPage {
		rowsPerPage = galleryMaxPerPage
	}

	submissions, err := s.repo.List(ctx)
	if err != nil {
		return dto.GalleryPageResponse{}, err
	}

	sorted := append([]models.Submission(nil), submissions...)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time().After(sorted[j].Time())
	})

	rows := buildGalleryRows(sorted)
	totalRows := len(rows)
	totalPages := 1
	if totalRows > 0 {
		totalPages = int(math.Ceil(float64(totalRows) / float64(rowsPerPage)))
	}

	start := (page - 1) * rowsPerPage
	if start > totalRows {
		start = totalRows
	}
	end := start + rowsPerPage
	if end > totalRows {
		end = totalRows
	}

	return dto.GalleryPageResponse{
		Rows: rows[start:end],
		Pagination: dto.PaginationMeta{
			Page:         page,
			PageSize:     rowsPerPage,
			TotalRows:    totalRows,
			TotalEntries: len(sorted),
			TotalPages:   totalPages,
		},
	}, nil
}

func buildGalleryRows(submissions []models.Submission) []dto.GalleryRowResponse {
	rows := make([]dto.GalleryRowResponse, 0, (len(submissions)+galleryRowSize-1)/galleryRowSize)

	for start := 0; start < len(submissions); start += galleryRowSize {
		end := start + galleryRowSize
		if end > len(submissions) {
			end = len(submissions)
		}

		entries := make([]dto.GalleryEntryResponse, 0, end-start)
		for _, submission := range submissions[start:end] {
			entries = append(entries, dto.GalleryEntryResponse{
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

		rows = append(rows, dto.GalleryRowResponse{Entries: entries})
	}

	return rows
}
