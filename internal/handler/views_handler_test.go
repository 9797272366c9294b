package handler_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gofiber/fiber/v2"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"

	"github.com/zukunftsstadt/contest-api/internal/dto"
	"github.com/zukunftsstadt/contest-api/internal/handler"
)

type mockLeaderboardService struct {
	response dto.LeaderboardResponse
	err      error
}

func (m *mockLeaderboardService) Top(_ context.Context) (dto.LeaderboardResponse, error) {
	if m.err != nil {
		return dto.LeaderboardResponse{}, m.err
	}
	return m.response, nil
}

func (m *mockLeaderboardService) Invalidate(_ context.Context) {}

type mockGalleryService struct {
	lastPage     int
	lastPageSize int
	response     dto.GalleryPageResponse
	err          error
}

func (m *mockGalleryService) Page(_ context.Context, page, rowsPerPage int) (dto.GalleryPageResponse, error) {
	m.lastPage = page
	m.lastPageSize = rowsPerPage
	if m.err != nil {
		return dto.GalleryPageResponse{}, m.err
	}
	return m.response, nil
}

func TestLeaderboardHandler_Top(t *testing.T) {
	svc := &mockLeaderboardService{response: dto.LeaderboardResponse{
		Entries: []dto.LeaderboardEntryResponse{{Rank: 1, Name: "Alex", TotalScore: 27}},
	}}
	app := fiber.New()
	handler.NewLeaderboardHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/leaderboard"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)

	var body struct {
		Success bool                    `json:"success"`
		Data    dto.LeaderboardResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.True(t, body.Success)
	require.Len(t, body.Data.Entries, 1)
	require.Equal(t, "Alex", body.Data.Entries[0].Name)
}

func TestLeaderboardHandler_ServiceError(t *testing.T) {
	svc := &mockLeaderboardService{err: errors.New("boom")}
	app := fiber.New()
	handler.NewLeaderboardHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/leaderboard"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/leaderboard", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusInternalServerError, resp.StatusCode)
}

func TestGalleryHandler_PageForwardsQuery(t *testing.T) {
	svc := &mockGalleryService{response: dto.GalleryPageResponse{
		Rows:       []dto.GalleryRowResponse{{Entries: []dto.GalleryEntryResponse{{Name: "Alex"}}}},
		Pagination: dto.PaginationMeta{Page: 2, PageSize: 5, TotalRows: 7, TotalEntries: 20, TotalPages: 2},
	}}
	app := fiber.New()
	handler.NewGalleryHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/gallery"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery?page=2&pageSize=5", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusOK, resp.StatusCode)
	require.Equal(t, 2, svc.lastPage)
	require.Equal(t, 5, svc.lastPageSize)

	var body struct {
		Data dto.GalleryPageResponse `json:"data"`
	}
	decodeResponse(t, resp, &body)
	require.Equal(t, 7, body.Data.Pagination.TotalRows)
}

func TestGalleryHandler_InvalidPage(t *testing.T) {
	svc := &mockGalleryService{}
	app := fiber.New()
	handler.NewGalleryHandler(svc, zerolog.New(io.Discard)).Register(app.Group("/api/v1/gallery"))

	req := httptest.NewRequest(http.MethodGet, "/api/v1/gallery?page=bad", nil)
	resp, err := app.Test(req)
	require.NoError(t, err)
	require.Equal(t, fiber.StatusBadRequest, resp.StatusCode)
}
