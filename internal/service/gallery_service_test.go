package service

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/zukunftsstadt/contest-api/internal/models"
)

func timedSubmission(name, timestamp string) models.Submission {
	return models.Submission{
		Timestamp:  timestamp,
		Name:       name,
		Prompt:     "Eine Stadt",
		Image:      "aW1n",
		TotalScore: 20,
	}
}

func TestGalleryRowsOfThreeNewestFirst(t *testing.T) {
	repo := &submissionRepoStub{submissions: []models.Submission{
		timedSubmission("Oldest", "2026-08-25 09:00:00"),
		timedSubmission("Middle", "2026-08-26 09:00:00"),
		timedSubmission("Newer", "2026-08-27 09:00:00"),
		timedSubmission("Newest", "2026-08-28 09:00:00"),
	}}

	svc := NewGalleryService(repo, testLogger())

	result, err := svc.Page(context.Background(), 1, 10)
	require.NoError(t, err)

	// ceil(4/3) = 2 rows, first full, second with the remainder.
	require.Len(t, result.Rows, 2)
	require.Len(t, result.Rows[0].Entries, 3)
	require.Len(t, result.Rows[1].Entries, 1)
	require.Equal(t, "Newest", result.Rows[0].Entries[0].Name)
	require.Equal(t, "Newer", result.Rows[0].Entries[1].Name)
	require.Equal(t, "Middle", result.Rows[0].Entries[2].Name)
	require.Equal(t, "Oldest", result.Rows[1].Entries[0].Name)

	require.Equal(t, 2, result.Pagination.TotalRows)
	require.Equal(t, 4, result.Pagination.TotalEntries)
}

func TestGalleryRowCountIsCeilOverThree(t *testing.T) {
	for _, tc := range []struct {
		entries  int
		wantRows int
	}{
		{0, 0},
		{1, 1},
		{3, 1},
		{4, 2},
		{9, 3},
		{10, 4},
	} {
		repo := &submissionRepoStub{}
		for i := 0; i < tc.entries; i++ {
			repo.submissions = append(repo.submissions, timedSubmission(fmt.Sprintf("P%d", i), fmt.Sprintf("2026-08-28 10:%02d:00", i)))
		}

		svc := NewGalleryService(repo, testLogger())

		result, err := svc.Page(context.Background(), 1, 20)
		require.NoError(t, err)
		require.Len(t, result.Rows, tc.wantRows, "entries=%d", tc.entries)
		require.Equal(t, tc.wantRows, result.Pagination.TotalRows, "entries=%d", tc.entries)
	}
}

func TestGalleryPagesOverRows(t *testing.T) {
	repo := &submissionRepoStub{}
	for i := 0; i < 9; i++ {
		repo.submissions = append(repo.submissions, timedSubmission(fmt.Sprintf("P%d", i), fmt.Sprintf("2026-08-28 10:%02d:00", i)))
	}

	svc := NewGalleryService(repo, testLogger())

	first, err := svc.Page(context.Background(), 1, 2)
	require.NoError(t, err)
	require.Len(t, first.Rows, 2)
	require.Equal(t, 2, first.Pagination.TotalPages)
	require.Equal(t, 3, first.Pagination.TotalRows)

	second, err := svc.Page(context.Background(), 2, 2)
	require.NoError(t, err)
	require.Len(t, second.Rows, 1)

	beyond, err := svc.Page(context.Background(), 5, 2)
	require.NoError(t, err)
	require.Empty(t, beyond.Rows)
}
