package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/pacelog/pacelog/internal/training"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) addEntry(
	ctx context.Context,
	token string,
	entryReq training.NewEntryRequest,
) training.Entry {
	t := s.T()

	entryJson, err := json.Marshal(entryReq)
	require.NoError(t, err)

	resp := s.doRequest(ctx, "POST", "/progress", bytes.NewReader(entryJson), token)
	require.Equal(t, http.StatusCreated, resp.StatusCode)
	defer resp.Body.Close()

	respBytes, err := io.ReadAll(resp.Body)
	require.NoError(t, err)

	var added training.Entry
	require.NoError(t, json.Unmarshal(respBytes, &added))
	require.NotEmpty(t, added.ID)

	return added
}

func (s *IntegrationTestSuite) TestProgress() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.registerAndLogin(ctx, "runner-dusan", "super-secret-pass")

	now := time.Now()
	day := func(daysAgo int) *time.Time {
		d := now.AddDate(0, 0, -daysAgo)
		return &d
	}

	// three run days in a row, one walk, one rest day
	run1 := s.addEntry(ctx, token, training.NewEntryRequest{
		Date: day(0), Type: training.ActivityRun, Distance: 10, Duration: 50,
		Notes: gofakeit.Sentence(6),
	})
	s.addEntry(ctx, token, training.NewEntryRequest{
		Date: day(1), Type: training.ActivityRun, Distance: 8, Duration: 44,
		Notes: gofakeit.Sentence(6),
	})
	s.addEntry(ctx, token, training.NewEntryRequest{
		Date: day(2), Type: training.ActivityWalk, Distance: 4, Duration: 60,
	})
	s.addEntry(ctx, token, training.NewEntryRequest{
		Date: day(3), Type: training.ActivityRest, IsRestDay: true,
	})
	s.addEntry(ctx, token, training.NewEntryRequest{
		Date: day(5), Type: training.ActivityRun, Distance: 12, Duration: 66,
	})

	t.Run("derived pace", func(t *testing.T) {
		require.NotNil(t, run1.Pace)
		assert.InDelta(t, 5.0, *run1.Pace, 0.001)
	})

	t.Run("list with pagination", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/progress?page=1&limit=2", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var listResp training.ListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
		assert.Len(t, listResp.Entries, 2)
		assert.Equal(t, 5, listResp.Pagination.Total)
		assert.Equal(t, 3, listResp.Pagination.Pages)

		// newest first
		assert.Equal(t, run1.ID, listResp.Entries[0].ID)
	})

	t.Run("list filtered by type", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/progress?type=walk", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var listResp training.ListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
		require.Len(t, listResp.Entries, 1)
		assert.Equal(t, training.ActivityWalk, listResp.Entries[0].Type)
	})

	t.Run("update recalculates pace", func(t *testing.T) {
		updateJson, err := json.Marshal(map[string]any{"distance": 20.0})
		require.NoError(t, err)

		resp := s.doRequest(ctx, "PUT", "/progress/"+run1.ID, bytes.NewReader(updateJson), token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var updated training.Entry
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&updated))
		assert.Equal(t, 20.0, updated.Distance)
		require.NotNil(t, updated.Pace)
		assert.InDelta(t, 2.5, *updated.Pace, 0.001)
	})

	t.Run("streak", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/progress/streak", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var streakResp training.StreakResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&streakResp))
		// rest day on day 3 breaks the chain: today, -1, -2
		assert.Equal(t, 3, streakResp.CurrentStreak)
	})

	t.Run("weekly summary", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/progress/weekly-summary", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var summary training.WeeklySummary
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&summary))
		assert.Equal(t, 3, summary.TotalRuns)
		assert.Equal(t, 1, summary.TotalRestDays)
		// run1 distance was bumped to 20 in the update subtest above
		assert.InDelta(t, 44, summary.TotalDistance, 0.001)
	})

	t.Run("stats", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/progress/stats?period=30", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var stats training.PeriodStats
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&stats))
		assert.Equal(t, 5, stats.TotalStats.TotalActivities)
		assert.NotEmpty(t, stats.TypeBreakdown)
		assert.NotEmpty(t, stats.WeeklyTrend)
	})

	t.Run("delete", func(t *testing.T) {
		entry := s.addEntry(ctx, token, training.NewEntryRequest{
			Date: day(7), Type: training.ActivityRun, Distance: 5, Duration: 30,
		})

		resp := s.doRequest(ctx, "DELETE", "/progress/"+entry.ID, nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, fmt.Sprintf("deleted:%s", entry.ID), string(respBytes))

		// gone now
		delResp := s.doRequest(ctx, "DELETE", "/progress/"+entry.ID, nil, token)
		assert.Equal(t, http.StatusNotFound, delResp.StatusCode)
		require.NoError(t, delResp.Body.Close())
	})

	t.Run("entries are per user", func(t *testing.T) {
		otherToken := s.registerAndLogin(ctx, "runner-eva", "super-secret-pass")

		resp := s.doRequest(ctx, "GET", "/progress", nil, otherToken)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var listResp training.ListResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&listResp))
		assert.Empty(t, listResp.Entries)
		assert.Equal(t, 0, listResp.Pagination.Total)
	})
}
