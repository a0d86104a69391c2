package test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"testing"

	"github.com/pacelog/pacelog/internal/coach"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// the test server runs without a gemini api key, so the coach always
// falls back to static tips and catalog based recommendations
func (s *IntegrationTestSuite) TestCoach() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	token := s.registerAndLogin(ctx, "runner-filip", "super-secret-pass")

	t.Run("ask serves a static tip", func(t *testing.T) {
		askJson, err := json.Marshal(coach.AskRequest{Query: "how should I train this week?"})
		require.NoError(t, err)

		resp := s.doRequest(ctx, "POST", "/coach/ask", bytes.NewReader(askJson), token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var askResp coach.AskResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&askResp))
		assert.Equal(t, "info", askResp.Type)
		assert.NotEmpty(t, askResp.Response)
		assert.False(t, askResp.Timestamp.IsZero())
	})

	t.Run("ask requires auth", func(t *testing.T) {
		resp := s.doRequest(ctx, "POST", "/coach/ask", bytes.NewReader([]byte(`{"query": "hi"}`)), "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("fallback recommendations", func(t *testing.T) {
		reqJson := []byte(`{"preferences": {"preferredTerrain": ["trail"], "budgetMax": 50}}`)

		resp := s.doRequest(ctx, "POST", "/coach/recommendations", bytes.NewReader(reqJson), token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		var recResp coach.RecommendationsResponse
		require.NoError(t, json.NewDecoder(resp.Body).Decode(&recResp))
		require.Len(t, recResp.Recommendations, 3)
		for _, rec := range recResp.Recommendations {
			assert.Equal(t, 75, rec.Score)
			assert.NotEmpty(t, rec.Reasons)
			require.NotNil(t, rec.Race)
		}
		assert.Equal(t, "fallback recommendations, model unavailable", recResp.Analysis)
	})
}
