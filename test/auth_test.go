package test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"strconv"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestAuth() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	credsJson := func(username, password string) []byte {
		creds, err := json.Marshal(map[string]string{
			"username": username,
			"password": password,
		})
		require.NoError(t, err)
		return creds
	}

	t.Run("register and login", func(t *testing.T) {
		token := s.registerAndLogin(ctx, "runner-ana", "super-secret-pass")
		assert.NotEmpty(t, token)

		// session token grants access to a protected route
		resp := s.doRequest(ctx, "GET", "/progress?page=1&limit=10", nil, token)
		assert.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, resp.Body.Close())
	})

	t.Run("register taken username", func(t *testing.T) {
		resp := s.doRequest(ctx, "POST", "/a/register", bytes.NewReader(credsJson("runner-ana", "another-pass-123")), "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusConflict, resp.StatusCode)
	})

	t.Run("login wrong password", func(t *testing.T) {
		resp := s.doRequest(ctx, "POST", "/a/login", bytes.NewReader(credsJson("runner-ana", "wrong-pass")), "")
		defer resp.Body.Close()
		require.Equal(t, http.StatusBadRequest, resp.StatusCode)

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		assert.Equal(t, "error, wrong credentials", strings.TrimSpace(string(respBytes)))
	})

	t.Run("protected route without token", func(t *testing.T) {
		resp := s.doRequest(ctx, "GET", "/progress", nil, "")
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("logout invalidates session", func(t *testing.T) {
		token := s.registerAndLogin(ctx, "runner-bane", "super-secret-pass")

		resp := s.doRequest(ctx, "GET", "/a/logout", nil, token)
		require.Equal(t, http.StatusOK, resp.StatusCode)
		require.NoError(t, resp.Body.Close())

		resp = s.doRequest(ctx, "GET", "/progress", nil, token)
		defer resp.Body.Close()
		assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
	})

	t.Run("jwt token endpoint", func(t *testing.T) {
		s.registerAndLogin(ctx, "runner-ceca", "super-secret-pass")

		resp := s.doRequest(ctx, "POST", "/a/token", bytes.NewReader(credsJson("runner-ceca", "super-secret-pass")), "")
		require.Equal(t, http.StatusOK, resp.StatusCode)
		defer resp.Body.Close()

		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)

		var tokenResp struct {
			Token string `json:"token"`
		}
		require.NoError(t, json.Unmarshal(respBytes, &tokenResp))
		require.NotEmpty(t, tokenResp.Token)
		assert.Equal(t, 2, strings.Count(tokenResp.Token, "."))

		// JWT works on protected routes same as a session token
		progressResp := s.doRequest(ctx, "GET", "/progress", nil, tokenResp.Token)
		assert.Equal(t, http.StatusOK, progressResp.StatusCode)
		require.NoError(t, progressResp.Body.Close())
	})

	t.Run("login rate limiting", func(t *testing.T) {
		// start with clean rate limiter counters
		require.NoError(t, s.redisDataCleanup(ctx))

		creds := credsJson("whoever", "whatever-pass")
		for i := 1; i <= 15; i++ {
			resp := s.doRequest(ctx, "POST", "/a/login", bytes.NewReader(creds), "")

			if i <= 10 {
				require.Equal(t, http.StatusBadRequest, resp.StatusCode, "iteration: %d", i)
			} else {
				require.Equal(t, http.StatusTooManyRequests, resp.StatusCode, "iteration: %d", i)
				retryAfter, err := strconv.ParseFloat(resp.Header.Get("Retry-After"), 64)
				require.NoError(t, err, "iteration: %d", i)
				assert.True(t, retryAfter > 0, "iteration: %d", i)
			}

			assert.NoError(t, resp.Body.Close())
		}

		require.NoError(t, s.redisDataCleanup(ctx))
	})
}
