//go:build integration_test || all_tests

package test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestLogin() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.redisDataCleanup(ctx))

	cases := map[string]struct {
		path               string
		username           string
		password           string
		expectedStatusCode int
		expectedResponse   loginResponse
		expectCookie       bool
	}{
		"good creds": {
			path:               "/api/login",
			username:           testUsername,
			password:           testPassword,
			expectedStatusCode: http.StatusOK,
			expectedResponse:   loginResponse{Success: true, Message: "login successful"},
			expectCookie:       true,
		},
		"good creds, client login": {
			path:               "/client-login",
			username:           testUsername,
			password:           testPassword,
			expectedStatusCode: http.StatusOK,
			expectedResponse:   loginResponse{Success: true, Redirect: "/dashboard"},
			expectCookie:       true,
		},
		"bad password": {
			path:               "/api/login",
			username:           testUsername,
			password:           "bad-password",
			expectedStatusCode: http.StatusUnauthorized,
			expectedResponse:   loginResponse{Success: false, Message: "wrong username or password"},
		},
		"bad username": {
			path:               "/client-login",
			username:           "bad-username",
			password:           testPassword,
			expectedStatusCode: http.StatusUnauthorized,
			expectedResponse:   loginResponse{Success: false, Message: "login failed"},
		},
	}

	for tn, tc := range cases {
		t.Run(tn, func(t *testing.T) {
			req, err := newLoginRequest(ctx, serverEndpoint, tc.path, tc.username, tc.password)
			require.NoError(t, err)

			resp, err := s.newHttpClient().Do(req)
			require.NoError(t, err)
			defer resp.Body.Close()
			require.Equal(t, tc.expectedStatusCode, resp.StatusCode)

			respBytes, err := io.ReadAll(resp.Body)
			require.NoError(t, err)
			var loginResp loginResponse
			require.NoError(t, json.Unmarshal(respBytes, &loginResp))
			assert.Equal(t, tc.expectedResponse, loginResp)

			var sessionCookieSet bool
			for _, c := range resp.Cookies() {
				if c.Name == "auth_token" {
					sessionCookieSet = true
					assert.Equal(t, testToken, c.Value)
					assert.True(t, c.HttpOnly)
				}
			}
			assert.Equal(t, tc.expectCookie, sessionCookieSet)
		})
	}

	t.Run("rate limiting", func(t *testing.T) {
		// simulate login requests brute force attack
		require.NoError(t, s.redisDataCleanup(ctx))

		httpClient := s.newHttpClient()
		for i := 1; i <= loginRateLimitAllowedPerMin+5; i++ {
			req, err := newLoginRequest(ctx, serverEndpoint, "/api/login", "test-user", "test-pass")
			require.NoError(t, err)

			resp, err := httpClient.Do(req)
			require.NoError(t, err)

			if i <= loginRateLimitAllowedPerMin {
				require.Equal(t, http.StatusUnauthorized, resp.StatusCode, "iteration: %d", i)
			} else {
				require.Equal(t, http.StatusTooEarly, resp.StatusCode, "iteration: %d", i)
				respBytes, err := io.ReadAll(resp.Body)
				require.NoError(t, err)
				assert.True(t, strings.HasPrefix(string(respBytes), "retry after"), "iteration: %d", i)
			}

			assert.NoError(t, resp.Body.Close())
		}

		require.NoError(t, s.redisDataCleanup(ctx))
	})
}

func (s *IntegrationTestSuite) TestSessionRoundTrip() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.redisDataCleanup(ctx))

	httpClient := s.newHttpClient()
	get := func(path string) (int, string) {
		req, err := http.NewRequestWithContext(ctx, "GET", fmt.Sprintf("%s%s", serverEndpoint, path), nil)
		require.NoError(t, err)
		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		body, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(body)
	}

	status, body := get("/dashboard")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"not authenticated"}`, body)

	req, err := newLoginRequest(ctx, serverEndpoint, "/api/login", testUsername, testPassword)
	require.NoError(t, err)
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	for _, path := range []string{"/dashboard", "/editor"} {
		status, body = get(path)
		assert.Equal(t, http.StatusOK, status, path)
		assert.True(t, strings.HasPrefix(body, "<html>"), path)
	}

	req, err = http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s/api/logout", serverEndpoint), nil)
	require.NoError(t, err)
	resp, err = httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	status, body = get("/dashboard")
	assert.Equal(t, http.StatusUnauthorized, status)
	assert.JSONEq(t, `{"error":"not authenticated"}`, body)

	status, body = get("/health")
	assert.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"status":"ok","version":"test-version-info"}`, body)
}
