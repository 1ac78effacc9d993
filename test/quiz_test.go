//go:build integration_test || all_tests

package test

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func (s *IntegrationTestSuite) TestQuizFromPostgres() {
	t := s.T()
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	require.NoError(t, s.redisDataCleanup(ctx))

	httpClient := s.newHttpClient()
	do := func(method, path, body string) (int, string) {
		var bodyReader io.Reader
		if body != "" {
			bodyReader = strings.NewReader(body)
		}
		req, err := http.NewRequestWithContext(ctx, method, fmt.Sprintf("%s%s", serverEndpoint, path), bodyReader)
		require.NoError(t, err)
		resp, err := httpClient.Do(req)
		require.NoError(t, err)
		defer resp.Body.Close()
		respBytes, err := io.ReadAll(resp.Body)
		require.NoError(t, err)
		return resp.StatusCode, string(respBytes)
	}

	status, body := do("GET", "/api/quiz", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, testQuizDocument, body)

	status, body = do("GET", "/api/quiz/chapter/2", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id": 2, "title": "ni vs de"}`, body)

	status, body = do("GET", "/api/quiz/chapter/3", "")
	assert.Equal(t, http.StatusNotFound, status)
	assert.JSONEq(t, `{"error":"chapter not found"}`, body)

	// saving needs a session
	newDocument := `{"chapters": [{"id": 3, "title": "e vs ni"}]}`
	status, _ = do("PUT", "/api/editor/quiz", newDocument)
	assert.Equal(t, http.StatusUnauthorized, status)

	req, err := newLoginRequest(ctx, serverEndpoint, "/api/login", testUsername, testPassword)
	require.NoError(t, err)
	resp, err := httpClient.Do(req)
	require.NoError(t, err)
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.NoError(t, resp.Body.Close())

	status, _ = do("PUT", "/api/editor/quiz", newDocument)
	require.Equal(t, http.StatusOK, status)

	status, body = do("GET", "/api/quiz/chapter/3", "")
	require.Equal(t, http.StatusOK, status)
	assert.JSONEq(t, `{"id": 3, "title": "e vs ni"}`, body)

	var documentsCount int
	require.NoError(t, s.DB.QueryRowContext(ctx, `SELECT count(*) FROM quiz.document;`).Scan(&documentsCount))
	assert.Equal(t, 2, documentsCount)

	// restore the original document for the other tests
	_, err = s.DB.ExecContext(ctx, `INSERT INTO quiz.document (content) VALUES ($1);`, testQuizDocument)
	require.NoError(t, err)
}
