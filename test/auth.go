package test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
)

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	Success  bool   `json:"success"`
	Message  string `json:"message"`
	Redirect string `json:"redirect"`
}

func newLoginRequest(ctx context.Context, endpoint, path, username, password string) (*http.Request, error) {
	loginReqJson, err := json.Marshal(loginRequest{
		Username: username,
		Password: password,
	})
	if err != nil {
		return nil, err
	}

	req, err := http.NewRequestWithContext(ctx, "POST", fmt.Sprintf("%s%s", endpoint, path), bytes.NewBuffer(loginReqJson))
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", "test-agent")
	req.Header.Set("Content-Type", "application/json")
	return req, nil
}
