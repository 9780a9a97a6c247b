package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/cookiejar"
	"strings"
	"time"
)

// defaultRequestTimeout bounds every remote call so a hung connection
// cannot leave an optimistic mutation unreconciled forever.
const defaultRequestTimeout = 10 * time.Second

// API is a thin JSON client for the Pomoflow server. The cookie jar
// carries the HTTP-only session cookie across calls.
type API struct {
	baseURL string
	httpc   *http.Client
}

func NewAPI(baseURL string) (*API, error) {
	jar, err := cookiejar.New(nil)
	if err != nil {
		return nil, fmt.Errorf("create cookie jar: %w", err)
	}
	return &API{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpc: &http.Client{
			Jar:     jar,
			Timeout: defaultRequestTimeout,
		},
	}, nil
}

type apiErrorBody struct {
	Error string `json:"error"`
}

func (api *API) do(ctx context.Context, method string, path string, body any, out any) error {
	var reader *bytes.Reader
	if body != nil {
		encoded, err := json.Marshal(body)
		if err != nil {
			return &TransientIOError{Message: "encode request", Err: err}
		}
		reader = bytes.NewReader(encoded)
	} else {
		reader = bytes.NewReader(nil)
	}

	request, err := http.NewRequestWithContext(ctx, method, api.baseURL+path, reader)
	if err != nil {
		return &TransientIOError{Message: "build request", Err: err}
	}
	if body != nil {
		request.Header.Set("Content-Type", "application/json")
	}
	request.Header.Set("Accept", "application/json")

	response, err := api.httpc.Do(request)
	if err != nil {
		return &TransientIOError{Message: "request " + path, Err: err}
	}
	defer response.Body.Close()

	if response.StatusCode >= 400 {
		message := response.Status
		var errBody apiErrorBody
		if decodeErr := json.NewDecoder(response.Body).Decode(&errBody); decodeErr == nil && errBody.Error != "" {
			message = errBody.Error
		}
		return errorFromStatus(response.StatusCode, message)
	}

	if out == nil {
		return nil
	}
	if err := json.NewDecoder(response.Body).Decode(out); err != nil {
		return &TransientIOError{Message: "decode response", Err: err}
	}
	return nil
}
