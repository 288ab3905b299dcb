package authsdk

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// url builds a complete URL by appending the path to the base URL.
func (c *SDKClient) url(path string) string {
	return c.BaseURL + path
}

// jsonBody marshals v for a request body; nil yields no body.
func jsonBody(v any) (io.Reader, map[string]string, error) {
	if v == nil {
		return nil, nil, nil
	}
	body, err := json.Marshal(v)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to marshal request: %w", err)
	}
	return bytes.NewReader(body), map[string]string{"Content-Type": "application/json"}, nil
}

// doRequest performs an HTTP request with the SDKClient's HTTP client.
// This is for unauthenticated requests (no Authorization header).
func (c *SDKClient) doRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, c.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

// doJSON sends in (if any) and decodes the envelope's data into out.
func (c *SDKClient) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	body, headers, err := jsonBody(in)
	if err != nil {
		return err
	}
	resp, err := c.doRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeData(resp, out, expectedStatus)
}

// doAuthRequest performs an authenticated HTTP request with the session's
// credentials. Bearer sessions refresh the access token first if needed.
func (s *Session) doAuthRequest(
	ctx context.Context,
	method, path string,
	body io.Reader,
	headers map[string]string,
) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, s.client.url(path), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}

	if s.apiKey != "" {
		req.Header.Set("X-API-Key", s.apiKey)
	} else {
		token, err := s.getValidToken(ctx)
		if err != nil {
			return nil, err
		}
		req.Header.Set("Authorization", "Bearer "+token)
	}

	for key, value := range headers {
		req.Header.Set(key, value)
	}

	resp, err := s.client.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to send request: %w", err)
	}

	return resp, nil
}

func (s *Session) doJSON(ctx context.Context, method, path string, in, out any, expectedStatus int) error {
	body, headers, err := jsonBody(in)
	if err != nil {
		return err
	}
	resp, err := s.doAuthRequest(ctx, method, path, body, headers)
	if err != nil {
		return err
	}
	return decodeData(resp, out, expectedStatus)
}

// decodeData unwraps the response envelope into target. A status other than
// expectedStatus yields an *APIError. A nil target discards the data.
func decodeData(resp *http.Response, target any, expectedStatus int) error {
	defer resp.Body.Close()

	bodyBytes, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read response body: %w", err)
	}

	if resp.StatusCode != expectedStatus {
		return parseErrorResponse(resp, bodyBytes)
	}
	if target == nil {
		return nil
	}

	env := Envelope[json.RawMessage]{}
	if err := json.Unmarshal(bodyBytes, &env); err != nil {
		return fmt.Errorf("failed to decode response: %w", err)
	}
	if len(env.Data) == 0 {
		return nil
	}
	if err := json.Unmarshal(env.Data, target); err != nil {
		return fmt.Errorf("failed to decode response data: %w", err)
	}
	return nil
}
