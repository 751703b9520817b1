package spotify

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// request describes a single Web API call.
type request struct {
	method     string
	path       string
	query      url.Values
	withDevice bool        // append the session device_id
	body       interface{} // JSON body; mutating calls send {} when nil
}

// call performs a Web API request and decodes a JSON response into out.
//
// It handles:
// - Bearer authentication with the current access token
// - device_id targeting for player commands
// - One transparent refresh and retry when the access token expired
// - Mapping error responses to *Error
//
// A response without a JSON body (204 No Content for most commands) leaves out
// untouched and returns (false, nil).
func (c *Client) call(ctx context.Context, req request, out interface{}) (bool, error) {
	fullURL := c.buildURL(req)

	var payload []byte
	if req.body != nil || req.method != http.MethodGet {
		body := req.body
		if body == nil {
			body = struct{}{}
		}
		var err error
		payload, err = json.Marshal(body)
		if err != nil {
			return false, fmt.Errorf("failed to marshal request body: %w", err)
		}
	}

	token, err := c.auth.AccessToken(ctx)
	if err != nil {
		return false, err
	}

	status, respBody, contentType, err := c.send(ctx, req.method, fullURL, token, payload)
	if err != nil {
		return false, err
	}

	if status == http.StatusUnauthorized {
		apiErr := parseError(status, respBody)
		if apiErr.TokenExpired() {
			c.logDebugf("spotify: access token expired, refreshing and retrying %s %s", req.method, req.path)
			tok, err := c.auth.Refresh(ctx)
			if err != nil {
				return false, err
			}
			status, respBody, contentType, err = c.send(ctx, req.method, fullURL, tok.AccessToken, payload)
			if err != nil {
				return false, err
			}
		}
	}

	if status >= 400 {
		return false, parseError(status, respBody)
	}

	if len(respBody) == 0 || !strings.HasPrefix(contentType, "application/json") {
		return false, nil
	}
	if out == nil {
		return true, nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return false, fmt.Errorf("failed to parse response: %w", err)
	}
	return true, nil
}

// send performs one HTTP round trip.
func (c *Client) send(ctx context.Context, method, fullURL, token string, payload []byte) (int, []byte, string, error) {
	c.logDebugf("spotify: %s %s", method, fullURL)

	var bodyReader io.Reader
	if payload != nil {
		bodyReader = bytes.NewReader(payload)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, fullURL, bodyReader)
	if err != nil {
		return 0, nil, "", fmt.Errorf("failed to create request: %w", err)
	}
	httpReq.Header.Set("Authorization", "Bearer "+token)
	if payload != nil {
		httpReq.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.httpClient.Do(httpReq)
	if err != nil {
		return 0, nil, "", fmt.Errorf("http request failed: %w", err)
	}

	respBody, err := io.ReadAll(resp.Body)
	_ = resp.Body.Close()
	if err != nil {
		return 0, nil, "", fmt.Errorf("failed to read response: %w", err)
	}

	c.logDebugf("spotify: response %d %s", resp.StatusCode, http.StatusText(resp.StatusCode))
	return resp.StatusCode, respBody, resp.Header.Get("Content-Type"), nil
}

// buildURL joins the base URL, path and query, adding the session device.
func (c *Client) buildURL(req request) string {
	q := url.Values{}
	for k, v := range req.query {
		q[k] = v
	}
	if req.withDevice {
		if id := c.DeviceID(); id != "" {
			q.Set("device_id", id)
		}
	}

	u := c.baseURL + req.path
	if len(q) > 0 {
		u += "?" + q.Encode()
	}
	return u
}

// parseError converts an error response body into *Error. Bodies that are not
// a Web API error object keep their raw text as the message.
func parseError(status int, body []byte) *Error {
	var envelope apiError
	if err := json.Unmarshal(body, &envelope); err == nil && envelope.Error.Message != "" {
		return &Error{
			Status:  status,
			Message: envelope.Error.Message,
			Reason:  envelope.Error.Reason,
		}
	}
	return &Error{
		Status:  status,
		Message: strings.TrimSpace(string(body)),
	}
}
