/*
Copyright 2024 Blnk Finance Authors.

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

	http://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package request

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

// DefaultTimeout bounds requests issued through FetchWithTimeout when the caller passes zero.
const DefaultTimeout = 2000 * time.Millisecond

// HTTPError is returned when a response arrives with a status outside the 2xx range.
type HTTPError struct {
	StatusCode int
}

func (e *HTTPError) Error() string {
	return fmt.Sprintf("http error: status %d", e.StatusCode)
}

// IsSuccess reports whether status is in the 2xx range.
func IsSuccess(status int) bool {
	return status >= 200 && status < 300
}

// ToJsonReq converts a Go object to a JSON-encoded HTTP request payload.
//
// Parameters:
// - payload interface{}: The data structure to be serialized into JSON.
//
// Returns:
// - *bytes.Buffer: The JSON-encoded payload wrapped in a bytes buffer.
// - error: An error if the JSON marshalling process fails.
func ToJsonReq(payload interface{}) (*bytes.Buffer, error) {
	c, err := json.Marshal(payload)
	if err != nil {
		return nil, err
	}
	return bytes.NewBuffer(c), nil
}

// Call sends req with a JSON content type and decodes the JSON response body into response.
// The raw response is returned alongside any transport or decoding error.
func Call(req *http.Request, response interface{}) (*http.Response, error) {
	req.Header.Set("Content-Type", "application/json")
	client := &http.Client{}

	resp, err := client.Do(req)
	if err != nil {
		return resp, err
	}
	defer resp.Body.Close()

	err = json.NewDecoder(resp.Body).Decode(&response)
	if err != nil {
		return resp, err
	}
	return resp, nil
}

// cancelOnClose releases the request deadline once the caller is done with the body.
type cancelOnClose struct {
	io.ReadCloser
	cancel context.CancelFunc
}

func (c *cancelOnClose) Close() error {
	err := c.ReadCloser.Close()
	c.cancel()
	return err
}

// FetchWithTimeout issues req through client and aborts it if no response arrives within timeout.
//
// A response is returned only when its status is 2xx; any other status yields an *HTTPError and
// the body is closed. Transport failures, deadline expiry and bad statuses all come back through
// the single error return. The deadline is released on every path: immediately on failure, and
// when the returned body is closed on success.
//
// Parameters:
// - ctx context.Context: Parent context; cancelling it aborts the request as well.
// - client *http.Client: The client used to send the request. nil means http.DefaultClient.
// - req *http.Request: The prepared request.
// - timeout time.Duration: The deadline. Zero or negative means DefaultTimeout.
//
// Returns:
// - *http.Response: The successful response. The caller must close its body.
// - error: An error if the request failed, timed out or returned a non-2xx status.
func FetchWithTimeout(ctx context.Context, client *http.Client, req *http.Request, timeout time.Duration) (*http.Response, error) {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}

	ctx, cancel := context.WithTimeout(ctx, timeout)
	resp, err := client.Do(req.WithContext(ctx))
	if err != nil {
		cancel()
		return nil, err
	}

	if !IsSuccess(resp.StatusCode) {
		_ = resp.Body.Close()
		cancel()
		return nil, &HTTPError{StatusCode: resp.StatusCode}
	}

	resp.Body = &cancelOnClose{ReadCloser: resp.Body, cancel: cancel}
	return resp, nil
}
