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

package leadform

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"testing"

	"github.com/blnkfinance/leadform/internal/request"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/wacul/ptr"
)

const (
	testCaptureBaseURL = "https://forms.test"
	testPortalID       = "39674306"
	testFormID         = "12cc5240-d11a-49aa-b4d9-0f63b72eced5"
	testCaptureURL     = testCaptureBaseURL + "/submissions/v3/integration/submit/" + testPortalID + "/" + testFormID
)

func TestLeadCaptureClient_Endpoint(t *testing.T) {
	c := NewLeadCaptureClient(testCaptureBaseURL, testPortalID, testFormID, nil)
	assert.Equal(t, testCaptureURL, c.Endpoint())
}

func TestLeadCaptureClient_Submit(t *testing.T) {
	transport := httpmock.NewMockTransport()
	c := NewLeadCaptureClient(testCaptureBaseURL, testPortalID, testFormID, &http.Client{Transport: transport})

	payload := SubmissionPayload{
		Fields: []Field{
			{Name: "email", Value: "jane@example.com"},
			{Name: ValidationResultField, Value: "valid"},
		},
		Context: SubmissionContext{
			Hutk:      "abc123",
			PageURI:   "https://www.example.com/pricing",
			PageName:  "Pricing",
			IPAddress: ptr.String("203.0.113.7"),
		},
	}

	transport.RegisterResponder("POST", testCaptureURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, "application/json", req.Header.Get("Content-Type"))

		var body map[string]interface{}
		require.NoError(t, json.NewDecoder(req.Body).Decode(&body))
		assert.Equal(t, []interface{}{
			map[string]interface{}{"name": "email", "value": "jane@example.com"},
			map[string]interface{}{"name": "neverbouncevalidationresult", "value": "valid"},
		}, body["fields"])
		assert.Equal(t, map[string]interface{}{
			"hutk":      "abc123",
			"pageUri":   "https://www.example.com/pricing",
			"pageName":  "Pricing",
			"ipAddress": "203.0.113.7",
		}, body["context"])
		return httpmock.NewStringResponse(200, `{"inlineMessage":"Thanks"}`), nil
	})

	assert.NoError(t, c.Submit(context.Background(), payload))
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestLeadCaptureClient_NullIPAddress(t *testing.T) {
	data, err := json.Marshal(SubmissionContext{Hutk: "abc"})
	require.NoError(t, err)
	assert.JSONEq(t, `{"hutk":"abc","pageUri":"","pageName":"","ipAddress":null}`, string(data))
}

func TestLeadCaptureClient_ErrorStatus(t *testing.T) {
	transport := httpmock.NewMockTransport()
	c := NewLeadCaptureClient(testCaptureBaseURL, testPortalID, testFormID, &http.Client{Transport: transport})
	transport.RegisterResponder("POST", testCaptureURL, httpmock.NewStringResponder(400, `{"status":"error"}`))

	err := c.Submit(context.Background(), SubmissionPayload{})

	var httpErr *request.HTTPError
	require.True(t, errors.As(err, &httpErr))
	assert.Equal(t, 400, httpErr.StatusCode)
}

func TestLeadCaptureClient_TransportError(t *testing.T) {
	transport := httpmock.NewMockTransport()
	c := NewLeadCaptureClient(testCaptureBaseURL, testPortalID, testFormID, &http.Client{Transport: transport})
	transport.RegisterResponder("POST", testCaptureURL, httpmock.NewErrorResponder(errors.New("connection refused")))

	assert.Error(t, c.Submit(context.Background(), SubmissionPayload{}))
}
