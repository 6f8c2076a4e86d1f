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
	"errors"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/brianvoe/gofakeit/v6"
	"github.com/jarcoal/httpmock"
	"github.com/stretchr/testify/assert"
)

const testVerificationURL = "https://verify.test/api/validate-email"

func newMockVerifier() (*Verifier, *httpmock.MockTransport) {
	transport := httpmock.NewMockTransport()
	return NewVerifier(testVerificationURL, time.Second, &http.Client{Transport: transport}), transport
}

func TestIsValidEmail(t *testing.T) {
	tests := []struct {
		email string
		want  bool
	}{
		{"jane@example.com", true},
		{"first.last+tag@sub.example.co", true},
		{"a@b.c", true},
		{"", false},
		{"plainaddress", false},
		{"missing-at.example.com", false},
		{"jane@example", false},
		{"jane@@example.com", false},
		{"jane doe@example.com", false},
		{"jane@exa mple.com", false},
		{"@example.com", false},
		{"jane@.com", false},
		{"jane@example.", false},
	}

	for _, tt := range tests {
		t.Run(tt.email, func(t *testing.T) {
			assert.Equal(t, tt.want, IsValidEmail(tt.email))
		})
	}
}

func TestIsValidEmail_RandomAddresses(t *testing.T) {
	for i := 0; i < 50; i++ {
		assert.True(t, IsValidEmail(gofakeit.Email()))
	}
}

func TestValidateEmail_SyntaxInvalidMakesNoCall(t *testing.T) {
	v, transport := newMockVerifier()

	result := v.ValidateEmail(context.Background(), "not-an-email")

	assert.False(t, result.IsValid)
	assert.Equal(t, OutcomeInvalidEmail, result.Result)
	assert.ErrorIs(t, result.Err, ErrSyntaxInvalid)
	assert.Equal(t, 0, transport.GetTotalCallCount())
}

func TestValidateEmail_ServiceVerdicts(t *testing.T) {
	tests := []struct {
		name        string
		body        string
		wantValid   bool
		wantOutcome ValidationOutcome
		wantErr     error
	}{
		{name: "valid", body: `{"result":"valid"}`, wantValid: true, wantOutcome: OutcomeValid},
		{name: "invalid", body: `{"result":"invalid"}`, wantOutcome: OutcomeInvalidEmail, wantErr: ErrServiceRejected},
		{name: "unknown", body: `{"result":"unknown"}`, wantOutcome: OutcomeInvalidEmail, wantErr: ErrServiceRejected},
		{name: "catchall passes through", body: `{"result":"catchall"}`, wantOutcome: "catchall"},
		{name: "disposable passes through", body: `{"result":"disposable"}`, wantOutcome: "disposable"},
		{name: "missing result", body: `{}`, wantOutcome: ""},
		{name: "malformed body", body: `{"result":`, wantOutcome: OutcomeError, wantErr: ErrVerificationTransport},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, transport := newMockVerifier()
			email := gofakeit.Email()

			transport.RegisterResponder("POST", testVerificationURL, func(req *http.Request) (*http.Response, error) {
				assert.Equal(t, email, req.URL.Query().Get("email"))
				assert.Equal(t, "application/json", req.Header.Get("Content-Type"))
				return httpmock.NewStringResponse(200, tt.body), nil
			})

			result := v.ValidateEmail(context.Background(), email)

			assert.Equal(t, tt.wantValid, result.IsValid)
			assert.Equal(t, tt.wantOutcome, result.Result)
			if tt.wantErr != nil {
				assert.ErrorIs(t, result.Err, tt.wantErr)
			}
			assert.Equal(t, 1, transport.GetTotalCallCount())
		})
	}
}

func TestValidateEmail_RateLimitedRegardlessOfBody(t *testing.T) {
	bodies := []string{`{"result":"valid"}`, `{"result":"invalid"}`, `not json`, ``}

	for _, body := range bodies {
		v, transport := newMockVerifier()
		transport.RegisterResponder("POST", testVerificationURL, httpmock.NewStringResponder(http.StatusTooManyRequests, body))

		result := v.ValidateEmail(context.Background(), "jane@example.com")

		assert.False(t, result.IsValid)
		assert.Equal(t, OutcomeTooManyRequests, result.Result)
		assert.ErrorIs(t, result.Err, ErrRateLimited)
		assert.Equal(t, 1, transport.GetTotalCallCount())
	}
}

func TestValidateEmail_ServerErrorIsError(t *testing.T) {
	v, transport := newMockVerifier()
	transport.RegisterResponder("POST", testVerificationURL, httpmock.NewStringResponder(http.StatusBadGateway, `{"result":"valid"}`))

	result := v.ValidateEmail(context.Background(), "jane@example.com")

	assert.False(t, result.IsValid)
	assert.Equal(t, OutcomeError, result.Result)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestValidateEmail_TransportError(t *testing.T) {
	v, transport := newMockVerifier()
	transport.RegisterResponder("POST", testVerificationURL, httpmock.NewErrorResponder(errors.New("connection reset")))

	result := v.ValidateEmail(context.Background(), "jane@example.com")

	assert.False(t, result.IsValid)
	assert.Equal(t, OutcomeError, result.Result)
	assert.ErrorIs(t, result.Err, ErrVerificationTransport)
	assert.Equal(t, 1, transport.GetTotalCallCount())
}

func TestValidateEmail_Timeout(t *testing.T) {
	var calls int32
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	v := NewVerifier(server.URL, 50*time.Millisecond, server.Client())

	start := time.Now()
	result := v.ValidateEmail(context.Background(), "jane@example.com")

	assert.Less(t, time.Since(start), time.Second)
	assert.False(t, result.IsValid)
	assert.Equal(t, OutcomeError, result.Result)
	assert.ErrorIs(t, result.Err, ErrVerificationTransport)
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestValidateEmail_EncodesQuery(t *testing.T) {
	v, transport := newMockVerifier()
	email := "jane+promo&x=1@example.com"

	transport.RegisterResponder("POST", testVerificationURL, func(req *http.Request) (*http.Response, error) {
		assert.Equal(t, email, req.URL.Query().Get("email"))
		assert.Empty(t, req.URL.Query().Get("x"))
		return httpmock.NewStringResponse(200, `{"result":"valid"}`), nil
	})

	result := v.ValidateEmail(context.Background(), email)
	assert.True(t, result.IsValid)
}

func TestNewVerifier_DefaultTimeout(t *testing.T) {
	v := NewVerifier(testVerificationURL, 0, nil)
	assert.Equal(t, 2000*time.Millisecond, v.timeout)
	assert.Equal(t, http.DefaultClient, v.client)
}
