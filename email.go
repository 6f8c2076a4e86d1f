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
	"fmt"
	"net/http"
	"net/url"
	"regexp"
	"time"

	"github.com/blnkfinance/leadform/internal/request"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
)

// ValidationOutcome is the result code attached to a verified email.
type ValidationOutcome string

const (
	OutcomeValid           ValidationOutcome = "valid"
	OutcomeInvalidEmail    ValidationOutcome = "invalid_email"
	OutcomeTooManyRequests ValidationOutcome = "too_many_requests"
	OutcomeError           ValidationOutcome = "error"
)

// Raw verdicts returned by the verification service that are collapsed into OutcomeInvalidEmail.
const (
	serviceResultInvalid = "invalid"
	serviceResultUnknown = "unknown"
)

// ValidationResult is the tri-state verdict on an email address. Only a literal
// "valid" from the service sets IsValid.
type ValidationResult struct {
	IsValid bool              `json:"is_valid"`
	Result  ValidationOutcome `json:"result"`
	Err     error             `json:"-"`
}

type verificationResponse struct {
	Result string `json:"result"`
}

var emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)

// IsValidEmail is a cheap shape check run before any network verification.
func IsValidEmail(email string) bool {
	return emailPattern.MatchString(email)
}

// Verifier calls the external email verification endpoint.
type Verifier struct {
	url     string
	timeout time.Duration
	client  *http.Client
}

// NewVerifier creates a Verifier posting to endpoint. A zero timeout falls back to request.DefaultTimeout.
func NewVerifier(endpoint string, timeout time.Duration, client *http.Client) *Verifier {
	if client == nil {
		client = http.DefaultClient
	}
	if timeout <= 0 {
		timeout = request.DefaultTimeout
	}
	return &Verifier{url: endpoint, timeout: timeout, client: client}
}

// ValidateEmail verifies email and never returns an error: every failure is folded into the result.
//
// Syntactically invalid addresses are rejected without a network call. Otherwise exactly one
// request is issued: a 429 maps to too_many_requests, "invalid" and "unknown" verdicts map to
// invalid_email, and any transport or decoding failure maps to error.
func (v *Verifier) ValidateEmail(ctx context.Context, email string) ValidationResult {
	if !IsValidEmail(email) {
		return ValidationResult{IsValid: false, Result: OutcomeInvalidEmail, Err: ErrSyntaxInvalid}
	}

	ctx, span := tracer.Start(ctx, "Validating email")
	defer span.End()

	result := v.verify(ctx, email)
	span.SetAttributes(attribute.String("validation.result", string(result.Result)))
	if result.Err != nil && errors.Is(result.Err, ErrVerificationTransport) {
		span.RecordError(result.Err)
		span.SetStatus(codes.Error, result.Err.Error())
	}
	return result
}

func (v *Verifier) verify(ctx context.Context, email string) ValidationResult {
	endpoint := fmt.Sprintf("%s?email=%s", v.url, url.QueryEscape(email))
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, nil)
	if err != nil {
		return transportFailure(fmt.Errorf("failed to create request: %w", err))
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := request.FetchWithTimeout(ctx, v.client, req, v.timeout)
	if err != nil {
		var httpErr *request.HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusTooManyRequests {
			logrus.WithField("status_code", httpErr.StatusCode).Warn("Email verification rate limited")
			return ValidationResult{IsValid: false, Result: OutcomeTooManyRequests, Err: ErrRateLimited}
		}
		return transportFailure(err)
	}
	defer resp.Body.Close()

	var body verificationResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return transportFailure(fmt.Errorf("failed to decode verification response: %w", err))
	}

	switch body.Result {
	case serviceResultInvalid, serviceResultUnknown:
		return ValidationResult{IsValid: false, Result: OutcomeInvalidEmail, Err: ErrServiceRejected}
	default:
		outcome := ValidationOutcome(body.Result)
		return ValidationResult{IsValid: outcome == OutcomeValid, Result: outcome}
	}
}

func transportFailure(err error) ValidationResult {
	logrus.WithError(err).Error("Error during email validation")
	return ValidationResult{
		IsValid: false,
		Result:  OutcomeError,
		Err:     fmt.Errorf("%w: %v", ErrVerificationTransport, err),
	}
}
