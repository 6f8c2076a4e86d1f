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
	"fmt"
	"io"
	"net/http"

	"github.com/blnkfinance/leadform/internal/request"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// SubmissionContext carries the visitor and page identifiers of a submission.
type SubmissionContext struct {
	Hutk      string  `json:"hutk"`
	PageURI   string  `json:"pageUri"`
	PageName  string  `json:"pageName"`
	IPAddress *string `json:"ipAddress"`
}

// SubmissionPayload is the body posted to the lead capture API.
type SubmissionPayload struct {
	Fields  []Field           `json:"fields"`
	Context SubmissionContext `json:"context"`
}

// LeadCaptureClient posts submissions to a single HubSpot form.
type LeadCaptureClient struct {
	baseURL  string
	portalID string
	formID   string
	client   *http.Client
}

// NewLeadCaptureClient creates a client for the form identified by portalID and formID.
func NewLeadCaptureClient(baseURL, portalID, formID string, client *http.Client) *LeadCaptureClient {
	if client == nil {
		client = http.DefaultClient
	}
	return &LeadCaptureClient{baseURL: baseURL, portalID: portalID, formID: formID, client: client}
}

// Endpoint returns the submission URL of the configured form.
func (c *LeadCaptureClient) Endpoint() string {
	return fmt.Sprintf("%s/submissions/v3/integration/submit/%s/%s", c.baseURL, c.portalID, c.formID)
}

// Submit posts payload. The call is bounded only by ctx. A non-2xx answer is
// returned as a *request.HTTPError.
func (c *LeadCaptureClient) Submit(ctx context.Context, payload SubmissionPayload) error {
	ctx, span := tracer.Start(ctx, "Submitting lead")
	defer span.End()

	err := c.submit(ctx, payload)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
	}
	return err
}

func (c *LeadCaptureClient) submit(ctx context.Context, payload SubmissionPayload) error {
	body, err := request.ToJsonReq(payload)
	if err != nil {
		return fmt.Errorf("failed to marshal payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.Endpoint(), body)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to execute request: %w", err)
	}
	defer func() {
		if err := resp.Body.Close(); err != nil {
			logrus.WithError(err).Error("Failed to close response body")
		}
	}()

	trace.SpanFromContext(ctx).SetAttributes(attribute.Int("http.status_code", resp.StatusCode))

	if !request.IsSuccess(resp.StatusCode) {
		message, _ := io.ReadAll(io.LimitReader(resp.Body, 4096))
		logrus.WithFields(logrus.Fields{
			"status_code": resp.StatusCode,
			"response":    string(message),
			"portal_id":   c.portalID,
			"form_id":     c.formID,
		}).Debug("Lead capture response received")
		return &request.HTTPError{StatusCode: resp.StatusCode}
	}

	logrus.WithFields(logrus.Fields{
		"status_code": resp.StatusCode,
		"portal_id":   c.portalID,
		"form_id":     c.formID,
	}).Info("Lead submitted")
	return nil
}
