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

	"github.com/sirupsen/logrus"
	"github.com/wacul/ptr"
	"go.opentelemetry.io/otel/codes"
)

type ipResponse struct {
	IP string `json:"ip"`
}

// IPResolver looks up the caller's public address from an IP echo service.
type IPResolver struct {
	url    string
	client *http.Client
}

// NewIPResolver creates a resolver for endpoint, which must answer with {"ip": "..."}.
func NewIPResolver(endpoint string, client *http.Client) *IPResolver {
	if client == nil {
		client = http.DefaultClient
	}
	return &IPResolver{url: endpoint, client: client}
}

// Resolve returns the public IP address, or nil on any failure. Failures are logged.
func (r *IPResolver) Resolve(ctx context.Context) *string {
	ctx, span := tracer.Start(ctx, "Resolving IP address")
	defer span.End()

	ip, err := r.fetch(ctx)
	if err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		logrus.WithError(err).Error("Error fetching IP address")
		return nil
	}
	return ptr.String(ip)
}

func (r *IPResolver) fetch(ctx context.Context) (string, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, r.url, nil)
	if err != nil {
		return "", fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := r.client.Do(req)
	if err != nil {
		return "", fmt.Errorf("failed to execute request: %w", err)
	}
	defer resp.Body.Close()

	var body ipResponse
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		return "", fmt.Errorf("failed to decode ip response: %w", err)
	}
	if body.IP == "" {
		return "", errors.New("IP address not found")
	}
	return body.IP, nil
}
