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
	"net/http"
	"time"

	"github.com/blnkfinance/leadform/config"
	"github.com/blnkfinance/leadform/internal/notification"
	"github.com/posthog/posthog-go"
	"go.opentelemetry.io/otel"
)

var tracer = otel.Tracer("leadform")

// ConversionTracker receives analytics events for completed submissions.
// posthog.Client satisfies it.
type ConversionTracker interface {
	Enqueue(msg posthog.Message) error
}

// Leadform wires the verification, attribution and lead capture steps of the form.
type Leadform struct {
	verifier     *Verifier
	capture      *LeadCaptureClient
	ipResolver   *IPResolver
	ipAddress    *string
	cookieName   string
	redirectPath string
	store        AttributionStore
	tracker      ConversionTracker
	notify       func(error)
}

// NewLeadform builds the pipeline from configuration and resolves the public IP address.
// Resolution happens here, once, so it has settled before any submission is accepted.
//
// Parameters:
// - ctx context.Context: Bounds the IP lookup.
// - cnf *config.Configuration: The loaded configuration.
// - client *http.Client: Client for all outbound calls. nil means http.DefaultClient.
//
// Returns:
// - *Leadform: The ready pipeline.
func NewLeadform(ctx context.Context, cnf *config.Configuration, client *http.Client) *Leadform {
	if client == nil {
		client = http.DefaultClient
	}
	l := &Leadform{
		verifier:     NewVerifier(cnf.Verification.Url, time.Duration(cnf.Verification.TimeoutMs)*time.Millisecond, client),
		capture:      NewLeadCaptureClient(cnf.LeadCapture.BaseUrl, cnf.LeadCapture.PortalID, cnf.LeadCapture.FormID, client),
		ipResolver:   NewIPResolver(cnf.IPLookup.Url, client),
		cookieName:   cnf.Visitor.CookieName,
		redirectPath: cnf.Redirect.Path,
		notify:       notification.NotifyError,
	}
	l.ipAddress = l.ipResolver.Resolve(ctx)
	return l
}

// SetAttributionStore sets the fallback store for visitors that post no attribution record.
func (l *Leadform) SetAttributionStore(store AttributionStore) {
	l.store = store
}

// SetConversionTracker enables conversion events after successful submissions.
func (l *Leadform) SetConversionTracker(tracker ConversionTracker) {
	l.tracker = tracker
}

// SetErrorNotifier replaces the operator notification used for failed submissions.
func (l *Leadform) SetErrorNotifier(notify func(error)) {
	l.notify = notify
}

// IPAddress returns the address resolved at construction, nil if resolution failed.
func (l *Leadform) IPAddress() *string {
	return l.ipAddress
}

// Verifier exposes the email verification client.
// NewVisitor returns the Visitor for a request carrying cookies and an optional
// attribution record posted by the page.
func (l *Leadform) NewVisitor(cookies string, record *string) Visitor {
	return CookieVisitor{Cookies: cookies, CookieName: l.cookieName, Record: record, Store: l.store}
}
