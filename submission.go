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
	"fmt"
	"net/url"

	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/otel/attribute"
)

// State is the position of a submit attempt in the submission flow.
type State int

const (
	StateIdle State = iota
	StateValidating
	StateRejected
	StateSubmitting
	StateRedirected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateValidating:
		return "validating"
	case StateRejected:
		return "rejected"
	case StateSubmitting:
		return "submitting"
	case StateRedirected:
		return "redirected"
	case StateFailed:
		return "failed"
	default:
		return "idle"
	}
}

// ValidationResultField is the lead capture field carrying the verification result code.
const ValidationResultField = "neverbouncevalidationresult"

// SubmitEvent is the intercepted submit of the host form.
type SubmitEvent interface {
	// PreventDefault stops the native form post.
	PreventDefault()
}

// Form is the host page as seen by the submission flow.
type Form interface {
	ErrorView
	// Email returns the value of the email input, false when the input is missing.
	Email() (string, bool)
	PageURI() string
	PageName() string
	Redirect(location string)
}

// Visitor gives read-only access to the visitor's persisted browser state.
type Visitor interface {
	VisitorToken() (string, bool)
	// AttributionRecord returns the raw attribution text, or "" when there is none.
	AttributionRecord(ctx context.Context, visitorToken string) string
}

// CookieVisitor reads the visitor token from a Cookie header and the attribution
// record from the text posted with the form, falling back to Store.
type CookieVisitor struct {
	Cookies    string
	CookieName string
	Record     *string
	Store      AttributionStore
}

func (v CookieVisitor) VisitorToken() (string, bool) {
	name := v.CookieName
	if name == "" {
		name = VisitorTokenCookie
	}
	return CookieValue(v.Cookies, name)
}

func (v CookieVisitor) AttributionRecord(ctx context.Context, visitorToken string) string {
	if v.Record != nil {
		return *v.Record
	}
	if v.Store == nil {
		return ""
	}
	raw, ok, err := v.Store.Load(ctx, visitorToken)
	if err != nil {
		logrus.WithError(err).Warn("Attribution record unavailable, submitting without it")
		return ""
	}
	if !ok {
		return ""
	}
	return raw
}

// SubmitForm runs one submit attempt and returns the state it ended in.
//
// The native submit is always prevented. Without a visitor token the attempt is
// abandoned before any network call and the form is left untouched. A failed
// verification shows an error on the form and ends in StateRejected. A verified
// email is posted to the lead capture API; success redirects the page, failure
// is logged and reported to operators only.
func (l *Leadform) SubmitForm(ctx context.Context, event SubmitEvent, form Form, visitor Visitor) (State, error) {
	event.PreventDefault()

	submissionID := uuid.New().String()
	logger := logrus.WithField("submission_id", submissionID)

	ctx, span := tracer.Start(ctx, "Submitting form")
	defer span.End()
	span.SetAttributes(attribute.String("submission.id", submissionID))

	email, ok := form.Email()
	if !ok {
		logger.Error("Email input not found")
		return StateIdle, ErrMissingFormElement
	}

	hutk, ok := visitor.VisitorToken()
	if !ok || hutk == "" {
		logger.Error("Hubspot cookie not found")
		return StateIdle, ErrMissingVisitorToken
	}

	logger.WithField("state", StateValidating).Debug("Validating submission")
	form.ClearErrors()
	validation := l.verifier.ValidateEmail(ctx, email)
	span.SetAttributes(attribute.String("submission.validation_result", string(validation.Result)))
	if !validation.IsValid {
		logger.WithFields(logrus.Fields{
			"state":  StateRejected,
			"result": validation.Result,
		}).Info("Email failed validation")
		DisplayErrorMessages(form, validation.Result)
		return StateRejected, nil
	}

	payload := l.buildPayload(ctx, email, validation, hutk, form, visitor)

	logger.WithFields(logrus.Fields{
		"state":  StateSubmitting,
		"fields": len(payload.Fields),
	}).Debug("Submitting lead")
	if err := l.capture.Submit(ctx, payload); err != nil {
		err = fmt.Errorf("%w: %w", ErrSubmissionTransport, err)
		logger.WithError(err).WithField("state", StateFailed).Error("Error submitting form")
		l.notify(err)
		return StateFailed, err
	}

	location := RedirectURL(form.PageURI(), l.redirectPath, email)
	form.Redirect(location)
	l.trackConversion(hutk, validation, form.PageURI())
	logger.WithField("state", StateRedirected).Info("Form submitted")
	return StateRedirected, nil
}

func (l *Leadform) buildPayload(ctx context.Context, email string, validation ValidationResult, hutk string, form Form, visitor Visitor) SubmissionPayload {
	fields := []Field{
		{Name: "email", Value: email},
		{Name: ValidationResultField, Value: string(validation.Result)},
	}
	fields = append(fields, AdditionalFields(visitor.AttributionRecord(ctx, hutk))...)

	return SubmissionPayload{
		Fields: fields,
		Context: SubmissionContext{
			Hutk:      hutk,
			PageURI:   form.PageURI(),
			PageName:  form.PageName(),
			IPAddress: l.ipAddress,
		},
	}
}

func (l *Leadform) trackConversion(hutk string, validation ValidationResult, pageURI string) {
	if l.tracker == nil {
		return
	}
	err := l.tracker.Enqueue(posthog.Capture{
		DistinctId: hutk,
		Event:      "lead_submitted",
		Properties: posthog.NewProperties().
			Set("validation_result", string(validation.Result)).
			Set("page_uri", pageURI),
	})
	if err != nil {
		logrus.WithError(err).Warn("Failed to enqueue conversion event")
	}
}

// RedirectURL builds the post-submission location "{origin}{path}?email={email}".
// The email is query-escaped, so "jane@example.com" becomes "jane%40example.com".
// The origin is the scheme and host of pageURI; without one the location is relative.
func RedirectURL(pageURI, path, email string) string {
	location := fmt.Sprintf("%s?email=%s", path, url.QueryEscape(email))
	page, err := url.Parse(pageURI)
	if err != nil || page.Scheme == "" || page.Host == "" {
		return location
	}
	return fmt.Sprintf("%s://%s%s", page.Scheme, page.Host, location)
}

// IsSilentFailure reports whether err belongs to the failures that are logged but never shown.
func IsSilentFailure(err error) bool {
	return errors.Is(err, ErrMissingVisitorToken) ||
		errors.Is(err, ErrMissingFormElement) ||
		errors.Is(err, ErrSubmissionTransport)
}
