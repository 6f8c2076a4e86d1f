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

// ErrorKind selects which message is shown inside the form's error container.
type ErrorKind int

const (
	// ErrorKindNone shows the container with no specific message.
	ErrorKindNone ErrorKind = iota
	ErrorKindInvalidEmail
	ErrorKindTooManyRequests
)

func (k ErrorKind) String() string {
	switch k {
	case ErrorKindInvalidEmail:
		return "invalid_email"
	case ErrorKindTooManyRequests:
		return "too_many_requests"
	default:
		return "none"
	}
}

// ErrorView is the part of the host page that displays validation errors.
type ErrorView interface {
	// ClearErrors hides the container and both messages.
	ClearErrors()
	// ShowError makes the container visible and shows only the message for kind.
	ShowError(kind ErrorKind)
}

// DisplayErrorMessages shows the message matching result. Result codes other than
// invalid_email and too_many_requests leave the container visible but empty.
func DisplayErrorMessages(view ErrorView, result ValidationOutcome) {
	switch result {
	case OutcomeTooManyRequests:
		view.ShowError(ErrorKindTooManyRequests)
	case OutcomeInvalidEmail:
		view.ShowError(ErrorKindInvalidEmail)
	default:
		view.ShowError(ErrorKindNone)
	}
}

// ErrorElements records the visibility of the form's error elements.
// It is the in-memory ErrorView used by adapters that render state elsewhere.
type ErrorElements struct {
	Container       bool `json:"form-error-messages-container"`
	InvalidEmail    bool `json:"main-demo-form-invalid-email-error-message"`
	TooManyRequests bool `json:"main-demo-form-too-many-requests"`
}

func (e *ErrorElements) ClearErrors() {
	*e = ErrorElements{}
}

func (e *ErrorElements) ShowError(kind ErrorKind) {
	e.Container = true
	e.InvalidEmail = kind == ErrorKindInvalidEmail
	e.TooManyRequests = kind == ErrorKindTooManyRequests
}
