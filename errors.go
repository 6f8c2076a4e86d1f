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

import "errors"

// Failure classes of a submission attempt. Validation failures are folded into a
// ValidationResult and shown to the visitor; the rest are only logged.
var (
	ErrSyntaxInvalid         = errors.New("email address is not syntactically valid")
	ErrRateLimited           = errors.New("email verification rate limited")
	ErrServiceRejected       = errors.New("email rejected by verification service")
	ErrVerificationTransport = errors.New("email verification request failed")
	ErrMissingVisitorToken   = errors.New("visitor token cookie not found")
	ErrSubmissionTransport   = errors.New("lead capture submission failed")
	ErrMissingFormElement    = errors.New("form element not found")
)
