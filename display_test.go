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
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDisplayErrorMessages(t *testing.T) {
	tests := []struct {
		name   string
		result ValidationOutcome
		want   ErrorElements
	}{
		{name: "too many requests", result: OutcomeTooManyRequests, want: ErrorElements{Container: true, TooManyRequests: true}},
		{name: "invalid email", result: OutcomeInvalidEmail, want: ErrorElements{Container: true, InvalidEmail: true}},
		{name: "error shows empty container", result: OutcomeError, want: ErrorElements{Container: true}},
		{name: "pass-through code shows empty container", result: "catchall", want: ErrorElements{Container: true}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			elements := &ErrorElements{InvalidEmail: true, TooManyRequests: true}
			DisplayErrorMessages(elements, tt.result)
			assert.Equal(t, tt.want, *elements)
		})
	}
}

func TestErrorElements_ClearErrors(t *testing.T) {
	elements := &ErrorElements{Container: true, InvalidEmail: true}
	elements.ClearErrors()
	assert.Equal(t, ErrorElements{}, *elements)
}

func TestErrorKind_String(t *testing.T) {
	assert.Equal(t, "invalid_email", ErrorKindInvalidEmail.String())
	assert.Equal(t, "too_many_requests", ErrorKindTooManyRequests.String())
	assert.Equal(t, "none", ErrorKindNone.String())
}
