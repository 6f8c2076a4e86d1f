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

package model

import (
	"errors"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"

	"github.com/blnkfinance/leadform"
)

// maxEmailLength is the longest address accepted by RFC 5321.
const maxEmailLength = 254

// SubmitForm is what the host page posts when its form is submitted.
type SubmitForm struct {
	// Email is nil when the page has no email input.
	Email       *string `json:"email"`
	PageURI     string  `json:"page_uri"`
	PageName    string  `json:"page_name"`
	Attribution *string `json:"attribution,omitempty"`
}

// SubmissionResponse tells the page how to update itself.
type SubmissionResponse struct {
	SubmissionState string                  `json:"state"`
	Errors          *leadform.ErrorElements `json:"errors,omitempty"`
	Redirect        string                  `json:"redirect,omitempty"`
}

type FieldMapping struct {
	Key   string `json:"key"`
	Field string `json:"field"`
}

func (s *SubmitForm) ValidateSubmitForm() error {
	return validation.ValidateStruct(s,
		validation.Field(&s.Email, validation.By(emailLength)),
		validation.Field(&s.PageURI, validation.Required, is.URL),
		validation.Field(&s.PageName, validation.Length(0, 512)),
	)
}

func emailLength(value interface{}) error {
	value, isNil := validation.Indirect(value)
	email, ok := value.(string)
	if isNil || !ok {
		return nil
	}
	if len(email) > maxEmailLength {
		return errors.New("email must be at most 254 characters")
	}
	return nil
}
