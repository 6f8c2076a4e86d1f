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

package api

import (
	"github.com/blnkfinance/leadform"
	"github.com/blnkfinance/leadform/api/model"
)

// formView records what the pipeline did to the page so it can be sent back
// to the browser.
type formView struct {
	leadform.ErrorElements
	request   *model.SubmitForm
	touched   bool
	redirect  string
	prevented bool
}

func newFormView(req *model.SubmitForm) *formView {
	return &formView{request: req}
}

func (v *formView) PreventDefault() {
	v.prevented = true
}

func (v *formView) ClearErrors() {
	v.touched = true
	v.ErrorElements.ClearErrors()
}

func (v *formView) ShowError(kind leadform.ErrorKind) {
	v.touched = true
	v.ErrorElements.ShowError(kind)
}

func (v *formView) Email() (string, bool) {
	if v.request.Email == nil {
		return "", false
	}
	return *v.request.Email, true
}

func (v *formView) PageURI() string {
	return v.request.PageURI
}

func (v *formView) PageName() string {
	return v.request.PageName
}

func (v *formView) Redirect(location string) {
	v.redirect = location
}

func (v *formView) response(state leadform.State) model.SubmissionResponse {
	resp := model.SubmissionResponse{
		SubmissionState: state.String(),
		Redirect:        v.redirect,
	}
	if v.touched {
		elements := v.ErrorElements
		resp.Errors = &elements
	}
	return resp
}
