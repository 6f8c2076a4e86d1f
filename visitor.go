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

import "strings"

// VisitorTokenCookie is the cookie holding the HubSpot visitor token.
const VisitorTokenCookie = "hubspotutk"

// CookieValue returns the value of cookie name from a raw Cookie header.
// The value is returned verbatim, and only when name occurs exactly once.
func CookieValue(cookieHeader, name string) (string, bool) {
	parts := strings.Split("; "+cookieHeader, "; "+name+"=")
	if len(parts) != 2 {
		return "", false
	}
	value, _, _ := strings.Cut(parts[1], ";")
	return value, true
}

// VisitorTokenFromCookies reads the visitor token from a raw Cookie header.
func VisitorTokenFromCookies(cookieHeader string) (string, bool) {
	return CookieValue(cookieHeader, VisitorTokenCookie)
}
