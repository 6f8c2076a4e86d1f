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
	"encoding/json"
	"strings"
)

// FieldMapping pairs an attribution record key with the lead capture field it is sent as.
type FieldMapping struct {
	Key   string
	Field string
}

// Field is a single name/value pair of a lead capture submission.
type Field struct {
	Name  string      `json:"name"`
	Value interface{} `json:"value"`
}

// AttributionRecord is the marketing-touch data persisted by the site tracker.
type AttributionRecord map[string]interface{}

var fieldMappings = []FieldMapping{
	{Key: "utmSource", Field: "utm_source"},
	{Key: "utmCampaign", Field: "utm_campaign"},
	{Key: "utmTerm", Field: "utm_term"},
	{Key: "utmContent", Field: "utm_content"},
	{Key: "utmMedium", Field: "utm_medium"},
	{Key: "firstWebsiteVisitAt", Field: "first_website_visit_at"},
	{Key: "landingPage", Field: "landing_page"},
	{Key: "adwordsGclid", Field: "adwords_gclid"},
	{Key: "referrer", Field: "referrer"},
	{Key: "utmSourcesAll", Field: "utm_sources___all"},
	{Key: "utmCampaignsAll", Field: "utm_campaign___all_touches"},
	{Key: "utmContentsAll", Field: "utm_content___all_touches"},
	{Key: "utmTermsAll", Field: "utm_term___all_touches"},
	{Key: "utmMediumsAll", Field: "utm_medium___all_touches"},
	{Key: "utmSourceLast", Field: "utm_source___last_touch"},
	{Key: "utmCampaignLast", Field: "utm_campaign___last_touch"},
	{Key: "utmMediumLast", Field: "utm_medium___last_touch"},
	{Key: "utmContentLast", Field: "utm_content___last_touch"},
	{Key: "utmTermLast", Field: "utm_term___last_touch"},
	{Key: "campaignID", Field: "campaign_id"},
	{Key: "adgroupID", Field: "adgroup_id"},
	{Key: "keywordID", Field: "keyword_id"},
	{Key: "msClkid", Field: "msclkid"},
}

// FieldMappings returns a copy of the attribution mapping table in declaration order.
func FieldMappings() []FieldMapping {
	out := make([]FieldMapping, len(fieldMappings))
	copy(out, fieldMappings)
	return out
}

// ParseAttributionRecord decodes persisted attribution text. Empty, malformed or
// non-object input yields an empty record.
func ParseAttributionRecord(raw string) AttributionRecord {
	record := AttributionRecord{}
	if strings.TrimSpace(raw) == "" {
		return record
	}
	if err := json.Unmarshal([]byte(raw), &record); err != nil || record == nil {
		return AttributionRecord{}
	}
	return record
}

// Fields projects the record onto the mapping table. Pairs follow table order and
// keys whose value is empty, zero, false or null are left out.
func (r AttributionRecord) Fields() []Field {
	fields := make([]Field, 0, len(fieldMappings))
	for _, m := range fieldMappings {
		value, ok := r[m.Key]
		if !ok || !truthy(value) {
			continue
		}
		fields = append(fields, Field{Name: m.Field, Value: value})
	}
	return fields
}

// AdditionalFields parses raw attribution text and returns its lead capture fields.
func AdditionalFields(raw string) []Field {
	return ParseAttributionRecord(raw).Fields()
}

func truthy(v interface{}) bool {
	switch t := v.(type) {
	case nil:
		return false
	case string:
		return t != ""
	case float64:
		return t != 0
	case bool:
		return t
	default:
		return true
	}
}
