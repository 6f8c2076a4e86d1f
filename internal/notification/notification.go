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

package notification

import (
	"fmt"
	"net/http"
	"time"

	"github.com/blnkfinance/leadform/config"
	"github.com/blnkfinance/leadform/internal/request"
	"github.com/sirupsen/logrus"
)

type slackText struct {
	Type  string `json:"type"`
	Text  string `json:"text"`
	Emoji bool   `json:"emoji,omitempty"`
}

type slackBlock struct {
	Type   string      `json:"type"`
	Text   *slackText  `json:"text,omitempty"`
	Fields []slackText `json:"fields,omitempty"`
}

type slackMessage struct {
	Blocks []slackBlock `json:"blocks"`
}

func newSlackMessage(project string, err error, at time.Time) slackMessage {
	return slackMessage{Blocks: []slackBlock{
		{Type: "header", Text: &slackText{Type: "plain_text", Text: fmt.Sprintf("Error From %s 🐞", project), Emoji: true}},
		{Type: "section", Fields: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("*Error:*\n%v", err)}}},
		{Type: "section", Fields: []slackText{{Type: "mrkdwn", Text: fmt.Sprintf("*Time:*\n%v", at.Format(time.RFC822))}}},
	}}
}

// SlackNotification posts err to the configured Slack webhook.
//
// Parameters:
// - err: The error to be reported via Slack.
//
// Returns:
// - error: An error if the configuration is missing or the webhook call fails.
func SlackNotification(err error) error {
	conf, cnfErr := config.Fetch()
	if cnfErr != nil {
		return cnfErr
	}

	payload, marshalErr := request.ToJsonReq(newSlackMessage(conf.ProjectName, err, time.Now()))
	if marshalErr != nil {
		return marshalErr
	}

	req, reqErr := http.NewRequest(http.MethodPost, conf.Notification.Slack.WebhookUrl, payload)
	if reqErr != nil {
		return reqErr
	}

	var response interface{}
	resp, callErr := request.Call(req, &response)
	if resp != nil && !request.IsSuccess(resp.StatusCode) {
		return &request.HTTPError{StatusCode: resp.StatusCode}
	}
	if callErr != nil && resp == nil {
		return callErr
	}
	// Slack answers "ok" as plain text, so a decode error on a 2xx is expected.
	return nil
}

// NotifyError logs systemError and, when a Slack webhook is configured, reports it there.
// It never blocks the caller.
func NotifyError(systemError error) {
	go func(systemError error) {
		logrus.Error(systemError)

		conf, err := config.Fetch()
		if err != nil {
			logrus.Debug(err)
			return
		}

		if conf.Notification.Slack.WebhookUrl != "" {
			if err := SlackNotification(systemError); err != nil {
				logrus.WithError(err).Error("Failed to send Slack notification")
			}
		}
	}(systemError)
}
