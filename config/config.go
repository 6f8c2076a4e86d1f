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

package config

import (
	"encoding/json"
	"errors"
	"log"
	"os"
	"strings"
	"sync/atomic"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/kelseyhightower/envconfig"

	"github.com/sirupsen/logrus"
)

const (
	DEFAULT_PORT                  = "5010"
	DEFAULT_VERIFICATION_URL      = "https://validate-email-endpoint.vercel.app/api/validate-email"
	DEFAULT_VERIFICATION_TIMEOUT  = 2000
	DEFAULT_LEAD_CAPTURE_BASE_URL = "https://api.hsforms.com"
	DEFAULT_PORTAL_ID             = "39674306"
	DEFAULT_FORM_ID               = "12cc5240-d11a-49aa-b4d9-0f63b72eced5"
	DEFAULT_IP_LOOKUP_URL         = "https://api.ipify.org?format=json"
	DEFAULT_REDIRECT_PATH         = "/demo-form"
	DEFAULT_VISITOR_COOKIE        = "hubspotutk"
	DEFAULT_ATTRIBUTION_KEY       = "dlmc"
)

var ConfigStore atomic.Value

type ServerConfig struct {
	SSL    bool   `json:"ssl" envconfig:"LEADFORM_SERVER_SSL"`
	Domain string `json:"domain" envconfig:"LEADFORM_SERVER_SSL_DOMAIN"`
	Email  string `json:"ssl_email" envconfig:"LEADFORM_SERVER_SSL_EMAIL"`
	Port   string `json:"port" envconfig:"LEADFORM_SERVER_PORT"`
}

type VerificationConfig struct {
	Url       string `json:"url" envconfig:"LEADFORM_VERIFICATION_URL"`
	TimeoutMs int    `json:"timeout_ms" envconfig:"LEADFORM_VERIFICATION_TIMEOUT_MS"`
}

type LeadCaptureConfig struct {
	BaseUrl  string `json:"base_url" envconfig:"LEADFORM_LEAD_CAPTURE_BASE_URL"`
	PortalID string `json:"portal_id" envconfig:"LEADFORM_LEAD_CAPTURE_PORTAL_ID"`
	FormID   string `json:"form_id" envconfig:"LEADFORM_LEAD_CAPTURE_FORM_ID"`
}

type IPLookupConfig struct {
	Url string `json:"url" envconfig:"LEADFORM_IP_LOOKUP_URL"`
}

type RedirectConfig struct {
	Path string `json:"path" envconfig:"LEADFORM_REDIRECT_PATH"`
}

type VisitorConfig struct {
	CookieName string `json:"cookie_name" envconfig:"LEADFORM_VISITOR_COOKIE_NAME"`
}

type AttributionConfig struct {
	StorageKey string `json:"storage_key" envconfig:"LEADFORM_ATTRIBUTION_STORAGE_KEY"`
}

type RedisConfig struct {
	Dns string `json:"dns" envconfig:"LEADFORM_REDIS_DNS"`
}

type RateLimitConfig struct {
	RequestsPerSecond  *float64 `json:"requests_per_second" envconfig:"LEADFORM_RATE_LIMIT_RPS"`
	Burst              *int     `json:"burst" envconfig:"LEADFORM_RATE_LIMIT_BURST"`
	CleanupIntervalSec *int     `json:"cleanup_interval_sec" envconfig:"LEADFORM_RATE_LIMIT_CLEANUP_INTERVAL_SEC"`
}

type SlackWebhook struct {
	WebhookUrl string `json:"webhook_url" envconfig:"LEADFORM_SLACK_WEBHOOK_URL"`
}

type Notification struct {
	Slack SlackWebhook `json:"slack"`
}

type TelemetryConfig struct {
	Enable          bool   `json:"enable" envconfig:"LEADFORM_TELEMETRY_ENABLE"`
	PostHogKey      string `json:"posthog_key" envconfig:"LEADFORM_POSTHOG_KEY"`
	PostHogEndpoint string `json:"posthog_endpoint" envconfig:"LEADFORM_POSTHOG_ENDPOINT"`
	OtelEndpoint    string `json:"otel_endpoint" envconfig:"LEADFORM_OTEL_ENDPOINT"`
}

type Configuration struct {
	ProjectName  string             `json:"project_name" envconfig:"LEADFORM_PROJECT_NAME"`
	Server       ServerConfig       `json:"server"`
	Verification VerificationConfig `json:"verification"`
	LeadCapture  LeadCaptureConfig  `json:"lead_capture"`
	IPLookup     IPLookupConfig     `json:"ip_lookup"`
	Redirect     RedirectConfig     `json:"redirect"`
	Visitor      VisitorConfig      `json:"visitor"`
	Attribution  AttributionConfig  `json:"attribution"`
	Redis        RedisConfig        `json:"redis"`
	Notification Notification       `json:"notification"`
	RateLimit    RateLimitConfig    `json:"rate_limit"`
	Telemetry    TelemetryConfig    `json:"telemetry"`
}

func loadConfigFromFile(file string) error {
	var cnf Configuration
	_, err := os.Stat(file)
	if err == nil {
		f, err := os.Open(file)
		if err != nil {
			return err
		}
		defer f.Close()
		err = json.NewDecoder(f).Decode(&cnf)
		if err != nil {
			return err
		}
	} else if errors.Is(err, os.ErrNotExist) {
		log.Println("config json not passed, will use env variables")
	}

	// override config from environment variables
	err = envconfig.Process("leadform", &cnf)
	if err != nil {
		return err
	}

	err = cnf.validateAndAddDefaults()
	if err != nil {
		return err
	}

	ConfigStore.Store(&cnf)
	return nil
}

func InitConfig(configFile string) error {
	logger()
	return loadConfigFromFile(configFile)
}

func Fetch() (*Configuration, error) {
	config := ConfigStore.Load()
	c, ok := config.(*Configuration)
	if !ok {
		return nil, errors.New("config not loaded. Create a json file called leadform.json or set LEADFORM_ env variables")
	}
	return c, nil
}

func (cnf *Configuration) validateAndAddDefaults() error {
	if cnf.ProjectName == "" {
		cnf.ProjectName = "Leadform"
	}

	// Trim white spaces from fields
	cnf.ProjectName = strings.TrimSpace(cnf.ProjectName)
	cnf.Server.Port = strings.TrimSpace(cnf.Server.Port)
	cnf.Verification.Url = strings.TrimSpace(cnf.Verification.Url)
	cnf.LeadCapture.BaseUrl = strings.TrimRight(strings.TrimSpace(cnf.LeadCapture.BaseUrl), "/")
	cnf.LeadCapture.PortalID = strings.TrimSpace(cnf.LeadCapture.PortalID)
	cnf.LeadCapture.FormID = strings.TrimSpace(cnf.LeadCapture.FormID)
	cnf.Redis.Dns = strings.TrimSpace(cnf.Redis.Dns)

	if cnf.Server.Port == "" {
		cnf.Server.Port = DEFAULT_PORT
		log.Printf("Warning: Port not specified in config. Setting default port: %s", DEFAULT_PORT)
	}
	if cnf.Verification.Url == "" {
		cnf.Verification.Url = DEFAULT_VERIFICATION_URL
	}
	if cnf.Verification.TimeoutMs <= 0 {
		cnf.Verification.TimeoutMs = DEFAULT_VERIFICATION_TIMEOUT
	}
	if cnf.LeadCapture.BaseUrl == "" {
		cnf.LeadCapture.BaseUrl = DEFAULT_LEAD_CAPTURE_BASE_URL
	}
	if cnf.LeadCapture.PortalID == "" {
		cnf.LeadCapture.PortalID = DEFAULT_PORTAL_ID
	}
	if cnf.LeadCapture.FormID == "" {
		cnf.LeadCapture.FormID = DEFAULT_FORM_ID
	}
	if cnf.IPLookup.Url == "" {
		cnf.IPLookup.Url = DEFAULT_IP_LOOKUP_URL
	}
	if cnf.Redirect.Path == "" {
		cnf.Redirect.Path = DEFAULT_REDIRECT_PATH
	}
	if !strings.HasPrefix(cnf.Redirect.Path, "/") {
		cnf.Redirect.Path = "/" + cnf.Redirect.Path
	}
	if cnf.Visitor.CookieName == "" {
		cnf.Visitor.CookieName = DEFAULT_VISITOR_COOKIE
	}
	if cnf.Attribution.StorageKey == "" {
		cnf.Attribution.StorageKey = DEFAULT_ATTRIBUTION_KEY
	}

	// Rate limiting is disabled by default (when both RPS and Burst are nil)
	if cnf.RateLimit.RequestsPerSecond != nil && cnf.RateLimit.Burst == nil {
		defaultBurst := 2 * int(*cnf.RateLimit.RequestsPerSecond)
		cnf.RateLimit.Burst = &defaultBurst
		log.Printf("Warning: Rate limit burst not specified. Setting default value: %d", defaultBurst)
	}
	if cnf.RateLimit.RequestsPerSecond == nil && cnf.RateLimit.Burst != nil {
		defaultRPS := float64(*cnf.RateLimit.Burst) / 2
		cnf.RateLimit.RequestsPerSecond = &defaultRPS
		log.Printf("Warning: Rate limit RPS not specified. Setting default value: %.2f", defaultRPS)
	}
	if cnf.RateLimit.CleanupIntervalSec == nil {
		defaultCleanup := 10800 // 3 hours in seconds
		cnf.RateLimit.CleanupIntervalSec = &defaultCleanup
	}

	return validation.ValidateStruct(cnf,
		validation.Field(&cnf.Verification, validation.By(func(interface{}) error {
			return validation.Validate(cnf.Verification.Url, validation.Required, is.URL)
		})),
		validation.Field(&cnf.LeadCapture, validation.By(func(interface{}) error {
			return validation.Validate(cnf.LeadCapture.BaseUrl, validation.Required, is.URL)
		})),
		validation.Field(&cnf.IPLookup, validation.By(func(interface{}) error {
			return validation.Validate(cnf.IPLookup.Url, validation.Required, is.URL)
		})),
	)
}

// MockConfig sets a mock configuration for testing purposes.
func MockConfig(mockConfig *Configuration) {
	ConfigStore.Store(mockConfig)
}

func logger() {
	logger := logrus.New()
	log.SetOutput(logger.Writer())
}
