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

package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/wacul/ptr"

	"github.com/blnkfinance/leadform/config"
)

func setupRouter(conf *config.Configuration) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.Use(RateLimitMiddleware(conf))
	router.POST("/submissions", func(c *gin.Context) {
		c.Status(http.StatusOK)
	})
	return router
}

func send(router *gin.Engine) int {
	req := httptest.NewRequest(http.MethodPost, "/submissions", nil)
	req.RemoteAddr = "203.0.113.7:52000"
	resp := httptest.NewRecorder()
	router.ServeHTTP(resp, req)
	return resp.Code
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	router := setupRouter(&config.Configuration{})
	for i := 0; i < 20; i++ {
		assert.Equal(t, http.StatusOK, send(router))
	}
}

func TestRateLimitMiddleware_NilConfig(t *testing.T) {
	router := setupRouter(nil)
	assert.Equal(t, http.StatusOK, send(router))
}

func TestRateLimitMiddleware_LimitsBurst(t *testing.T) {
	conf := &config.Configuration{
		RateLimit: config.RateLimitConfig{
			RequestsPerSecond:  ptr.Float64(0.001),
			Burst:              ptr.Int(2),
			CleanupIntervalSec: ptr.Int(60),
		},
	}
	router := setupRouter(conf)

	assert.Equal(t, http.StatusOK, send(router))
	assert.Equal(t, http.StatusOK, send(router))
	assert.Equal(t, http.StatusTooManyRequests, send(router))
}
