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
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/sirupsen/logrus"
	"go.opentelemetry.io/contrib/instrumentation/github.com/gin-gonic/gin/otelgin"

	"github.com/blnkfinance/leadform"
	"github.com/blnkfinance/leadform/api/middleware"
	"github.com/blnkfinance/leadform/api/model"
	"github.com/blnkfinance/leadform/config"
	"github.com/blnkfinance/leadform/internal/apierror"
)

type Api struct {
	leadform *leadform.Leadform
	router   *gin.Engine
}

func (a Api) Router() *gin.Engine {
	router := a.router
	router.POST("/submissions", a.SubmitForm)
	router.GET("/fields", a.GetFields)
	return router
}

func NewAPI(l *leadform.Leadform) *Api {
	gin.SetMode(gin.ReleaseMode)
	r := gin.Default()
	r.Use(otelgin.Middleware("leadform"))

	conf, err := config.Fetch()
	if err != nil {
		logrus.WithError(err).Warn("Configuration not loaded, rate limiting disabled")
	}
	r.Use(middleware.RateLimitMiddleware(conf))

	r.GET("/", func(c *gin.Context) {
		c.JSON(http.StatusOK, "server running...")
	})

	return &Api{leadform: l, router: r}
}

// SubmitForm runs one form submission and reports the resulting page state.
// Failures the page should not see are answered with 200 and no error state.
func (a Api) SubmitForm(c *gin.Context) {
	var req model.SubmitForm
	if err := c.ShouldBindJSON(&req); err != nil {
		respondWithError(c, apierror.NewAPIError(apierror.ErrBadRequest, "Malformed submission", err.Error()))
		return
	}
	if err := req.ValidateSubmitForm(); err != nil {
		respondWithError(c, apierror.NewAPIError(apierror.ErrInvalidInput, "Invalid submission", err))
		return
	}

	view := newFormView(&req)
	visitor := a.leadform.NewVisitor(c.GetHeader("Cookie"), req.Attribution)
	state, err := a.leadform.SubmitForm(c.Request.Context(), view, view, visitor)
	if err != nil && !leadform.IsSilentFailure(err) {
		respondWithError(c, apierror.NewAPIError(apierror.ErrInternalServer, "Submission failed", err.Error()))
		return
	}

	c.JSON(http.StatusOK, view.response(state))
}

func (a Api) GetFields(c *gin.Context) {
	mappings := leadform.FieldMappings()
	resp := make([]model.FieldMapping, 0, len(mappings))
	for _, m := range mappings {
		resp = append(resp, model.FieldMapping{Key: m.Key, Field: m.Field})
	}
	c.JSON(http.StatusOK, resp)
}

func respondWithError(c *gin.Context, err apierror.APIError) {
	c.JSON(apierror.MapErrorToHTTPStatus(err), err)
}
