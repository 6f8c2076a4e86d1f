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

package main

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/caddyserver/certmagic"
	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/posthog/posthog-go"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"go.elastic.co/apm/module/apmlogrus/v2"

	"github.com/blnkfinance/leadform"
	"github.com/blnkfinance/leadform/api"
	"github.com/blnkfinance/leadform/config"
	redis_db "github.com/blnkfinance/leadform/internal/redis-db"
	trace "github.com/blnkfinance/leadform/internal/traces"
)

/*
serveTLS starts an HTTPS server with certificates managed by CertMagic.
If no domain is specified, the server defaults to localhost.
*/
func serveTLS(r *gin.Engine, conf config.ServerConfig) error {
	certmagic.DefaultACME.Agreed = true
	certmagic.DefaultACME.Email = conf.Email
	cfg := certmagic.NewDefault()
	cfg.Storage = &certmagic.FileStorage{Path: "certmagic"}

	domains := []string{conf.Domain}
	if conf.Domain == "" {
		log.Println("No domain specified, defaulting to localhost")
		domains = []string{"localhost"}
	}

	if err := cfg.ManageSync(context.Background(), domains); err != nil {
		return err
	}

	server := &http.Server{
		Addr:      ":" + conf.Port,
		Handler:   r,
		TLSConfig: cfg.TLSConfig(),
	}

	log.Printf("Starting HTTPS server on %s\n", conf.Port)
	if err := server.ListenAndServeTLS("", ""); err != nil && err != http.ErrServerClosed {
		return err
	}
	return nil
}

// sendHeartbeat periodically reports that the server is alive.
func sendHeartbeat(client posthog.Client, heartbeatID string) {
	ticker := time.NewTicker(5 * time.Minute)
	go func() {
		for range ticker.C {
			if err := client.Enqueue(posthog.Capture{
				DistinctId: heartbeatID,
				Event:      "server_heartbeat",
				Properties: map[string]interface{}{
					"timestamp": time.Now().UTC(),
				},
			}); err != nil {
				logrus.WithError(err).Warn("Failed to send heartbeat")
			}
		}
	}()
}

func initializeTracing(ctx context.Context, cfg *config.Configuration) (func(context.Context) error, error) {
	shutdown, err := trace.SetupOTelSDK(ctx, "LEADFORM", cfg.Telemetry.OtelEndpoint)
	if err != nil {
		return nil, fmt.Errorf("error setting up OTel SDK: %v", err)
	}
	return shutdown, nil
}

func initializePostHog(cfg *config.Configuration) (posthog.Client, error) {
	if cfg.Telemetry.PostHogKey == "" {
		return nil, nil
	}
	client, err := posthog.NewWithConfig(cfg.Telemetry.PostHogKey,
		posthog.Config{Endpoint: cfg.Telemetry.PostHogEndpoint})
	if err != nil {
		return nil, fmt.Errorf("error creating posthog client: %v", err)
	}
	sendHeartbeat(client, uuid.New().String())
	return client, nil
}

// initializeLogging forwards error logs to the APM server as errors linked to
// the active transaction.
func initializeLogging(logger *logrus.Logger, cfg *config.Configuration) {
	if !cfg.Telemetry.Enable {
		return
	}
	logger.AddHook(&apmlogrus.Hook{})
}

func initializeObservability(ctx context.Context, cfg *config.Configuration) (posthog.Client, func(context.Context) error, error) {
	if !cfg.Telemetry.Enable {
		return nil, func(context.Context) error { return nil }, nil
	}

	shutdown, err := initializeTracing(ctx, cfg)
	if err != nil {
		return nil, nil, err
	}

	phClient, err := initializePostHog(cfg)
	if err != nil {
		return nil, shutdown, err
	}
	return phClient, shutdown, nil
}

// initializeAttributionStore connects to the tracker's Redis when one is
// configured. Without it only inline attribution records are used.
func initializeAttributionStore(ctx context.Context, cfg *config.Configuration) (*redis_db.Redis, leadform.AttributionStore, error) {
	if cfg.Redis.Dns == "" {
		return nil, nil, nil
	}
	rdb, err := redis_db.NewRedisClient(ctx, redis_db.SplitAddresses(cfg.Redis.Dns))
	if err != nil {
		return nil, nil, fmt.Errorf("error connecting to redis: %v", err)
	}
	return rdb, leadform.NewRedisAttributionStore(rdb.Client(), cfg.Attribution.StorageKey), nil
}

func startServer(router *gin.Engine, cfg config.ServerConfig) error {
	if cfg.SSL {
		return serveTLS(router, cfg)
	}
	log.Printf("Starting server on http://localhost:%s", cfg.Port)
	return router.Run(":" + cfg.Port)
}

/*
serverCommands returns the command that starts the submission server. It sets
up observability and the attribution store, resolves the visitor IP, then
serves the API.
*/
func serverCommands(app *leadformInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "start",
		Short: "start leadform server",
		Run: func(cmd *cobra.Command, args []string) {
			ctx := context.Background()
			cfg := app.cnf
			initializeLogging(logrus.StandardLogger(), cfg)

			phClient, shutdown, err := initializeObservability(ctx, cfg)
			if err != nil {
				log.Fatal(err)
			}
			if shutdown != nil {
				defer func() {
					if err := shutdown(ctx); err != nil {
						log.Printf("Error during shutdown: %v", err)
					}
				}()
			}
			if phClient != nil {
				defer phClient.Close()
			}

			rdb, store, err := initializeAttributionStore(ctx, cfg)
			if err != nil {
				log.Fatal(err)
			}
			if rdb != nil {
				defer rdb.Close()
			}

			pipeline := newPipeline(ctx, cfg)
			if store != nil {
				pipeline.SetAttributionStore(store)
			}
			if phClient != nil {
				pipeline.SetConversionTracker(phClient)
			}

			router := api.NewAPI(pipeline).Router()
			if err := startServer(router, cfg.Server); err != nil {
				log.Fatal(err)
			}
		},
	}

	return cmd
}
