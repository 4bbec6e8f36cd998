/*
 * Copyright (c) 2025, WSO2 LLC. (http://www.wso2.com).
 *
 * WSO2 LLC. licenses this file to you under the Apache License,
 * Version 2.0 (the "License"); you may not use this file except
 * in compliance with the License.
 * You may obtain a copy of the License at
 *
 * http://www.apache.org/licenses/LICENSE-2.0
 *
 * Unless required by applicable law or agreed to in writing,
 * software distributed under the License is distributed on an
 * "AS IS" BASIS, WITHOUT WARRANTIES OR CONDITIONS OF ANY
 * KIND, either express or implied.  See the License for the
 * specific language governing permissions and limitations
 * under the License.
 */

package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/managers"
)

const shutdownTimeout = 10 * time.Second

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the local console server",
	Long: `Serves the client dashboard and advisor routes under /api/v1, together
with /health, /ready and (when enabled) /metrics. A client signed in before
the restart is restored and discovery resumes if it was in progress.`,
	RunE: runServe,
}

func runServe(cmd *cobra.Command, _ []string) error {
	logger := log.GetLogger()
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	mux := http.NewServeMux()
	sm := managers.NewServiceManager(mux, rt.dependencies())
	if err := sm.RegisterServices(constants.ApiBasePath); err != nil {
		return fmt.Errorf("failed to register the services: %w", err)
	}
	defer sm.Shutdown()

	if err := sm.RestoreSession(ctx); err != nil {
		logger.Warn("Could not restore the signed-in session", log.Error(err))
	}

	stopBackground, err := sm.StartBackground(ctx)
	if err != nil {
		return fmt.Errorf("failed to start the inventory refresh: %w", err)
	}
	defer stopBackground()

	serverAddr := fmt.Sprintf("%s:%d", consoleConfig.Addr.Host, consoleConfig.Addr.Port)
	ln, err := net.Listen("tcp", serverAddr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", serverAddr, err)
	}
	server := &http.Server{Handler: enableCORS(mux), ReadHeaderTimeout: 10 * time.Second}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		logger.Info("Advisor console started", log.String("address", serverAddr))
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	})
	g.Go(func() error {
		<-gctx.Done()
		logger.Info("Shutting down advisor console")
		shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(gctx), shutdownTimeout)
		defer cancel()
		return server.Shutdown(shutdownCtx)
	})
	return g.Wait()
}

func enableCORS(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, POST, PUT, DELETE, OPTIONS, PATCH")
		w.Header().Set("Access-Control-Allow-Headers", "*")
		w.Header().Set("Access-Control-Expose-Headers", "Content-Length, Content-Disposition")
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
