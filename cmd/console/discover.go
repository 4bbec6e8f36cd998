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
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	dashboardModel "github.com/hollyandmorty/advisor-console/internal/dashboard/model"
	dashboardService "github.com/hollyandmorty/advisor-console/internal/dashboard/service"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
)

const discoverRefresh = 250 * time.Millisecond

var discoverCmd = &cobra.Command{
	Use:   "discover",
	Short: "Start a discovery call for the signed-in client and follow it",
	Long: `Asks the voice agent to call the signed-in client and follows the
profile as the call is transcribed and the form fills. Discovery already in
progress is resumed instead of starting a new call.`,
	RunE: runDiscover,
}

func runDiscover(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	out := cmd.OutOrStdout()

	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	profile, err := rt.session.Load(ctx)
	if err != nil {
		return err
	}
	if profile == nil {
		return errors.New("no client is signed in; run \"console signin\" first")
	}

	r := dashboardService.NewReconciler(rt.api, rt.session, consoleConfig.Dashboard,
		dashboardService.WithMetrics(rt.metrics),
		dashboardService.WithObserver(func(from, to dashboardModel.FlowStatus) {
			fmt.Fprintf(out, "%s -> %s\n", flowColor(from).Sprint(from), flowColor(to).Sprint(to))
		}))
	defer r.Close()

	if err := r.Mount(ctx, profile); err != nil {
		return err
	}
	snap := r.Snapshot()
	switch {
	case snap.Committed.Status.IsReady():
		headline.Fprintf(out, "%s has already completed discovery.\n", profile.DisplayName())
		return renderStages(out, snap.Stages)
	case !snap.Polling:
		if err := r.StartDiscovery(ctx); err != nil {
			return err
		}
		fmt.Fprintf(out, "Calling %s...\n", profile.UserId)
	default:
		muted.Fprintln(out, "Resuming discovery in progress.")
	}

	snap, err = waitForDiscovery(ctx, r)
	if err != nil {
		return err
	}
	if !snap.Committed.Status.IsReady() {
		failure.Fprintln(out, "Discovery did not complete; try again later.")
	}
	return renderStages(out, snap.Stages)
}

// waitForDiscovery blocks until polling has stopped and every revealed
// section has been shown.
func waitForDiscovery(ctx context.Context, r *dashboardService.Reconciler) (dashboardModel.Snapshot, error) {
	ticker := time.NewTicker(discoverRefresh)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return dashboardModel.Snapshot{}, ctx.Err()
		case <-ticker.C:
		}
		snap := r.Snapshot()
		if snap.Polling {
			continue
		}
		if snap.Flow == dashboardModel.FlowCompleted && len(snap.Revealed) < len(constants.RevealFields) {
			continue
		}
		return snap, nil
	}
}
