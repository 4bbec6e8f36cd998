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
	"fmt"
	"net/url"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	advisorModel "github.com/hollyandmorty/advisor-console/internal/advisor/model"
	advisorService "github.com/hollyandmorty/advisor-console/internal/advisor/service"
	"github.com/hollyandmorty/advisor-console/internal/system/constants"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
	"github.com/hollyandmorty/advisor-console/internal/system/schedulers"
	"github.com/hollyandmorty/advisor-console/internal/system/workers"
)

var advisorCmd = &cobra.Command{
	Use:   "advisor",
	Short: "Search and summarise the client inventory",
}

var advisorSearchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search client profiles",
	Long: `Runs one search against the profile API. When --kind is omitted the
kind follows the first filter given, in the order name, status, risk,
employment, then a net worth range.

Examples:
  console advisor search --name lovelace
  console advisor search --kind income --min 50000 --max 120000`,
	RunE: runAdvisorSearch,
}

var advisorStatsCmd = &cobra.Command{
	Use:   "stats",
	Short: "Show inventory totals",
	RunE:  runAdvisorStats,
}

var advisorPipelineCmd = &cobra.Command{
	Use:   "pipeline",
	Short: "Show clients grouped by discovery stage",
	RunE:  runAdvisorPipeline,
}

var advisorExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the inventory as csv or xlsx",
	RunE:  runAdvisorExport,
}

var advisorWatchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Print inventory totals on the refresh schedule",
	RunE:  runAdvisorWatch,
}

var exportOpts struct {
	format string
	out    string
}

var watchSchedule string

func init() {
	flags := advisorSearchCmd.Flags()
	flags.String(advisorModel.KindParam, "", "Filter kind: name, status, risk, employment, networth, income or all")
	flags.String(advisorModel.NameParam, "", "Name to search for")
	flags.String(advisorModel.StatusParam, "", "Profile status")
	flags.String(advisorModel.RiskParam, "", "Risk attitude")
	flags.String(advisorModel.EmploymentParam, "", "Employment status")
	flags.String(advisorModel.MinParam, "", "Lower bound of a range search")
	flags.String(advisorModel.MaxParam, "", "Upper bound of a range search")

	advisorExportCmd.Flags().StringVar(&exportOpts.format, "format", constants.ExportFormatCSV, "Export format: csv or xlsx")
	advisorExportCmd.Flags().StringVarP(&exportOpts.out, "out", "o", "", "Output file (defaults to inventory.<format>)")

	advisorWatchCmd.Flags().StringVar(&watchSchedule, "schedule", "", "Cron schedule (defaults to advisor.refresh_schedule)")

	advisorCmd.AddCommand(advisorSearchCmd, advisorStatsCmd, advisorPipelineCmd, advisorExportCmd, advisorWatchCmd)
}

var searchParams = []string{
	advisorModel.KindParam,
	advisorModel.NameParam,
	advisorModel.StatusParam,
	advisorModel.RiskParam,
	advisorModel.EmploymentParam,
	advisorModel.MinParam,
	advisorModel.MaxParam,
}

// searchValues turns the search flags that were set into query parameters.
func searchValues(cmd *cobra.Command) url.Values {
	values := url.Values{}
	for _, name := range searchParams {
		if cmd.Flags().Changed(name) {
			v, _ := cmd.Flags().GetString(name)
			values.Set(name, v)
		}
	}
	if values.Get(advisorModel.KindParam) != "" {
		return values
	}
	switch {
	case values.Has(advisorModel.NameParam):
		values.Set(advisorModel.KindParam, string(advisorModel.FilterName))
	case values.Has(advisorModel.StatusParam):
		values.Set(advisorModel.KindParam, string(advisorModel.FilterStatus))
	case values.Has(advisorModel.RiskParam):
		values.Set(advisorModel.KindParam, string(advisorModel.FilterRisk))
	case values.Has(advisorModel.EmploymentParam):
		values.Set(advisorModel.KindParam, string(advisorModel.FilterEmployment))
	case values.Has(advisorModel.MinParam), values.Has(advisorModel.MaxParam):
		values.Set(advisorModel.KindParam, string(advisorModel.FilterNetWorth))
	}
	return values
}

func newInventory(rt *consoleRuntime) (*advisorService.Dispatcher, *advisorService.Inventory) {
	dispatcher := advisorService.NewDispatcher(rt.api, rt.cfg.Advisor.PageSize, rt.metrics)
	return dispatcher, advisorService.NewInventory(dispatcher, constants.DefaultInventoryTTL)
}

func runAdvisorSearch(cmd *cobra.Command, _ []string) error {
	q, err := advisorModel.ParseFilterQuery(searchValues(cmd))
	if err != nil {
		return err
	}
	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	dispatcher, _ := newInventory(rt)
	plan := dispatcher.Plan(q)
	muted.Fprintf(cmd.OutOrStdout(), "Searching %s\n", plan.Endpoint)
	return renderProfiles(cmd.OutOrStdout(), dispatcher.Dispatch(cmd.Context(), q))
}

func runAdvisorStats(cmd *cobra.Command, _ []string) error {
	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	_, inventory := newInventory(rt)
	return renderStats(cmd.OutOrStdout(), advisorService.Stats(inventory.Refresh(cmd.Context())))
}

func runAdvisorPipeline(cmd *cobra.Command, _ []string) error {
	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	_, inventory := newInventory(rt)
	return renderPipeline(cmd.OutOrStdout(), advisorService.Pipeline(inventory.Refresh(cmd.Context())))
}

func runAdvisorExport(cmd *cobra.Command, _ []string) error {
	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	path := exportOpts.out
	if path == "" {
		path = "inventory." + exportOpts.format
	}
	_, inventory := newInventory(rt)
	profiles := inventory.Refresh(cmd.Context())

	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := advisorService.Export(f, profiles, exportOpts.format); err != nil {
		_ = f.Close()
		_ = os.Remove(path)
		return err
	}
	if err := f.Close(); err != nil {
		return err
	}

	log.GetLogger().Audit(log.AuditEvent{
		InitiatorID:   "console",
		InitiatorType: log.InitiatorTypeAdvisor,
		TargetID:      "inventory",
		TargetType:    log.TargetTypeInventory,
		ActionID:      log.ActionExportInventory,
		Data:          map[string]interface{}{"format": exportOpts.format, "profiles": len(profiles), "file": path},
	})
	fmt.Fprintf(cmd.OutOrStdout(), "Exported %d profiles to %s\n", len(profiles), path)
	return nil
}

func runAdvisorWatch(cmd *cobra.Command, _ []string) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()
	out := cmd.OutOrStdout()

	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	schedule := watchSchedule
	if schedule == "" {
		schedule = rt.cfg.Advisor.RefreshSchedule
	}

	_, inventory := newInventory(rt)
	worker := workers.NewRefreshWorker("advisor-watch", constants.InventoryQueueSize, func(ctx context.Context) {
		stats := advisorService.Stats(inventory.Refresh(ctx))
		if err := renderStats(out, stats); err != nil {
			log.GetLogger().Warn("Failed to render inventory stats", log.Error(err))
		}
	})
	worker.Start(ctx)

	c, err := schedulers.StartRefreshScheduler(schedule, worker)
	if err != nil {
		return err
	}
	muted.Fprintf(out, "Watching inventory (%s). Press Ctrl+C to stop.\n", schedule)

	<-ctx.Done()
	<-c.Stop().Done()
	<-worker.Done()
	return nil
}
