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
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	signinModel "github.com/hollyandmorty/advisor-console/internal/signin/model"
	signinService "github.com/hollyandmorty/advisor-console/internal/signin/service"
)

var signinOpts struct {
	phone     string
	firstName string
	lastName  string
}

var signinCmd = &cobra.Command{
	Use:   "signin",
	Short: "Sign a client in by phone number",
	Long: `Looks the client up by phone number. A client without a profile is
registered with the given first and last name.

Example:
  console signin --phone +447700900123 --first-name Ada --last-name Lovelace`,
	RunE: runSignin,
}

var signoutCmd = &cobra.Command{
	Use:   "signout",
	Short: "Clear the stored client session",
	RunE:  runSignout,
}

func init() {
	signinCmd.Flags().StringVar(&signinOpts.phone, "phone", "", "Client phone number")
	signinCmd.Flags().StringVar(&signinOpts.firstName, "first-name", "", "First name for a new profile")
	signinCmd.Flags().StringVar(&signinOpts.lastName, "last-name", "", "Last name for a new profile")
	_ = signinCmd.MarkFlagRequired("phone")
}

func runSignin(cmd *cobra.Command, _ []string) error {
	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	ctx := cmd.Context()
	out := cmd.OutOrStdout()
	flow := signinService.NewFlow(rt.api, rt.session)

	if err := flow.SubmitPhone(ctx, signinOpts.phone); err != nil {
		return err
	}
	if flow.State().Step == signinModel.StepProfileSetup {
		if strings.TrimSpace(signinOpts.firstName) == "" || strings.TrimSpace(signinOpts.lastName) == "" {
			return fmt.Errorf("no profile exists for %s; pass --first-name and --last-name to create one",
				signinOpts.phone)
		}
		if err := flow.SubmitProfile(ctx, signinOpts.firstName, signinOpts.lastName); err != nil {
			return err
		}
		muted.Fprintln(out, "Created a new profile.")
	}

	profile, err := flow.Complete(ctx)
	if err != nil {
		return err
	}
	headline.Fprintf(out, "Welcome, %s (%s)\n", profile.DisplayName(), profile.Initials())
	fmt.Fprintf(out, "Profile status: %s\n", statusColor(profile.Status).Sprint(profile.Status))
	return nil
}

func runSignout(cmd *cobra.Command, _ []string) error {
	rt, err := newConsoleRuntime(consoleConfig)
	if err != nil {
		return err
	}
	defer rt.Close()

	if err := signinService.NewFlow(rt.api, rt.session).SignOut(cmd.Context()); err != nil {
		return err
	}
	muted.Fprintln(cmd.OutOrStdout(), "Signed out.")
	return nil
}
