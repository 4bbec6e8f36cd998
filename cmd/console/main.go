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
	"os"
	"path/filepath"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/hollyandmorty/advisor-console/internal/system/config"
	"github.com/hollyandmorty/advisor-console/internal/system/log"
)

const deploymentFile = "repository/conf/deployment.yaml"

var (
	consoleHome string
	logLevel    string

	consoleConfig *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "console",
	Short: "Holly & Morty advisory console",
	Long: `Runs the Holly & Morty advisory console.

The client side signs a client in, starts a discovery call and follows the
profile as it fills. The advisor side searches and summarises the client
inventory held by the profile API.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		home, err := resolveHome(consoleHome)
		if err != nil {
			return err
		}

		envFiles, _ := filepath.Glob(filepath.Join(home, "config", "*.env"))
		if len(envFiles) > 0 {
			if err := godotenv.Load(envFiles...); err != nil {
				return fmt.Errorf("failed to load env files: %w", err)
			}
		}

		cfg, err := config.LoadConfig(home, deploymentFile)
		if err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if logLevel != "" {
			cfg.Log.LogLevel = logLevel
		}
		if err := config.InitializeConsoleRuntime(home, cfg); err != nil {
			return fmt.Errorf("failed to initialize console runtime: %w", err)
		}
		if err := log.Init(cfg.Log.LogLevel); err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		consoleConfig = cfg
		return nil
	},
}

func init() {
	rootCmd.PersistentFlags().StringVar(&consoleHome, "home", "", "Console home directory (defaults to the working directory)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Override the configured log level")

	rootCmd.AddCommand(serveCmd, signinCmd, signoutCmd, discoverCmd, advisorCmd)
}

func resolveHome(flagValue string) (string, error) {
	if flagValue != "" {
		return flagValue, nil
	}
	if env := os.Getenv("CONSOLE_HOME"); env != "" {
		return env, nil
	}
	dir, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current working directory: %w", err)
	}
	return dir, nil
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
