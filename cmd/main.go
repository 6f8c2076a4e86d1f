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
	"os"

	"github.com/blnkfinance/leadform"
	"github.com/blnkfinance/leadform/config"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
)

// Leadform represents the CLI application, encapsulating the root Cobra command.
type Leadform struct {
	cmd *cobra.Command
}

// leadformInstance holds what every subcommand needs after preRun.
type leadformInstance struct {
	configFile string
	cnf        *config.Configuration
}

func recoverPanic() {
	if rec := recover(); rec != nil {
		logrus.Error(rec)
		os.Exit(1)
	}
}

// preRun loads the configuration file and environment before any command runs.
func preRun(app *leadformInstance) func(cmd *cobra.Command, args []string) error {
	return func(cmd *cobra.Command, args []string) error {
		err := config.InitConfig(app.configFile)
		if err != nil {
			log.Fatal("error loading config", err)
		}

		cnf, err := config.Fetch()
		if err != nil {
			return err
		}
		app.cnf = cnf
		return nil
	}
}

// newPipeline builds the submission pipeline. The visitor IP is resolved here,
// once, before anything can submit.
func newPipeline(ctx context.Context, cnf *config.Configuration) *leadform.Leadform {
	return leadform.NewLeadform(ctx, cnf, nil)
}

func NewCLI() *Leadform {
	app := &leadformInstance{}

	var rootCmd = &cobra.Command{
		Use:   "leadform",
		Short: "Lead capture form pipeline",
		Run:   func(cmd *cobra.Command, args []string) {},
	}

	rootCmd.PersistentFlags().StringVar(&app.configFile, "config", "./leadform.json", "Configuration file for leadform")
	rootCmd.PersistentPreRunE = preRun(app)

	rootCmd.AddCommand(serverCommands(app))
	rootCmd.AddCommand(configCommands(app))
	rootCmd.AddCommand(validateCommands(app))
	rootCmd.AddCommand(fieldsCommands(app))

	return &Leadform{cmd: rootCmd}
}

func (l Leadform) executeCLI() {
	if err := l.cmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func main() {
	defer recoverPanic()

	cli := NewCLI()
	cli.executeCLI()
}
