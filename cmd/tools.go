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
	"net/http"
	"text/tabwriter"
	"time"

	"github.com/blnkfinance/leadform"
	"github.com/spf13/cobra"
)

// validateCommands checks an address against the verification service the
// same way a submission would.
func validateCommands(app *leadformInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "validate <email>",
		Short: "validate an email address against the verification service",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			timeout := time.Duration(app.cnf.Verification.TimeoutMs) * time.Millisecond
			verifier := leadform.NewVerifier(app.cnf.Verification.Url, timeout, http.DefaultClient)

			result := verifier.ValidateEmail(context.Background(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "valid: %t\nresult: %s\n", result.IsValid, result.Result)
			if result.Err != nil {
				fmt.Fprintf(cmd.OutOrStdout(), "error: %v\n", result.Err)
			}
			return nil
		},
	}
	return cmd
}

// fieldsCommands lists the attribution keys forwarded with each lead.
func fieldsCommands(_ *leadformInstance) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fields",
		Short: "list attribution field mappings",
		RunE: func(cmd *cobra.Command, args []string) error {
			w := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(w, "KEY\tFIELD")
			for _, m := range leadform.FieldMappings() {
				fmt.Fprintf(w, "%s\t%s\n", m.Key, m.Field)
			}
			return w.Flush()
		},
	}
	return cmd
}
