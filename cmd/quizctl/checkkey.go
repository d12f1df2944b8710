package main

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

var errNotConfigured = errors.New("API key not properly configured; set GEMINI_API_KEY")

var checkKeyCmd = &cobra.Command{
	Use:   "check-key",
	Short: "Report whether the generation credential is configured",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		if quizService == nil {
			return errors.New("quiz service not configured")
		}
		if !quizService.CredentialConfigured() {
			fmt.Fprintln(cmd.OutOrStdout(), "configured: false")
			return errNotConfigured
		}
		fmt.Fprintln(cmd.OutOrStdout(), "configured: true")
		return nil
	},
}

func init() {
	rootCmd.AddCommand(checkKeyCmd)
}
