package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

var (
	serverURL string
	noColor   bool
)

var rootCmd = &cobra.Command{
	Use:   "mathctl",
	Short: "Command line client for the math tutor",
	Long: `mathctl talks to a running math tutor server: solve problems from
text or images, follow up in chat, browse history and share solutions.`,
	SilenceUsage: true,
	Run: func(cmd *cobra.Command, args []string) {
		_ = cmd.Help()
	},
}

func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, errorStyle.Render("error: "+err.Error()))
		os.Exit(1)
	}
}

func init() {
	def := strings.TrimSpace(os.Getenv("MATHCTL_SERVER"))
	if def == "" {
		def = "http://localhost:8080"
	}
	rootCmd.PersistentFlags().StringVar(&serverURL, "server", def, "math tutor server URL")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "disable styled output")
}

func newAPI() (*apiClient, error) {
	path, err := defaultSessionPath()
	if err != nil {
		return nil, err
	}
	return newAPIClient(serverURL, path), nil
}
