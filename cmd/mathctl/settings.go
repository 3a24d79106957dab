package main

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/spf13/cobra"
)

var (
	settingsLang string
	settingsFont string
)

var settingsCmd = &cobra.Command{
	Use:   "settings",
	Short: "Show or change language and font",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		var res struct {
			Settings struct {
				Language string `json:"language"`
				Font     string `json:"font"`
			} `json:"settings"`
		}
		if cmd.Flags().Changed("lang") || cmd.Flags().Changed("font") {
			body := map[string]string{}
			if cmd.Flags().Changed("lang") {
				body["language"] = settingsLang
			}
			if cmd.Flags().Changed("font") {
				body["font"] = settingsFont
			}
			err = api.do(ctx, http.MethodPut, "/api/settings", body, &res)
		} else {
			err = api.do(ctx, http.MethodGet, "/api/settings", nil, &res)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "language: %s\nfont:     %s\n", res.Settings.Language, res.Settings.Font)
		return nil
	},
}

var examplesRefresh bool

var examplesCmd = &cobra.Command{
	Use:   "examples",
	Short: "Show example problems and a math fact",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		path := "/api/initial-data"
		if examplesRefresh {
			path += "?refresh=true"
		}
		var data struct {
			Examples []struct {
				ID      string `json:"id"`
				Problem string `json:"problem"`
			} `json:"examples"`
			Fact string `json:"fact"`
		}
		if err := api.do(cmd.Context(), http.MethodGet, path, nil, &data); err != nil {
			return err
		}
		out := cmd.OutOrStdout()
		fmt.Fprintln(out, styled(titleStyle, "Try one of these"))
		for _, ex := range data.Examples {
			fmt.Fprintf(out, "  • %s\n", ex.Problem)
		}
		if data.Fact != "" {
			fmt.Fprintln(out)
			fmt.Fprintln(out, styled(dimStyle, data.Fact))
		}
		return nil
	},
}

func mustJSON(v any) []byte {
	b, err := json.Marshal(v)
	if err != nil {
		panic(err)
	}
	return b
}

func init() {
	settingsCmd.Flags().StringVar(&settingsLang, "lang", "", "language: en or ar")
	settingsCmd.Flags().StringVar(&settingsFont, "font", "", "font: inter, lora or inconsolata")
	examplesCmd.Flags().BoolVar(&examplesRefresh, "refresh", false, "ask for fresh examples")
	rootCmd.AddCommand(settingsCmd)
	rootCmd.AddCommand(examplesCmd)
}
