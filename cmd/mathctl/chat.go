package main

import (
	"fmt"
	"net/http"
	"strings"

	"github.com/spf13/cobra"
)

var chatNew bool

var chatCmd = &cobra.Command{
	Use:   "chat [message]",
	Short: "Ask the tutor a follow-up question about the current solution",
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		out := cmd.OutOrStdout()
		if chatNew {
			if err := api.do(ctx, http.MethodPost, "/api/chat/new", nil, nil); err != nil {
				return err
			}
			fmt.Fprintln(out, styled(dimStyle, "started a new chat"))
		}
		text := strings.TrimSpace(strings.Join(args, " "))
		if text == "" {
			if chatNew {
				return nil
			}
			return fmt.Errorf("message is empty")
		}

		fmt.Fprintln(out, styled(titleStyle, "tutor"))
		if _, err := api.chat(ctx, text, func(chunk string) {
			fmt.Fprint(out, chunk)
		}); err != nil {
			fmt.Fprintln(out)
			return err
		}
		fmt.Fprintln(out)
		return nil
	},
}

func init() {
	chatCmd.Flags().BoolVar(&chatNew, "new", false, "start a new chat session first")
	rootCmd.AddCommand(chatCmd)
}
