package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

var (
	solveImage  string
	solvePrompt string
)

var solveCmd = &cobra.Command{
	Use:   "solve [problem text]",
	Short: "Solve a math problem from text or an image",
	Example: `  mathctl solve "2x + 3 = 13"
  mathctl solve --image homework.png --prompt "part (b) only"`,
	RunE: func(cmd *cobra.Command, args []string) error {
		api, err := newAPI()
		if err != nil {
			return err
		}
		ctx := cmd.Context()
		text := strings.TrimSpace(strings.Join(args, " "))

		var snap solveSnapshot
		switch {
		case solveImage != "":
			snap, err = api.solveImage(ctx, solveImage, solvePrompt)
		case text != "":
			snap, err = api.solveText(ctx, text)
		default:
			return fmt.Errorf("give problem text or --image")
		}
		if err != nil {
			return err
		}
		return printSnapshot(cmd, snap)
	},
}

func printSnapshot(cmd *cobra.Command, snap solveSnapshot) error {
	out := cmd.OutOrStdout()
	switch snap.State {
	case "solved":
		if snap.Solution == nil {
			return fmt.Errorf("server reported solved without a solution")
		}
		return renderMarkdown(out, solutionMarkdown(snap.Problem, *snap.Solution))
	case "failed":
		return fmt.Errorf("%s", snap.Error)
	default:
		fmt.Fprintln(out, styled(dimStyle, "nothing shown ("+snap.State+")"))
		return nil
	}
}

func init() {
	solveCmd.Flags().StringVar(&solveImage, "image", "", "path to an image of the problem")
	solveCmd.Flags().StringVar(&solvePrompt, "prompt", "", "instruction to send with the image")
	rootCmd.AddCommand(solveCmd)
}
